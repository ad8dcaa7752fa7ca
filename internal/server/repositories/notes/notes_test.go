package notes

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Repository = (*PostgresRepository)(nil)
	_ Repository = (*MemoryRepository)(nil)
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock, db
}

func TestPostgres_List(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)SELECT\s+id,\s*text,\s*created_at\s+FROM\s+notes\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "created_at"}).
			AddRow("n1", "first", now).
			AddRow("n2", "second", now))

	list, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[1].Text)
	assert.Equal(t, "u1", list[0].UserID)
}

func TestPostgres_ListEmptyIsNotNil(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(`FROM\s+notes`).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "created_at"}))

	list, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, list)
}

func TestPostgres_Create(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+notes\s*\(id,\s*user_id,\s*text\).*RETURNING\s+created_at`).
		WithArgs(sqlmock.AnyArg(), "u1", "hello").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	n, err := repo.Create(context.Background(), &models.Note{UserID: "u1", Text: "hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.True(t, now.Equal(n.CreatedAt))
}

func TestPostgres_Delete(t *testing.T) {
	q := `(?s)^DELETE\s+FROM\s+notes\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`

	t.Run("deleted", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectExec(q).WithArgs("n1", "u1").WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.Delete(context.Background(), "u1", "n1"))
	})

	t.Run("someone else's note", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectExec(q).WithArgs("n1", "u2").WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.Delete(context.Background(), "u2", "n1"), common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectExec(q).WithArgs("n1", "u1").WillReturnError(errors.New("boom"))
		assert.ErrorContains(t, repo.Delete(context.Background(), "u1", "n1"), "db error")
	})
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	a, err := r.Create(ctx, &models.Note{UserID: "u1", Text: "a"})
	require.NoError(t, err)
	_, err = r.Create(ctx, &models.Note{UserID: "u1", Text: "b"})
	require.NoError(t, err)
	_, err = r.Create(ctx, &models.Note{UserID: "u2", Text: "c"})
	require.NoError(t, err)

	list, err := r.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	assert.ErrorIs(t, r.Delete(ctx, "u2", a.ID), common.ErrorNotFound)
	require.NoError(t, r.Delete(ctx, "u1", a.ID))

	list, _ = r.List(ctx, "u1")
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Text)

	empty, err := r.List(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
