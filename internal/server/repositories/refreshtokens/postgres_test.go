package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+refresh_tokens\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`

	mock.ExpectExec(q).
		WithArgs("u1", "tok123", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), "u1", "tok123", 30*time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+refresh_tokens`).
		WithArgs("u1", "tok123", sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), "u1", "tok123", time.Hour)
	if err == nil || !regexp.MustCompile(`error performing sql request: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestFind(t *testing.T) {
	q := `(?s)^SELECT\s+user_id,\s*expires_at\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1\s*$`
	expires := time.Now().Add(10 * time.Minute)

	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "found",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(q).WithArgs("tok").
					WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).AddRow("u1", expires))
			},
		},
		{
			name: "not found",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(q).WithArgs("tok").WillReturnError(sql.ErrNoRows)
			},
			wantErr: common.ErrorNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()
			tt.setup(mock)

			rt, err := repo.Find(context.Background(), "tok")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rt.UserID != "u1" || rt.Token != "tok" || !rt.Expires.Equal(expires) {
				t.Fatalf("unexpected token: %+v", rt)
			}
		})
	}
}

func TestConsume(t *testing.T) {
	q := `(?s)^DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1\s+RETURNING\s+user_id,\s*expires_at\s*$`

	t.Run("returns deleted row", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(q).WithArgs("tok").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).AddRow("u1", time.Now()))

		rt, err := repo.Consume(context.Background(), "tok")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rt.UserID != "u1" {
			t.Fatalf("unexpected user %q", rt.UserID)
		}
	})

	t.Run("already consumed", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(q).WithArgs("tok").WillReturnError(sql.ErrNoRows)

		if _, err := repo.Consume(context.Background(), "tok"); !errors.Is(err, common.ErrorNotFound) {
			t.Fatalf("want ErrorNotFound, got %v", err)
		}
	})
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs("tok").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec(q).WithArgs("tok").WillReturnError(errors.New("boom"))
	if err := repo.Delete(context.Background(), "tok"); err == nil {
		t.Fatal("expected error")
	}
}
