package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/notes"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ RepositoryManager = (*PostgresRepositoryManager)(nil)
	_ RepositoryManager = (*InMemoryRepositoryManager)(nil)
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock
}

func TestPostgresManager_Repositories(t *testing.T) {
	db, mock := newDB(t)
	m := NewPostgresRepositoryManager(db)

	assert.IsType(t, &users.PostgresRepository{}, m.Users())
	assert.IsType(t, &refreshtokens.PostgresRepository{}, m.RefreshTokens())
	assert.IsType(t, &notes.PostgresRepository{}, m.Notes())

	mock.ExpectClose()
	require.NoError(t, m.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestManagers_RefreshTokenOverride(t *testing.T) {
	override := refreshtokens.NewMemoryRepository()

	db, _ := newDB(t)
	defer db.Close()
	pm := NewPostgresRepositoryManager(db, WithRefreshTokens(override))
	assert.Same(t, override, pm.RefreshTokens())

	mm := NewInMemoryRepositoryManager(WithRefreshTokens(override))
	assert.Same(t, override, mm.RefreshTokens())
}

func TestInMemoryManager(t *testing.T) {
	m := NewInMemoryRepositoryManager()

	assert.IsType(t, &users.MemoryRepository{}, m.Users())
	assert.IsType(t, &refreshtokens.MemoryRepository{}, m.RefreshTokens())
	assert.IsType(t, &notes.MemoryRepository{}, m.Notes())
	assert.NoError(t, m.RunMigrations(context.Background()))
	assert.NoError(t, m.Close())
}

func TestRunMigrations(t *testing.T) {
	tests := []struct {
		name    string
		upErr   error
		wantErr string
	}{
		{name: "success"},
		{name: "goose error", upErr: errors.New("boom"), wantErr: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := newDB(t)
			defer db.Close()

			orig := gooseUpContext
			defer func() { gooseUpContext = orig }()

			var gotDir string
			gooseUpContext = func(ctx context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
				gotDir = dir
				return tt.upErr
			}

			err := NewPostgresRepositoryManager(db).RunMigrations(context.Background())
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ".", gotDir)
		})
	}
}
