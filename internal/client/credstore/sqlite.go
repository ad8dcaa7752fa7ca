package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
)

const saltKey = "seal_salt"

// SQLiteStore keeps credentials in the credentials table.
type SQLiteStore struct {
	db     *sql.DB
	sealer *cryptox.Sealer
}

// NewSQLiteStore wraps an already migrated database. Values are stored in
// clear text; see Open for sealed storage.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Open opens (creating if needed) the database at path. A non-empty
// passphrase enables sealing; the salt is generated on first use and kept in
// the database.
func Open(ctx context.Context, path, passphrase string) (*SQLiteStore, error) {
	db, err := InitDatabase(ctx, path)
	if err != nil {
		return nil, err
	}
	s := NewSQLiteStore(db)
	if passphrase == "" {
		return s, nil
	}

	salt, err := loadSalt(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.sealer, err = cryptox.NewSealer(passphrase, salt)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func loadSalt(ctx context.Context, db *sql.DB) ([]byte, error) {
	var salt []byte
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := tx.QueryRowContext(ctx, `SELECT value FROM store_meta WHERE key = ?`, saltKey).Scan(&salt)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		salt = cryptox.NewSalt()
		_, err = tx.ExecContext(ctx, `INSERT INTO store_meta (key, value) VALUES (?, ?)`, saltKey, salt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load seal salt: %w", err)
	}
	return salt, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get credential[%s]: %w", key, err)
	}
	if s.sealer == nil {
		return value, nil
	}
	plain, err := s.sealer.Open(value)
	if err != nil {
		return "", fmt.Errorf("failed to open credential[%s]: %w", key, err)
	}
	return plain, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if s.sealer != nil {
		value = s.sealer.Seal(value)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set credential[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to clear credential[%s]: %w", key, err)
	}
	return nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
