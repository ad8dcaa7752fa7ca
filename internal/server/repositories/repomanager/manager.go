// Package repomanager selects and wires the repository implementations the
// server runs on: PostgreSQL when a DSN is configured, process memory
// otherwise, with refresh tokens optionally moved to Redis.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/notes"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Notes() notes.Repository
	Close() error
}

type options struct {
	refreshTokens refreshtokens.Repository
}

// Option customizes a manager.
type Option func(*options)

// WithRefreshTokens replaces the manager's own refresh token store, e.g.
// with refreshtokens.RedisRepository.
func WithRefreshTokens(r refreshtokens.Repository) Option {
	return func(o *options) { o.refreshTokens = r }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
