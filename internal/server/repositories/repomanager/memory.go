package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/notes"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

type InMemoryRepositoryManager struct {
	users         users.Repository
	refreshTokens refreshtokens.Repository
	notes         notes.Repository
}

func NewInMemoryRepositoryManager(opts ...Option) *InMemoryRepositoryManager {
	o := applyOptions(opts)
	m := &InMemoryRepositoryManager{
		users:         users.NewMemoryRepository(),
		refreshTokens: refreshtokens.NewMemoryRepository(),
		notes:         notes.NewMemoryRepository(),
	}
	if o.refreshTokens != nil {
		m.refreshTokens = o.refreshTokens
	}
	return m
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *InMemoryRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return m.refreshTokens
}

func (m *InMemoryRepositoryManager) Notes() notes.Repository { return m.notes }

func (m *InMemoryRepositoryManager) Close() error { return nil }
