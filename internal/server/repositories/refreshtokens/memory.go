package refreshtokens

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tokens: map[string]models.RefreshToken{}}
}

func (r *MemoryRepository) Create(_ context.Context, userID string, token string, validity time.Duration) error {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = models.RefreshToken{UserID: userID, Token: token, Expires: now.Add(validity), CreatedAt: now}
	return nil
}

func (r *MemoryRepository) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &rt, nil
}

func (r *MemoryRepository) Consume(_ context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.tokens, token)
	return &rt, nil
}

func (r *MemoryRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}
