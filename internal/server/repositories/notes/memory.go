package notes

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string][]models.Note
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUser: map[string][]models.Note{}}
}

func (r *MemoryRepository) List(_ context.Context, userID string) ([]models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Note, len(r.byUser[userID]))
	copy(out, r.byUser[userID])
	return out, nil
}

func (r *MemoryRepository) Create(_ context.Context, note *models.Note) (*models.Note, error) {
	n := *note
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now()

	r.mu.Lock()
	r.byUser[n.UserID] = append(r.byUser[n.UserID], n)
	r.mu.Unlock()
	return &n, nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byUser[userID]
	i := slices.IndexFunc(list, func(n models.Note) bool { return n.ID == id })
	if i < 0 {
		return common.ErrorNotFound
	}
	r.byUser[userID] = slices.Delete(list, i, i+1)
	return nil
}
