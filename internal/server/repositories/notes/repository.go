// Package notes stores the per-user notes served by the protected API.
package notes

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]models.Note, error)
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	// Delete removes note id owned by userID. It returns common.ErrorNotFound
	// when no such note belongs to the user.
	Delete(ctx context.Context, userID, id string) error
}
