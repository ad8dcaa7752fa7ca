// Package refreshtokens stores server-issued refresh tokens. Each token is
// single use: Consume removes it atomically so concurrent refreshes with the
// same token cannot both succeed.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	// Consume deletes the token and returns what was stored for it, or
	// common.ErrorNotFound if it was never issued or already consumed.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
}
