// Package users stores user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository persists users. Lookups of absent users return
// common.ErrorNotFound; creating a taken username returns
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// UpdatePassword replaces the stored salt and verifier of user id.
	UpdatePassword(ctx context.Context, id string, salt, verifier []byte) error
}
