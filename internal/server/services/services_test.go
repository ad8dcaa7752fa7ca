package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AdminUser:                    "root",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
}

// brokenUsers fails every call with errBoom.
type brokenUsers struct{}

func (brokenUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, errBoom }
func (brokenUsers) GetUserByLogin(context.Context, string) (*models.User, error) {
	return nil, errBoom
}
func (brokenUsers) GetUserByID(context.Context, string) (*models.User, error) { return nil, errBoom }
func (brokenUsers) UpdatePassword(context.Context, string, []byte, []byte) error {
	return errBoom
}

// brokenTokens fails every call with errBoom.
type brokenTokens struct{}

func (brokenTokens) Create(context.Context, string, string, time.Duration) error { return errBoom }
func (brokenTokens) Find(context.Context, string) (*models.RefreshToken, error) {
	return nil, errBoom
}
func (brokenTokens) Consume(context.Context, string) (*models.RefreshToken, error) {
	return nil, errBoom
}
func (brokenTokens) Delete(context.Context, string) error { return errBoom }

type brokenUsersManager struct {
	*repomanager.InMemoryRepositoryManager
}

func (brokenUsersManager) Users() users.Repository { return brokenUsers{} }

var (
	_ users.Repository         = brokenUsers{}
	_ refreshtokens.Repository = brokenTokens{}
)
