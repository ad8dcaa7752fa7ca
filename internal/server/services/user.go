// Package services contains server-side business logic: account
// registration and login, refresh token rotation, and the note store behind
// the protected API.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

const minPasswordLength = 4

// TokenPair bundles a short-lived access token and a single-use refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserService handles registration, login and refresh token rotation.
type UserService struct {
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	adminUser                    string
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		adminUser:                    cfg.AdminUser,
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

// Register creates an account. A taken username yields
// common.ErrorAlreadyExists and bad input common.ErrorValidation.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	salt, verifier := cryptox.HashPassword(password)
	user := &models.User{UserName: username, Role: models.RoleUser, Salt: salt, Verifier: verifier}
	if s.adminUser != "" && username == s.adminUser {
		user.Role = models.RoleAdmin
	}

	u, err := s.repomanager.Users().Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login checks the password and mints a token pair. Unknown users and wrong
// passwords both yield common.ErrorUnauthorized after the same amount of
// key derivation work.
func (s *UserService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users().GetUserByLogin(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.CheckPassword(password, s.decoySalt(), nil)
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !cryptox.CheckPassword(password, user.Salt, user.Verifier) {
		return nil, common.ErrorUnauthorized
	}
	return s.generateTokenPair(ctx, user.ID)
}

// RefreshToken consumes refreshToken and returns a fresh pair. The consumed
// token can never be used again, so of two concurrent refreshes with the
// same token exactly one succeeds.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrInvalidToken
	}

	token, err := s.repomanager.RefreshTokens().Consume(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error consuming refresh token: %w", err)
	}
	if token.Expired(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	return s.generateTokenPair(ctx, token.UserID)
}

// Logout revokes refreshToken. Revoking an unknown token is not an error.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.repomanager.RefreshTokens().Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users().GetUserByID(ctx, userID)
}

// ChangePassword replaces the user's password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.repomanager.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !cryptox.CheckPassword(current, user.Salt, user.Verifier) {
		return common.ErrorUnauthorized
	}
	if err := validateCredentials(user.UserName, next); err != nil {
		return err
	}

	salt, verifier := cryptox.HashPassword(next)
	return s.repomanager.Users().UpdatePassword(ctx, userID, salt, verifier)
}

// Authenticate resolves a bearer access token to its user ID.
func (s *UserService) Authenticate(accessToken string) (string, error) {
	return auth.GetUserIDFromToken(accessToken, s.jwtSecret)
}

func validateCredentials(username, password string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}
	return nil
}

func (s *UserService) decoySalt() []byte { return common.RandomBytes(cryptox.SaltSize) }

func (s *UserService) generateTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.NewOpaqueToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens().Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
