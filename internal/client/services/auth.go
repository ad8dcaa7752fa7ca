// Package services contains application services for the gophauth client.
// This file defines the authentication service: register, login, manual
// logout and a local session status report.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/authclient"
	"github.com/dmitrijs2005/gophauth/internal/client/transport"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNotLoggedIn is returned by operations that need stored credentials.
var ErrNotLoggedIn = errors.New("not logged in")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create a new user on the server.
//   - Login: authenticate and persist the access and refresh tokens.
//   - Logout: forget the stored tokens without notifying the session observer.
//   - Status: describe the locally stored session.
//
// Register and Login talk to public endpoints through the raw transport, so
// a rejected password never triggers a token refresh.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) (*Session, error)
}

// Session is what Status reports about the stored credentials.
type Session struct {
	LoggedIn   bool
	CanRefresh bool
	Subject    string
	// ExpiresAt is the access token expiry, zero when unknown.
	ExpiresAt time.Time
}

// Expired reports whether the access token is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authService struct {
	transport    authclient.Transport
	store        authclient.CredentialStore
	terminator   *authclient.Terminator
	loginPath    string
	registerPath string
}

// NewAuthService binds the service to a raw transport, the credential store
// shared with the authenticated client, and its terminator.
func NewAuthService(tr authclient.Transport, store authclient.CredentialStore, terminator *authclient.Terminator, loginPath, registerPath string) AuthService {
	return &authService{
		transport:    tr,
		store:        store,
		terminator:   terminator,
		loginPath:    loginPath,
		registerPath: registerPath,
	}
}

func (a *authService) post(ctx context.Context, path, username string, password []byte) (*authclient.Response, error) {
	body, err := json.Marshal(credentialsRequest{Username: username, Password: string(password)})
	if err != nil {
		return nil, err
	}
	defer common.Wipe(body)

	resp, err := a.transport.Send(ctx, &authclient.Request{
		Method: http.MethodPost,
		URL:    path,
		Header: map[string]string{"Content-Type": "application/json"},
		Body:   body,
	})
	if err != nil {
		return nil, &authclient.ClientError{Kind: authclient.KindNetwork, Message: "server unavailable", Err: err}
	}
	return resp, nil
}

// Register creates a new account on the server.
func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	resp, err := a.post(ctx, a.registerPath, username, password)
	if err != nil {
		return err
	}
	o := authclient.Classify(resp, nil)
	if o.Kind != authclient.OutcomeSuccess {
		return &authclient.ClientError{Kind: authclient.KindBusiness, Status: o.Status, Code: o.Code, Message: o.Message}
	}
	return nil
}

// Login authenticates and stores both tokens, arming the terminator for the
// new session.
func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	resp, err := a.post(ctx, a.loginPath, username, password)
	if err != nil {
		return err
	}

	var tokens transport.TokenData
	if err := transport.DecodeTokens(resp, &tokens); err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if tokens.RefreshToken == "" {
		return fmt.Errorf("login error: response carried no refresh token")
	}

	// Arm first so a refresh still running for the previous session cannot
	// overwrite the new tokens.
	a.terminator.Arm()
	if err := a.store.Set(ctx, authclient.AccessTokenKey, tokens.AccessToken); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	if err := a.store.Set(ctx, authclient.RefreshTokenKey, tokens.RefreshToken); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// Logout clears the stored tokens.
func (a *authService) Logout(ctx context.Context) error {
	return a.terminator.Reset(ctx)
}

// Status inspects the stored tokens. The access token's claims are read
// without verifying its signature; the client never holds the server key.
func (a *authService) Status(ctx context.Context) (*Session, error) {
	access, err := a.store.Get(ctx, authclient.AccessTokenKey)
	if err != nil {
		return nil, err
	}
	refresh, err := a.store.Get(ctx, authclient.RefreshTokenKey)
	if err != nil {
		return nil, err
	}

	s := &Session{LoggedIn: access != "", CanRefresh: refresh != ""}
	if access == "" {
		return s, nil
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, &claims); err != nil {
		// Opaque tokens are fine; there is just nothing more to report.
		return s, nil
	}
	s.Subject = claims.Subject
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}
