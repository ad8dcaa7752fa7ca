package authclient

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Authenticator attaches the current access token to outgoing requests.
type Authenticator struct {
	store CredentialStore
}

// NewAuthenticator returns an Authenticator reading tokens from store.
func NewAuthenticator(store CredentialStore) *Authenticator {
	return &Authenticator{store: store}
}

// Attach returns req carrying the stored access token. Without a stored token
// req is returned unmodified; the server decides whether one was required.
func (a *Authenticator) Attach(ctx context.Context, req *Request) (*Request, error) {
	_, out, err := a.Prepare(ctx, req)
	return out, err
}

// Prepare is Attach that also returns the first attempt for req, stamped with
// the token that was attached.
func (a *Authenticator) Prepare(ctx context.Context, req *Request) (RequestAttempt, *Request, error) {
	attempt := NewAttempt(req)
	token, err := a.store.Get(ctx, AccessTokenKey)
	if err != nil {
		return attempt, nil, fmt.Errorf("read access token: %w", err)
	}
	if token == "" {
		return attempt, req, nil
	}
	attempt.Token = token
	return attempt, AttachToken(req, token), nil
}

// AttachToken returns a copy of req with the bearer token set.
func AttachToken(req *Request, token string) *Request {
	out := req.Clone()
	if out.Header == nil {
		out.Header = make(map[string]string, 1)
	}
	out.Header[common.AuthorizationHeaderName] = common.BearerPrefix + token
	return out
}
