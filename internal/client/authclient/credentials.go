package authclient

import "context"

// Credential keys understood by CredentialStore implementations.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// CredentialStore persists the access and refresh tokens. Get returns "" with
// a nil error when the key is absent.
type CredentialStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, key string) error
}

// TokenPair is the result of a successful refresh exchange. RefreshToken is
// empty when the server does not rotate refresh tokens.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Refresher performs the refresh exchange. Implementations talk to the
// refresh endpoint directly, without Authenticator or Classify.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context, refreshToken string) (*TokenPair, error)

// Refresh calls f(ctx, refreshToken).
func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return f(ctx, refreshToken)
}

// SessionObserver is told when the session was terminated by the client and
// the user has to authenticate again. returnPath is where to go afterwards.
type SessionObserver interface {
	OnForcedLogout(returnPath string)
}

// SessionObserverFunc adapts a function to SessionObserver.
type SessionObserverFunc func(returnPath string)

// OnForcedLogout calls f(returnPath).
func (f SessionObserverFunc) OnForcedLogout(returnPath string) { f(returnPath) }

type returnPathKey struct{}

// WithReturnPath records where the user should land after re-authenticating
// if this request ends in a forced logout.
func WithReturnPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, returnPathKey{}, path)
}

// ReturnPathFrom returns the path recorded by WithReturnPath, or fallback.
func ReturnPathFrom(ctx context.Context, fallback string) string {
	if p, ok := ctx.Value(returnPathKey{}).(string); ok && p != "" {
		return p
	}
	return fallback
}
