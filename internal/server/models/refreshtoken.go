package models

import "time"

// RefreshToken is a server-stored, single-use refresh token.
type RefreshToken struct {
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.Expires.After(now)
}
