package common

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// RefreshTokenBytes is the entropy of an opaque refresh token.
const RefreshTokenBytes = 32

// NewOpaqueToken returns RefreshTokenBytes random bytes encoded as unpadded
// base64url, safe to place in JSON bodies and Redis keys.
func NewOpaqueToken() (string, error) {
	b := make([]byte, RefreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// RandomBytes returns size bytes from crypto/rand.
func RandomBytes(size int) []byte {
	b := make([]byte, size)
	_, _ = rand.Read(b)
	return b
}

// Wipe zeroes b. Passwords and derived keys are wiped once used.
func Wipe(b []byte) {
	clear(b)
}
