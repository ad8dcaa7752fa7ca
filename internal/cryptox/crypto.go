package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of salts produced by NewSalt.
const SaltSize = 16

// ErrMalformed is returned by Open for input that was not produced by Seal.
var ErrMalformed = errors.New("malformed sealed value")

// MakeVerifier returns a value that can be stored to check a master key later
// without storing the key itself.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveMasterKey stretches password with argon2id into a 32-byte key.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	x := argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
	return x
}

// NewSalt returns SaltSize random bytes.
func NewSalt() []byte {
	return common.RandomBytes(SaltSize)
}

// HashPassword derives a verifier for password under a fresh salt.
func HashPassword(password string) (salt, verifier []byte) {
	salt = NewSalt()
	key := DeriveMasterKey([]byte(password), salt)
	defer common.Wipe(key)
	return salt, MakeVerifier(key)
}

// CheckPassword reports whether password matches salt and verifier produced
// by HashPassword.
func CheckPassword(password string, salt, verifier []byte) bool {
	key := DeriveMasterKey([]byte(password), salt)
	defer common.Wipe(key)
	return subtle.ConstantTimeCompare(MakeVerifier(key), verifier) == 1
}

// Sealer encrypts short strings with AES-256-GCM. Sealed values are base64
// text holding the nonce followed by the ciphertext, so they fit in a TEXT
// column.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives the sealing key from passphrase and salt.
func NewSealer(passphrase string, salt []byte) (*Sealer, error) {
	key := DeriveMasterKey([]byte(passphrase), salt)
	defer common.Wipe(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext under a random nonce.
func (s *Sealer) Seal(plaintext string) string {
	nonce := common.RandomBytes(s.aead.NonceSize())
	out := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out)
}

// Open reverses Seal. A wrong passphrase or tampered value yields an error.
func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	ns := s.aead.NonceSize()
	if len(raw) < ns {
		return "", ErrMalformed
	}
	plaintext, err := s.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("open sealed value: %w", err)
	}
	return string(plaintext), nil
}
