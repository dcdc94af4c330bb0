package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// MinKeySize is the smallest HMAC-SHA256 key accepted, in bytes.
const MinKeySize = 32

// SigningKey is the symmetric secret shared by issuance and verification.
// It is immutable once built; the zero value is unusable.
type SigningKey struct {
	secret []byte
}

// NewSigningKey copies raw into a SigningKey.
func NewSigningKey(raw []byte) (SigningKey, error) {
	if len(raw) < MinKeySize {
		return SigningKey{}, fmt.Errorf("signing key must be at least %d bytes, got %d", MinKeySize, len(raw))
	}
	secret := make([]byte, len(raw))
	copy(secret, raw)
	return SigningKey{secret: secret}, nil
}

// GenerateSigningKey returns a fresh random key of MinKeySize bytes.
func GenerateSigningKey() (SigningKey, error) {
	raw := make([]byte, MinKeySize)
	if _, err := rand.Read(raw); err != nil {
		return SigningKey{}, fmt.Errorf("generate signing key: %w", err)
	}
	return SigningKey{secret: raw}, nil
}

// SigningKeyFromConfig decodes a base64 secret, or generates a per-process
// key when the secret is empty.
func SigningKeyFromConfig(secret string) (SigningKey, bool, error) {
	if secret == "" {
		key, err := GenerateSigningKey()
		return key, true, err
	}
	raw, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return SigningKey{}, false, fmt.Errorf("decode AUTH_JWT_SECRET: %w", err)
	}
	key, err := NewSigningKey(raw)
	return key, false, err
}

// IsZero reports whether the key was never initialized.
func (k SigningKey) IsZero() bool {
	return len(k.secret) == 0
}

func (k SigningKey) bytes() ([]byte, error) {
	if k.IsZero() {
		return nil, errors.New("signing key not initialized")
	}
	return k.secret, nil
}
