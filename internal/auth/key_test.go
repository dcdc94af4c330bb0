package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecodeli/ecodeli-api/internal/domain"
)

func TestNewSigningKeyRejectsShortKeys(t *testing.T) {
	_, err := NewSigningKey([]byte("too-short"))
	assert.Error(t, err)

	key, err := NewSigningKey([]byte(strings.Repeat("k", MinKeySize)))
	require.NoError(t, err)
	assert.False(t, key.IsZero())
	assert.True(t, SigningKey{}.IsZero())
}

func TestNewSigningKeyCopiesInput(t *testing.T) {
	raw := []byte(strings.Repeat("s", MinKeySize))
	key, err := NewSigningKey(raw)
	require.NoError(t, err)
	tm, err := NewTokenManager(key, time.Hour)
	require.NoError(t, err)

	token, _, err := tm.GenerateToken("alice@example.com", 42, domain.UserTypeClient)
	require.NoError(t, err)

	for i := range raw {
		raw[i] = 'x'
	}
	_, err = tm.ParseToken(token)
	assert.NoError(t, err)
}

func TestGenerateSigningKeyIsRandom(t *testing.T) {
	a, err := GenerateSigningKey()
	require.NoError(t, err)
	b, err := GenerateSigningKey()
	require.NoError(t, err)

	ab, _ := a.bytes()
	bb, _ := b.bytes()
	assert.Len(t, ab, MinKeySize)
	assert.NotEqual(t, ab, bb)
}

func TestSigningKeyFromConfig(t *testing.T) {
	key, generated, err := SigningKeyFromConfig("")
	require.NoError(t, err)
	assert.True(t, generated)
	assert.False(t, key.IsZero())

	secret := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("e", 48)))
	key, generated, err = SigningKeyFromConfig(secret)
	require.NoError(t, err)
	assert.False(t, generated)
	raw, _ := key.bytes()
	assert.Len(t, raw, 48)

	_, _, err = SigningKeyFromConfig("%%%not-base64%%%")
	assert.Error(t, err)

	_, _, err = SigningKeyFromConfig(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
}

func TestZeroKeyCannotSign(t *testing.T) {
	_, err := SigningKey{}.bytes()
	assert.Error(t, err)
}
