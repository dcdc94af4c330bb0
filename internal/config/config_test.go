package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearAuthEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AUTH_JWT_SECRET",
		"AUTH_TOKEN_VALIDITY_MS",
		"AUTH_BCRYPT_COST",
		"AUTH_LOGIN_MAX_ATTEMPTS",
		"AUTH_LOGIN_WINDOW_SECONDS",
		"CORS_ALLOWED_ORIGINS",
		"FRONTEND_USER_URL",
		"FRONTEND_ADMIN_URL",
		"REDIS_DB",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearAuthEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(3600000), cfg.Auth.TokenValidityMs)
	assert.Equal(t, time.Hour, cfg.Auth.TokenValidity())
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, 5, cfg.Auth.LoginMaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LoginWindow())
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:5174"}, cfg.CORS.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	clearAuthEnv(t)
	t.Setenv("AUTH_TOKEN_VALIDITY_MS", "1500")
	t.Setenv("AUTH_LOGIN_WINDOW_SECONDS", "0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("FRONTEND_ADMIN_URL", "https://admin.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, cfg.Auth.TokenValidity())
	assert.Zero(t, cfg.Auth.LoginWindow())
	assert.Equal(t,
		"https://a.example.com,https://b.example.com,https://admin.example.com",
		cfg.CORS.Header())
}

func TestLoadRejectsBadValidity(t *testing.T) {
	clearAuthEnv(t)

	for _, raw := range []string{"abc", "-1", "0"} {
		t.Setenv("AUTH_TOKEN_VALIDITY_MS", raw)
		_, err := Load()
		assert.Error(t, err, raw)
	}
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	clearAuthEnv(t)
	t.Setenv("REDIS_DB", "one")

	_, err := Load()
	assert.ErrorContains(t, err, "REDIS_DB")
}
