package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ecodeli/ecodeli-api/internal/domain"
)

func TestPasswordStrength(t *testing.T) {
	cases := []struct {
		password string
		want     int
	}{
		{"", 0},
		{"password", 0},
		{"abc", 11},
		{"Tr0ub4dor&3-Zephyr", 100},
		{"kangaroo", 41},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PasswordStrength(tc.password), tc.password)
	}
}

func TestEvaluatePasswordAcceptsStrongPassword(t *testing.T) {
	user := &domain.User{Email: "alice@example.com", FirstName: "Alice", LastName: "Martin"}

	report := EvaluatePassword("Tr0ub4dor&3-Zephyr", user)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
	assert.Equal(t, "very_strong", report.StrengthLabel())
}

func TestEvaluatePasswordLengthLimits(t *testing.T) {
	report := EvaluatePassword("Ab1!x", nil)
	assert.False(t, report.Valid)
	assert.Contains(t, report.Errors, "password must be at least 8 characters")

	report = EvaluatePassword(strings.Repeat("Zq9!", 33), nil)
	assert.False(t, report.Valid)
	assert.Contains(t, report.Errors, "password must be at most 128 characters")

	report = EvaluatePassword("   ", nil)
	assert.False(t, report.Valid)
	assert.Equal(t, 0, report.Strength)
}

func TestEvaluatePasswordRejectsPersonalData(t *testing.T) {
	user := &domain.User{Email: "jdupont@example.com", FirstName: "Jean", LastName: "Dupont"}

	report := EvaluatePassword("Xx-Dupont-97!", user)
	assert.False(t, report.Valid)
	assert.Contains(t, report.Errors, "password must not contain your last name")

	report = EvaluatePassword("JEAN#Rocks-2024", user)
	assert.Contains(t, report.Errors, "password must not contain your first name")

	report = EvaluatePassword("my-jdupont-Key9", user)
	assert.Contains(t, report.Errors, "password must not contain your email address")
}

func TestEvaluatePasswordSuggestsMissingClasses(t *testing.T) {
	report := EvaluatePassword("kangaroo", nil)
	require.False(t, report.Valid)
	assert.Contains(t, report.Suggestions, "add uppercase letters")
	assert.Contains(t, report.Suggestions, "add digits")
	assert.Equal(t, "weak", report.StrengthLabel())
}

func TestSequentialRuns(t *testing.T) {
	assert.True(t, hasSequentialRun("xx789"))
	assert.True(t, hasSequentialRun("zcba"))
	assert.False(t, hasSequentialRun("a1b2c3"))
	assert.False(t, hasSequentialRun("ace"))
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("s3cret!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "s3cret!"))
	assert.Error(t, ComparePassword(hash, "other"))

	hash, err = HashPassword("s3cret!", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
