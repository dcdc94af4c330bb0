package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/ecodeli/ecodeli-api/internal/domain"
)

// DefaultValidity is the credential lifetime used when none is configured.
const DefaultValidity = time.Hour

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	key      SigningKey
	validity time.Duration
	now      func() time.Time
}

// Option customizes a TokenManager.
type Option func(*TokenManager)

// WithClock overrides the time source used for iat, exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(tm *TokenManager) {
		if now != nil {
			tm.now = now
		}
	}
}

// NewTokenManager builds a new manager around an initialized key.
func NewTokenManager(key SigningKey, validity time.Duration, opts ...Option) (*TokenManager, error) {
	if key.IsZero() {
		return nil, errors.New("token manager requires a signing key")
	}
	if validity <= 0 {
		validity = DefaultValidity
	}
	tm := &TokenManager{key: key, validity: validity, now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	return tm, nil
}

// Claims describes the JWT payload.
type Claims struct {
	UserID   int64           `json:"userId"`
	UserType domain.UserType `json:"userType"`
	jwt.RegisteredClaims
}

// Email returns the subject claim.
func (c *Claims) Email() string {
	return c.Subject
}

// Validity returns the configured credential lifetime.
func (tm *TokenManager) Validity() time.Duration {
	return tm.validity
}

// GenerateToken builds and signs a JWT for the identity and returns it with
// its expiry. iat is truncated to the second; exp is iat+validity, itself
// truncated to the second as encoded in the token.
func (tm *TokenManager) GenerateToken(email string, userID int64, userType domain.UserType) (string, time.Time, error) {
	switch {
	case strings.TrimSpace(email) == "":
		return "", time.Time{}, fmt.Errorf("%w: email is required", ErrInvalidIdentity)
	case userID <= 0:
		return "", time.Time{}, fmt.Errorf("%w: user id must be positive", ErrInvalidIdentity)
	case !userType.Valid():
		return "", time.Time{}, fmt.Errorf("%w: unknown user type %q", ErrInvalidIdentity, userType)
	}

	secret, err := tm.key.bytes()
	if err != nil {
		return "", time.Time{}, err
	}

	issuedAt := tm.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(tm.validity)
	claims := &Claims{
		UserID:   userID,
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, claims.ExpiresAt.Time, nil
}

// ParseToken verifies signature and expiry and returns the claims. Errors
// wrap ErrMalformedToken, ErrSignatureMismatch or ErrExpiredToken.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrMissingCredential
	}
	secret, err := tm.key.bytes()
	if err != nil {
		return nil, err
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", ErrMalformedToken)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrMalformedToken)
	}
	return claims, nil
}

// ExtractEmail returns the subject of a valid token.
func (tm *TokenManager) ExtractEmail(tokenStr string) (string, error) {
	claims, err := tm.ParseToken(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractUserID returns the userId claim of a valid token.
func (tm *TokenManager) ExtractUserID(tokenStr string) (int64, error) {
	claims, err := tm.ParseToken(tokenStr)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// ExtractUserType returns the userType claim of a valid token.
func (tm *TokenManager) ExtractUserType(tokenStr string) (domain.UserType, error) {
	claims, err := tm.ParseToken(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.UserType, nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrSignatureMismatch, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpiredToken, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}
