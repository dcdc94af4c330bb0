package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/ecodeli/ecodeli-api/internal/domain"
)

const authenticationKey = "auth_authentication"

type contextKey struct {
	name string
}

var authenticationCtxKey = &contextKey{"authentication"}

// Authentication is the verified identity attached to a single request.
type Authentication struct {
	Subject  string
	UserID   int64
	UserType domain.UserType
	Roles    []string
}

// NewAuthentication builds the authentication granted by a set of claims.
func NewAuthentication(claims *Claims) *Authentication {
	return &Authentication{
		Subject:  claims.Subject,
		UserID:   claims.UserID,
		UserType: claims.UserType,
		Roles:    []string{domain.RoleFor(claims.UserType)},
	}
}

// Role returns the single granted role.
func (a *Authentication) Role() string {
	if a == nil || len(a.Roles) == 0 {
		return ""
	}
	return a.Roles[0]
}

// HasRole reports whether role was granted.
func (a *Authentication) HasRole(role string) bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// WithAuthentication returns a copy of ctx carrying a.
func WithAuthentication(ctx context.Context, a *Authentication) context.Context {
	return context.WithValue(ctx, authenticationCtxKey, a)
}

// AuthenticationFromContext finds the authentication in a standard context.
func AuthenticationFromContext(ctx context.Context) (*Authentication, bool) {
	a, ok := ctx.Value(authenticationCtxKey).(*Authentication)
	return a, ok && a != nil
}

// SetAuthentication attaches a to the request in both fiber locals and the
// user context handed to services.
func SetAuthentication(c *fiber.Ctx, a *Authentication) {
	c.Locals(authenticationKey, a)
	c.SetUserContext(WithAuthentication(c.UserContext(), a))
}

// AuthenticationFromFiber retrieves the authentication for the current request.
func AuthenticationFromFiber(c *fiber.Ctx) (*Authentication, bool) {
	val := c.Locals(authenticationKey)
	if val == nil {
		return nil, false
	}
	a, ok := val.(*Authentication)
	return a, ok && a != nil
}
