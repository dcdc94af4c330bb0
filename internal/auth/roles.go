package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ecodeli/ecodeli-api/internal/domain"
	apperrors "github.com/ecodeli/ecodeli-api/pkg/util"
)

// RequireAuthenticated rejects anonymous callers with 401.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := AuthenticationFromFiber(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireRole ensures the caller was granted the role of one of the given
// user types. Anonymous callers get 401, others 403.
func RequireRole(allowed ...domain.UserType) fiber.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, t := range allowed {
		allowedSet[domain.RoleFor(t)] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		authn, ok := AuthenticationFromFiber(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		for _, role := range authn.Roles {
			if _, exists := allowedSet[role]; exists {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("insufficient role")
	}
}
