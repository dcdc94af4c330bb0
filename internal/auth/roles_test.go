package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecodeli/ecodeli-api/internal/domain"
	apperrors "github.com/ecodeli/ecodeli-api/pkg/util"
)

func newGuardedApp(tm *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
		},
	})
	app.Use(NewAuthenticator(tm, nil, nil).Handle)
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/me", RequireAuthenticated(), ok)
	app.Get("/admin", RequireRole(domain.UserTypeAdmin), ok)
	app.Get("/ops", RequireRole(domain.UserTypeAdmin, domain.UserTypePrestataire), ok)
	return app
}

func statusFor(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRouteGuards(t *testing.T) {
	tm := newTestManager(t, time.Hour)
	app := newGuardedApp(tm)

	client, _, err := tm.GenerateToken("c@example.com", 1, domain.UserTypeClient)
	require.NoError(t, err)
	admin, _, err := tm.GenerateToken("a@example.com", 2, domain.UserTypeAdmin)
	require.NoError(t, err)
	provider, _, err := tm.GenerateToken("p@example.com", 3, domain.UserTypePrestataire)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, statusFor(t, app, "/me", ""))
	assert.Equal(t, fiber.StatusOK, statusFor(t, app, "/me", client))

	assert.Equal(t, fiber.StatusUnauthorized, statusFor(t, app, "/admin", ""))
	assert.Equal(t, fiber.StatusForbidden, statusFor(t, app, "/admin", client))
	assert.Equal(t, fiber.StatusOK, statusFor(t, app, "/admin", admin))

	assert.Equal(t, fiber.StatusOK, statusFor(t, app, "/ops", provider))
	assert.Equal(t, fiber.StatusOK, statusFor(t, app, "/ops", admin))
	assert.Equal(t, fiber.StatusForbidden, statusFor(t, app, "/ops", client))
}

func TestAuthenticationHelpers(t *testing.T) {
	claims := &Claims{UserID: 9, UserType: domain.UserTypeCommercant}
	claims.Subject = "shop@example.com"

	authn := NewAuthentication(claims)
	assert.Equal(t, "shop@example.com", authn.Subject)
	assert.Equal(t, int64(9), authn.UserID)
	assert.Equal(t, "ROLE_COMMERCANT", authn.Role())
	assert.True(t, authn.HasRole("ROLE_COMMERCANT"))
	assert.False(t, authn.HasRole("ROLE_ADMIN"))

	var none *Authentication
	assert.Equal(t, "", none.Role())
	assert.False(t, none.HasRole("ROLE_ADMIN"))
}
