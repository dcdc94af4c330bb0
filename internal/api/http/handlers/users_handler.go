package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ecodeli/ecodeli-api/internal/api/dto"
	"github.com/ecodeli/ecodeli-api/internal/auth"
	apperrors "github.com/ecodeli/ecodeli-api/pkg/util"
)

// UsersHandler exposes account endpoints for authenticated callers.
type UsersHandler struct {
	accounts AccountService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accounts AccountService) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

// Me handles GET /api/users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	authn, ok := auth.AuthenticationFromFiber(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, err := h.accounts.Profile(c.UserContext(), authn.Subject)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserProfileResponse(user)})
}

// Session handles GET /api/planning/session and echoes the caller identity.
func (h *UsersHandler) Session(c *fiber.Ctx) error {
	authn, ok := auth.AuthenticationFromFiber(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": sessionOf(authn)})
}

// GetByID handles GET /api/admin/users/:id.
func (h *UsersHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return fiber.NewError(http.StatusBadRequest, "invalid user id")
	}

	user, err := h.accounts.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserProfileResponse(user)})
}
