package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ecodeli/ecodeli-api/internal/api/dto"
	"github.com/ecodeli/ecodeli-api/internal/auth"
	"github.com/ecodeli/ecodeli-api/internal/domain"
	apperrors "github.com/ecodeli/ecodeli-api/pkg/util"
)

// AccountService is the account workflow used by the HTTP layer.
type AccountService interface {
	Login(ctx context.Context, req dto.LoginRequest, clientIP string) (*dto.AuthResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Profile(ctx context.Context, email string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

// AuthHandler exposes the public authentication endpoints.
type AuthHandler struct {
	accounts AccountService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(accounts AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	resp, err := h.accounts.Login(c.UserContext(), req, c.IP())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	resp, err := h.accounts.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(resp)
}

// PasswordStrength handles POST /api/public/password-strength.
func (h *AuthHandler) PasswordStrength(c *fiber.Ctx) error {
	var req dto.PasswordStrengthRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError("invalid payload", dto.ValidationDetails(err))
	}

	var owner *domain.User
	if req.Email != "" || req.FirstName != "" || req.LastName != "" {
		owner = &domain.User{Email: req.Email, FirstName: req.FirstName, LastName: req.LastName}
	}
	report := auth.EvaluatePassword(req.Password, owner)

	return c.JSON(fiber.Map{
		"data": dto.PasswordStrengthResponse{
			Valid:       report.Valid,
			Strength:    report.Strength,
			Label:       report.StrengthLabel(),
			Errors:      nonNil(report.Errors),
			Suggestions: nonNil(report.Suggestions),
		},
	})
}

// Session handles GET /api/public/session. Anonymous callers get
// authenticated=false rather than an error.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	authn, ok := auth.AuthenticationFromFiber(c)
	if !ok {
		return c.JSON(fiber.Map{"data": dto.SessionResponse{Roles: []string{}}})
	}
	return c.JSON(fiber.Map{"data": sessionOf(authn)})
}

func sessionOf(authn *auth.Authentication) dto.SessionResponse {
	return dto.SessionResponse{
		Authenticated: true,
		Email:         authn.Subject,
		UserID:        authn.UserID,
		UserType:      string(authn.UserType),
		Roles:         authn.Roles,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
