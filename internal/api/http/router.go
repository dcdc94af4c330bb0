package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ecodeli/ecodeli-api/internal/api/http/handlers"
	"github.com/ecodeli/ecodeli-api/internal/auth"
	"github.com/ecodeli/ecodeli-api/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Users   *handlers.UsersHandler
	Metrics fiber.Handler
}

// RegisterRoutes wires HTTP routes and their access rules:
//
//	/health/*, /metrics, /api/auth/**, /api/public/**  open
//	/api/admin/**                                      ROLE_ADMIN
//	/api/planning/**                                   ROLE_PRESTATAIRE
//	any other /api path                                authenticated
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Use(notFound)

	public := api.Group("/public")
	public.Post("/password-strength", cfg.Auth.PasswordStrength)
	public.Get("/session", cfg.Auth.Session)
	public.Use(notFound)

	admin := api.Group("/admin", auth.RequireRole(domain.UserTypeAdmin))
	admin.Get("/users/:id", cfg.Users.GetByID)

	planning := api.Group("/planning", auth.RequireRole(domain.UserTypePrestataire))
	planning.Get("/session", cfg.Users.Session)

	users := api.Group("/users", auth.RequireAuthenticated())
	users.Get("/me", cfg.Users.Me)

	api.Use(auth.RequireAuthenticated())
}

func notFound(*fiber.Ctx) error {
	return fiber.ErrNotFound
}
