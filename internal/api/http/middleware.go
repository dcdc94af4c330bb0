package http

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/ecodeli/ecodeli-api/internal/config"
	"github.com/ecodeli/ecodeli-api/internal/observability"
	apperrors "github.com/ecodeli/ecodeli-api/pkg/util"
)

// MiddlewareConfig bundles the global middleware dependencies.
type MiddlewareConfig struct {
	Logger        *zap.Logger
	Metrics       *observability.Metrics
	Timeout       time.Duration
	CORS          config.CORSConfig
	Authenticator fiber.Handler
}

// RegisterMiddlewares attaches global middlewares. The request logger runs
// outermost so it observes the status written by the error handler; the
// authenticator runs last, right before route guards.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app.Use(observability.RequestLogger(logger, cfg.Metrics))
	app.Use(errorHandlingMiddleware(logger, cfg.Metrics))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(corsMiddleware(cfg.CORS))
	if cfg.Authenticator != nil {
		app.Use(cfg.Authenticator)
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func corsMiddleware(cfg config.CORSConfig) fiber.Handler {
	origins := cfg.Header()
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders:    "Content-Disposition,X-Request-ID",
		AllowCredentials: origins != "" && !strings.Contains(origins, "*"),
		MaxAge:           3600,
	})
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				method, route := observability.RouteLabels(c, domainErr.HTTPStatus)
				metrics.RecordError(route, method, domainErr.Code)
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}
