package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/ecodeli/ecodeli-api/internal/api/http"
	"github.com/ecodeli/ecodeli-api/internal/api/http/handlers"
	"github.com/ecodeli/ecodeli-api/internal/auth"
	"github.com/ecodeli/ecodeli-api/internal/config"
	"github.com/ecodeli/ecodeli-api/internal/events"
	"github.com/ecodeli/ecodeli-api/internal/observability"
	"github.com/ecodeli/ecodeli-api/internal/persistence"
	"github.com/ecodeli/ecodeli-api/internal/ratelimit"
	"github.com/ecodeli/ecodeli-api/internal/repository"
	"github.com/ecodeli/ecodeli-api/internal/service"
	"github.com/ecodeli/ecodeli-api/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	key, generated, err := auth.SigningKeyFromConfig(cfg.Auth.JWTSecret)
	if err != nil {
		logger.Fatal("invalid AUTH_JWT_SECRET", zap.Error(err))
	}
	if generated {
		logger.Warn("no AUTH_JWT_SECRET configured; generated an ephemeral signing key")
	}

	tokens, err := auth.NewTokenManager(key, cfg.Auth.TokenValidity())
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, cfg.App.Name, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pool := pg.PoolHandle(); pool != nil && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	limiter := newLoginLimiter(cfg.Auth, redis, logger)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	notifier := worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification), dispatcher, logger)

	userRepo := repository.NewUserRepository(pg.PoolHandle())
	authService := service.NewAuthService(service.AuthDependencies{
		Users:      userRepo,
		Tokens:     tokens,
		Limiter:    limiter,
		Dispatcher: notifier,
		Recorder:   metrics,
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger,
	})
	authenticator := auth.NewAuthenticator(tokens, logger, metrics)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:        logger,
		Metrics:       metrics,
		Timeout:       cfg.App.RequestTimeout(),
		CORS:          cfg.CORS,
		Authenticator: authenticator.Handle,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:    handlers.NewAuthHandler(authService),
		Users:   handlers.NewUsersHandler(authService),
		Metrics: metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := notifier.Stop(drainCtx); err != nil {
		logger.Warn("notification queue not drained", zap.Error(err))
	}
}

// newLoginLimiter prefers the shared Redis counter and falls back to
// per-process buckets when Redis is unreachable at startup.
func newLoginLimiter(cfg config.AuthConfig, redis *persistence.Redis, logger *zap.Logger) ratelimit.Limiter {
	if redis.Reachable() {
		limiter, err := ratelimit.NewRedisLimiter(redis.Client, cfg.LoginMaxAttempts, cfg.LoginWindow(), nil)
		if err == nil {
			return limiter
		}
		logger.Warn("redis login limiter unavailable", zap.Error(err))
	}
	logger.Info("using in-memory login limiter")
	return ratelimit.NewMemoryLimiter(cfg.LoginMaxAttempts, cfg.LoginWindow(), nil)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
