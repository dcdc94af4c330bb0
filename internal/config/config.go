package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	CORS         CORSConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
//
// JWTSecret is an optional base64 encoded HMAC key. When empty a random key
// is generated at startup and every credential dies with the process.
type AuthConfig struct {
	JWTSecret          string
	TokenValidityMs    int64
	BcryptCost         int
	LoginMaxAttempts   int
	LoginWindowSeconds int
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	validity, err := strconv.ParseInt(getEnv("AUTH_TOKEN_VALIDITY_MS", "3600000"), 10, 64)
	if err != nil || validity <= 0 {
		return nil, fmt.Errorf("invalid AUTH_TOKEN_VALIDITY_MS: %q", os.Getenv("AUTH_TOKEN_VALIDITY_MS"))
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ecodeli-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:          os.Getenv("AUTH_JWT_SECRET"),
			TokenValidityMs:    validity,
			BcryptCost:         getEnvAsInt("AUTH_BCRYPT_COST", 10),
			LoginMaxAttempts:   getEnvAsInt("AUTH_LOGIN_MAX_ATTEMPTS", 5),
			LoginWindowSeconds: getEnvAsInt("AUTH_LOGIN_WINDOW_SECONDS", 900),
		},
		CORS: CORSConfig{
			AllowedOrigins: allowedOrigins(),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@ecodeli.fr"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenValidity returns the credential lifetime.
func (a AuthConfig) TokenValidity() time.Duration {
	return time.Duration(a.TokenValidityMs) * time.Millisecond
}

// LoginWindow returns the window over which login attempts are counted.
func (a AuthConfig) LoginWindow() time.Duration {
	if a.LoginWindowSeconds <= 0 {
		return 0
	}
	return time.Duration(a.LoginWindowSeconds) * time.Second
}

// Header returns the value for fiber's cors AllowOrigins option.
func (c CORSConfig) Header() string {
	return strings.Join(c.AllowedOrigins, ",")
}

func allowedOrigins() []string {
	origins := splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:5174"))
	for _, key := range []string{"FRONTEND_USER_URL", "FRONTEND_ADMIN_URL"} {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			origins = append(origins, val)
		}
	}
	for i, origin := range origins {
		origins[i] = strings.TrimRight(origin, "/")
	}
	return origins
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
