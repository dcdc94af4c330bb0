package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ecodeli/ecodeli-api/internal/api/dto"
	"github.com/ecodeli/ecodeli-api/internal/auth"
	"github.com/ecodeli/ecodeli-api/internal/domain"
	"github.com/ecodeli/ecodeli-api/internal/events"
	"github.com/ecodeli/ecodeli-api/internal/ratelimit"
	"github.com/ecodeli/ecodeli-api/internal/repository"
	apperrors "github.com/ecodeli/ecodeli-api/pkg/util"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	loginThrottleKeyPrefix    = "login:"
)

// TokenIssuer mints bearer credentials for an account.
type TokenIssuer interface {
	GenerateToken(email string, userID int64, userType domain.UserType) (string, time.Time, error)
}

// IssuanceRecorder counts issued tokens.
type IssuanceRecorder interface {
	RecordTokenIssued(userType string)
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokens     TokenIssuer
	limiter    ratelimit.Limiter
	dispatcher events.Dispatcher
	recorder   IssuanceRecorder
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Users      repository.UserRepository
	Tokens     TokenIssuer
	Limiter    ratelimit.Limiter
	Dispatcher events.Dispatcher
	Recorder   IssuanceRecorder
	BcryptCost int
	Logger     *zap.Logger
}

// NewAuthService builds the service. Limiter, Dispatcher and Recorder are optional.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.Users,
		tokens:     deps.Tokens,
		limiter:    deps.Limiter,
		dispatcher: deps.Dispatcher,
		recorder:   deps.Recorder,
		bcryptCost: deps.BcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest, clientIP string) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	req.Email = email
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewValidationError("invalid login payload", dto.ValidationDetails(err))
	}

	throttleKey := loginThrottleKeyPrefix + email
	if err := s.checkThrottle(ctx, throttleKey); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}
	if err != nil {
		return nil, storeError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}
	if !user.Active {
		s.logger.Info("login refused for inactive account", zap.Int64("user_id", user.ID))
		return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, throttleKey); err != nil {
			s.logger.Warn("unable to reset login throttle", zap.Error(err))
		}
	}

	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventUserLoggedIn, user, events.UserLoggedInPayload{ClientIP: clientIP})
	return resp, nil
}

// Register creates an account and issues its first token.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewValidationError("invalid registration payload", dto.ValidationDetails(err))
	}
	userType, _ := domain.ParseUserType(req.UserType)
	phone, _ := dto.NormalizePhone(req.Phone)

	user := &domain.User{
		Email:     req.Email,
		LastName:  req.LastName,
		FirstName: req.FirstName,
		Phone:     phone,
		Type:      userType,
		Active:    true,
	}

	report := auth.EvaluatePassword(req.Password, user)
	if !report.Valid {
		return nil, apperrors.NewValidationError("password does not meet policy", map[string]any{
			"strength":    report.Strength,
			"errors":      report.Errors,
			"suggestions": report.Suggestions,
		})
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": req.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, storeError(err)
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": req.Email})
		}
		return nil, storeError(err)
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("user_type", string(user.Type)))
	s.publish(ctx, events.EventUserRegistered, user, events.UserRegisteredPayload{
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
	return s.issue(user)
}

// Profile returns the account behind an authenticated email.
func (s *AuthService) Profile(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return nil, storeError(err)
	}
	return user, nil
}

// GetUser loads an account by id.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, storeError(err)
	}
	return user, nil
}

func storeError(err error) error {
	if errors.Is(err, repository.ErrDatabaseNotConfigured) {
		return apperrors.NewDependencyUnavailable("user store unavailable")
	}
	return apperrors.NewInternalError(err)
}

// checkThrottle fails open when the limiter backend is unavailable.
func (s *AuthService) checkThrottle(ctx context.Context, key string) error {
	if s.limiter == nil {
		return nil
	}
	decision, err := s.limiter.Allow(ctx, key)
	if err != nil {
		s.logger.Warn("login throttle unavailable", zap.Error(err))
		return nil
	}
	if decision.Allowed {
		return nil
	}
	retryAfter := decision.RetryAfter(s.now())
	return apperrors.NewTooManyRequests("too many login attempts", map[string]any{
		"retry_after_seconds": int(retryAfter.Round(time.Second) / time.Second),
	})
}

func (s *AuthService) issue(user *domain.User) (*dto.AuthResponse, error) {
	token, _, err := s.tokens.GenerateToken(user.Email, user.ID, user.Type)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("issue token: %w", err))
	}
	if s.recorder != nil {
		s.recorder.RecordTokenIssued(string(user.Type))
	}
	return &dto.AuthResponse{
		Token:     token,
		Type:      dto.TokenTypeBearer,
		ID:        user.ID,
		Email:     user.Email,
		LastName:  user.LastName,
		FirstName: user.FirstName,
		UserType:  string(user.Type),
	}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, user *domain.User, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.NewEvent(eventType, events.ActorFor(user), s.now(), payload)
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
