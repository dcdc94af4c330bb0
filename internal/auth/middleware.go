package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	bearerPrefix    = "Bearer "
	tokenQueryParam = "token"
)

// Outcomes recorded for every request passing through the Authenticator.
const (
	OutcomeAuthenticated        = "authenticated"
	OutcomeAnonymous            = "anonymous"
	OutcomeAlreadyAuthenticated = "already_authenticated"
)

// TokenParser verifies a raw credential.
type TokenParser interface {
	ParseToken(tokenStr string) (*Claims, error)
}

// OutcomeRecorder counts authentication outcomes.
type OutcomeRecorder interface {
	RecordAuthOutcome(outcome string)
}

// Authenticator resolves the caller's identity from a bearer credential.
// It never rejects a request: anything short of a valid token leaves the
// request anonymous and route guards decide what that means.
type Authenticator struct {
	tokens   TokenParser
	logger   *zap.Logger
	recorder OutcomeRecorder
}

// NewAuthenticator constructs the middleware. recorder may be nil.
func NewAuthenticator(tokens TokenParser, logger *zap.Logger, recorder OutcomeRecorder) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{tokens: tokens, logger: logger, recorder: recorder}
}

// Handle is the fiber handler; it always calls c.Next.
func (m *Authenticator) Handle(c *fiber.Ctx) error {
	m.authenticate(c)
	return c.Next()
}

func (m *Authenticator) authenticate(c *fiber.Ctx) {
	raw := ExtractToken(c)
	if raw == "" {
		m.logger.Debug("no credential on request", zap.String("path", c.Path()))
		m.record(OutcomeAnonymous)
		return
	}

	if existing, ok := AuthenticationFromFiber(c); ok {
		m.logger.Debug("authentication already present", zap.String("subject", existing.Subject))
		m.record(OutcomeAlreadyAuthenticated)
		return
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		reason := FailureReason(err)
		if errors.Is(err, ErrExpiredToken) {
			m.logger.Warn("credential expired",
				zap.String("path", c.Path()),
				zap.String("reason", reason))
		} else {
			m.logger.Error("credential rejected",
				zap.String("path", c.Path()),
				zap.String("reason", reason),
				zap.Error(err))
		}
		m.record(reason)
		return
	}

	authn := NewAuthentication(claims)
	SetAuthentication(c, authn)
	m.logger.Debug("request authenticated",
		zap.String("subject", authn.Subject),
		zap.String("role", authn.Role()))
	m.record(OutcomeAuthenticated)
}

func (m *Authenticator) record(outcome string) {
	if m.recorder != nil {
		m.recorder.RecordAuthOutcome(outcome)
	}
}

// ExtractToken returns the credential from "Authorization: Bearer <t>",
// falling back to the token query parameter. It returns "" when neither
// carrier holds one.
func ExtractToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, bearerPrefix) {
		if token := strings.TrimSpace(header[len(bearerPrefix):]); token != "" {
			return token
		}
	}
	return strings.TrimSpace(c.Query(tokenQueryParam))
}
