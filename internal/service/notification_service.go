package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ecodeli/ecodeli-api/internal/config"
	"github.com/ecodeli/ecodeli-api/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventUserLoggedIn, n.handleUserLoggedIn)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRegistered",
		zap.Int64("user_id", event.Actor.UserID),
		zap.String("user_type", string(event.Actor.UserType)))
	n.sendWelcomeEmailStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleUserLoggedIn(ctx context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.Int64("user_id", event.Actor.UserID),
		zap.String("user_type", string(event.Actor.UserType)),
		zap.Time("at", event.Timestamp),
	}
	if payload, ok := event.Payload.(events.UserLoggedInPayload); ok && payload.ClientIP != "" {
		fields = append(fields, zap.String("client_ip", payload.ClientIP))
	}
	n.logger.Info("UserLoggedIn", fields...)
	return nil
}

func (n *NotificationService) sendWelcomeEmailStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || event.Actor.Email == "" {
		return
	}
	name := ""
	if payload, ok := event.Payload.(events.UserRegisteredPayload); ok {
		name = strings.TrimSpace(payload.FirstName + " " + payload.LastName)
	}
	n.logger.Debug("sendWelcomeEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", event.Actor.Email),
		zap.String("name", name),
		zap.String("event_id", event.ID))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}
