package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ecodeli/ecodeli-api/internal/config"
	"github.com/ecodeli/ecodeli-api/internal/domain"
	"github.com/ecodeli/ecodeli-api/internal/events"
)

func TestNotificationServiceWelcomesNewUsers(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	svc := NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{EmailFrom: "noreply@ecodeli.fr"})
	svc.RegisterHandlers()

	user := &domain.User{ID: 7, Email: "alice@example.com", Type: domain.UserTypeClient}
	event := events.NewEvent(events.EventUserRegistered, events.ActorFor(user), time.Now(),
		events.UserRegisteredPayload{FirstName: "Alice", LastName: "Martin"})
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	emails := logs.FilterMessage("sendWelcomeEmailStub").All()
	require.Len(t, emails, 1)
	ctx := emails[0].ContextMap()
	assert.Equal(t, "alice@example.com", ctx["to"])
	assert.Equal(t, "Alice Martin", ctx["name"])
	assert.Zero(t, logs.FilterMessage("sendWebhookNotificationStub").Len())
}

func TestNotificationServiceAuditsLogins(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	svc := NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{})
	svc.RegisterHandlers()

	user := &domain.User{ID: 9, Email: "bob@example.com", Type: domain.UserTypeLivreur}
	event := events.NewEvent(events.EventUserLoggedIn, events.ActorFor(user), time.Now(),
		events.UserLoggedInPayload{ClientIP: "10.0.0.1"})
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	entries := logs.FilterMessage("UserLoggedIn").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, int64(9), ctx["user_id"])
	assert.Equal(t, "LIVREUR", ctx["user_type"])
	assert.Equal(t, "10.0.0.1", ctx["client_ip"])
}

func TestNotificationServiceWithoutSenderSkipsEmail(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher(nil)
	NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{WebhookURL: "http://hooks.local"}).RegisterHandlers()

	event := events.NewEvent(events.EventUserRegistered, events.Actor{UserID: 1, Email: "x@example.com"}, time.Now(), nil)
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	assert.Zero(t, logs.FilterMessage("sendWelcomeEmailStub").Len())
	assert.Equal(t, 1, logs.FilterMessage("sendWebhookNotificationStub").Len())
}
