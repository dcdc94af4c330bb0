package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ecodeli/ecodeli-api/internal/domain"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var got []EventType

	d.Subscribe(EventUserRegistered, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventUserLoggedIn, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	user := &domain.User{ID: 42, Email: "alice@example.com", Type: domain.UserTypeClient}
	require.NoError(t, d.Publish(context.Background(), NewEvent(EventUserRegistered, ActorFor(user), time.Now(), nil)))
	require.NoError(t, d.Publish(context.Background(), NewEvent(EventUserLoggedIn, ActorFor(user), time.Now(), nil)))

	assert.Equal(t, []EventType{EventUserRegistered, EventUserLoggedIn}, got)
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))
	calls := 0

	d.Subscribe(EventUserLoggedIn, func(context.Context, Event) error {
		calls++
		return errors.New("smtp down")
	})
	d.Subscribe(EventUserLoggedIn, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventUserLoggedIn, Actor{}, time.Now(), nil))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "event handler failed", logs.All()[0].Message)
}

func TestNewEventAssignsIdentity(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	e1 := NewEvent(EventUserRegistered, Actor{UserID: 1}, at, nil)
	e2 := NewEvent(EventUserRegistered, Actor{UserID: 1}, at, nil)

	assert.NotEmpty(t, e1.ID)
	assert.NotEqual(t, e1.ID, e2.ID)
	assert.Equal(t, time.UTC, e1.Timestamp.Location())
	assert.Equal(t, Actor{}, ActorFor(nil))
}
