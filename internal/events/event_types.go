package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/ecodeli/ecodeli-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserLoggedIn   EventType = "user_logged_in"
)

// Actor identifies the account an event is about.
type Actor struct {
	UserID   int64           `json:"user_id"`
	Email    string          `json:"email"`
	UserType domain.UserType `json:"user_type"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id.
func NewEvent(eventType EventType, actor Actor, at time.Time, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: at.UTC(),
		Payload:   payload,
	}
}

// ActorFor builds the actor block for a user.
func ActorFor(user *domain.User) Actor {
	if user == nil {
		return Actor{}
	}
	return Actor{UserID: user.ID, Email: user.Email, UserType: user.Type}
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	FirstName string `json:"prenom"`
	LastName  string `json:"nom"`
}

// UserLoggedInPayload payload.
type UserLoggedInPayload struct {
	ClientIP string `json:"client_ip,omitempty"`
}
