package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/samueladole/crovio/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventTokenRefreshed EventType = "token_refreshed"
	EventLogout         EventType = "logout"
)

// Event represents a domain event emitted by services. Payloads never carry
// passwords or raw tokens.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Subject   domain.Subject `json:"subject,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   interface{}    `json:"payload,omitempty"`
}

// New stamps an event with an id and the current time.
func New(eventType EventType, subject domain.Subject, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Role domain.Role `json:"role"`
}

// LoginPayload records which identifier channel was used.
type LoginPayload struct {
	Channel string `json:"channel"`
}

// LoginFailedPayload payload. Reason is the internal error kind.
type LoginFailedPayload struct {
	Channel string `json:"channel"`
	Reason  string `json:"reason"`
}

// TokenPayload identifies a token by its id only.
type TokenPayload struct {
	TokenID string `json:"token_id"`
}
