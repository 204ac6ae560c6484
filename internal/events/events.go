package events

import (
	"context"
	"time"
)

// Event types emitted by the bot.
const (
	TypeUserRegistered    = "user.registered"
	TypeDocumentGenerated = "document.generated"
	TypePaymentCompleted  = "payment.completed"
)

// Event is a domain event. Key is the partition key, normally the user id.
type Event struct {
	Type       string         `json:"type"`
	Key        string         `json:"key"`
	OccurredAt time.Time      `json:"occurredAt"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// Publisher delivers domain events. Publishing is best effort: callers log failures
// and never fail a conversation turn because of them.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Nop discards events. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// New builds an event with the current UTC time.
func New(eventType, key string, payload map[string]any) Event {
	return Event{Type: eventType, Key: key, OccurredAt: time.Now().UTC(), Payload: payload}
}
