package events

import (
	"time"
)

// Event is the base interface for all overlay events.
type Event interface {
	// Type returns the event type used for routing and logging.
	Type() string
	// Timestamp returns when the event occurred.
	Timestamp() time.Time
	// SessionID identifies the overlay instance that emitted the event.
	SessionID() string
}

// BaseEvent provides the common fields.
type BaseEvent struct {
	EventType string    `json:"type"`
	Time      time.Time `json:"timestamp"`
	Session   string    `json:"session_id"`
}

func (e BaseEvent) Type() string         { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }
func (e BaseEvent) SessionID() string    { return e.Session }

// Handler processes one event.
type Handler func(Event)

// Subscriber receives events it declares interest in.
type Subscriber interface {
	ID() string
	HandleEvent(Event)
	InterestedIn(eventType string) bool
}

// Publisher is the narrow interface emitters depend on.
type Publisher interface {
	Publish(Event)
}
