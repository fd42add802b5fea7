package events

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

type funcHandler struct {
	id      string
	handler Handler
}

// Bus is a synchronous event bus. Handlers run on the publishing goroutine,
// in subscription order, and may publish further events.
type Bus struct {
	mu           sync.RWMutex
	subscribers  map[string]Subscriber
	order        []string
	funcHandlers map[string][]funcHandler
	nextID       int
	logger       zerolog.Logger
}

func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		subscribers:  make(map[string]Subscriber),
		funcHandlers: make(map[string][]funcHandler),
		logger:       logger.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe adds (or replaces) a subscriber by ID.
func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.subscribers[s.ID()]; !exists {
		b.order = append(b.order, s.ID())
	}
	b.subscribers[s.ID()] = s
	b.logger.Debug().Str("subscriber_id", s.ID()).Msg("Subscriber added")
}

// Unsubscribe removes a subscriber or a function handler by ID.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		for i, sid := range b.order {
			if sid == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
		return
	}

	for eventType, handlers := range b.funcHandlers {
		for i, h := range handlers {
			if h.id == id {
				b.funcHandlers[eventType] = append(handlers[:i], handlers[i+1:]...)
				return
			}
		}
	}
}

// SubscribeFunc registers handler for one event type and returns its ID.
func (b *Bus) SubscribeFunc(eventType string, handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := fmt.Sprintf("%s#%d", eventType, b.nextID)
	b.funcHandlers[eventType] = append(b.funcHandlers[eventType], funcHandler{id: id, handler: handler})
	b.logger.Debug().Str("event_type", eventType).Str("handler_id", id).Msg("Function handler added")
	return id
}

// Publish delivers event to every interested subscriber, then to the function
// handlers for its type. A panicking receiver is logged and skipped.
func (b *Bus) Publish(event Event) {
	eventType := event.Type()

	// Snapshot receivers so handlers can publish or (un)subscribe re-entrantly.
	b.mu.RLock()
	subs := make([]Subscriber, 0, len(b.order))
	for _, id := range b.order {
		if s := b.subscribers[id]; s.InterestedIn(eventType) {
			subs = append(subs, s)
		}
	}
	handlers := append([]funcHandler(nil), b.funcHandlers[eventType]...)
	b.mu.RUnlock()

	b.logger.Debug().
		Str("event_type", eventType).
		Str("session_id", event.SessionID()).
		Time("timestamp", event.Timestamp()).
		Msg("Publishing event")

	for _, s := range subs {
		b.deliver(s.ID(), eventType, func() { s.HandleEvent(event) })
	}
	for _, h := range handlers {
		b.deliver(h.id, eventType, func() { h.handler(event) })
	}
}

func (b *Bus) deliver(receiverID, eventType string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("receiver_id", receiverID).
				Str("event_type", eventType).
				Interface("panic", r).
				Msg("Receiver panicked while handling event")
		}
	}()
	fn()
}

// SubscriberCount returns the number of object subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// HandlerCount returns the number of function handlers for eventType.
func (b *Bus) HandlerCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.funcHandlers[eventType])
}
