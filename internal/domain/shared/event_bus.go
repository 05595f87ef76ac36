package shared

import "sync"

// DomainEvent is a notification published by a simulation component
type DomainEvent interface {
	EventName() string
}

// EventHandler receives published events
type EventHandler func(DomainEvent)

// EventBus delivers events synchronously to explicit subscriber lists.
//
// Handlers run on the publisher's goroutine in subscription order, so every
// consequence of a tick is applied before the tick returns. Components must
// release their own locks before publishing; a handler may call back into
// the publisher.
type EventBus struct {
	mu       sync.RWMutex
	byName   map[string][]EventHandler
	wildcard []EventHandler
}

// NewEventBus creates an empty bus
func NewEventBus() *EventBus {
	return &EventBus{byName: make(map[string][]EventHandler)}
}

// Subscribe registers h for events with the given name
func (b *EventBus) Subscribe(name string, h EventHandler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byName[name] = append(b.byName[name], h)
}

// SubscribeAll registers h for every event
func (b *EventBus) SubscribeAll(h EventHandler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wildcard = append(b.wildcard, h)
}

// Publish delivers each event to named subscribers first, then wildcard ones.
// A nil bus is a valid no-op publisher.
func (b *EventBus) Publish(events ...DomainEvent) {
	if b == nil {
		return
	}
	for _, e := range events {
		if e == nil {
			continue
		}
		b.mu.RLock()
		handlers := make([]EventHandler, 0, len(b.byName[e.EventName()])+len(b.wildcard))
		handlers = append(handlers, b.byName[e.EventName()]...)
		handlers = append(handlers, b.wildcard...)
		b.mu.RUnlock()

		for _, h := range handlers {
			h(e)
		}
	}
}
