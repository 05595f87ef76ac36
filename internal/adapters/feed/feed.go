package feed

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// DefaultBuffer is how many events a slow subscriber may fall behind before
// events are dropped for it
const DefaultBuffer = 256

// Event is one bus event in wire form
type Event struct {
	Seq     uint64               `json:"seq"`
	Name    string               `json:"name"`
	Clock   shared.ClockSnapshot `json:"clock"`
	Payload json.RawMessage      `json:"payload"`
}

// Feed fans bus events out to any number of live subscribers. The bus has
// no unsubscribe, so the feed subscribes once and keeps its own list.
// Publishing never blocks the simulation: a full subscriber misses events
// and its Dropped count grows.
type Feed struct {
	clock  func() shared.ClockSnapshot
	buffer int

	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	seq    atomic.Uint64
}

// Subscription receives events until Close
type Subscription struct {
	id      uint64
	feed    *Feed
	names   map[string]bool
	events  chan Event
	dropped atomic.Uint64
	once    sync.Once
}

// New attaches a feed to bus. clock stamps every event; nil leaves it zero.
func New(bus *shared.EventBus, clock func() shared.ClockSnapshot, buffer int) *Feed {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	f := &Feed{
		clock:  clock,
		buffer: buffer,
		subs:   make(map[uint64]*Subscription),
	}
	bus.SubscribeAll(f.publish)
	return f
}

// Subscribe starts a subscription. With names set, only those events are delivered.
func (f *Feed) Subscribe(names ...string) *Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	sub := &Subscription{
		id:     f.nextID,
		feed:   f,
		events: make(chan Event, f.buffer),
	}
	if len(names) > 0 {
		sub.names = make(map[string]bool, len(names))
		for _, n := range names {
			sub.names[n] = true
		}
	}
	f.subs[sub.id] = sub
	return sub
}

// Subscribers returns the live subscription count
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

func (f *Feed) publish(e shared.DomainEvent) {
	if f.Subscribers() == 0 {
		return
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return
	}
	event := Event{Seq: f.seq.Add(1), Name: e.EventName(), Payload: payload}
	if f.clock != nil {
		event.Clock = f.clock()
	}

	// sends are non-blocking, so holding the read lock keeps Close from
	// closing a channel mid-send without stalling the publisher
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, s := range f.subs {
		if s.names != nil && !s.names[event.Name] {
			continue
		}
		select {
		case s.events <- event:
		default:
			s.dropped.Add(1)
		}
	}
}

// Events is closed once the subscription is closed
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Dropped counts events lost because the subscriber was full
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Close detaches the subscription; calling it again is a no-op
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs, s.id)
		s.feed.mu.Unlock()
		close(s.events)
	})
}
