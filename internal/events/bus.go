package events

import (
	"sync"
	"time"
)

// Handler processes a single event
type Handler func(Event)

// Bus provides event distribution across components.
// Handlers run on a single dispatch goroutine in emit order.
type Bus struct {
	mu       sync.Mutex
	handlers []Handler
	events   chan Event
	done     chan struct{}
}

// NewBus creates a new event bus with the specified capacity
func NewBus(capacity int) *Bus {
	b := &Bus{
		events: make(chan Event, capacity),
		done:   make(chan struct{}),
	}
	go b.dispatch()
	return b
}

// Subscribe registers a handler for all events.
// Must be called before the first Emit to guarantee delivery.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Emit publishes an event to all subscribed handlers.
// Blocks if the bus buffer is full.
func (b *Bus) Emit(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	b.events <- e
}

// Close shuts down the event bus after draining pending events
func (b *Bus) Close() error {
	close(b.events)
	<-b.done
	return nil
}

func (b *Bus) dispatch() {
	defer close(b.done)
	for e := range b.events {
		b.mu.Lock()
		handlers := make([]Handler, len(b.handlers))
		copy(handlers, b.handlers)
		b.mu.Unlock()

		for _, h := range handlers {
			h(e)
		}
	}
}
