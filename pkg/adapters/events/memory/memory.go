package memory

import (
	"context"
	"sync"

	"github.com/aescanero/musica/internal/domain"
	"github.com/aescanero/musica/pkg/adapters/events"
)

// subscription pairs a handler with the context that bounds it.
type subscription struct {
	ctx     context.Context
	handler events.Handler
}

// InMemoryEventBus implements events.Bus using in-process handlers
type InMemoryEventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]*subscription
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make(map[string][]*subscription),
	}
}

// Publish publishes an event to all subscribers of a topic
func (e *InMemoryEventBus) Publish(ctx context.Context, topic string, event *domain.Event) error {
	e.mu.RLock()
	subs := make([]*subscription, len(e.subscribers[topic]))
	copy(subs, e.subscribers[topic])
	e.mu.RUnlock()

	for _, sub := range subs {
		if sub.ctx.Err() != nil {
			continue
		}
		go func(s *subscription) {
			// Handler errors are the subscriber's concern
			_ = s.handler(ctx, event)
		}(sub)
	}

	return nil
}

// Subscribe subscribes to events on a specific topic
func (e *InMemoryEventBus) Subscribe(ctx context.Context, topic string, handler events.Handler) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sub := &subscription{ctx: ctx, handler: handler}
	e.subscribers[topic] = append(e.subscribers[topic], sub)

	go func() {
		<-ctx.Done()
		e.unsubscribe(topic, sub)
	}()

	return nil
}

// Close closes the event bus and cleans up resources
func (e *InMemoryEventBus) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.subscribers = make(map[string][]*subscription)
	return nil
}

// unsubscribe removes a subscription from a topic
func (e *InMemoryEventBus) unsubscribe(topic string, sub *subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()

	subs := e.subscribers[topic]
	for i, s := range subs {
		if s == sub {
			e.subscribers[topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
}
