package events

import (
	"context"

	"github.com/aescanero/musica/internal/domain"
)

// TopicCatalog carries all catalog change events.
const TopicCatalog = "catalog.events"

// Handler processes a single event.
type Handler func(ctx context.Context, event *domain.Event) error

// Bus publishes and delivers catalog change events.
type Bus interface {
	// Publish sends an event to all subscribers of a topic.
	Publish(ctx context.Context, topic string, event *domain.Event) error

	// Subscribe registers a handler for a topic. Delivery stops when the
	// context is cancelled.
	Subscribe(ctx context.Context, topic string, handler Handler) error

	// Close releases bus resources.
	Close() error
}
