package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aescanero/musica/internal/domain"
	"github.com/aescanero/musica/pkg/adapters/events"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewInMemoryEventBus()
	defer bus.Close()

	received := make(chan *domain.Event, 1)
	err := bus.Subscribe(context.Background(), events.TopicCatalog, func(ctx context.Context, event *domain.Event) error {
		received <- event
		return nil
	})
	require.NoError(t, err)

	event := &domain.Event{
		ID:        "evt-1",
		Type:      domain.EventSongCreated,
		Timestamp: time.Now(),
	}
	require.NoError(t, bus.Publish(context.Background(), events.TopicCatalog, event))

	select {
	case got := <-received:
		assert.Equal(t, "evt-1", got.ID)
		assert.Equal(t, domain.EventSongCreated, got.Type)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublishFanOut(t *testing.T) {
	bus := NewInMemoryEventBus()
	defer bus.Close()

	first := make(chan *domain.Event, 1)
	second := make(chan *domain.Event, 1)

	require.NoError(t, bus.Subscribe(context.Background(), events.TopicCatalog, func(ctx context.Context, e *domain.Event) error {
		first <- e
		return nil
	}))
	require.NoError(t, bus.Subscribe(context.Background(), events.TopicCatalog, func(ctx context.Context, e *domain.Event) error {
		second <- e
		return nil
	}))

	require.NoError(t, bus.Publish(context.Background(), events.TopicCatalog, &domain.Event{ID: "evt-2"}))

	for _, ch := range []chan *domain.Event{first, second} {
		select {
		case got := <-ch:
			assert.Equal(t, "evt-2", got.ID)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestPublishToOtherTopic(t *testing.T) {
	bus := NewInMemoryEventBus()
	defer bus.Close()

	received := make(chan *domain.Event, 1)
	require.NoError(t, bus.Subscribe(context.Background(), "topic-a", func(ctx context.Context, e *domain.Event) error {
		received <- e
		return nil
	}))

	require.NoError(t, bus.Publish(context.Background(), "topic-b", &domain.Event{ID: "evt-3"}))

	select {
	case <-received:
		t.Fatal("received event from a different topic")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscriptionEndsWithContext(t *testing.T) {
	bus := NewInMemoryEventBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan *domain.Event, 1)
	require.NoError(t, bus.Subscribe(ctx, events.TopicCatalog, func(ctx context.Context, e *domain.Event) error {
		received <- e
		return nil
	}))

	cancel()
	// Give the unsubscribe goroutine a moment to run
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, bus.Publish(context.Background(), events.TopicCatalog, &domain.Event{ID: "evt-4"}))

	select {
	case <-received:
		t.Fatal("received event after context cancellation")
	case <-time.After(100 * time.Millisecond):
	}
}
