package domain

import "time"

// EventType identifies a catalog change event.
type EventType string

const (
	EventUserCreated     EventType = "user.created"
	EventUserUpdated     EventType = "user.updated"
	EventUserDeleted     EventType = "user.deleted"
	EventSongCreated     EventType = "song.created"
	EventSongUpdated     EventType = "song.updated"
	EventSongDeleted     EventType = "song.deleted"
	EventFavoriteCreated EventType = "favorite.created"
	EventFavoriteDeleted EventType = "favorite.deleted"
)

// Event is a catalog change notification published on the event bus and
// streamed to WebSocket subscribers.
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
