package cache

import (
	"context"

	"github.com/aescanero/musica/internal/domain"
)

// SongCache caches catalog listings keyed by pagination window. Misses
// return (nil, nil); the caller falls through to the store.
type SongCache interface {
	GetSongs(ctx context.Context, skip, limit int) ([]*domain.Song, error)
	SetSongs(ctx context.Context, skip, limit int, songs []*domain.Song) error

	// Invalidate drops all cached listings. Called after any catalog write.
	Invalidate(ctx context.Context) error
}

// Noop is a SongCache that caches nothing. Used when Redis is disabled.
type Noop struct{}

// GetSongs always misses
func (Noop) GetSongs(ctx context.Context, skip, limit int) ([]*domain.Song, error) {
	return nil, nil
}

// SetSongs discards the entry
func (Noop) SetSongs(ctx context.Context, skip, limit int, songs []*domain.Song) error {
	return nil
}

// Invalidate is a no-op
func (Noop) Invalidate(ctx context.Context) error { return nil }
