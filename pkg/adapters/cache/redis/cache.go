package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aescanero/musica/internal/domain"
)

const keyPrefix = "musica:songs:"

// SongCache implements cache.SongCache using Redis
type SongCache struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewSongCache creates a new Redis song listing cache
func NewSongCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SongCache {
	return &SongCache{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// GetSongs returns a cached listing, or (nil, nil) on a miss
func (c *SongCache) GetSongs(ctx context.Context, skip, limit int) ([]*domain.Song, error) {
	data, err := c.client.Get(ctx, listKey(skip, limit)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached listing: %w", err)
	}

	var songs []*domain.Song
	if err := json.Unmarshal(data, &songs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached listing: %w", err)
	}

	return songs, nil
}

// SetSongs caches a listing with the configured TTL
func (c *SongCache) SetSongs(ctx context.Context, skip, limit int, songs []*domain.Song) error {
	data, err := json.Marshal(songs)
	if err != nil {
		return fmt.Errorf("failed to marshal listing: %w", err)
	}

	if err := c.client.Set(ctx, listKey(skip, limit), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache listing: %w", err)
	}

	c.logger.Debug("listing cached",
		zap.Int("skip", skip),
		zap.Int("limit", limit),
		zap.Int("songs", len(songs)))

	return nil
}

// Invalidate drops every cached listing
func (c *SongCache) Invalidate(ctx context.Context) error {
	pattern := keyPrefix + "*"

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return nil
}

// listKey returns the Redis key for a pagination window
func listKey(skip, limit int) string {
	return fmt.Sprintf("%s%d:%d", keyPrefix, skip, limit)
}
