package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aescanero/musica/internal/domain"
	"github.com/aescanero/musica/pkg/adapters/cache"
	"github.com/aescanero/musica/pkg/adapters/events"
	"github.com/aescanero/musica/pkg/adapters/metrics"
	"github.com/aescanero/musica/pkg/adapters/storage"
)

// Errors identifying which entity a favorite operation failed on.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSongNotFound     = errors.New("song not found")
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrInvalidSong      = errors.New("invalid song")
)

// Manager handles the song catalog and favorites
type Manager struct {
	store    storage.Store
	cache    cache.SongCache
	eventBus events.Bus
	metrics  metrics.Recorder
	logger   *zap.Logger
}

// NewManager creates a new catalog manager
func NewManager(
	store storage.Store,
	songCache cache.SongCache,
	eventBus events.Bus,
	rec metrics.Recorder,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		store:    store,
		cache:    songCache,
		eventBus: eventBus,
		metrics:  rec,
		logger:   logger,
	}
}

// CreateSong validates and stores a new song
func (m *Manager) CreateSong(ctx context.Context, song *domain.Song) (*domain.Song, error) {
	if err := song.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSong, err)
	}

	if err := m.store.CreateSong(ctx, song); err != nil {
		return nil, err
	}

	m.logger.Info("song created",
		zap.Int64("song_id", song.ID),
		zap.String("title", song.Title))
	m.metrics.IncEntityWrite("song", "create")
	m.invalidateListings(ctx)
	m.publish(ctx, domain.EventSongCreated, map[string]interface{}{
		"song_id": song.ID,
		"titulo":  song.Title,
	})

	return song, nil
}

// GetSong returns a song by ID
func (m *Manager) GetSong(ctx context.Context, id int64) (*domain.Song, error) {
	song, err := m.store.GetSong(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}
	return song, nil
}

// ListSongs returns songs with skip/limit pagination, served from the
// listing cache when possible.
func (m *Manager) ListSongs(ctx context.Context, skip, limit int) ([]*domain.Song, error) {
	if cached, err := m.cache.GetSongs(ctx, skip, limit); err != nil {
		m.logger.Warn("cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	songs, err := m.store.ListSongs(ctx, skip, limit)
	if err != nil {
		return nil, err
	}

	if err := m.cache.SetSongs(ctx, skip, limit, songs); err != nil {
		m.logger.Warn("cache write failed", zap.Error(err))
	}

	return songs, nil
}

// SearchSongs returns songs matching the filter
func (m *Manager) SearchSongs(ctx context.Context, filter domain.SongFilter) ([]*domain.Song, error) {
	return m.store.SearchSongs(ctx, filter)
}

// SongUpdate holds the optional fields of a song update
type SongUpdate struct {
	Title    *string
	Artist   *string
	Album    *string
	Duration *int
	Year     *int
	Genre    *string
}

// UpdateSong applies a partial update to an existing song
func (m *Manager) UpdateSong(ctx context.Context, id int64, update SongUpdate) (*domain.Song, error) {
	song, err := m.GetSong(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		song.Title = *update.Title
	}
	if update.Artist != nil {
		song.Artist = *update.Artist
	}
	if update.Album != nil {
		song.Album = *update.Album
	}
	if update.Duration != nil {
		song.Duration = *update.Duration
	}
	if update.Year != nil {
		song.Year = *update.Year
	}
	if update.Genre != nil {
		song.Genre = *update.Genre
	}

	if err := song.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSong, err)
	}

	if err := m.store.UpdateSong(ctx, song); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}

	m.metrics.IncEntityWrite("song", "update")
	m.invalidateListings(ctx)
	m.publish(ctx, domain.EventSongUpdated, map[string]interface{}{
		"song_id": song.ID,
	})

	return song, nil
}

// DeleteSong removes a song. The store cascades to its favorites.
func (m *Manager) DeleteSong(ctx context.Context, id int64) error {
	if err := m.store.DeleteSong(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrSongNotFound
		}
		return err
	}

	m.metrics.IncEntityWrite("song", "delete")
	m.invalidateListings(ctx)
	m.publish(ctx, domain.EventSongDeleted, map[string]interface{}{
		"song_id": id,
	})

	return nil
}

// CreateFavorite marks a song as favorite for a user. The user and the
// song must both exist and the pair must not already be marked.
func (m *Manager) CreateFavorite(ctx context.Context, userID, songID int64) (*domain.Favorite, error) {
	if _, err := m.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if _, err := m.store.GetSong(ctx, songID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}

	if _, err := m.store.GetFavoriteByPair(ctx, userID, songID); err == nil {
		return nil, storage.ErrDuplicateFavorite
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	favorite := &domain.Favorite{UserID: userID, SongID: songID}
	if err := m.store.CreateFavorite(ctx, favorite); err != nil {
		return nil, err
	}

	m.metrics.IncEntityWrite("favorite", "create")
	m.publish(ctx, domain.EventFavoriteCreated, map[string]interface{}{
		"favorite_id": favorite.ID,
		"user_id":     userID,
		"song_id":     songID,
	})

	return favorite, nil
}

// ListFavorites returns favorites with skip/limit pagination
func (m *Manager) ListFavorites(ctx context.Context, skip, limit int) ([]*domain.Favorite, error) {
	return m.store.ListFavorites(ctx, skip, limit)
}

// GetFavoriteDetails returns a favorite with its user and song expanded
func (m *Manager) GetFavoriteDetails(ctx context.Context, id int64) (*domain.FavoriteDetails, error) {
	favorite, err := m.store.GetFavorite(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrFavoriteNotFound
		}
		return nil, err
	}

	user, err := m.store.GetUser(ctx, favorite.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite user: %w", err)
	}
	song, err := m.store.GetSong(ctx, favorite.SongID)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite song: %w", err)
	}

	return &domain.FavoriteDetails{
		ID:       favorite.ID,
		MarkedAt: favorite.MarkedAt,
		User:     user,
		Song:     song,
	}, nil
}

// UserFavoriteSongs returns the songs a user has marked as favorite
func (m *Manager) UserFavoriteSongs(ctx context.Context, userID int64) ([]*domain.Song, error) {
	if _, err := m.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return m.store.ListUserFavoriteSongs(ctx, userID)
}

// DeleteFavorite removes a favorite by ID
func (m *Manager) DeleteFavorite(ctx context.Context, id int64) error {
	if err := m.store.DeleteFavorite(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrFavoriteNotFound
		}
		return err
	}

	m.metrics.IncEntityWrite("favorite", "delete")
	m.publish(ctx, domain.EventFavoriteDeleted, map[string]interface{}{
		"favorite_id": id,
	})

	return nil
}

// DeleteFavoritePair removes the favorite linking a user and a song
func (m *Manager) DeleteFavoritePair(ctx context.Context, userID, songID int64) error {
	if err := m.store.DeleteFavoriteByPair(ctx, userID, songID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrFavoriteNotFound
		}
		return err
	}

	m.metrics.IncEntityWrite("favorite", "delete")
	m.publish(ctx, domain.EventFavoriteDeleted, map[string]interface{}{
		"user_id": userID,
		"song_id": songID,
	})

	return nil
}

func (m *Manager) invalidateListings(ctx context.Context) {
	if err := m.cache.Invalidate(ctx); err != nil {
		m.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

func (m *Manager) publish(ctx context.Context, eventType domain.EventType, data map[string]interface{}) {
	event := &domain.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}

	if err := m.eventBus.Publish(ctx, events.TopicCatalog, event); err != nil {
		m.logger.Warn("failed to publish event",
			zap.String("type", string(eventType)),
			zap.Error(err))
		return
	}
	m.metrics.IncEventPublished(string(eventType))
}
