package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aescanero/musica/internal/domain"
	"github.com/aescanero/musica/pkg/adapters/storage"
)

// Store implements storage.Store in memory.
// This is for testing purposes only.
type Store struct {
	mu sync.RWMutex

	users     map[int64]*domain.User
	songs     map[int64]*domain.Song
	favorites map[int64]*domain.Favorite

	nextUserID     int64
	nextSongID     int64
	nextFavoriteID int64
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		users:          make(map[int64]*domain.User),
		songs:          make(map[int64]*domain.Song),
		favorites:      make(map[int64]*domain.Favorite),
		nextUserID:     1,
		nextSongID:     1,
		nextFavoriteID: 1,
	}
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error { return nil }

// Close is a no-op
func (s *Store) Close() error { return nil }

// CreateUser inserts a new user
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return storage.ErrDuplicateEmail
		}
	}

	if user.RegisteredAt.IsZero() {
		user.RegisteredAt = time.Now().UTC()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	user.ID = s.nextUserID
	s.nextUserID++

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

// GetUser returns the user with the given ID
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

// GetUserByEmail returns the user with the given email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, storage.ErrNotFound
}

// ListUsers returns users ordered by ID with skip/limit pagination
func (s *Store) ListUsers(ctx context.Context, skip, limit int) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*domain.User, 0, len(s.users))
	for _, user := range s.users {
		clone := *user
		users = append(users, &clone)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return paginate(users, skip, limit), nil
}

// UpdateUser persists changes to an existing user
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return storage.ErrNotFound
	}
	for _, u := range s.users {
		if u.ID != user.ID && u.Email == user.Email {
			return storage.ErrDuplicateEmail
		}
	}

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

// DeleteUser removes a user and cascades to their favorites
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)

	for fid, f := range s.favorites {
		if f.UserID == id {
			delete(s.favorites, fid)
		}
	}
	return nil
}

// CountUsers returns the total number of users
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

// CreateSong inserts a new song
func (s *Store) CreateSong(ctx context.Context, song *domain.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if song.CreatedAt.IsZero() {
		song.CreatedAt = time.Now().UTC()
	}

	song.ID = s.nextSongID
	s.nextSongID++

	clone := *song
	s.songs[song.ID] = &clone
	return nil
}

// GetSong returns the song with the given ID
func (s *Store) GetSong(ctx context.Context, id int64) (*domain.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	song, ok := s.songs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *song
	return &clone, nil
}

// ListSongs returns songs ordered by ID with skip/limit pagination
func (s *Store) ListSongs(ctx context.Context, skip, limit int) ([]*domain.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return paginate(s.sortedSongs(), skip, limit), nil
}

// SearchSongs returns songs matching the filter
func (s *Store) SearchSongs(ctx context.Context, filter domain.SongFilter) ([]*domain.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := []*domain.Song{}
	for _, song := range s.sortedSongs() {
		if filter.Title != "" && !strings.Contains(strings.ToLower(song.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.Artist != "" && !strings.Contains(strings.ToLower(song.Artist), strings.ToLower(filter.Artist)) {
			continue
		}
		if filter.Genre != "" && !strings.EqualFold(song.Genre, filter.Genre) {
			continue
		}
		matches = append(matches, song)
	}
	return matches, nil
}

// UpdateSong persists changes to an existing song
func (s *Store) UpdateSong(ctx context.Context, song *domain.Song) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.songs[song.ID]; !ok {
		return storage.ErrNotFound
	}
	clone := *song
	s.songs[song.ID] = &clone
	return nil
}

// DeleteSong removes a song and cascades to its favorites
func (s *Store) DeleteSong(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.songs[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.songs, id)

	for fid, f := range s.favorites {
		if f.SongID == id {
			delete(s.favorites, fid)
		}
	}
	return nil
}

// CountSongs returns the total number of songs
func (s *Store) CountSongs(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.songs)), nil
}

// CreateFavorite inserts a new favorite link
func (s *Store) CreateFavorite(ctx context.Context, favorite *domain.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.favorites {
		if f.UserID == favorite.UserID && f.SongID == favorite.SongID {
			return storage.ErrDuplicateFavorite
		}
	}

	if favorite.MarkedAt.IsZero() {
		favorite.MarkedAt = time.Now().UTC()
	}

	favorite.ID = s.nextFavoriteID
	s.nextFavoriteID++

	clone := *favorite
	s.favorites[favorite.ID] = &clone
	return nil
}

// GetFavorite returns the favorite with the given ID
func (s *Store) GetFavorite(ctx context.Context, id int64) (*domain.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	favorite, ok := s.favorites[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *favorite
	return &clone, nil
}

// GetFavoriteByPair returns the favorite linking a user and a song
func (s *Store) GetFavoriteByPair(ctx context.Context, userID, songID int64) (*domain.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.favorites {
		if f.UserID == userID && f.SongID == songID {
			clone := *f
			return &clone, nil
		}
	}
	return nil, storage.ErrNotFound
}

// ListFavorites returns favorites ordered by ID with skip/limit pagination
func (s *Store) ListFavorites(ctx context.Context, skip, limit int) ([]*domain.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	favorites := make([]*domain.Favorite, 0, len(s.favorites))
	for _, f := range s.favorites {
		clone := *f
		favorites = append(favorites, &clone)
	}
	sort.Slice(favorites, func(i, j int) bool { return favorites[i].ID < favorites[j].ID })

	return paginate(favorites, skip, limit), nil
}

// ListUserFavoriteSongs returns the songs a user has marked as favorite
func (s *Store) ListUserFavoriteSongs(ctx context.Context, userID int64) ([]*domain.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	favorites := make([]*domain.Favorite, 0)
	for _, f := range s.favorites {
		if f.UserID == userID {
			favorites = append(favorites, f)
		}
	}
	sort.Slice(favorites, func(i, j int) bool { return favorites[i].ID < favorites[j].ID })

	songs := []*domain.Song{}
	for _, f := range favorites {
		if song, ok := s.songs[f.SongID]; ok {
			clone := *song
			songs = append(songs, &clone)
		}
	}
	return songs, nil
}

// DeleteFavorite removes a favorite by ID
func (s *Store) DeleteFavorite(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.favorites[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.favorites, id)
	return nil
}

// DeleteFavoriteByPair removes the favorite linking a user and a song
func (s *Store) DeleteFavoriteByPair(ctx context.Context, userID, songID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, f := range s.favorites {
		if f.UserID == userID && f.SongID == songID {
			delete(s.favorites, id)
			return nil
		}
	}
	return storage.ErrNotFound
}

// CountFavorites returns the total number of favorites
func (s *Store) CountFavorites(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.favorites)), nil
}

func (s *Store) sortedSongs() []*domain.Song {
	songs := make([]*domain.Song, 0, len(s.songs))
	for _, song := range s.songs {
		clone := *song
		songs = append(songs, &clone)
	}
	sort.Slice(songs, func(i, j int) bool { return songs[i].ID < songs[j].ID })
	return songs
}

func paginate[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
