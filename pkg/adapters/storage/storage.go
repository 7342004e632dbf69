package storage

import (
	"context"
	"errors"

	"github.com/aescanero/musica/internal/domain"
)

// Sentinel errors returned by store implementations. Handlers map these
// to HTTP status codes.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateFavorite = errors.New("song already marked as favorite")
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id int64) error
	CountUsers(ctx context.Context) (int64, error)
}

// SongStore persists the song catalog.
type SongStore interface {
	CreateSong(ctx context.Context, song *domain.Song) error
	GetSong(ctx context.Context, id int64) (*domain.Song, error)
	ListSongs(ctx context.Context, skip, limit int) ([]*domain.Song, error)
	SearchSongs(ctx context.Context, filter domain.SongFilter) ([]*domain.Song, error)
	UpdateSong(ctx context.Context, song *domain.Song) error
	DeleteSong(ctx context.Context, id int64) error
	CountSongs(ctx context.Context) (int64, error)
}

// FavoriteStore persists user/song favorite links.
type FavoriteStore interface {
	CreateFavorite(ctx context.Context, favorite *domain.Favorite) error
	GetFavorite(ctx context.Context, id int64) (*domain.Favorite, error)
	GetFavoriteByPair(ctx context.Context, userID, songID int64) (*domain.Favorite, error)
	ListFavorites(ctx context.Context, skip, limit int) ([]*domain.Favorite, error)
	ListUserFavoriteSongs(ctx context.Context, userID int64) ([]*domain.Song, error)
	DeleteFavorite(ctx context.Context, id int64) error
	DeleteFavoriteByPair(ctx context.Context, userID, songID int64) error
	CountFavorites(ctx context.Context) (int64, error)
}

// Store is the full persistence surface of the service. Deleting a user
// or song must cascade to its favorites.
type Store interface {
	UserStore
	SongStore
	FavoriteStore

	Ping(ctx context.Context) error
	Close() error
}
