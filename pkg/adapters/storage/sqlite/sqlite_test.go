package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aescanero/musica/internal/domain"
	"github.com/aescanero/musica/pkg/adapters/storage"
)

// newTestStore creates an in-memory SQLite store for testing
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestUser(t *testing.T, s *Store, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$fakehash",
		Role:         domain.RoleUser,
		Active:       true,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	require.NotZero(t, user.ID)
	return user
}

func newTestSong(t *testing.T, s *Store, title, artist string) *domain.Song {
	t.Helper()
	song := &domain.Song{
		Title:    title,
		Artist:   artist,
		Album:    "Test Album",
		Duration: 180,
		Year:     2020,
		Genre:    "Rock",
	}
	require.NoError(t, s.CreateSong(context.Background(), song))
	require.NotZero(t, song.ID)
	return song
}

func TestUserCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := newTestUser(t, s, "ana@example.com")

	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Equal(t, domain.RoleUser, got.Role)
	assert.True(t, got.Active)
	assert.False(t, got.RegisteredAt.IsZero())

	got, err = s.GetUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	got.Name = "Ana Updated"
	got.Active = false
	require.NoError(t, s.UpdateUser(ctx, got))

	got, err = s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Updated", got.Name)
	assert.False(t, got.Active)

	require.NoError(t, s.DeleteUser(ctx, user.ID))

	_, err = s.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetUser(ctx, 999)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = s.DeleteUser(ctx, 999)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = s.UpdateUser(ctx, &domain.User{ID: 999, Name: "x", Email: "x@x.com"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	newTestUser(t, s, "dup@example.com")

	err := s.CreateUser(ctx, &domain.User{
		Name:         "Other",
		Email:        "dup@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleUser,
		Active:       true,
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateEmail)
}

func TestListUsersPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		newTestUser(t, s, email)
	}

	users, err := s.ListUsers(ctx, 0, 2)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = s.ListUsers(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	count, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSongCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	song := newTestSong(t, s, "Bohemian Rhapsody", "Queen")

	got, err := s.GetSong(ctx, song.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bohemian Rhapsody", got.Title)
	assert.Equal(t, "Queen", got.Artist)
	assert.Equal(t, 180, got.Duration)
	assert.Equal(t, 2020, got.Year)
	assert.False(t, got.CreatedAt.IsZero())

	got.Title = "Updated Title"
	got.Year = 1975
	require.NoError(t, s.UpdateSong(ctx, got))

	got, err = s.GetSong(ctx, song.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Title", got.Title)
	assert.Equal(t, 1975, got.Year)

	require.NoError(t, s.DeleteSong(ctx, song.ID))

	_, err = s.GetSong(ctx, song.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSongNullableFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	song := &domain.Song{
		Title:    "Minimal",
		Artist:   "Nobody",
		Duration: 60,
	}
	require.NoError(t, s.CreateSong(ctx, song))

	got, err := s.GetSong(ctx, song.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Album)
	assert.Zero(t, got.Year)
	assert.Empty(t, got.Genre)
}

func TestSearchSongs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := []*domain.Song{
		{Title: "Stairway to Heaven", Artist: "Led Zeppelin", Duration: 482, Genre: "Rock"},
		{Title: "Highway to Hell", Artist: "AC/DC", Duration: 208, Genre: "Rock"},
		{Title: "Take Five", Artist: "Dave Brubeck", Duration: 324, Genre: "Jazz"},
	}
	for _, song := range seed {
		require.NoError(t, s.CreateSong(ctx, song))
	}

	tests := []struct {
		name   string
		filter domain.SongFilter
		want   int
	}{
		{"by partial title case insensitive", domain.SongFilter{Title: "heaven"}, 1},
		{"by partial artist", domain.SongFilter{Artist: "zeppelin"}, 1},
		{"by genre exact", domain.SongFilter{Genre: "rock"}, 2},
		{"combined with AND", domain.SongFilter{Title: "to", Genre: "Rock"}, 2},
		{"no match", domain.SongFilter{Title: "nothing"}, 0},
		{"empty filter returns all", domain.SongFilter{}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			songs, err := s.SearchSongs(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, songs, tt.want)
		})
	}
}

func TestFavoriteCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := newTestUser(t, s, "fav@example.com")
	song := newTestSong(t, s, "Favorite Song", "Artist")

	fav := &domain.Favorite{UserID: user.ID, SongID: song.ID}
	require.NoError(t, s.CreateFavorite(ctx, fav))
	require.NotZero(t, fav.ID)

	got, err := s.GetFavorite(ctx, fav.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, song.ID, got.SongID)
	assert.False(t, got.MarkedAt.IsZero())

	byPair, err := s.GetFavoriteByPair(ctx, user.ID, song.ID)
	require.NoError(t, err)
	assert.Equal(t, fav.ID, byPair.ID)

	songs, err := s.ListUserFavoriteSongs(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "Favorite Song", songs[0].Title)

	require.NoError(t, s.DeleteFavorite(ctx, fav.ID))

	_, err = s.GetFavorite(ctx, fav.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDuplicateFavoritePair(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := newTestUser(t, s, "pair@example.com")
	song := newTestSong(t, s, "Song", "Artist")

	require.NoError(t, s.CreateFavorite(ctx, &domain.Favorite{UserID: user.ID, SongID: song.ID}))

	err := s.CreateFavorite(ctx, &domain.Favorite{UserID: user.ID, SongID: song.ID})
	assert.ErrorIs(t, err, storage.ErrDuplicateFavorite)
}

func TestDeleteFavoriteByPair(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := newTestUser(t, s, "unpair@example.com")
	song := newTestSong(t, s, "Song", "Artist")

	require.NoError(t, s.CreateFavorite(ctx, &domain.Favorite{UserID: user.ID, SongID: song.ID}))
	require.NoError(t, s.DeleteFavoriteByPair(ctx, user.ID, song.ID))

	err := s.DeleteFavoriteByPair(ctx, user.ID, song.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCascadeDeleteFavorites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := newTestUser(t, s, "cascade@example.com")
	song := newTestSong(t, s, "Song", "Artist")
	other := newTestSong(t, s, "Other", "Artist")

	require.NoError(t, s.CreateFavorite(ctx, &domain.Favorite{UserID: user.ID, SongID: song.ID}))
	require.NoError(t, s.CreateFavorite(ctx, &domain.Favorite{UserID: user.ID, SongID: other.ID}))

	// Deleting the song removes its favorites but not the user's other ones
	require.NoError(t, s.DeleteSong(ctx, song.ID))

	count, err := s.CountFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Deleting the user removes the rest
	require.NoError(t, s.DeleteUser(ctx, user.ID))

	count, err = s.CountFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}
