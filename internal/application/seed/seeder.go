package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aescanero/musica/internal/auth"
	"github.com/aescanero/musica/internal/domain"
	"github.com/aescanero/musica/pkg/adapters/storage"
)

// seedPassword is the password every seeded account starts with.
const seedPassword = "pass1234"

var seedUsers = []struct {
	name  string
	email string
}{
	{"Ana Perez", "ana.perez@example.com"},
	{"Carlos Ruiz", "carlos.ruiz@example.com"},
	{"Maria Gomez", "maria.gomez@example.com"},
	{"Jorge Herrera", "jorge.herrera@example.com"},
	{"Lucia Torres", "lucia.torres@example.com"},
}

var seedSongs = []domain.Song{
	{Title: "Cancion 1", Artist: "Artista A", Album: "Album X", Duration: 210, Year: 2018, Genre: "Pop"},
	{Title: "Cancion 2", Artist: "Artista B", Album: "Album Y", Duration: 185, Year: 2019, Genre: "Rock"},
	{Title: "Cancion 3", Artist: "Artista A", Album: "Album Z", Duration: 240, Year: 2020, Genre: "Pop"},
	{Title: "Cancion 4", Artist: "Artista C", Album: "Album X", Duration: 200, Year: 2017, Genre: "Jazz"},
	{Title: "Cancion 5", Artist: "Artista D", Album: "Album W", Duration: 230, Year: 2015, Genre: "Clasica"},
	{Title: "Cancion 6", Artist: "Artista E", Album: "Album V", Duration: 195, Year: 2021, Genre: "Rock"},
	{Title: "Cancion 7", Artist: "Artista F", Album: "Album U", Duration: 205, Year: 2016, Genre: "Pop"},
	{Title: "Cancion 8", Artist: "Artista G", Album: "Album T", Duration: 180, Year: 2022, Genre: "Electronic"},
	{Title: "Cancion 9", Artist: "Artista H", Album: "Album S", Duration: 260, Year: 2014, Genre: "Metal"},
	{Title: "Cancion 10", Artist: "Artista I", Album: "Album R", Duration: 175, Year: 2023, Genre: "Indie"},
}

// Seeder inserts the development fixture data
type Seeder struct {
	store  storage.Store
	logger *zap.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(store storage.Store, logger *zap.Logger) *Seeder {
	return &Seeder{store: store, logger: logger}
}

// Run inserts the fixture users and songs, skipping entries that already
// exist. Users are matched by email, songs by title.
func (s *Seeder) Run(ctx context.Context) error {
	created := 0

	for _, u := range seedUsers {
		_, err := s.store.GetUserByEmail(ctx, u.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to check user %s: %w", u.email, err)
		}

		hash, err := auth.HashPassword(seedPassword)
		if err != nil {
			return err
		}

		user := &domain.User{
			Name:         u.name,
			Email:        u.email,
			PasswordHash: hash,
			Role:         domain.RoleUser,
			Active:       true,
		}
		if err := s.store.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.email, err)
		}
		created++
	}

	existing, err := s.store.SearchSongs(ctx, domain.SongFilter{})
	if err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}
	titles := make(map[string]bool, len(existing))
	for _, song := range existing {
		titles[song.Title] = true
	}

	for _, song := range seedSongs {
		if titles[song.Title] {
			continue
		}
		entry := song
		if err := s.store.CreateSong(ctx, &entry); err != nil {
			return fmt.Errorf("failed to seed song %s: %w", song.Title, err)
		}
		created++
	}

	s.logger.Info("seed complete", zap.Int("created", created))
	return nil
}
