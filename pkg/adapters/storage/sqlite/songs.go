package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aescanero/musica/internal/domain"
	"github.com/aescanero/musica/pkg/adapters/storage"
)

// CreateSong inserts a new song and fills in its ID
func (s *Store) CreateSong(ctx context.Context, song *domain.Song) error {
	if song.CreatedAt.IsZero() {
		song.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO canciones (titulo, artista, album, duracion, anio, genero, fecha_creacion)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		song.Title, song.Artist, nullString(song.Album), song.Duration,
		nullInt(song.Year), nullString(song.Genre), song.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get song id: %w", err)
	}
	song.ID = id

	return nil
}

// GetSong returns the song with the given ID
func (s *Store) GetSong(ctx context.Context, id int64) (*domain.Song, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, titulo, artista, album, duracion, anio, genero, fecha_creacion
		FROM canciones WHERE id = ?`, id)

	return scanSong(row)
}

// ListSongs returns songs ordered by ID with skip/limit pagination
func (s *Store) ListSongs(ctx context.Context, skip, limit int) ([]*domain.Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, titulo, artista, album, duracion, anio, genero, fecha_creacion
		FROM canciones ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

// SearchSongs returns songs matching the filter. Title and artist are
// partial case-insensitive matches; genre is exact case-insensitive.
func (s *Store) SearchSongs(ctx context.Context, filter domain.SongFilter) ([]*domain.Song, error) {
	query := `
		SELECT id, titulo, artista, album, duracion, anio, genero, fecha_creacion
		FROM canciones`

	var (
		conds []string
		args  []interface{}
	)

	if filter.Title != "" {
		conds = append(conds, "LOWER(titulo) LIKE ?")
		args = append(args, "%"+strings.ToLower(filter.Title)+"%")
	}
	if filter.Artist != "" {
		conds = append(conds, "LOWER(artista) LIKE ?")
		args = append(args, "%"+strings.ToLower(filter.Artist)+"%")
	}
	if filter.Genre != "" {
		conds = append(conds, "LOWER(genero) = ?")
		args = append(args, strings.ToLower(filter.Genre))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search songs: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

// UpdateSong persists changes to an existing song
func (s *Store) UpdateSong(ctx context.Context, song *domain.Song) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE canciones
		SET titulo = ?, artista = ?, album = ?, duracion = ?, anio = ?, genero = ?
		WHERE id = ?`,
		song.Title, song.Artist, nullString(song.Album), song.Duration,
		nullInt(song.Year), nullString(song.Genre), song.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteSong removes a song; favorites cascade through the foreign key
func (s *Store) DeleteSong(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM canciones WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// CountSongs returns the total number of songs
func (s *Store) CountSongs(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM canciones`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return count, nil
}

func scanSong(row rowScanner) (*domain.Song, error) {
	var (
		song  domain.Song
		album sql.NullString
		year  sql.NullInt64
		genre sql.NullString
	)

	err := row.Scan(&song.ID, &song.Title, &song.Artist, &album, &song.Duration, &year, &genre, &song.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	song.Album = album.String
	song.Year = int(year.Int64)
	song.Genre = genre.String
	return &song, nil
}

func collectSongs(rows *sql.Rows) ([]*domain.Song, error) {
	songs := []*domain.Song{}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(i int) interface{} {
	if i == 0 {
		return nil
	}
	return i
}
