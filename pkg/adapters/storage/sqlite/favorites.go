package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aescanero/musica/internal/domain"
	"github.com/aescanero/musica/pkg/adapters/storage"
)

// CreateFavorite inserts a new favorite link and fills in its ID
func (s *Store) CreateFavorite(ctx context.Context, favorite *domain.Favorite) error {
	if favorite.MarkedAt.IsZero() {
		favorite.MarkedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO favoritos (id_usuario, id_cancion, fecha_marcado)
		VALUES (?, ?, ?)`,
		favorite.UserID, favorite.SongID, favorite.MarkedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert favorite: %w", mapConstraintErr(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get favorite id: %w", err)
	}
	favorite.ID = id

	return nil
}

// GetFavorite returns the favorite with the given ID
func (s *Store) GetFavorite(ctx context.Context, id int64) (*domain.Favorite, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, id_usuario, id_cancion, fecha_marcado
		FROM favoritos WHERE id = ?`, id)

	return scanFavorite(row)
}

// GetFavoriteByPair returns the favorite linking a user and a song
func (s *Store) GetFavoriteByPair(ctx context.Context, userID, songID int64) (*domain.Favorite, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, id_usuario, id_cancion, fecha_marcado
		FROM favoritos WHERE id_usuario = ? AND id_cancion = ?`, userID, songID)

	return scanFavorite(row)
}

// ListFavorites returns favorites ordered by ID with skip/limit pagination
func (s *Store) ListFavorites(ctx context.Context, skip, limit int) ([]*domain.Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, id_usuario, id_cancion, fecha_marcado
		FROM favoritos ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	favorites := []*domain.Favorite{}
	for rows.Next() {
		favorite, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, favorite)
	}

	return favorites, rows.Err()
}

// ListUserFavoriteSongs returns the songs a user has marked as favorite
func (s *Store) ListUserFavoriteSongs(ctx context.Context, userID int64) ([]*domain.Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.titulo, c.artista, c.album, c.duracion, c.anio, c.genero, c.fecha_creacion
		FROM canciones c
		JOIN favoritos f ON f.id_cancion = c.id
		WHERE f.id_usuario = ?
		ORDER BY f.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite songs: %w", err)
	}
	defer rows.Close()

	return collectSongs(rows)
}

// DeleteFavorite removes a favorite by ID
func (s *Store) DeleteFavorite(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM favoritos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
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

// DeleteFavoriteByPair removes the favorite linking a user and a song
func (s *Store) DeleteFavoriteByPair(ctx context.Context, userID, songID int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM favoritos WHERE id_usuario = ? AND id_cancion = ?`, userID, songID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
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

// CountFavorites returns the total number of favorites
func (s *Store) CountFavorites(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM favoritos`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}

func scanFavorite(row rowScanner) (*domain.Favorite, error) {
	var favorite domain.Favorite

	err := row.Scan(&favorite.ID, &favorite.UserID, &favorite.SongID, &favorite.MarkedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan favorite: %w", err)
	}

	return &favorite, nil
}
