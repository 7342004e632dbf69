package domain

import (
	"fmt"
	"time"
)

// Role identifies the permission level of a user.
type Role string

const (
	RoleAdmin Role = "administrador"
	RoleUser  Role = "usuario"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents a registered account.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"nombre"`
	Email        string    `json:"correo"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"rol"`
	Active       bool      `json:"activo"`
	RegisteredAt time.Time `json:"fecha_registro"`
}

// Song represents a catalog entry.
type Song struct {
	ID        int64     `json:"id"`
	Title     string    `json:"titulo"`
	Artist    string    `json:"artista"`
	Album     string    `json:"album,omitempty"`
	Duration  int       `json:"duracion"`
	Year      int       `json:"año,omitempty"`
	Genre     string    `json:"genero,omitempty"`
	CreatedAt time.Time `json:"fecha_creacion"`
}

// MaxSongDuration is the longest accepted track length in seconds.
const MaxSongDuration = 7200

// Validate checks the song fields that cannot be expressed as static
// binding rules. Year zero means "not provided".
func (s *Song) Validate() error {
	if s.Duration <= 0 {
		return fmt.Errorf("duration must be greater than 0 seconds")
	}
	if s.Duration > MaxSongDuration {
		return fmt.Errorf("duration must not exceed %d seconds", MaxSongDuration)
	}
	if s.Year != 0 {
		if s.Year < 1900 || s.Year > 2100 {
			return fmt.Errorf("year must be between 1900 and 2100")
		}
		if max := time.Now().Year() + 1; s.Year > max {
			return fmt.Errorf("year must not be greater than %d", max)
		}
	}
	return nil
}

// Favorite links a user to a song in their favorites list.
type Favorite struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"id_usuario"`
	SongID   int64     `json:"id_cancion"`
	MarkedAt time.Time `json:"fecha_marcado"`
}

// FavoriteDetails is a favorite with its related user and song expanded.
type FavoriteDetails struct {
	ID       int64     `json:"id"`
	MarkedAt time.Time `json:"fecha_marcado"`
	User     *User     `json:"usuario"`
	Song     *Song     `json:"cancion"`
}

// SongFilter holds the search criteria for the catalog. Title and Artist
// are partial case-insensitive matches, Genre is an exact
// case-insensitive match. Empty fields are ignored; set fields combine
// with AND.
type SongFilter struct {
	Title  string
	Artist string
	Genre  string
}

// Empty reports whether no criteria are set.
func (f SongFilter) Empty() bool {
	return f.Title == "" && f.Artist == "" && f.Genre == ""
}
