package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aescanero/musica/internal/application/catalog"
	"github.com/aescanero/musica/internal/domain"
)

// CreateSongRequest is the payload for adding a song to the catalog
type CreateSongRequest struct {
	Title    string `json:"titulo" binding:"required,min=1,max=200"`
	Artist   string `json:"artista" binding:"required,max=200"`
	Album    string `json:"album" binding:"omitempty,max=200"`
	Duration int    `json:"duracion" binding:"required,gt=0"`
	Year     int    `json:"año" binding:"omitempty,gte=1900,lte=2100"`
	Genre    string `json:"genero" binding:"omitempty,max=100"`
}

// UpdateSongRequest is the payload for a partial song update
type UpdateSongRequest struct {
	Title    *string `json:"titulo" binding:"omitempty,min=1,max=200"`
	Artist   *string `json:"artista" binding:"omitempty,max=200"`
	Album    *string `json:"album" binding:"omitempty,max=200"`
	Duration *int    `json:"duracion" binding:"omitempty,gt=0"`
	Year     *int    `json:"año" binding:"omitempty,gte=1900,lte=2100"`
	Genre    *string `json:"genero" binding:"omitempty,max=100"`
}

// handleListSongs handles listing the catalog with pagination
func (s *Server) handleListSongs(c *gin.Context) {
	skip, limit := pagination(c)

	songs, err := s.catalog.ListSongs(c.Request.Context(), skip, limit)
	if err != nil {
		s.logger.Error("failed to list songs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "INTERNAL", Message: "internal error"},
		})
		return
	}

	c.JSON(http.StatusOK, songs)
}

// handleCreateSong handles adding a song to the catalog
func (s *Server) handleCreateSong(c *gin.Context) {
	var req CreateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	song, err := s.catalog.CreateSong(c.Request.Context(), &domain.Song{
		Title:    req.Title,
		Artist:   req.Artist,
		Album:    req.Album,
		Duration: req.Duration,
		Year:     req.Year,
		Genre:    req.Genre,
	})
	if err != nil {
		s.songError(c, err)
		return
	}

	c.JSON(http.StatusCreated, song)
}

// handleSearchSongs searches the catalog by title, artist and genre
func (s *Server) handleSearchSongs(c *gin.Context) {
	filter := domain.SongFilter{
		Title:  strings.TrimSpace(c.Query("titulo")),
		Artist: strings.TrimSpace(c.Query("artista")),
		Genre:  strings.TrimSpace(c.Query("genero")),
	}

	songs, err := s.catalog.SearchSongs(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("failed to search songs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "INTERNAL", Message: "internal error"},
		})
		return
	}

	c.JSON(http.StatusOK, songs)
}

// handleGetSong handles getting a song by ID
func (s *Server) handleGetSong(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	song, err := s.catalog.GetSong(c.Request.Context(), id)
	if err != nil {
		s.songError(c, err)
		return
	}

	c.JSON(http.StatusOK, song)
}

// handleUpdateSong handles partial song updates
func (s *Server) handleUpdateSong(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	song, err := s.catalog.UpdateSong(c.Request.Context(), id, catalog.SongUpdate{
		Title:    req.Title,
		Artist:   req.Artist,
		Album:    req.Album,
		Duration: req.Duration,
		Year:     req.Year,
		Genre:    req.Genre,
	})
	if err != nil {
		s.songError(c, err)
		return
	}

	c.JSON(http.StatusOK, song)
}

// handleDeleteSong handles removing a song from the catalog
func (s *Server) handleDeleteSong(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.catalog.DeleteSong(c.Request.Context(), id); err != nil {
		s.songError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// songError maps catalog errors to HTTP responses
func (s *Server) songError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrSongNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{Code: "NOT_FOUND", Message: "song not found"},
		})
	case errors.Is(err, catalog.ErrInvalidSong):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{Code: "INVALID_SONG", Message: err.Error()},
		})
	default:
		s.logger.Error("song operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "INTERNAL", Message: "internal error"},
		})
	}
}
