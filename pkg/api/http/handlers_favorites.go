package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateFavoriteRequest is the payload for marking a favorite
type CreateFavoriteRequest struct {
	UserID int64 `json:"id_usuario" binding:"required,gt=0"`
	SongID int64 `json:"id_cancion" binding:"required,gt=0"`
}

// handleListFavorites handles listing favorites with pagination
func (s *Server) handleListFavorites(c *gin.Context) {
	skip, limit := pagination(c)

	favorites, err := s.catalog.ListFavorites(c.Request.Context(), skip, limit)
	if err != nil {
		s.logger.Error("failed to list favorites", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "INTERNAL", Message: "internal error"},
		})
		return
	}

	c.JSON(http.StatusOK, favorites)
}

// handleCreateFavorite marks a song as favorite for a user
func (s *Server) handleCreateFavorite(c *gin.Context) {
	var req CreateFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	favorite, err := s.catalog.CreateFavorite(c.Request.Context(), req.UserID, req.SongID)
	if err != nil {
		s.favoriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

// handleGetFavorite returns a favorite with its user and song expanded
func (s *Server) handleGetFavorite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	details, err := s.catalog.GetFavoriteDetails(c.Request.Context(), id)
	if err != nil {
		s.favoriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// handleDeleteFavorite removes a favorite by ID
func (s *Server) handleDeleteFavorite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.catalog.DeleteFavorite(c.Request.Context(), id); err != nil {
		s.favoriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
