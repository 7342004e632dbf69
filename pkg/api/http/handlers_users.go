package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aescanero/musica/internal/application/accounts"
	"github.com/aescanero/musica/internal/application/catalog"
	"github.com/aescanero/musica/internal/domain"
	"github.com/aescanero/musica/pkg/adapters/storage"
)

// CreateUserRequest is the payload for creating a user. Unlike public
// registration it may set the role.
type CreateUserRequest struct {
	Name     string `json:"nombre" binding:"required,min=2,max=100"`
	Email    string `json:"correo" binding:"required,email,max=255"`
	Password string `json:"contraseña" binding:"required,min=6"`
	Role     string `json:"rol"`
}

// UpdateUserRequest is the payload for a partial user update
type UpdateUserRequest struct {
	Name     *string `json:"nombre" binding:"omitempty,min=2,max=100"`
	Email    *string `json:"correo" binding:"omitempty,email,max=255"`
	Password *string `json:"contraseña" binding:"omitempty,min=6"`
	Active   *bool   `json:"activo"`
}

// handleListUsers handles listing users with pagination
func (s *Server) handleListUsers(c *gin.Context) {
	skip, limit := pagination(c)

	users, err := s.accounts.ListUsers(c.Request.Context(), skip, limit)
	if err != nil {
		s.logger.Error("failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "INTERNAL", Message: "internal error"},
		})
		return
	}

	c.JSON(http.StatusOK, users)
}

// handleCreateUser handles user creation
func (s *Server) handleCreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := s.accounts.CreateUser(c.Request.Context(), req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: ErrorDetail{Code: "EMAIL_TAKEN", Message: "email is already registered"},
			})
			return
		}
		s.logger.Error("failed to create user", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// handleGetUser handles getting a user by ID
func (s *Server) handleGetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := s.accounts.GetUser(c.Request.Context(), id)
	if err != nil {
		s.userError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// handleUpdateUser handles partial user updates
func (s *Server) handleUpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	update := accounts.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Active:   req.Active,
	}

	user, err := s.accounts.UpdateUser(c.Request.Context(), id, update)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: ErrorDetail{Code: "EMAIL_TAKEN", Message: "email is already in use"},
			})
			return
		}
		s.userError(c, id, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// handleDeleteUser handles user deletion
func (s *Server) handleDeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.accounts.DeleteUser(c.Request.Context(), id); err != nil {
		s.userError(c, id, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// handleListUserFavorites returns the songs a user marked as favorite
func (s *Server) handleListUserFavorites(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	songs, err := s.catalog.UserFavoriteSongs(c.Request.Context(), id)
	if err != nil {
		s.favoriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, songs)
}

// handleMarkFavorite marks a song as favorite for a user
func (s *Server) handleMarkFavorite(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	songID, ok := pathID(c, "song_id")
	if !ok {
		return
	}

	favorite, err := s.catalog.CreateFavorite(c.Request.Context(), userID, songID)
	if err != nil {
		s.favoriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

// handleUnmarkFavorite removes a song from a user's favorites
func (s *Server) handleUnmarkFavorite(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	songID, ok := pathID(c, "song_id")
	if !ok {
		return
	}

	if err := s.catalog.DeleteFavoritePair(c.Request.Context(), userID, songID); err != nil {
		s.favoriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// userError maps account lookup errors to HTTP responses
func (s *Server) userError(c *gin.Context, id int64, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{Code: "NOT_FOUND", Message: "user not found"},
		})
		return
	}
	s.logger.Error("user operation failed", zap.Int64("user_id", id), zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{Code: "INTERNAL", Message: "internal error"},
	})
}

// favoriteError maps favorite operation errors to HTTP responses
func (s *Server) favoriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{Code: "NOT_FOUND", Message: "user not found"},
		})
	case errors.Is(err, catalog.ErrSongNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{Code: "NOT_FOUND", Message: "song not found"},
		})
	case errors.Is(err, catalog.ErrFavoriteNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{Code: "NOT_FOUND", Message: "favorite not found"},
		})
	case errors.Is(err, storage.ErrDuplicateFavorite):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{Code: "ALREADY_FAVORITE", Message: "song is already marked as favorite"},
		})
	default:
		s.logger.Error("favorite operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "INTERNAL", Message: "internal error"},
		})
	}
}
