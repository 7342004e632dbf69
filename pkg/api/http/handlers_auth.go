package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aescanero/musica/internal/application/accounts"
	"github.com/aescanero/musica/pkg/adapters/storage"
)

// LoginRequest is the JSON login payload
type LoginRequest struct {
	Email    string `json:"correo" binding:"required,email"`
	Password string `json:"contraseña" binding:"required,min=6"`
}

// RegisterRequest is the public sign-up payload
type RegisterRequest struct {
	Name     string `json:"nombre" binding:"required,min=2,max=100"`
	Email    string `json:"correo" binding:"required,email,max=255"`
	Password string `json:"contraseña" binding:"required,min=6"`
}

// TokenResponse carries a minted access token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"rol"`
}

// handleLogin authenticates form credentials (username=email) and
// returns an access token.
func (s *Server) handleLogin(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")
	if email == "" || password == "" {
		badRequest(c, errors.New("username and password are required"))
		return
	}

	s.login(c, email, password)
}

// handleLoginJSON authenticates JSON credentials and returns an access
// token.
func (s *Server) handleLoginJSON(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	s.login(c, req.Email, req.Password)
}

func (s *Server) login(c *gin.Context, email, password string) {
	user, token, err := s.accounts.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrInvalidCredentials):
			s.unauthorized(c, "incorrect credentials")
		case errors.Is(err, accounts.ErrUserInactive):
			c.JSON(http.StatusForbidden, ErrorResponse{
				Error: ErrorDetail{Code: "USER_INACTIVE", Message: "user is inactive, contact an administrator"},
			})
		default:
			s.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: ErrorDetail{Code: "INTERNAL", Message: "internal error"},
			})
		}
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        string(user.Role),
	})
}

// handleRegister creates a new account with the regular user role
func (s *Server) handleRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := s.accounts.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: ErrorDetail{Code: "EMAIL_TAKEN", Message: "email is already registered"},
			})
			return
		}
		s.logger.Error("registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "INTERNAL", Message: "internal error"},
		})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// handleProfile returns the authenticated user
func (s *Server) handleProfile(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// handleVerifyToken confirms the token is valid and summarizes the
// authenticated identity.
func (s *Server) handleVerifyToken(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"valido":     true,
		"usuario_id": user.ID,
		"correo":     user.Email,
		"rol":        user.Role,
		"activo":     user.Active,
	})
}
