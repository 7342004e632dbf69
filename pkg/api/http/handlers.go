package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// handleRoot returns basic service information
func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"nombre":      "API de Música",
		"version":     s.version,
		"descripcion": "API RESTful para gestionar usuarios, canciones y favoritos",
		"endpoints": gin.H{
			"usuarios":  "/api/usuarios",
			"canciones": "/api/canciones",
			"favoritos": "/api/favoritos",
		},
	})
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	dbStatus := "connected"
	health := "healthy"
	status := http.StatusOK
	if err := s.store.Ping(c.Request.Context()); err != nil {
		dbStatus = "error: " + err.Error()
		health = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":      health,
		"database":    dbStatus,
		"environment": s.environment,
	})
}

// pathID parses the named path parameter as an entity ID
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    "INVALID_ID",
				Message: "invalid " + name + " parameter",
			},
		})
		return 0, false
	}
	return id, true
}

// pagination reads the skip/limit query parameters
func pagination(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	return skip, limit
}

// badRequest writes a 400 with the binding error
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}
