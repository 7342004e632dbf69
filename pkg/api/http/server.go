package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aescanero/musica/internal/application/accounts"
	"github.com/aescanero/musica/internal/application/catalog"
	"github.com/aescanero/musica/internal/auth"
	"github.com/aescanero/musica/pkg/adapters/metrics"
	"github.com/aescanero/musica/pkg/adapters/storage"
)

// Server represents the HTTP API server
type Server struct {
	router      *gin.Engine
	server      *http.Server
	accounts    *accounts.Manager
	catalog     *catalog.Manager
	tokens      *auth.TokenManager
	store       storage.Store
	metrics     metrics.Recorder
	environment string
	version     string
	logger      *zap.Logger
}

// Config holds HTTP server configuration
type Config struct {
	Port        int
	Accounts    *accounts.Manager
	Catalog     *catalog.Manager
	Tokens      *auth.TokenManager
	Store       storage.Store
	Metrics     metrics.Recorder
	CORSOrigins []string
	Environment string
	Version     string
	Logger      *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(requestLogger(cfg.Logger, cfg.Metrics))
	router.Use(corsMiddleware(cfg.CORSOrigins))

	s := &Server{
		router:      router,
		accounts:    cfg.Accounts,
		catalog:     cfg.Catalog,
		tokens:      cfg.Tokens,
		store:       cfg.Store,
		metrics:     cfg.Metrics,
		environment: cfg.Environment,
		version:     cfg.Version,
		logger:      cfg.Logger,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	return s
}

// setupRoutes configures API routes
func (s *Server) setupRoutes() {
	// Service info and health check
	s.router.GET("/", s.handleRoot)
	s.router.GET("/health", s.handleHealth)

	// Metrics
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", s.handleLogin)
		authGroup.POST("/login-json", s.handleLoginJSON)
		authGroup.POST("/register", s.handleRegister)
		authGroup.GET("/me", s.authRequired(), s.handleProfile)
		authGroup.GET("/verify", s.authRequired(), s.handleVerifyToken)
	}

	users := api.Group("/usuarios")
	{
		users.GET("", s.handleListUsers)
		users.POST("", s.handleCreateUser)
		users.GET("/:id", s.handleGetUser)
		users.PUT("/:id", s.handleUpdateUser)
		users.DELETE("/:id", s.handleDeleteUser)

		users.GET("/:id/favoritos", s.handleListUserFavorites)
		users.POST("/:id/favoritos/:song_id", s.handleMarkFavorite)
		users.DELETE("/:id/favoritos/:song_id", s.handleUnmarkFavorite)
	}

	// The whole catalog requires authentication
	songs := api.Group("/canciones", s.authRequired())
	{
		songs.GET("", s.handleListSongs)
		songs.POST("", s.handleCreateSong)
		songs.GET("/buscar", s.handleSearchSongs)
		songs.GET("/:id", s.handleGetSong)
		songs.PUT("/:id", s.handleUpdateSong)
		songs.DELETE("/:id", s.handleDeleteSong)
	}

	favorites := api.Group("/favoritos")
	{
		favorites.GET("", s.handleListFavorites)
		favorites.POST("", s.handleCreateFavorite)
		favorites.GET("/:id", s.handleGetFavorite)
		favorites.DELETE("/:id", s.handleDeleteFavorite)
	}
}

// SetupWebSocket adds the catalog event stream handler to the server
func (s *Server) SetupWebSocket(handler interface{}) {
	if wsHandler, ok := handler.(interface {
		HandleEventStream(*gin.Context)
	}); ok {
		s.router.GET("/api/eventos/ws", wsHandler.HandleEventStream)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}

// Router exposes the gin engine for tests
func (s *Server) Router() http.Handler {
	return s.router
}
