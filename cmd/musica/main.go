package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/musica/internal/application/accounts"
	"github.com/aescanero/musica/internal/application/catalog"
	"github.com/aescanero/musica/internal/application/seed"
	"github.com/aescanero/musica/internal/application/stats"
	"github.com/aescanero/musica/internal/auth"
	"github.com/aescanero/musica/internal/config"
	"github.com/aescanero/musica/pkg/adapters/cache"
	rediscache "github.com/aescanero/musica/pkg/adapters/cache/redis"
	"github.com/aescanero/musica/pkg/adapters/events"
	memoryevents "github.com/aescanero/musica/pkg/adapters/events/memory"
	redisevents "github.com/aescanero/musica/pkg/adapters/events/redis"
	"github.com/aescanero/musica/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/musica/pkg/adapters/storage/sqlite"
	"github.com/aescanero/musica/pkg/api/http"
	"github.com/aescanero/musica/pkg/api/websocket"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting Musica API",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	// Open SQLite storage
	store, err := sqlite.New(cfg.DatabasePath(), logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	logger.Info("database ready", zap.String("path", cfg.DatabasePath()))

	// Redis is optional: when configured it provides the shared event
	// bus and the song listing cache, otherwise everything stays
	// in-process.
	var (
		redisClient *goredis.Client
		eventBus    events.Bus
		songCache   cache.SongCache = cache.Noop{}
	)

	if cfg.RedisEnabled() {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		eventBus = redisevents.NewStreamsEventBus(
			redisClient,
			"musica-api",
			fmt.Sprintf("musica-%d", os.Getpid()),
			logger,
		)
		songCache = rediscache.NewSongCache(redisClient, cfg.Redis.CacheTTL, logger)
	} else {
		eventBus = memoryevents.NewInMemoryEventBus()
		logger.Info("Redis not configured, using in-process event bus")
	}

	metricsCollector := prometheus.NewCollector()

	// Initialize application components
	tokens := auth.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)

	accountsMgr := accounts.NewManager(store, tokens, eventBus, metricsCollector, logger)
	catalogMgr := catalog.NewManager(store, songCache, eventBus, metricsCollector, logger)

	if cfg.SeedOnStartup {
		seeder := seed.NewSeeder(store, logger)
		if err := seeder.Run(context.Background()); err != nil {
			logger.Error("seeding failed", zap.Error(err))
		}
	}

	statsMonitor := stats.NewMonitor(store, metricsCollector, cfg.Timeouts.StatsInterval, logger)
	statsMonitor.Start()

	// Initialize HTTP server
	httpServer := http.NewServer(&http.Config{
		Port:        cfg.HTTPPort,
		Accounts:    accountsMgr,
		Catalog:     catalogMgr,
		Tokens:      tokens,
		Store:       store,
		Metrics:     metricsCollector,
		CORSOrigins: cfg.CORSOrigins,
		Environment: cfg.Environment,
		Version:     Version,
		Logger:      logger,
	})

	// Add WebSocket handler to HTTP server
	wsHandler := websocket.NewHandler(eventBus, logger)
	httpServer.SetupWebSocket(wsHandler)

	// Start server
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("Musica API started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.String("environment", cfg.Environment))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	// Shutdown components
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	statsMonitor.Stop()

	if err := eventBus.Close(); err != nil {
		logger.Error("event bus close error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	if err := store.Close(); err != nil {
		logger.Error("database close error", zap.Error(err))
	}

	logger.Info("Musica API shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
