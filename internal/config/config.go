package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the musica API service
type Config struct {
	// Server configuration
	HTTPPort    int      `env:"MUSICA_HTTP_PORT" envDefault:"8000"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	Environment string   `env:"ENVIRONMENT" envDefault:"development"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

	// Database configuration. Accepts either a plain file path or the
	// sqlite:///path URL form used by the deployment environment.
	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite:///./musica.db"`

	// JWT configuration
	JWT JWTConfig

	// Redis configuration (optional; empty addr disables Redis)
	Redis RedisConfig

	// Seeding
	SeedOnStartup bool `env:"MUSICA_SEED_ON_STARTUP" envDefault:"false"`

	// Timeouts
	Timeouts TimeoutConfig
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	SecretKey  string        `env:"JWT_SECRET_KEY" envDefault:"change-me-in-production"`
	Expiration time.Duration `env:"JWT_EXPIRATION" envDefault:"30m"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`

	// Cache TTL for catalog listings
	CacheTTL time.Duration `env:"REDIS_CACHE_TTL" envDefault:"60s"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	ShutdownTimeout time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
	StatsInterval   time.Duration `env:"STATS_INTERVAL" envDefault:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	if c.DatabasePath() == "" {
		return fmt.Errorf("database path is required")
	}

	if c.JWT.SecretKey == "" {
		return fmt.Errorf("JWT secret key is required")
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("JWT expiration must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// DatabasePath returns the SQLite file path extracted from DatabaseURL.
// sqlite:///./musica.db resolves to ./musica.db and sqlite:////var/db
// resolves to /var/db. Plain paths pass through unchanged.
func (c *Config) DatabasePath() string {
	const scheme = "sqlite://"
	if !strings.HasPrefix(c.DatabaseURL, scheme) {
		return c.DatabaseURL
	}
	return strings.TrimPrefix(strings.TrimPrefix(c.DatabaseURL, scheme), "/")
}

// RedisEnabled reports whether a Redis address was configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
