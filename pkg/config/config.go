// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/savionray/content-lab/pkg/observability"
	"github.com/savionray/content-lab/pkg/ratelimit"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Security pipeline configuration
	Security SecurityConfig

	// Storage configuration
	Storage StorageConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// SecurityConfig holds security pipeline settings
type SecurityConfig struct {
	// RateLimit is the default per-IP quota
	RateLimit ratelimit.Config

	// RateLimitFailOpen allows requests through when the rate limit store
	// is unavailable
	RateLimitFailOpen bool

	// AllowedOrigins is the Origin allow-list applied to guarded routes
	AllowedOrigins []string

	// MaxRequestSize is the Content-Length ceiling in bytes
	MaxRequestSize int64

	// AuditQueueSize bounds the asynchronous audit queue
	AuditQueueSize int
}

// StorageConfig holds database and cache connection settings
type StorageConfig struct {
	// PostgresURL is the connection string for memberships and the audit
	// store. Empty runs with in-memory stores (development only).
	PostgresURL string

	// RedisURL is the connection string for sessions and shared rate limit
	// counters. Empty runs with in-memory stores (development only).
	RedisURL      string
	RedisPassword string
	RedisDB       int
}

// ObservabilityConfig holds logging and metrics settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Security:      loadSecurityConfig(),
		Storage:       loadStorageConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("CONTENTLAB_HOST", "0.0.0.0"),
		Port:            getEnv("CONTENTLAB_PORT", "8080"),
		ReadTimeout:     getEnvDuration("CONTENTLAB_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("CONTENTLAB_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("CONTENTLAB_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("CONTENTLAB_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func loadSecurityConfig() SecurityConfig {
	cfg := SecurityConfig{
		RateLimit: ratelimit.Config{
			MaxRequests: int64(getEnvInt("CONTENTLAB_RATE_LIMIT_MAX", 100)),
			Window:      getEnvDuration("CONTENTLAB_RATE_LIMIT_WINDOW", 15*time.Minute),
		},
		RateLimitFailOpen: getEnvBool("CONTENTLAB_RATE_LIMIT_FAIL_OPEN", true),
		MaxRequestSize:    getEnvInt64("CONTENTLAB_MAX_REQUEST_SIZE", 2*1024*1024),
		AuditQueueSize:    getEnvInt("CONTENTLAB_AUDIT_QUEUE_SIZE", 1024),
	}

	if origins := getEnv("CONTENTLAB_ALLOWED_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	return cfg
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		PostgresURL:   getEnv("CONTENTLAB_POSTGRES_URL", ""),
		RedisURL:      getEnv("CONTENTLAB_REDIS_URL", ""),
		RedisPassword: getEnv("CONTENTLAB_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("CONTENTLAB_REDIS_DB", 0),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       parseLogLevel(getEnv("CONTENTLAB_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("CONTENTLAB_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Security.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("rate limit max requests must be positive")
	}
	if c.Security.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive")
	}
	if c.Security.MaxRequestSize <= 0 {
		return fmt.Errorf("max request size must be positive")
	}
	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvInt64 returns an int64 environment variable or a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
