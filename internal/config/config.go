// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Session  SessionConfig
	Cleaning CleaningConfig
	Database DatabaseConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request, body included (default: 60s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"60s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 120s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"120s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds file decode settings.
type UploadConfig struct {
	// MaxFileSize is the maximum accepted file size; accepts KB, MB and GB suffixes (default: 50MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"50MB"`

	// MaxConcurrent is the maximum number of files decoded at once (default: 4)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long an upload waits for a decode slot (default: 10s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"10s"`

	// DecodeTimeout bounds a single decode (default: 2m)
	DecodeTimeout time.Duration `env:"UPLOAD_DECODE_TIMEOUT" default:"2m"`
}

// SessionConfig holds per-user workspace settings.
type SessionConfig struct {
	// Secret signs the session cookie (required, at least 32 bytes)
	Secret string `env:"SESSION_SECRET" required:"true"`

	// TTL evicts workspaces idle for longer (default: 2h)
	TTL time.Duration `env:"SESSION_TTL" default:"2h"`

	// MaxSessions caps live workspaces (default: 1000)
	MaxSessions int `env:"SESSION_MAX" default:"1000"`

	// SweepInterval is how often idle workspaces are evicted (default: 5m)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"5m"`

	// CookieSecure sets the Secure flag on the session cookie (default: false)
	CookieSecure bool `env:"SESSION_COOKIE_SECURE" default:"false"`
}

// CleaningConfig holds dataset cleaning behavior.
type CleaningConfig struct {
	// PreviewRows is the default number of rows shown in previews (default: 10)
	PreviewRows int `env:"CLEANING_PREVIEW_ROWS" default:"10"`

	// EmptyNumericPolicy decides how an all-missing numeric column is filled: zero or reject (default: zero)
	EmptyNumericPolicy string `env:"CLEANING_EMPTY_NUMERIC_POLICY" default:"zero"`
}

// DatabaseConfig holds audit store connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string; auditing is disabled when empty
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// WriteTimeout bounds a single audit insert (default: 5s)
	WriteTimeout time.Duration `env:"DB_WRITE_TIMEOUT" default:"5s"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the sustained rate per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// Burst is the number of requests allowed above the sustained rate (default: 20)
	Burst int `env:"RATE_LIMIT_BURST" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey guards /api routes with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	// Enabled mounts the metrics handler (default: true)
	Enabled bool `env:"METRICS_ENABLED" default:"true"`

	// Path is where metrics are served (default: /metrics)
	Path string `env:"METRICS_PATH" default:"/metrics"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// AuditEnabled reports whether a database is configured for the audit log.
func (c *DatabaseConfig) AuditEnabled() bool {
	return c.URL != ""
}
