// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Batch    BatchConfig
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

	// ReadTimeout is the maximum duration for reading request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds the optional PostgreSQL batch source.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Empty disables the source.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// HeadersTable, ItemsTable and ReferenceTable name the source tables.
	HeadersTable   string `env:"DB_HEADERS_TABLE" default:"nfs_cabecalho"`
	ItemsTable     string `env:"DB_ITEMS_TABLE" default:"nfs_itens"`
	ReferenceTable string `env:"DB_REFERENCE_TABLE" default:"cfop"`

	// LoadOnStart loads a batch from the database at startup (default: false)
	LoadOnStart bool `env:"DB_LOAD_ON_START" default:"false"`
}

// Enabled reports whether a database source is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// BatchConfig holds batch loading and reporting settings.
type BatchConfig struct {
	// Dir is a directory holding the three CSV files, loaded at startup
	// and by reloads when no database is configured.
	Dir string `env:"BATCH_DIR"`

	// HeadersFile, ItemsFile and ReferenceFile are the CSV base names.
	HeadersFile   string `env:"BATCH_HEADERS_FILE" default:"202401_NFs_Cabecalho.csv"`
	ItemsFile     string `env:"BATCH_ITEMS_FILE" default:"202401_NFs_Itens.csv"`
	ReferenceFile string `env:"BATCH_REFERENCE_FILE" default:"CFOP.csv"`

	// MaxUploadSize is the maximum request body for uploads in bytes (default: 100MB)
	MaxUploadSize int64 `env:"MAX_UPLOAD_BYTES" default:"104857600"`

	// MaxConcurrentLoads is the maximum number of parallel batch loads (default: 2)
	MaxConcurrentLoads int `env:"BATCH_MAX_CONCURRENT_LOADS" default:"2"`

	// LoadWaitTime is how long to wait for a load slot (default: 10s)
	LoadWaitTime time.Duration `env:"BATCH_LOAD_WAIT_TIME" default:"10s"`

	// LoadTimeout bounds a single load (default: 2m)
	LoadTimeout time.Duration `env:"BATCH_LOAD_TIMEOUT" default:"2m"`

	// DiscrepancyLimit is how many discrepancies reports list (default: 10)
	DiscrepancyLimit int `env:"REPORT_DISCREPANCY_LIMIT" default:"10"`

	// ReferenceLimit caps reference listings by leading digit (default: 20)
	ReferenceLimit int `env:"REPORT_REFERENCE_LIMIT" default:"20"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// UploadLimit is requests per minute for upload endpoints (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects /api routes with an X-API-Key header (default: false)
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

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	// Enabled mounts the metrics endpoint (default: true)
	Enabled bool `env:"METRICS_ENABLED" default:"true"`

	// Namespace prefixes metric names (default: cfop)
	Namespace string `env:"METRICS_NAMESPACE" default:"cfop"`

	// Path is where metrics are served (default: /metrics)
	Path string `env:"METRICS_PATH" default:"/metrics"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
