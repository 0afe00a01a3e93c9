// Package config centralizes application configuration. Values come from
// environment variables with defaults, and the whole set is validated on
// startup so a misconfigured service fails fast.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	WhatsApp WhatsAppConfig
	Phone    PhoneConfig
	Roster   RosterConfig
	Autosave AutosaveConfig
	Rate     RateLimitConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the graceful shutdown budget (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	URL string `env:"DATABASE_URL" required:"true"`

	// MaxConns is the pool's maximum connection count (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections kept open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime closes connections idle longer than this (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// RedisConfig holds the shared device-registry store settings.
// Leaving Addr empty disables Redis; the registry then lives in process
// memory (single-instance deployments only).
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" default:"0"`
}

// Enabled reports whether a Redis address was configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// WhatsAppConfig holds outbound gateway settings.
type WhatsAppConfig struct {
	// APIURL is the gateway base URL (required)
	APIURL string `env:"WHATSAPP_API_URL" required:"true"`

	// APIKey authenticates against the gateway (optional for open gateways)
	APIKey string `env:"WHATSAPP_API_KEY"`

	// SendTimeout bounds each individual outbound send (default: 15s)
	SendTimeout time.Duration `env:"WHATSAPP_SEND_TIMEOUT" default:"15s"`
}

// PhoneConfig holds the locale-specific phone normalization rule.
type PhoneConfig struct {
	// CountryCode is prepended to numbers that lack it (default: 62)
	CountryCode string `env:"PHONE_COUNTRY_CODE" default:"62"`

	// TrunkPrefix is the domestic dialing prefix dropped when the country
	// code is prepended (default: 0)
	TrunkPrefix string `env:"PHONE_TRUNK_PREFIX" default:"0"`
}

// RosterConfig holds list and upload settings.
type RosterConfig struct {
	// PageSize is the default page size for roster listings (default: 12)
	PageSize int `env:"ROSTER_PAGE_SIZE" default:"12"`

	// MaxUploadSize caps uploaded workbook size in bytes (default: 10MB)
	MaxUploadSize int64 `env:"ROSTER_MAX_UPLOAD_SIZE" default:"10485760"`

	// NameColumn and PhoneColumn locate recipient fields in uploads.
	NameColumn  int `env:"ROSTER_NAME_COLUMN" default:"0"`
	PhoneColumn int `env:"ROSTER_PHONE_COLUMN" default:"1"`
}

// AutosaveConfig holds template autosave settings.
type AutosaveConfig struct {
	// Delay is how long after the last edit the template is persisted
	// (default: 1s, matching the editor's save cadence)
	Delay time.Duration `env:"AUTOSAVE_DELAY" default:"1s"`
}

// RateLimitConfig holds per-IP request throttling settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the per-IP budget (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks that the configuration is coherent.
// All failures are reported at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Database.URL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if c.Database.MaxConns <= 0 {
		errs = append(errs, "DB_MAX_CONNS must be positive")
	}
	if c.Database.MinConns < 0 {
		errs = append(errs, "DB_MIN_CONNS must be non-negative")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
			c.Database.MaxConns, c.Database.MinConns))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	if c.WhatsApp.APIURL == "" {
		errs = append(errs, "WHATSAPP_API_URL is required")
	}
	if c.WhatsApp.SendTimeout <= 0 {
		errs = append(errs, "WHATSAPP_SEND_TIMEOUT must be positive")
	}

	if c.Phone.CountryCode == "" {
		errs = append(errs, "PHONE_COUNTRY_CODE must not be empty")
	}

	if c.Roster.PageSize <= 0 {
		errs = append(errs, "ROSTER_PAGE_SIZE must be positive")
	}
	if c.Roster.MaxUploadSize <= 0 {
		errs = append(errs, "ROSTER_MAX_UPLOAD_SIZE must be positive")
	}
	if c.Roster.NameColumn < 0 || c.Roster.PhoneColumn < 0 {
		errs = append(errs, "roster column indexes must be non-negative")
	}

	if c.Autosave.Delay <= 0 {
		errs = append(errs, "AUTOSAVE_DELAY must be positive")
	}

	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
