package config

import (
	"strings"
	"testing"
	"time"
)

// setRequired provides the minimum environment a successful Load needs.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/wablast")
	t.Setenv("WHATSAPP_API_URL", "https://gateway.example.com")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8080 {
		t.Errorf("server = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.Server.RequestTimeout != 60*time.Second {
		t.Errorf("RequestTimeout = %v, want 60s", cfg.Server.RequestTimeout)
	}
	if cfg.Database.MaxConns != 10 || cfg.Database.MinConns != 2 {
		t.Errorf("pool = %d/%d", cfg.Database.MaxConns, cfg.Database.MinConns)
	}
	if cfg.Redis.Enabled() {
		t.Error("redis must be disabled when REDIS_ADDR is unset")
	}
	if cfg.WhatsApp.SendTimeout != 15*time.Second {
		t.Errorf("SendTimeout = %v, want 15s", cfg.WhatsApp.SendTimeout)
	}
	if cfg.Phone.CountryCode != "62" || cfg.Phone.TrunkPrefix != "0" {
		t.Errorf("phone rule = %s/%s, want 62/0", cfg.Phone.CountryCode, cfg.Phone.TrunkPrefix)
	}
	if cfg.Roster.PageSize != 12 {
		t.Errorf("PageSize = %d, want 12", cfg.Roster.PageSize)
	}
	if cfg.Roster.MaxUploadSize != 10485760 {
		t.Errorf("MaxUploadSize = %d, want 10MB", cfg.Roster.MaxUploadSize)
	}
	if cfg.Roster.NameColumn != 0 || cfg.Roster.PhoneColumn != 1 {
		t.Errorf("columns = %d/%d, want 0/1", cfg.Roster.NameColumn, cfg.Roster.PhoneColumn)
	}
	if cfg.Autosave.Delay != time.Second {
		t.Errorf("autosave delay = %v, want 1s", cfg.Autosave.Delay)
	}
	if !cfg.Rate.Enabled || cfg.Rate.RequestsPerMinute != 100 {
		t.Errorf("rate = %v/%d", cfg.Rate.Enabled, cfg.Rate.RequestsPerMinute)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("logging = %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("PHONE_COUNTRY_CODE", "44")
	t.Setenv("PHONE_TRUNK_PREFIX", "0")
	t.Setenv("ROSTER_PAGE_SIZE", "25")
	t.Setenv("AUTOSAVE_DELAY", "250ms")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if !cfg.Redis.Enabled() || cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("redis = %+v", cfg.Redis)
	}
	if cfg.Phone.CountryCode != "44" {
		t.Errorf("CountryCode = %q, want 44", cfg.Phone.CountryCode)
	}
	if cfg.Roster.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.Roster.PageSize)
	}
	if cfg.Autosave.Delay != 250*time.Millisecond {
		t.Errorf("autosave delay = %v, want 250ms", cfg.Autosave.Delay)
	}
	if cfg.Rate.Enabled {
		t.Error("rate limiting must be disabled")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Run("database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("WHATSAPP_API_URL", "https://gateway.example.com")

		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
			t.Errorf("Load() error = %v, want DATABASE_URL failure", err)
		}
	})

	t.Run("gateway url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/db")
		t.Setenv("WHATSAPP_API_URL", "")

		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "WHATSAPP_API_URL") {
			t.Errorf("Load() error = %v, want WHATSAPP_API_URL failure", err)
		}
	})
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad int", "SERVER_PORT", "not-a-number"},
		{"bad duration", "AUTOSAVE_DELAY", "soon"},
		{"bad bool", "RATE_LIMIT_ENABLED", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q expected error", tt.key, tt.value)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg.Server.Port = 0
	cfg.Roster.PageSize = -1
	cfg.Logging.Level = "loud"

	err = cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"SERVER_PORT", "ROSTER_PAGE_SIZE", "LOG_LEVEL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %v must mention %s", err, want)
		}
	}
}

func TestValidate_PoolBounds(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg.Database.MaxConns = 2
	cfg.Database.MinConns = 5

	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "DB_MAX_CONNS") {
		t.Errorf("Validate() error = %v, want pool bound failure", err)
	}
}
