package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromContext(t *testing.T) {
	// Without a request id the default logger comes back untouched.
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Error("expected the default logger for a bare context")
	}

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-123")
	if got := FromContext(ctx); got == slog.Default() {
		t.Error("expected an enriched logger when the context carries a request id")
	}
}
