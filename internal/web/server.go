// Package web provides the HTTP server and JSON API for the mail-merge
// service.
package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nandapratama/wablast/internal/autosave"
	"github.com/nandapratama/wablast/internal/config"
	"github.com/nandapratama/wablast/internal/core"
	"github.com/nandapratama/wablast/internal/devices"
	"github.com/nandapratama/wablast/internal/excel"
)

// Deps are the collaborators the server is wired with.
type Deps struct {
	Roster    *core.Roster
	Delivery  *core.Delivery
	Templates core.TemplateStore
	Devices   devices.Registry
	Saver     *autosave.Debouncer
	PhoneRule core.PhoneRule
}

// Server is the HTTP server for the mail-merge application.
type Server struct {
	cfg       *config.Config
	roster    *core.Roster
	delivery  *core.Delivery
	templates core.TemplateStore
	devices   devices.Registry
	saver     *autosave.Debouncer
	phoneRule core.PhoneRule
	columns   excel.ColumnMap

	router *chi.Mux
	server *http.Server
}

// NewServer creates a Server with all routes and middleware configured.
func NewServer(cfg *config.Config, deps Deps) *Server {
	s := &Server{
		cfg:       cfg,
		roster:    deps.Roster,
		delivery:  deps.Delivery,
		templates: deps.Templates,
		devices:   deps.Devices,
		saver:     deps.Saver,
		phoneRule: deps.PhoneRule,
		columns:   excel.ColumnMap{Name: cfg.Roster.NameColumn, Phone: cfg.Roster.PhoneColumn},
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Roster
		r.Get("/names", s.handleListNames)
		r.Post("/names", s.handleAddName)
		r.Put("/names/{id}", s.handleUpdateName)
		r.Delete("/names/{id}", s.handleDeleteName)

		// Spreadsheet import / export
		r.Post("/read-excel", s.handleReadExcel)
		r.Post("/generate-excel", s.handleGenerateExcel)
		r.Get("/export", s.handleExport)

		// Delivery
		r.Post("/send-whatsapp", s.handleSendWhatsApp)
		r.Get("/share-link/{id}", s.handleShareLink)

		// Shared template
		r.Get("/template", s.handleGetTemplate)
		r.Post("/template", s.handleSaveTemplate)

		// Device registry
		r.Get("/devices", s.handleListDevices)
		r.Post("/devices", s.handleAddDevice)
		r.Delete("/devices/{id}", s.handleRemoveDevice)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// securityHeaders adds hardening headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// rateLimiter implements a simple token bucket rate limiter per IP.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int
	window   time.Duration
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

func newRateLimiter(rate int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
	}
	go rl.cleanup()
	return rl
}

// cleanup removes stale visitor entries every minute.
func (rl *rateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists || time.Since(v.lastReset) > rl.window {
		rl.visitors[ip] = &visitor{tokens: rl.rate - 1, lastReset: time.Now()}
		return true
	}
	if v.tokens <= 0 {
		return false
	}
	v.tokens--
	return true
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.RemoteAddr) {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, map[string]any{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
