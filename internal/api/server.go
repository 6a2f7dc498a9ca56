// Package api provides the HTTP API server and handlers for the FileDeck shell backend.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/filedeckapp/filedeck-server/internal/browse"
	"github.com/filedeckapp/filedeck-server/internal/ratelimit"
	"github.com/filedeckapp/filedeck-server/internal/sse"
	"github.com/filedeckapp/filedeck-server/internal/watcher"
)

// Version is reported in the OpenAPI document and health response.
const Version = "0.3.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	browser    *browse.Browser
	registry   *watcher.Registry
	sseManager *sse.Manager
	sseHandler *sse.Handler
	limiter    *ratelimit.KeyedRateLimiter
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
}

// Options configures the HTTP server surface.
type Options struct {
	// AllowedOrigins lists the CORS origins of the shell's webview.
	AllowedOrigins []string
	// RequestsPerSecond bounds per-client command throughput (default 50).
	RequestsPerSecond float64
	// Burst is the per-client burst allowance (default 25).
	Burst int
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(browser *browse.Browser, registry *watcher.Registry, sseManager *sse.Manager, sseHandler *sse.Handler, opts Options, logger *slog.Logger) *Server {
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 50
	}
	if opts.Burst <= 0 {
		opts.Burst = 25
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	router := chi.NewRouter()

	s := &Server{
		browser:    browser,
		registry:   registry,
		sseManager: sseManager,
		sseHandler: sseHandler,
		limiter:    ratelimit.New(opts.RequestsPerSecond, opts.Burst),
		router:     router,
		logger:     logger,
	}

	s.setupMiddleware(opts.AllowedOrigins)

	humaConfig := huma.DefaultConfig("FileDeck API", Version)
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerFilesystemRoutes()
	s.registerWatchRoutes()

	// The event stream is a raw long-lived response; it bypasses huma.
	router.Get("/api/v1/events/stream", s.sseHandler.ServeHTTP)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(allowedOrigins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Use(s.rateLimitMiddleware)
}
