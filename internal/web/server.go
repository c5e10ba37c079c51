// Package web provides the HTTP server and handlers for the operation code
// validator: batch upload and reload, queries, validation reports and the
// tool endpoints.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/cfop/internal/config"
	"github.com/JonMunkholm/cfop/internal/core"
	"github.com/JonMunkholm/cfop/internal/ingest"
	"github.com/JonMunkholm/cfop/internal/metrics"
	"github.com/JonMunkholm/cfop/internal/web/middleware"
)

// ReloadSource is the configured origin for POST /api/batch/reload.
type ReloadSource struct {
	Kind string // metric label: "dir" or "postgres"
	Name string // recorded on the batch
	Load func(ctx context.Context) (ingest.Result, error)
}

// Server is the HTTP server for the validator.
type Server struct {
	cfg     *config.Config
	service *core.Service
	metrics *metrics.Collector
	reload  *ReloadSource
	limiter *middleware.RateLimiter
	upload  *middleware.RateLimiter
	router  *chi.Mux
	server  *http.Server
}

// Options holds the optional collaborators of a Server.
type Options struct {
	Metrics *metrics.Collector
	Reload  *ReloadSource
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, service *core.Service, opts Options) *Server {
	s := &Server{
		cfg:     cfg,
		service: service,
		metrics: opts.Metrics,
		reload:  opts.Reload,
		router:  chi.NewRouter(),
	}
	if cfg.Rate.Enabled {
		s.limiter = middleware.NewRateLimiter(cfg.Rate.RequestsPerMinute, time.Minute)
		s.upload = middleware.NewRateLimiter(cfg.Rate.UploadLimit, time.Minute)
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger(s.metrics))
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(middleware.SecurityHeaders(s.cfg.Security.EnableCSP))

	if s.limiter != nil {
		s.router.Use(s.limiter.Middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/status", s.handleStatus)

	// Pages
	s.router.Get("/", s.handleOverview)
	s.router.Get("/report", s.handleReportPage)

	if s.cfg.Metrics.Enabled && s.metrics != nil {
		s.router.Method(http.MethodGet, s.cfg.Metrics.Path, s.metrics.Handler())
	}

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(s.cfg.Security))

		// Batch lifecycle
		r.Group(func(r chi.Router) {
			if s.upload != nil {
				r.Use(s.upload.Middleware)
			}
			r.Post("/batch", s.handleUploadBatch)
			r.Post("/batch/reload", s.handleReloadBatch)
		})
		r.Delete("/batch", s.handleDiscardBatch)
		r.Get("/batch/summary", s.handleSummary)

		// Validation
		r.Get("/validation", s.handleValidation)
		r.Get("/validation/export.xlsx", s.handleValidationExport)

		// Queries
		r.Get("/documents/{number}", s.handleDocument)
		r.Get("/documents/{number}/items", s.handleDocumentItems)
		r.Get("/access-keys/{key}", s.handleAccessKeySearch)
		r.Get("/access-keys/{key}/decode", s.handleAccessKeyDecode)
		r.Get("/cfop", s.handleReferenceByDigit)
		r.Get("/cfop/{code}", s.handleReferenceCode)

		// Tools
		r.Get("/tools", s.handleListTools)
		r.Post("/tools/{name}", s.handleInvokeTool)
	})
}

// Start begins listening for HTTP requests and runs background jobs until
// the server stops.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if s.limiter != nil {
		go s.limiter.Run(ctx)
		go s.upload.Run(ctx)
	}

	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server after in-flight loads finish or
// ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if st := s.service.LoadStatus(); st.Active > 0 {
		slog.Info("waiting for batch loads to complete", "active", st.Active)
		if err := s.service.WaitForLoads(ctx); err != nil {
			slog.Warn("batch loads did not complete in time", "error", err)
		}
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
