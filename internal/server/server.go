// Package server exposes the analytics over a JSON HTTP API.
package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/claude/overload/internal/analysis"
	"github.com/claude/overload/internal/ingest"
	"github.com/claude/overload/internal/metrics"
	"github.com/claude/overload/internal/models"
	"github.com/claude/overload/internal/muscles"
)

// Store is the read side of storage used by the handlers.
type Store interface {
	AllSets(ctx context.Context) ([]models.Set, error)
	QuerySets(ctx context.Context, from, to time.Time) ([]models.Set, error)
	QueryImportLogs(ctx context.Context, limit int) ([]models.ImportLog, error)
}

// Importer stores one uploaded export file.
type Importer interface {
	Ingest(ctx context.Context, src ingest.Source, fileName string, r io.Reader) (*ingest.Result, error)
}

// Options carries server settings.
type Options struct {
	APIKey       string
	Analysis     analysis.Options
	DefaultWeeks int
	Overrides    muscles.Overrides

	// Metrics and Registry are optional; /metrics is mounted only with a Registry.
	Metrics  *metrics.Manager
	Registry prometheus.Gatherer

	// Now overrides the clock for tests.
	Now func() time.Time
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    Store
	importer Importer
	opts     Options
	log      *slog.Logger
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, importer Importer, opts Options, log *slog.Logger) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultWeeks <= 0 {
		opts.DefaultWeeks = 4
	}
	s := &Server{
		store:    store,
		importer: importer,
		opts:     opts,
		log:      log,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(RequestMetrics(s.opts.Metrics))
	s.router.Use(CORS)

	// Import endpoints (API key required)
	s.router.Route("/api/v1/import", func(r chi.Router) {
		r.Use(APIKeyAuth(s.opts.APIKey))
		r.Post("/{source}", s.handleImport)
	})

	s.router.Get("/api/v1/sets", s.handleSets)
	s.router.Get("/api/v1/lifts", s.handleLifts)
	s.router.Get("/api/v1/lifts/{name}", s.handleLift)
	s.router.Get("/api/v1/volume", s.handleVolume)
	s.router.Get("/api/v1/muscles", s.handleMuscles)
	s.router.Get("/api/v1/summary", s.handleSummary)
	s.router.Get("/api/v1/import-logs", s.handleImportLogs)

	if s.opts.Registry != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{}))
	}
}

// SetMCP mounts an MCP transport handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}

func (s *Server) analysisOptions() analysis.Options {
	opts := s.opts.Analysis
	opts.Now = s.opts.Now()
	return opts
}
