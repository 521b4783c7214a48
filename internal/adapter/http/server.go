package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/firecad-etl/internal/domain"
)

// SnapshotSource serves the most recent incident snapshot.
type SnapshotSource interface {
	Latest() (domain.Snapshot, bool)
}

// Refresher runs a fetch cycle on demand.
type Refresher interface {
	Refresh(ctx context.Context) (domain.Snapshot, error)
}

// Backend is everything the HTTP surface needs from the pipeline.
type Backend interface {
	sharedobs.ReadinessChecker
	SnapshotSource
	Refresher
}

// refreshTimeout bounds an on-demand fetch cycle.
const refreshTimeout = 25 * time.Second

// Server exposes health, readiness, metrics, and incident HTTP endpoints.
type Server struct {
	httpServer *http.Server
	backend    Backend
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /incidents, /incidents/summary, and /refresh routes.
func NewServer(addr string, backend Backend, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: refreshTimeout + 5*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		backend: backend,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(backend))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /incidents", s.handleIncidents)
	mux.HandleFunc("GET /incidents/summary", s.handleSummary)
	mux.HandleFunc("POST /refresh", s.handleRefresh)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
