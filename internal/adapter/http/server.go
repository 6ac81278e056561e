package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/climate-report/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SummarySource provides the state summaries of a completed run.
type SummarySource interface {
	Summaries() ([]domain.StateSummary, bool)
}

// Pipeline is what the server needs from an ingestion run.
type Pipeline interface {
	sharedobs.ReadinessChecker
	SummarySource
}

// Server exposes health, readiness, metrics, and state summary endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and /states routes.
func NewServer(addr string, p Pipeline, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(p))
	mux.HandleFunc("GET /states", handleStates(p))
	mux.HandleFunc("GET /states/{code}", handleState(p))
	mux.Handle("GET /metrics", promhttp.Handler())

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

func handleStates(src SummarySource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		summaries, ok := src.Summaries()
		if !ok {
			writeNotReady(w)
			return
		}
		if summaries == nil {
			summaries = []domain.StateSummary{}
		}
		sharedobs.WriteJSON(w, http.StatusOK, summaries)
	}
}

func handleState(src SummarySource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, ok := src.Summaries()
		if !ok {
			writeNotReady(w)
			return
		}
		code := r.PathValue("code")
		for _, s := range summaries {
			if s.State == code {
				sharedobs.WriteJSON(w, http.StatusOK, s)
				return
			}
		}
		sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "state not found: " + code})
	}
}

func writeNotReady(w http.ResponseWriter) {
	sharedobs.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status": "not ready",
		"error":  "ingestion has not completed yet",
	})
}
