package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/place-search/internal/domain"
)

// Searcher runs a place query.
type Searcher interface {
	Query(ctx context.Context, text string, origin *domain.Coordinates) ([]domain.Place, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Options configures a Server. A nil Limiter disables rate limiting.
type Options struct {
	Addr           string
	Searcher       Searcher
	Ready          ReadinessChecker
	Limiter        *rate.Limiter
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server exposes the place search API plus health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	searcher   Searcher
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the search, /healthz, /readyz, and
// /metrics routes.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		searcher: opts.Searcher,
		logger:   opts.Logger,
	}

	search := rateLimit(opts.Limiter, http.HandlerFunc(s.handleSearch))
	mux.Handle("GET /api/places/search", search)
	mux.Handle("GET /api/search", search) // legacy alias

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(opts.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      corsHandler.Handler(requestLogging(opts.Logger, recoverer(opts.Logger, mux))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
