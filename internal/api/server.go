package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/pathstore"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

// OutlineStore reads outlines written by the result sink.
// *pathstore.Client implements it.
type OutlineStore interface {
	GetOutline(ctx context.Context, docID string) (*pathstore.StoredOutline, error)
	ListOutlineIDs(ctx context.Context, limit int) ([]string, error)
}

// Server is the HTTP API server for docoutline.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	store        OutlineStore
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. store may be nil when
// no result sink is configured.
func NewServer(orch *pipeline.Orchestrator, store OutlineStore, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		store:        store,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		if s.cfg.RateLimitPerMinute > 0 {
			r.Use(httprate.Limit(s.cfg.RateLimitPerMinute, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					jsonError(w, "rate limit exceeded", http.StatusTooManyRequests)
				}),
			))
		}

		r.Post("/api/outline", s.handleOutline)
		r.Post("/api/jobs", s.handleSubmitJob)
		r.Post("/api/jobs/batch", s.handleSubmitBatch)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/stats/latency", s.handleLatencyStats)

		r.Get("/api/outlines", s.handleListOutlines)
		r.Get("/api/outlines/{docID}", s.handleGetOutline)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
