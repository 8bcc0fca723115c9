package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/config"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/embed"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/outline"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/pipeline"
)

// Server is the HTTP API for outline extraction and document analysis.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	outlines     *outline.Extractor
	stats        *embed.Stats
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. stats may be nil.
func NewServer(orch *pipeline.Orchestrator, outlines *outline.Extractor, stats *embed.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		outlines:     outlines,
		stats:        stats,
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

		r.Post("/api/outline", s.handleOutline)

		r.Post("/api/analyze", s.handleAnalyze)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/result", s.handleJobResult)
		r.Get("/api/jobs/{jobID}/report", s.handleJobReport)

		r.Get("/api/stats/embeddings", s.handleEmbeddingStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
