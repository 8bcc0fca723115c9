package api

import (
	"net/http"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/report"
)

func (s *Server) handleEmbeddingStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "embedding stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	report.EncodeJSON(w, map[string]any{
		"provider": s.cfg.EmbeddingsProvider,
		"model":    s.cfg.EmbeddingsModel,
		"workers":  s.orchestrator.Stats(),
		"stats":    s.stats.Snapshot(),
	})
}
