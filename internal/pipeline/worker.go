package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/rank"
)

// Analyzer ranks documents for a query.
type Analyzer interface {
	Analyze(ctx context.Context, docs []string, q doctree.Query) (*rank.AnalysisResult, error)
}

// Worker processes a single analysis job.
type Worker struct {
	analyzer Analyzer
	log      *slog.Logger
}

func NewWorker(analyzer Analyzer, log *slog.Logger) *Worker {
	return &Worker{analyzer: analyzer, log: log}
}

// Process runs the analysis for a job. Staged files are released once the
// result is stored.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	defer func() {
		if err := job.Release(); err != nil {
			log.Warn("release work dir failed", "error", err)
		}
	}()

	job.SetStatus(StatusAnalyzing, "analyzing")
	docs := job.DocumentPaths()
	start := time.Now()

	res, err := w.analyzer.Analyze(ctx, docs, job.Query)
	if err != nil {
		var ae *rank.AnalysisError
		if !errors.As(err, &ae) {
			ae = &rank.AnalysisError{Err: err, Time: time.Now()}
		}
		log.Error("analysis failed", "error", err)
		job.Fail(ae.Result())
		return
	}

	job.Complete(res)
	log.Info("analysis complete",
		"documents", len(docs),
		"sections", len(res.ExtractedSections),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
