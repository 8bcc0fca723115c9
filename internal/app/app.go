// Package app wires configuration into the parsing, embedding and ranking
// components, and runs the two batch jobs over a directory.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/config"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/embed"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/outline"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/parser"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/rank"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/report"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/request"
)

// ErrInputNotFound is returned when the input directory does not exist.
var ErrInputNotFound = errors.New("input directory not found")

// NewLogger returns the JSON logger used by every entry point.
func NewLogger(w io.Writer, cfg config.Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// Components holds the long-lived collaborators built once at startup.
type Components struct {
	Parser   *parser.PDFParser
	Outlines *outline.Extractor
	Analyzer *rank.Pipeline
	Stats    *embed.Stats

	closeEmbedder func() error
}

func Build(ctx context.Context, cfg config.Config, log *slog.Logger) (*Components, error) {
	pdf := &parser.PDFParser{FallbackPdftotext: cfg.PDFFallbackPdftotext}
	stats := embed.NewStats(cfg.EmbedStatsWindow)

	embedder, closeFn, err := embed.Open(ctx, embed.Options{
		Provider:   cfg.EmbeddingsProvider,
		Dimensions: cfg.EmbedDimensions,
		CacheSize:  cfg.EmbedCacheSize,
		Google: embed.GoogleConfig{
			APIKey:            cfg.GeminiAPIKey,
			Model:             cfg.EmbeddingsModel,
			RequestsPerMinute: cfg.EmbedRPM,
		},
	}, stats, log)
	if err != nil {
		return nil, fmt.Errorf("open embeddings: %w", err)
	}

	return &Components{
		Parser:        pdf,
		Outlines:      outline.NewExtractor(pdf, nil, log),
		Analyzer:      rank.NewPipeline(pdf, embedder, cfg.MaxConcurrentDocs, log),
		Stats:         stats,
		closeEmbedder: closeFn,
	}, nil
}

// Close releases provider resources.
func (c *Components) Close() error {
	if c.closeEmbedder == nil {
		return nil
	}
	return c.closeEmbedder()
}

// OutlineOptions controls a batch outline run.
type OutlineOptions struct {
	InputDir    string
	OutputDir   string
	HTML        bool
	Concurrency int
}

// RunOutlines writes one <name>.json outline per PDF in the input
// directory. Per-document failures are written as error outlines and
// reported in the results; they never abort the batch.
func RunOutlines(e *outline.Extractor, opts OutlineOptions, log *slog.Logger) ([]outline.Result, error) {
	if _, err := os.Stat(opts.InputDir); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, opts.InputDir)
	}
	paths, err := parser.ListPDFs(opts.InputDir)
	if err != nil {
		return nil, err
	}
	log.Info("found pdf files", "count", len(paths), "input_dir", opts.InputDir)

	results := e.ExtractAll(paths, opts.Concurrency)
	for _, res := range results {
		name := report.OutlineFilename(res.Path)
		if err := report.WriteJSON(filepath.Join(opts.OutputDir, name), res.Outline); err != nil {
			return results, err
		}
		if opts.HTML {
			page, err := report.HTML(res.Outline.Title, report.OutlineMarkdown(res.Outline))
			if err != nil {
				return results, err
			}
			if err := writeFile(filepath.Join(opts.OutputDir, replaceExt(name, ".html")), page); err != nil {
				return results, err
			}
		}
		log.Info("saved outline", "document", parser.DocumentID(res.Path), "output", name)
	}
	return results, nil
}

// AnalysisOptions controls a batch analysis run.
type AnalysisOptions struct {
	InputDir       string
	OutputDir      string
	SpecFilename   string
	OutputFilename string
	HTML           bool
}

// AnalysisRun reports what a batch analysis consumed and produced.
type AnalysisRun struct {
	Spec       *request.Spec
	Documents  []string
	Missing    []string
	OutputPath string
	// Output is *rank.AnalysisResult or *rank.ErrorResult.
	Output any
}

// RunAnalysis loads the input specification from the input directory, ranks the documents
// it lists and writes the output artifact. A missing specification returns
// request.ErrSpecNotFound and writes nothing.
func RunAnalysis(ctx context.Context, p *rank.Pipeline, opts AnalysisOptions, log *slog.Logger) (*AnalysisRun, error) {
	spec, err := request.Load(filepath.Join(opts.InputDir, opts.SpecFilename))
	if err != nil {
		return nil, err
	}

	run := &AnalysisRun{
		Spec:       spec,
		Documents:  spec.Resolve(opts.InputDir),
		OutputPath: filepath.Join(opts.OutputDir, opts.OutputFilename),
	}
	for _, d := range run.Documents {
		if _, err := os.Stat(d); err != nil || !parser.IsPDF(d) {
			run.Missing = append(run.Missing, d)
		}
	}

	run.Output = p.Run(ctx, run.Documents, spec.Query())
	if err := report.WriteJSON(run.OutputPath, run.Output); err != nil {
		return run, err
	}
	if res, ok := run.Output.(*rank.AnalysisResult); ok && opts.HTML {
		page, err := report.HTML("Document analysis", report.AnalysisMarkdown(res))
		if err != nil {
			return run, err
		}
		if err := writeFile(replaceExt(run.OutputPath, ".html"), page); err != nil {
			return run, err
		}
	}
	log.Info("analysis saved", "output", run.OutputPath)
	return run, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func replaceExt(path, ext string) string {
	return path[:len(path)-len(filepath.Ext(path))] + ext
}
