package rank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/embed"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/parser"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/sections"
)

const (
	TopSections          = 10
	SubsectionSources    = 5
	TopSubsections       = 15
	DefaultMaxConcurrent = 4
)

// Pipeline segments and scores every document, then selects the top
// sections and their best sub-sections.
type Pipeline struct {
	pages       parser.PageTextSource
	scorer      *Scorer
	subsections *SubsectionExtractor
	concurrency int
	log         *slog.Logger
	now         func() time.Time
}

func NewPipeline(pages parser.PageTextSource, e embed.Embedder, maxConcurrent int, log *slog.Logger) *Pipeline {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if log == nil {
		log = slog.Default()
	}
	scorer := NewScorer(e)
	return &Pipeline{
		pages:       pages,
		scorer:      scorer,
		subsections: NewSubsectionExtractor(scorer, DefaultTopK),
		concurrency: maxConcurrent,
		log:         log,
		now:         time.Now,
	}
}

// Run is Analyze with failures folded into the error-shaped artifact. The
// returned value is either *AnalysisResult or *ErrorResult.
func (p *Pipeline) Run(ctx context.Context, docs []string, q doctree.Query) any {
	res, err := p.Analyze(ctx, docs, q)
	if err != nil {
		var ae *AnalysisError
		if !errors.As(err, &ae) {
			ae = &AnalysisError{Err: err, Time: p.now()}
		}
		return ae.Result()
	}
	return res
}

// Analyze ranks sections across docs. Paths that do not exist, are not
// PDFs, or cannot be read are skipped. Any other failure aborts the run
// with an *AnalysisError.
func (p *Pipeline) Analyze(ctx context.Context, docs []string, q doctree.Query) (res *AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, &AnalysisError{Err: fmt.Errorf("panic: %v", r), Time: p.now()}
		}
	}()

	p.log.Info("analyzing documents", "count", len(docs), "persona", q.Persona)

	perDoc := make([][]doctree.Section, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, path := range docs {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic processing %s: %v", parser.DocumentID(path), r)
				}
			}()
			secs, err := p.scoreDocument(gctx, path, q)
			if err != nil {
				return err
			}
			perDoc[i] = secs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &AnalysisError{Err: err, Time: p.now()}
	}

	var all []doctree.Section
	for _, secs := range perDoc {
		all = append(all, secs...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].RelevanceScore > all[j].RelevanceScore
	})
	top := all[:min(TopSections, len(all))]

	var subs []doctree.Subsection
	for _, sec := range top[:min(SubsectionSources, len(top))] {
		found, err := p.subsections.Extract(ctx, sec, q)
		if err != nil {
			return nil, &AnalysisError{Err: err, Time: p.now()}
		}
		subs = append(subs, found...)
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].RelevanceScore > subs[j].RelevanceScore
	})
	subs = subs[:min(TopSubsections, len(subs))]

	res = &AnalysisResult{
		Metadata: Metadata{
			InputDocuments:      make([]string, 0, len(docs)),
			Persona:             q.Persona,
			JobToBeDone:         q.Job,
			ProcessingTimestamp: p.now().Format(TimestampLayout),
		},
		ExtractedSections:  make([]ExtractedSection, 0, len(top)),
		SubsectionAnalysis: make([]SubsectionAnalysis, 0, len(subs)),
	}
	for _, d := range docs {
		res.Metadata.InputDocuments = append(res.Metadata.InputDocuments, parser.DocumentID(d))
	}
	for i, sec := range top {
		res.ExtractedSections = append(res.ExtractedSections, ExtractedSection{
			Document:       sec.DocumentID,
			SectionTitle:   sec.Title,
			ImportanceRank: i + 1,
			PageNumber:     sec.PageStart,
		})
	}
	for _, s := range subs {
		res.SubsectionAnalysis = append(res.SubsectionAnalysis, SubsectionAnalysis{
			Document:    s.DocumentID,
			RefinedText: s.RefinedText,
			PageNumber:  s.PageNumber,
		})
	}

	p.log.Info("analysis complete", "sections", len(res.ExtractedSections), "subsections", len(res.SubsectionAnalysis))
	return res, nil
}

// scoreDocument returns nil sections for documents that are skipped.
func (p *Pipeline) scoreDocument(ctx context.Context, path string, q doctree.Query) ([]doctree.Section, error) {
	if !parser.IsPDF(path) {
		p.log.Warn("skipping non-pdf document", "path", path)
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		p.log.Warn("skipping missing document", "path", path, "error", err)
		return nil, nil
	}

	pages, err := p.pages.ExtractPageText(path)
	if err != nil {
		p.log.Warn("skipping unreadable document", "path", path, "error", err)
		return nil, nil
	}

	p.log.Info("processing document", "document", parser.DocumentID(path), "pages", len(pages))
	secs := sections.Segment(pages)
	for i := range secs {
		score, err := p.scorer.Score(ctx, q, secs[i].Title, secs[i].Content)
		if err != nil {
			return nil, fmt.Errorf("score %s section %q: %w", parser.DocumentID(path), secs[i].Title, err)
		}
		secs[i].RelevanceScore = score
	}
	return secs, nil
}
