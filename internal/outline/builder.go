package outline

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/parser"
)

const (
	TitleUntitled = "Untitled Document"
	TitleEmpty    = "Empty Document"
	TitleError    = "Error Processing Document"
)

// StructuralHeadings are heading names kept even without numbering.
var StructuralHeadings = []string{
	"Revision History",
	"Table of Contents",
	"Acknowledgements",
	"References",
	"Syllabus",
	"Business Outcomes",
	"Content",
	"Trademarks",
	"Documents and Web Sites",
}

var (
	whitespaceRe = regexp.MustCompile(`[\s\p{Z}]+`)
	numberedRe   = regexp.MustCompile(`^\d+\.[\s\p{Z}]`)
)

// Builder turns page spans into an Outline.
type Builder struct {
	classifier *Classifier
}

func NewBuilder(c *Classifier) *Builder {
	if c == nil {
		c = NewClassifier()
	}
	return &Builder{classifier: c}
}

// Build returns the outline of one document.
func (b *Builder) Build(pages []doctree.PageSpans) doctree.Outline {
	if len(pages) == 0 {
		return doctree.Outline{Title: TitleEmpty, Headings: []doctree.Heading{}}
	}
	return doctree.Outline{
		Title:    ExtractTitle(pages),
		Headings: b.Headings(pages),
	}
}

// ExtractTitle picks the longest text at the largest font size on the first
// page. Spans of three characters or fewer never compete.
func ExtractTitle(pages []doctree.PageSpans) string {
	if len(pages) == 0 {
		return TitleUntitled
	}

	var maxSize float64
	var candidates []string
	for _, span := range pages[0].Spans {
		text := strings.TrimSpace(span.Text)
		if utf8.RuneCountInString(text) <= 3 {
			continue
		}
		switch {
		case span.FontSize > maxSize:
			maxSize = span.FontSize
			candidates = []string{text}
		case span.FontSize == maxSize:
			candidates = append(candidates, text)
		}
	}
	if len(candidates) == 0 {
		return TitleUntitled
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if utf8.RuneCountInString(c) > utf8.RuneCountInString(best) {
			best = c
		}
	}
	return best
}

// Headings classifies every span, keeps numbered or structural headings,
// drops (text, level) repeats and orders the result by page.
func (b *Builder) Headings(pages []doctree.PageSpans) []doctree.Heading {
	avg := AverageFontSize(pages)
	headings := []doctree.Heading{}
	for _, page := range pages {
		for _, span := range page.Spans {
			level := b.classifier.Classify(span, avg)
			if level == doctree.LevelNone {
				continue
			}
			text := NormalizeText(span.Text)
			if !isKeptHeading(text) {
				continue
			}
			headings = append(headings, doctree.Heading{
				Level: level,
				Text:  text,
				Page:  page.PageNumber,
			})
		}
	}

	headings = dedupe(headings)
	sort.SliceStable(headings, func(i, j int) bool {
		return headings[i].Page < headings[j].Page
	})
	return headings
}

// NormalizeText trims text and collapses internal whitespace.
func NormalizeText(s string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

func isKeptHeading(text string) bool {
	if numberedRe.MatchString(text) {
		return true
	}
	for _, h := range StructuralHeadings {
		if strings.HasPrefix(text, h) {
			return true
		}
	}
	return false
}

func dedupe(headings []doctree.Heading) []doctree.Heading {
	type key struct {
		text  string
		level doctree.Level
	}
	seen := make(map[key]bool, len(headings))
	out := headings[:0]
	for _, h := range headings {
		k := key{text: strings.ToLower(h.Text), level: h.Level}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, h)
	}
	return out
}

// Result is the outcome of extracting one document's outline.
type Result struct {
	Path    string
	Outline doctree.Outline
	Err     error
}

// Extractor reads PDFs and builds outlines, isolating per-document failures.
type Extractor struct {
	source  parser.SpanSource
	builder *Builder
	log     *slog.Logger
}

func NewExtractor(source parser.SpanSource, builder *Builder, log *slog.Logger) *Extractor {
	if builder == nil {
		builder = NewBuilder(nil)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{source: source, builder: builder, log: log}
}

// Extract never fails: errors yield the error outline and are reported in
// Result.Err.
func (e *Extractor) Extract(path string) (res Result) {
	res.Path = path
	log := e.log.With("document", parser.DocumentID(path))
	log.Info("processing pdf")

	defer func() {
		if r := recover(); r != nil {
			log.Error("outline extraction panicked", "panic", r)
			res.Outline = errorOutline()
			res.Err = fmt.Errorf("outline extraction panic: %v", r)
		}
	}()

	pages, err := e.source.ExtractSpans(path)
	if err != nil {
		log.Error("error processing pdf", "error", err)
		return Result{Path: path, Outline: errorOutline(), Err: err}
	}

	res.Outline = e.builder.Build(pages)
	log.Info("extracted headings", "headings", len(res.Outline.Headings), "pages", len(pages))
	return res
}

func errorOutline() doctree.Outline {
	return doctree.Outline{Title: TitleError, Headings: []doctree.Heading{}}
}
