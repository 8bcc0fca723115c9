// Package outline infers a title and a leveled heading list from the
// positioned text spans of a PDF.
package outline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
)

// Pattern is a named heading-prefix matcher.
type Pattern struct {
	Name string
	Re   *regexp.Regexp
}

// HeadingPatterns is evaluated in order; the first match wins.
var HeadingPatterns = []Pattern{
	{Name: "numbered", Re: regexp.MustCompile(`^(\d+\.?\d*[\s\p{Z}]+)`)},
	{Name: "lettered", Re: regexp.MustCompile(`^([A-Z]\.?[\s\p{Z}]+)`)},
	{Name: "roman", Re: regexp.MustCompile(`^([IVX]+\.?[\s\p{Z}]+)`)},
	{Name: "chapter", Re: regexp.MustCompile(`^(Chapter[\s\p{Z}]+\d+)`)},
	{Name: "section", Re: regexp.MustCompile(`^(Section[\s\p{Z}]+\d+)`)},
	{Name: "chapter_upper", Re: regexp.MustCompile(`^(CHAPTER[\s\p{Z}]+\d+)`)},
	{Name: "part", Re: regexp.MustCompile(`^(Part[\s\p{Z}]+\d+)`)},
}

// MatchHeadingPattern returns the name of the first pattern matching the
// trimmed text.
func MatchHeadingPattern(text string) (string, bool) {
	text = strings.TrimSpace(text)
	for _, p := range HeadingPatterns {
		if p.Re.MatchString(text) {
			return p.Name, true
		}
	}
	return "", false
}

// Thresholds are absolute font-size bands in points.
type Thresholds struct {
	Title float64
	H1    float64
	H2    float64
	H3    float64
}

// DefaultThresholds returns the document-independent size bands.
func DefaultThresholds() Thresholds {
	return Thresholds{Title: 18, H1: 16, H2: 14, H3: 12}
}

// Classifier labels single spans as heading levels.
type Classifier struct {
	thresholds Thresholds
}

func NewClassifier() *Classifier {
	return &Classifier{thresholds: DefaultThresholds()}
}

func NewClassifierWithThresholds(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Classify returns the heading level of span, or LevelNone.
//
// The title band maps to H1: a separate Title level is never emitted.
func (c *Classifier) Classify(span doctree.TextSpan, avgFontSize float64) doctree.Level {
	text := strings.TrimSpace(span.Text)
	size := span.FontSize

	if utf8.RuneCountInString(text) < 2 || isDigits(text) {
		return doctree.LevelNone
	}

	switch {
	case size >= c.thresholds.Title:
		return doctree.LevelH1
	case size >= c.thresholds.H1:
		return doctree.LevelH1
	case size >= c.thresholds.H2:
		return doctree.LevelH2
	case size >= c.thresholds.H3:
		return doctree.LevelH3
	}

	if _, ok := MatchHeadingPattern(text); ok {
		switch {
		case size > avgFontSize*1.2:
			return doctree.LevelH1
		case size > avgFontSize*1.1:
			return doctree.LevelH2
		default:
			return doctree.LevelH3
		}
	}

	if span.IsBold && size > avgFontSize*1.1 {
		switch {
		case size > avgFontSize*1.3:
			return doctree.LevelH1
		case size > avgFontSize*1.2:
			return doctree.LevelH2
		default:
			return doctree.LevelH3
		}
	}

	return doctree.LevelNone
}

// AverageFontSize is the mean size of every span in the document, or 12
// when there are none.
func AverageFontSize(pages []doctree.PageSpans) float64 {
	var sum float64
	var n int
	for _, p := range pages {
		for _, s := range p.Spans {
			sum += s.FontSize
			n++
		}
	}
	if n == 0 {
		return 12
	}
	return sum / float64(n)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
