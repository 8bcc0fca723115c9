package rank

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
)

const (
	DefaultTopK = 3

	minCandidateRunes = 50
	maxCandidates     = 10
	minScoredRunes    = 100
	refinedTextRunes  = 500
)

// SubsectionExtractor splits a section into paragraphs, or sentences when
// no paragraph qualifies, and ranks them by raw similarity.
type SubsectionExtractor struct {
	scorer *Scorer
	topK   int
}

func NewSubsectionExtractor(s *Scorer, topK int) *SubsectionExtractor {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &SubsectionExtractor{scorer: s, topK: topK}
}

func (x *SubsectionExtractor) Extract(ctx context.Context, sec doctree.Section, q doctree.Query) ([]doctree.Subsection, error) {
	var out []doctree.Subsection
	for _, c := range Candidates(sec.Content) {
		if utf8.RuneCountInString(c) <= minScoredRunes {
			continue
		}
		sim, err := x.scorer.Similarity(ctx, q, c)
		if err != nil {
			return nil, err
		}
		out = append(out, doctree.Subsection{
			DocumentID:     sec.DocumentID,
			PageNumber:     sec.PageStart,
			RefinedText:    refine(c),
			RelevanceScore: sim,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RelevanceScore > out[j].RelevanceScore
	})
	if len(out) > x.topK {
		out = out[:x.topK]
	}
	return out, nil
}

// Candidates returns at most the first 10 trimmed paragraphs longer than 50
// runes, falling back to '.'-delimited sentences under the same filter.
func Candidates(content string) []string {
	parts := splitKeep(content, "\n\n")
	if len(parts) == 0 {
		parts = splitKeep(content, ".")
	}
	if len(parts) > maxCandidates {
		parts = parts[:maxCandidates]
	}
	return parts
}

func splitKeep(content, sep string) []string {
	var out []string
	for _, p := range strings.Split(content, sep) {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) > minCandidateRunes {
			out = append(out, p)
		}
	}
	return out
}

func refine(s string) string {
	if utf8.RuneCountInString(s) <= refinedTextRunes {
		return s
	}
	return truncateRunes(s, refinedTextRunes) + "..."
}
