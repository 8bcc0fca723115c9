package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultDimensions matches the width of common sentence-embedding models.
const DefaultDimensions = 384

// Local is an offline embedder that hashes word unigrams and bigrams into a
// signed, L2-normalized vector. Identical text always yields the same vector.
type Local struct {
	dims int
}

func NewLocal(dims int) *Local {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Local{dims: dims}
}

func (l *Local) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float64, l.dims)
	words := tokenize(text)
	for i, w := range words {
		l.add(vec, w, 1)
		if i > 0 {
			l.add(vec, words[i-1]+" "+w, 0.5)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	out := make([]float32, l.dims)
	if norm == 0 {
		return out, nil
	}
	norm = math.Sqrt(norm)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out, nil
}

func (l *Local) add(vec []float64, feature string, weight float64) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(l.dims))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
