package parser

import (
	"math"
	"strings"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// Gap between glyphs, as a fraction of font size, that is read as a space.
const wordGapRatio = 0.25

// Vertical shift, as a fraction of font size, that starts a new line.
const lineShiftRatio = 0.5

var boldMarkers = []string{"bold", "black", "heavy", "semibold", "demi"}

// isBoldFont infers weight from the base font name, e.g. "Arial-BoldMT".
func isBoldFont(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range boldMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// mergeGlyphs groups content-stream glyphs into spans. A span breaks on a
// change of font, size or baseline.
func mergeGlyphs(glyphs []pdflib.Text) []doctree.TextSpan {
	var spans []doctree.TextSpan
	var cur *doctree.TextSpan
	var sb strings.Builder
	var lastY, lastEnd float64

	flush := func() {
		if cur == nil {
			return
		}
		text := strings.TrimSpace(sb.String())
		if text != "" {
			cur.Text = text
			spans = append(spans, *cur)
		}
		cur = nil
		sb.Reset()
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		newLine := cur != nil && math.Abs(g.Y-lastY) > lineShiftRatio*g.FontSize
		if cur == nil || g.Font != cur.FontName || g.FontSize != cur.FontSize || newLine {
			flush()
			cur = &doctree.TextSpan{
				FontSize: g.FontSize,
				FontName: g.Font,
				IsBold:   isBoldFont(g.Font),
				BBox:     doctree.BBox{g.X, g.Y, g.X + g.W, g.Y + g.FontSize},
			}
		} else if g.X-lastEnd > wordGapRatio*g.FontSize && needsSpace(sb.String(), g.S) {
			sb.WriteByte(' ')
		}
		sb.WriteString(g.S)
		cur.BBox[0] = math.Min(cur.BBox[0], g.X)
		cur.BBox[2] = math.Max(cur.BBox[2], g.X+g.W)
		lastY = g.Y
		lastEnd = g.X + g.W
	}
	flush()
	return spans
}

// joinGlyphs concatenates one row of glyphs into a line of text.
func joinGlyphs(glyphs []pdflib.Text) string {
	var sb strings.Builder
	var lastEnd float64
	for i, g := range glyphs {
		if i > 0 && g.X-lastEnd > wordGapRatio*g.FontSize && needsSpace(sb.String(), g.S) {
			sb.WriteByte(' ')
		}
		sb.WriteString(g.S)
		lastEnd = g.X + g.W
	}
	return strings.TrimSpace(sb.String())
}

func needsSpace(prev, next string) bool {
	return prev != "" && !strings.HasSuffix(prev, " ") && !strings.HasPrefix(next, " ")
}
