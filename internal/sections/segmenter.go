// Package sections splits raw page text into titled, contiguous sections.
package sections

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
)

// DefaultTitle names the section opened by content that precedes any header.
const DefaultTitle = "Introduction"

// Marker recognizes a header line by its leading text. When StripPrefix is
// set the matched prefix is numbering and is removed from the title.
type Marker struct {
	Name        string
	Re          *regexp.Regexp
	StripPrefix bool
}

// Markers are evaluated in order, case-insensitively.
var Markers = []Marker{
	{Name: "numbered", Re: regexp.MustCompile(`(?i)^(\d+\.?\d*[\s\p{Z}]+)`), StripPrefix: true},
	{Name: "lettered", Re: regexp.MustCompile(`(?i)^([A-Z]\.?\t?[\s\p{Z}]+)`), StripPrefix: true},
	{Name: "roman", Re: regexp.MustCompile(`(?i)^([IVX]+\.?\t?[\s\p{Z}]+)`), StripPrefix: true},
	{Name: "chapter", Re: regexp.MustCompile(`(?i)^(Chapter[\s\p{Z}]+\d+)`), StripPrefix: true},
	{Name: "section", Re: regexp.MustCompile(`(?i)^(Section[\s\p{Z}]+\d+)`), StripPrefix: true},
	{Name: "discourse", Re: regexp.MustCompile(`(?i)^(Abstract|Introduction|Conclusion|Results|Discussion|Methods|Methodology)`)},
	{Name: "report", Re: regexp.MustCompile(`(?i)^(Executive Summary|Overview|Background|Findings|Recommendations)`)},
}

// Lines containing a year-like number, currency or percentages are content.
var figureRe = regexp.MustCompile(`\d{4}|\$|%`)

const prefixPunct = " \t\u00a0.:;)-–—"

// HeaderTitle reports whether line is a section header and, if so, the
// title it opens.
func HeaderTitle(line string) (string, bool) {
	for _, m := range Markers {
		loc := m.Re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if !m.StripPrefix {
			return line, true
		}
		title := strings.TrimSpace(strings.TrimLeft(line[loc[1]:], prefixPunct))
		if title == "" {
			title = line
		}
		return title, true
	}

	n := utf8.RuneCountInString(line)
	if n > 5 && n < 100 && (isUpper(line) || isTitle(line)) && !figureRe.MatchString(line) {
		return line, true
	}
	return "", false
}

// Segment walks every page line by line and groups lines under the most
// recent header. Sections with blank content are dropped.
func Segment(pages []doctree.PageText) []doctree.Section {
	var out []doctree.Section
	var cur *doctree.SectionBuilder

	closeCurrent := func() {
		if cur != nil && !cur.Empty() {
			out = append(out, cur.Build())
		}
	}

	for _, page := range pages {
		for _, raw := range strings.Split(page.Text, "\n") {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}

			if title, ok := HeaderTitle(line); ok {
				closeCurrent()
				cur = doctree.NewSectionBuilder(page.DocumentID, title, page.PageNumber)
				continue
			}

			if cur == nil {
				cur = doctree.NewSectionBuilder(page.DocumentID, DefaultTitle, page.PageNumber)
			}
			cur.Append(line, page.PageNumber)
		}
	}
	closeCurrent()
	return out
}

// isUpper reports at least one cased rune and no lower-case ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// isTitle reports that upper-case runes only start words and
// lower-case runes only follow cased runes.
func isTitle(s string) bool {
	cased, prevCased := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}
