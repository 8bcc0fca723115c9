package sections

import (
	"strings"
	"testing"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
)

func TestHeaderTitle(t *testing.T) {
	tests := []struct {
		line  string
		title string
		ok    bool
	}{
		{"3.2 Methodology Overview", "Methodology Overview", true},
		{"1. Getting Started", "Getting Started", true},
		{"B. Appendix: tables", "Appendix: tables", true},
		{"IV. Results and discussion", "Results and discussion", true},
		{"Chapter 3: Coastal towns", "Coastal towns", true},
		{"section 12", "section 12", true},
		{"Conclusion and next steps", "Conclusion and next steps", true},
		{"executive summary of the plan", "executive summary of the plan", true},
		{"3.2\u00a0Methodology Overview", "Methodology Overview", true},
		{"Chapter\u00a03:\u00a0Coastal towns", "Coastal towns", true},
		{"Coastal Adventures", "Coastal Adventures", true},
		{"PACKING LIST", "PACKING LIST", true},
		{"Travel Tips For 2024", "", false},
		{"Prices In $", "", false},
		{"Save 20% Today", "", false},
		{"Short", "", false},
		{"the beaches of nice are lovely in spring.", "", false},
		{"Visit the old town and its markets.", "", false},
	}
	for _, tt := range tests {
		title, ok := HeaderTitle(tt.line)
		if ok != tt.ok || title != tt.title {
			t.Errorf("HeaderTitle(%q) = (%q, %v), want (%q, %v)", tt.line, title, ok, tt.title, tt.ok)
		}
	}
}

func TestIsTitleAndUpper(t *testing.T) {
	tests := []struct {
		s            string
		title, upper bool
	}{
		{"Coastal Adventures", true, false},
		{"Coastal adventures", false, false},
		{"CULINARY EXPERIENCES", false, true},
		{"3.2 Methodology Overview", true, false},
		{"1234", false, false},
		{"Don'T Stop", true, false},
	}
	for _, tt := range tests {
		if got := isTitle(tt.s); got != tt.title {
			t.Errorf("isTitle(%q) = %v, want %v", tt.s, got, tt.title)
		}
		if got := isUpper(tt.s); got != tt.upper {
			t.Errorf("isUpper(%q) = %v, want %v", tt.s, got, tt.upper)
		}
	}
}

func TestSegment_ImplicitIntroduction(t *testing.T) {
	pages := []doctree.PageText{{
		PageNumber: 1,
		DocumentID: "guide.pdf",
		Text:       "the south of france is warm.\nit has many beaches.",
	}}
	got := Segment(pages)
	if len(got) != 1 {
		t.Fatalf("expected 1 section, got %d", len(got))
	}
	if got[0].Title != DefaultTitle {
		t.Errorf("expected title %q, got %q", DefaultTitle, got[0].Title)
	}
	if got[0].Content != "the south of france is warm. it has many beaches. " {
		t.Errorf("unexpected content %q", got[0].Content)
	}
	if got[0].DocumentID != "guide.pdf" {
		t.Errorf("unexpected document id %q", got[0].DocumentID)
	}
}

func TestSegment_PageRangesAndEmptySections(t *testing.T) {
	pages := []doctree.PageText{
		{PageNumber: 1, DocumentID: "d.pdf", Text: "Coastal Adventures\nthe beaches are great.\n\n   \nEmpty Header Here"},
		{PageNumber: 2, DocumentID: "d.pdf", Text: "Culinary Experiences\ntry the bouillabaisse.\nand the wine."},
		{PageNumber: 3, DocumentID: "d.pdf", Text: "cooking classes are available."},
	}
	got := Segment(pages)
	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(got), got)
	}

	if got[0].Title != "Coastal Adventures" || got[0].PageStart != 1 || got[0].PageEnd != 1 {
		t.Errorf("unexpected first section %+v", got[0])
	}
	if got[1].Title != "Culinary Experiences" || got[1].PageStart != 2 || got[1].PageEnd != 3 {
		t.Errorf("unexpected second section %+v", got[1])
	}
	want := "try the bouillabaisse. and the wine. cooking classes are available. "
	if got[1].Content != want {
		t.Errorf("expected content %q, got %q", want, got[1].Content)
	}
}

func TestSegment_EveryLineAccountedOnce(t *testing.T) {
	pages := []doctree.PageText{
		{PageNumber: 1, DocumentID: "d.pdf", Text: "opening remarks here.\n1. Scope\nthe scope covers x.\nthe scope covers y."},
		{PageNumber: 2, DocumentID: "d.pdf", Text: "2. Terms\nterms are defined below.\nOVERVIEW OF TERMS\nmore text."},
	}
	var lines []string
	for _, p := range pages {
		for _, l := range strings.Split(p.Text, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
	}

	secs := Segment(pages)
	var content int
	for _, s := range secs {
		content += len(strings.Fields(s.Content))
	}
	var words int
	for _, l := range lines {
		if _, header := HeaderTitle(l); !header {
			words += len(strings.Fields(l))
		}
	}
	if content != words {
		t.Errorf("expected %d content words across sections, got %d", words, content)
	}
	if len(secs) != 4 {
		t.Errorf("expected 4 sections, got %d", len(secs))
	}
}

func TestSegment_NoPages(t *testing.T) {
	if got := Segment(nil); len(got) != 0 {
		t.Errorf("expected no sections, got %d", len(got))
	}
}
