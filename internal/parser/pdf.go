package parser

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser reads PDFs with the Go library. Page text falls back to
// pdftotext when enabled and the library fails.
type PDFParser struct {
	FallbackPdftotext bool
}

// ExtractSpans returns the spans of every page, including pages without text.
func (p *PDFParser) ExtractSpans(path string) (pages []doctree.PageSpans, err error) {
	if !IsPDF(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotPDF)
	}
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()
	// The content stream decoder panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("read pdf content: %v", r)
		}
	}()

	numPages := reader.NumPage()
	pages = make([]doctree.PageSpans, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		ps := doctree.PageSpans{PageNumber: i}
		if !page.V.IsNull() {
			ps.Spans = mergeGlyphs(page.Content().Text)
		}
		pages = append(pages, ps)
	}
	return pages, nil
}

// ExtractPageText returns the trimmed text of each page that has any.
func (p *PDFParser) ExtractPageText(path string) ([]doctree.PageText, error) {
	if !IsPDF(path) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotPDF)
	}
	texts, err := extractPDFPages(path)
	if err != nil && p.FallbackPdftotext {
		texts, err = extractPdftotext(path)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	docID := DocumentID(path)
	var pages []doctree.PageText
	for i, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, doctree.PageText{
			PageNumber: i + 1,
			Text:       text,
			DocumentID: docID,
		})
	}
	return pages, nil
}

// extractPDFPages returns one string per page, lines separated by newlines.
func extractPDFPages(path string) (texts []string, err error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	defer func() {
		if r := recover(); r != nil {
			texts = nil
			err = fmt.Errorf("read pdf rows: %v", r)
		}
	}()

	numPages := reader.NumPage()
	texts = make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, joinGlyphs(row.Content))
		}
		texts[i-1] = strings.Join(lines, "\n")
	}
	return texts, nil
}

func extractPdftotext(path string) ([]string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	pages := strings.Split(string(out), "\f")
	// pdftotext terminates the last page with a form feed too.
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages, nil
}
