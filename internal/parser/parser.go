package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
)

// ErrNotPDF is returned when a path does not carry a .pdf extension.
var ErrNotPDF = errors.New("not a pdf document")

// SpanSource yields positioned text spans per page.
type SpanSource interface {
	ExtractSpans(path string) ([]doctree.PageSpans, error)
}

// PageTextSource yields one raw text string per non-empty page.
type PageTextSource interface {
	ExtractPageText(path string) ([]doctree.PageText, error)
}

// IsPDF checks the file extension case-insensitively.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// DocumentID is the identifier used for a document in ranked output.
func DocumentID(path string) string {
	return filepath.Base(path)
}

// ListPDFs returns the PDF files directly inside dir, sorted by name.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsPDF(e.Name()) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}
