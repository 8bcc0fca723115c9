package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/rank"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// AnalysisMarkdown summarizes a ranked result as Markdown tables.
func AnalysisMarkdown(res *rank.AnalysisResult) []byte {
	var b bytes.Buffer
	m := res.Metadata
	fmt.Fprintf(&b, "# Document analysis\n\n")
	fmt.Fprintf(&b, "- **Persona:** %s\n", escape(m.Persona))
	fmt.Fprintf(&b, "- **Job to be done:** %s\n", escape(m.JobToBeDone))
	fmt.Fprintf(&b, "- **Processed:** %s\n", m.ProcessingTimestamp)
	fmt.Fprintf(&b, "- **Documents:** %d\n\n", len(m.InputDocuments))

	b.WriteString("## Extracted sections\n\n")
	if len(res.ExtractedSections) == 0 {
		b.WriteString("_No sections found._\n\n")
	} else {
		b.WriteString("| Rank | Section | Document | Page |\n|---:|---|---|---:|\n")
		for _, s := range res.ExtractedSections {
			fmt.Fprintf(&b, "| %d | %s | %s | %d |\n", s.ImportanceRank, escape(s.SectionTitle), escape(s.Document), s.PageNumber)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Subsection analysis\n\n")
	if len(res.SubsectionAnalysis) == 0 {
		b.WriteString("_No subsections found._\n")
	}
	for i, s := range res.SubsectionAnalysis {
		fmt.Fprintf(&b, "### %d. %s, page %d\n\n> %s\n\n", i+1, escape(s.Document), s.PageNumber, escape(s.RefinedText))
	}
	return b.Bytes()
}

// OutlineMarkdown renders headings as a list indented by level.
func OutlineMarkdown(o doctree.Outline) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n\n", escape(o.Title))
	if len(o.Headings) == 0 {
		b.WriteString("_No headings detected._\n")
	}
	for _, h := range o.Headings {
		indent := ""
		switch h.Level {
		case doctree.LevelH2:
			indent = "  "
		case doctree.LevelH3:
			indent = "    "
		}
		fmt.Fprintf(&b, "%s- %s (p. %d)\n", indent, escape(h.Text), h.Page)
	}
	return b.Bytes()
}

// HTML converts markdown into a standalone page.
func HTML(title string, markdown []byte) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert(markdown, &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	var out bytes.Buffer
	fmt.Fprintf(&out, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", html.EscapeString(title))
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "|", `\|`, "#", `\#`,
	"\n", " ",
)

func escape(s string) string {
	return mdEscaper.Replace(s)
}
