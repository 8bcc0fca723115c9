package doctree

import "strings"

// BBox is a span bounding box in PDF user space: x0, y0, x1, y1.
type BBox [4]float64

// TextSpan is a contiguous run of text sharing one font and size on a page.
type TextSpan struct {
	Text     string
	FontSize float64
	IsBold   bool
	BBox     BBox
	FontName string
}

// PageSpans holds the spans of one page in reading order.
type PageSpans struct {
	PageNumber int // 1-based
	Spans      []TextSpan
}

// Level is a heading level in an outline.
type Level string

const (
	LevelNone Level = ""
	LevelH1   Level = "H1"
	LevelH2   Level = "H2"
	LevelH3   Level = "H3"
)

// Heading is a single outline entry.
type Heading struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Outline is the per-document structure artifact.
type Outline struct {
	Title    string    `json:"title"`
	Headings []Heading `json:"outline"`
}

// PageText is one page's raw text with the document it came from.
type PageText struct {
	PageNumber int
	Text       string
	DocumentID string
}

// Section is a contiguous run of a document's text between two detected headers.
type Section struct {
	DocumentID     string
	Title          string
	PageStart      int
	PageEnd        int
	Content        string
	RelevanceScore float64
}

// SectionBuilder accumulates a section's content until it is closed.
type SectionBuilder struct {
	documentID string
	title      string
	pageStart  int
	pageEnd    int
	content    strings.Builder
}

// NewSectionBuilder opens a section on the given page.
func NewSectionBuilder(documentID, title string, page int) *SectionBuilder {
	return &SectionBuilder{
		documentID: documentID,
		title:      title,
		pageStart:  page,
		pageEnd:    page,
	}
}

// Append adds a content line followed by a separating space and extends the
// page range to page.
func (b *SectionBuilder) Append(line string, page int) {
	b.content.WriteString(line)
	b.content.WriteByte(' ')
	b.pageEnd = page
}

// Empty reports whether the accumulated content is blank.
func (b *SectionBuilder) Empty() bool {
	return strings.TrimSpace(b.content.String()) == ""
}

// Build freezes the builder into a Section.
func (b *SectionBuilder) Build() Section {
	return Section{
		DocumentID: b.documentID,
		Title:      b.title,
		PageStart:  b.pageStart,
		PageEnd:    b.pageEnd,
		Content:    b.content.String(),
	}
}

// Subsection is a ranked excerpt of a section.
type Subsection struct {
	DocumentID     string
	PageNumber     int
	RefinedText    string
	RelevanceScore float64
}

// Query is the persona and task a ranking run is performed for.
type Query struct {
	Persona string
	Job     string
}

// Text is the combined string that gets embedded for the query.
func (q Query) Text() string {
	return q.Persona + " " + q.Job
}
