package rank

import (
	"fmt"
	"time"
)

// TimestampLayout renders local time with microseconds and no zone.
const TimestampLayout = "2006-01-02T15:04:05.000000"

type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

type ExtractedSection struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     int    `json:"page_number"`
}

type SubsectionAnalysis struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// AnalysisResult is the ranked output of one run.
type AnalysisResult struct {
	Metadata           Metadata             `json:"metadata"`
	ExtractedSections  []ExtractedSection   `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionAnalysis `json:"subsection_analysis"`
}

type ErrorMetadata struct {
	ProcessingTimestamp string `json:"processing_timestamp"`
}

// ErrorResult replaces AnalysisResult when a run aborts.
type ErrorResult struct {
	Error    string        `json:"error"`
	Metadata ErrorMetadata `json:"metadata"`
}

// AnalysisError aborts a whole run. No partial ranking is kept.
type AnalysisError struct {
	Err  error
	Time time.Time
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Result renders the error-shaped output artifact.
func (e *AnalysisError) Result() *ErrorResult {
	return &ErrorResult{
		Error:    e.Err.Error(),
		Metadata: ErrorMetadata{ProcessingTimestamp: e.Time.Format(TimestampLayout)},
	}
}
