package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/app"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/outline"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/rank"
)

// summaryTop is how many ranked sections the terminal summary shows.
const summaryTop = 3

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for summary boxes
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)
)

func printOutlineSummary(w io.Writer, results []outline.Result) {
	var lines []string
	lines = append(lines, titleStyle.Render("Outlines"))
	failed := 0
	for _, r := range results {
		name := filepath.Base(r.Path)
		if r.Err != nil {
			failed++
			lines = append(lines, errorStyle.Render("✗ ")+name+dimStyle.Render(" "+r.Err.Error()))
			continue
		}
		lines = append(lines, successStyle.Render("✓ ")+name+
			dimStyle.Render(fmt.Sprintf(" %q, %d headings", r.Outline.Title, len(r.Outline.Headings))))
	}
	lines = append(lines, dimStyle.Render(fmt.Sprintf("%d processed, %d failed", len(results), failed)))
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

func printAnalysisSummary(w io.Writer, run *app.AnalysisRun) {
	var lines []string
	lines = append(lines, titleStyle.Render("Analysis"))
	lines = append(lines, dimStyle.Render("Persona: ")+run.Spec.Persona)
	lines = append(lines, dimStyle.Render("Job:     ")+run.Spec.Job)
	lines = append(lines, dimStyle.Render(fmt.Sprintf("Documents: %d found, %d missing",
		len(run.Documents)-len(run.Missing), len(run.Missing))))
	for _, m := range run.Missing {
		lines = append(lines, errorStyle.Render("✗ ")+filepath.Base(m))
	}

	switch out := run.Output.(type) {
	case *rank.AnalysisResult:
		for _, s := range out.ExtractedSections[:min(summaryTop, len(out.ExtractedSections))] {
			lines = append(lines, successStyle.Render(fmt.Sprintf("%d. ", s.ImportanceRank))+s.SectionTitle+
				dimStyle.Render(fmt.Sprintf(" (%s, p.%d)", s.Document, s.PageNumber)))
		}
	case *rank.ErrorResult:
		lines = append(lines, errorStyle.Render("Error: ")+out.Error)
	}

	lines = append(lines, dimStyle.Render("Saved to "+run.OutputPath))
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}
