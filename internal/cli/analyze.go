package cli

import (
	"github.com/spf13/cobra"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/app"
)

var (
	analyzeSpec   string
	analyzeOutput string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank document sections for a persona and job-to-be-done",
	Long: `Read the input specification from the input directory, rank every section
of the listed PDFs against its persona and job-to-be-done, and write the
top sections and sub-section analysis to the output file.

A missing specification is an error and writes nothing. Other failures
produce an error artifact in place of the result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		components, err := app.Build(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer components.Close()

		opts := app.AnalysisOptions{
			InputDir:       cfg.InputDir,
			OutputDir:      cfg.OutputDir,
			SpecFilename:   cfg.SpecFilename,
			OutputFilename: cfg.OutputFilename,
			HTML:           writeHTML,
		}
		if analyzeSpec != "" {
			opts.SpecFilename = analyzeSpec
		}
		if analyzeOutput != "" {
			opts.OutputFilename = analyzeOutput
		}

		run, err := app.RunAnalysis(cmd.Context(), components.Analyzer, opts, log)
		if err != nil {
			log.Error("analysis failed", "error", err)
			return err
		}
		printAnalysisSummary(cmd.OutOrStdout(), run)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeSpec, "spec", "", "Specification filename inside the input directory (default $SPEC_FILENAME)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "out-file", "", "Output filename inside the output directory (default $OUTPUT_FILENAME)")
	rootCmd.AddCommand(analyzeCmd)
}
