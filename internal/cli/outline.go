package cli

import (
	"github.com/spf13/cobra"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/app"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/outline"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/parser"
)

var outlineConcurrency int

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Extract a title and heading outline from every PDF",
	Long: `Extract a title and H1/H2/H3 outline from every PDF in the input directory
and write <name>.json per document to the output directory. Documents that
cannot be parsed get an error outline; the batch always completes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pdf := &parser.PDFParser{FallbackPdftotext: cfg.PDFFallbackPdftotext}
		e := outline.NewExtractor(pdf, nil, log)

		results, err := app.RunOutlines(e, app.OutlineOptions{
			InputDir:    cfg.InputDir,
			OutputDir:   cfg.OutputDir,
			HTML:        writeHTML,
			Concurrency: outlineConcurrency,
		}, log)
		if err != nil {
			return err
		}
		printOutlineSummary(cmd.OutOrStdout(), results)
		return nil
	},
}

func init() {
	outlineCmd.Flags().IntVarP(&outlineConcurrency, "concurrency", "c", 4, "Documents processed in parallel")
	rootCmd.AddCommand(outlineCmd)
}
