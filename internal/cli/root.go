// Package cli is the docrank command line: batch outline extraction and
// persona-driven analysis over a directory of PDFs.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/app"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/config"
)

var (
	envFile   string
	inputDir  string
	outputDir string
	logLevel  string
	writeHTML bool

	cfg config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docrank",
	Short: "Outline and rank the sections of PDF collections",
	Long: `docrank reads the PDFs in an input directory and either extracts a
heading outline per document or ranks every section against a persona and
job-to-be-done described in a JSON input specification.

Configuration comes from the environment and an optional .env file; the
flags below override it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotenv(envFile); err != nil {
			return err
		}
		cfg = config.Load()
		if cmd.Flags().Changed("input") {
			cfg.InputDir = inputDir
		}
		if cmd.Flags().Changed("output") {
			cfg.OutputDir = outputDir
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		log = app.NewLogger(cmd.ErrOrStderr(), cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Path to an optional .env file")
	rootCmd.PersistentFlags().StringVarP(&inputDir, "input", "i", "", "Input directory (default $INPUT_DIR)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Output directory (default $OUTPUT_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&writeHTML, "html", false, "Also write an HTML report next to each JSON artifact")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
