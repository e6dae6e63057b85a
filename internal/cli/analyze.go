package cli

import (
	"github.com/spf13/cobra"

	"salesreport/internal/app"
)

var (
	analyzeStart     string
	analyzeEnd       string
	analyzeOutputDir string
	analyzeFormats   []string
	analyzeSheet     string
	analyzeNoStore   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Build the sales report for an xlsx or csv export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.AnalyzeOptions{
			Input:     args[0],
			Start:     analyzeStart,
			End:       analyzeEnd,
			OutputDir: analyzeOutputDir,
			Formats:   analyzeFormats,
			Sheet:     analyzeSheet,
			NoStore:   analyzeNoStore,
		}
		return getApp().Analyze(cmd.Context(), opts)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeStart, "start", "", "First day to include (dd/mm/yyyy)")
	analyzeCmd.Flags().StringVar(&analyzeEnd, "end", "", "Last day to include (dd/mm/yyyy)")
	analyzeCmd.Flags().StringVar(&analyzeOutputDir, "output-dir", "", "Directory receiving the report folder (defaults to config)")
	analyzeCmd.Flags().StringSliceVar(&analyzeFormats, "format", nil, "Outputs to produce: console, markdown, chart, parquet (defaults to config)")
	analyzeCmd.Flags().StringVar(&analyzeSheet, "sheet", "", "Worksheet to read from xlsx inputs (defaults to the first sheet)")
	analyzeCmd.Flags().BoolVar(&analyzeNoStore, "no-store", false, "Do not persist the run even when a database is configured")
	analyzeCmd.MarkFlagsRequiredTogether("start", "end")
}
