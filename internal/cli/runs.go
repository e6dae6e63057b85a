package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"salesreport/internal/app"
)

var (
	runsLimit int
	runsID    string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if runsLimit <= 0 {
			return fmt.Errorf("--limit must be greater than zero")
		}

		opts := app.RunsOptions{
			Limit: runsLimit,
			RunID: runsID,
		}

		return getApp().Runs(cmd.Context(), opts)
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Number of rows to display")
	runsCmd.Flags().StringVar(&runsID, "id", "", "Show the stored product ranking of this run")
}
