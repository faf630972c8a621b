package main

import (
	"github.com/spf13/cobra"

	"github.com/iyhunko/platforma-manager/internal/ui"
)

func init() {
	rootCmd.AddCommand(syncCmd, pushCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull sheet rows into products.json (update or insert, never delete)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		result, err := a.service.SyncFromSheet(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if result.Summary.Changed {
			ui.Success(out, "%s", result.Summary.Message)
		} else {
			ui.Notice(out, "%s", result.Summary.Message)
		}
		for _, skip := range result.Report.Skipped {
			ui.Warning(out, "row %d skipped: %s %s", skip.Row, skip.Reason, ui.Dim.Render(skip.Detail))
		}
		return nil
	},
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Write products.json to the sheet, matching rows by ID",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		report, summary, err := a.service.PushToSheet(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case report.Failed > 0:
			ui.Warning(out, "%s", summary.Message)
		case summary.Changed:
			ui.Success(out, "%s", summary.Message)
		default:
			ui.Notice(out, "%s", summary.Message)
		}
		return nil
	},
}
