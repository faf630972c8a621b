package main

import (
	"github.com/spf13/cobra"

	"github.com/iyhunko/platforma-manager/internal/sheets"
	"github.com/iyhunko/platforma-manager/internal/ui"
)

var exportXLSXPath string

func init() {
	exportCmd.Flags().StringVar(&exportXLSXPath, "xlsx", "", "also write the catalog to a new XLSX workbook at this path")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Regenerate the catalog data block in the site script",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		summary, err := a.service.ExportSite(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		ui.Success(out, "%s %s", summary.Message, ui.Dim.Render(a.conf.Site.DataPath))

		if exportXLSXPath != "" {
			if err := sheets.ExportWorkbook(exportXLSXPath, a.service.Products()); err != nil {
				return err
			}
			ui.Success(out, "Workbook written %s", ui.Dim.Render(exportXLSXPath))
		}
		return nil
	},
}
