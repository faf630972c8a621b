package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iyhunko/platforma-manager/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:           "platforma-manager",
	Short:         "Catalog manager for the Platforma storefront",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Long = ui.Green.Render("platforma-manager") + "\n" +
		ui.Dim.Render("Keeps products.json, the Google Sheet and the storefront data block in step.")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Red.Render("error:"), err)
		os.Exit(1)
	}
}
