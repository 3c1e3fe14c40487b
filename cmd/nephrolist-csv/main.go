// Package main is the entry point for the nephrolist-csv CLI, the offline
// counterpart of the upload page.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nephrolist-csv",
		Short: "Export and inspect NephroList clinical CSV files",
		Long: `nephrolist-csv produces the same dados_extraidos_nephrolist.csv the upload
page offers, without a browser. Export takes a PDF name through the same
gate as the page; inspect reads a CSV back into its fields.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("record-file", "", "YAML file with the record to export instead of the built-in one")
	_ = viper.BindPFlag("recordfile", rootCmd.PersistentFlags().Lookup("record-file"))

	rootCmd.AddCommand(
		newExportCmd(),
		newInspectCmd(),
		newFieldsCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func initConfig() {
	viper.SetEnvPrefix("NEPHROLIST")
	viper.AutomaticEnv()
}

func main() {
	cobra.OnInitialize(initConfig)

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
