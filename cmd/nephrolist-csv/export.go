package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/a3tai/nephrolist-reader/internal/config"
	"github.com/a3tai/nephrolist-reader/internal/intake"
	"github.com/a3tai/nephrolist-reader/internal/record"
	"github.com/a3tai/nephrolist-reader/internal/session"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file.pdf>",
		Short: "Write the clinical CSV for a PDF",
		Long: `Export accepts a file with a .pdf name and writes the clinical record as
CSV, to stdout or to --out. When --out is a directory the file is named
dados_extraidos_nephrolist.csv. The PDF body is not read.`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringP("out", "o", "", "output file or directory (default stdout)")
	cmd.Flags().Int64("max-file-size", config.DefaultMaxFileSize, "maximum PDF size in bytes")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	maxFileSize, _ := cmd.Flags().GetInt64("max-file-size")

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	trigger, err := intake.NewGate(maxFileSize).Accept(&intake.Upload{Filename: path, Size: info.Size()})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	source, err := record.NewSource(viper.GetString("recordfile"))
	if err != nil {
		return err
	}

	state, err := session.Activate(cmd.Context(), source, trigger)
	if err != nil {
		return err
	}

	if out == "" {
		_, err := cmd.OutOrStdout().Write(state.CSV)
		return err
	}

	if fi, err := os.Stat(out); err == nil && fi.IsDir() {
		out = filepath.Join(out, record.CSVFileName)
	}
	if err := os.WriteFile(out, state.CSV, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Dados extraídos com sucesso! %s\n", out)
	return nil
}
