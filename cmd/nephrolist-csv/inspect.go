package main

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/a3tai/nephrolist-reader/internal/record"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file.csv>",
		Short: "Print the fields of a NephroList CSV",
		Long: `Inspect parses a CSV file and prints one "field: value" line per column for
every row. Files with the NephroList header are checked against the field
list; other CSV files are printed as they are.`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}

	cmd.Flags().Bool("json", false, "print the table as JSON")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	table, err := record.ParseCSV(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	nephrolist := slices.Equal(table.Columns, record.FieldNames())

	w := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	}

	for i := range table.Len() {
		fmt.Fprintf(w, "Row %d:\n", i+1)

		if nephrolist {
			rec, err := table.Record(i)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			for _, f := range rec.Fields() {
				fmt.Fprintf(w, "  %s: %s\n", f.Name, f.Value)
			}
			continue
		}

		row, _ := table.Row(i)
		for j, name := range table.Columns {
			fmt.Fprintf(w, "  %s: %s\n", name, row[j])
		}
	}

	if !nephrolist {
		fmt.Fprintln(cmd.ErrOrStderr(), "note: header does not match the NephroList field list")
	}
	return nil
}
