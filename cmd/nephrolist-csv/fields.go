package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/a3tai/nephrolist-reader/internal/record"
)

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the exported fields in column order",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for i, name := range record.FieldNames() {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, name)
			}
		},
	}
}
