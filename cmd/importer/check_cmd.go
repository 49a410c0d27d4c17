package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discfound/discfound-backend/internal/importer"
	"github.com/discfound/discfound-backend/internal/reports"
)

type checkOutput struct {
	File       string                   `json:"file"`
	Column     string                   `json:"column"`
	Rows       int                      `json:"rows"`
	Duplicates []reports.DuplicateValue `json:"duplicates"`
}

// newCheckCmd scans one export file for duplicate key values before anything
// touches the database. Finding duplicates is a report, not a failure.
func newCheckCmd() *cobra.Command {
	var (
		file   string
		column string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Scan an export CSV for duplicate key values",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := importer.ReadTableFile(file)
			if err != nil {
				return err
			}
			if err := table.RequireColumns(column); err != nil {
				return err
			}

			duplicates := reports.DuplicateValues(table, column)

			if asJSON {
				return writeJSON(checkOutput{
					File:       file,
					Column:     column,
					Rows:       len(table.Rows),
					Duplicates: duplicates,
				})
			}

			fmt.Printf("%s: %d rows, column %q\n", file, len(table.Rows), column)
			if len(duplicates) == 0 {
				fmt.Println("no duplicates")
				return nil
			}
			fmt.Println("duplicates (worst first):")
			for _, dup := range duplicates {
				fmt.Printf("  - %s (%d)\n", dup.Value, dup.Count)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Export CSV path (required)")
	cmd.Flags().StringVar(&column, "column", importer.ColRowID, "Column to scan for duplicates")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit machine-readable JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
