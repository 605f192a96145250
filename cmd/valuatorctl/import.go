package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parts-pile/valuator/dataset"
	"github.com/parts-pile/valuator/db"
)

func newImportCmd() *cobra.Command {
	var csvPath, dbPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a cleaned CSV into a SQLite Listing table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, csvPath, dbPath)
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "data/Cleaned_Car_data.csv", "path to the cleaned CSV")
	cmd.Flags().StringVar(&dbPath, "db", "data/listings.db", "path to the SQLite database")
	return cmd
}

func runImport(cmd *cobra.Command, csvPath, dbPath string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	listings, err := dataset.LoadCSV(csvPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", csvPath, err)
	}

	conn, err := db.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.EnsureSchema(ctx, conn); err != nil {
		return err
	}
	if err := dataset.Insert(ctx, conn, listings); err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %d listings into %s\n", len(listings), dbPath)
	return nil
}
