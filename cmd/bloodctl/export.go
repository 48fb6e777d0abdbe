package main

import (
	"fmt"
	"log/slog"
	"os"

	"bloodgroup/internal/export"
	"bloodgroup/internal/repository"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the prediction log to Parquet or JSONL",
		Example: `  bloodctl export --out predictions.parquet
  bloodctl export --out predictions.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.FormatFor(out)
			if err != nil {
				return err
			}

			db, err := openDB(cmd)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}

			n, err := export.Predictions(cmd.Context(), repository.NewPredictionRepository(db), f, format)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(out)
				return err
			}

			slog.Info("export complete", "path", out, "format", format, "rows", n)
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d predictions to %s\n", n, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "predictions.parquet", "output file (.parquet or .jsonl)")

	return cmd
}
