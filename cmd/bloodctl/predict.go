package main

import (
	"errors"
	"fmt"
	"os"

	"bloodgroup/internal/domain"
	"bloodgroup/internal/model"
	"bloodgroup/internal/modules/prediction"
	"bloodgroup/internal/pkg/imaging"

	"github.com/spf13/cobra"
)

func newPredictCmd() *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:   "predict <image>",
		Short: "Classify an image file without storing or recording it",
		Example: `  # Classify a fingerprint scan
  bloodctl predict scan.png

  # Show the score for every class
  bloodctl predict scan.png --all`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd.Context())
			path := args[0]

			if err := imaging.ValidateExtension(path); err != nil {
				return errors.New(prediction.MsgInvalidFileType)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			classifier, closeModel := model.Load(cfg.ModelPath, cfg.ModelMetadataPath, cfg.ONNXRuntimeLib)
			defer closeModel()
			if !classifier.Available() {
				return errors.New(prediction.MsgModelUnavailable)
			}

			tensor, err := imaging.NewDecoder().Decode(data, path)
			if err != nil {
				return err
			}
			result, err := classifier.Classify(cmd.Context(), tensor)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, prediction.FormatResult(result.Label, result.Confidence))
			if showAll {
				for i, p := range result.Probabilities {
					fmt.Fprintf(out, "  %-4s %6.2f%%\n", domain.BloodGroupForClass(i), float64(p)*100)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAll, "all", false, "print the score of every class")

	return cmd
}
