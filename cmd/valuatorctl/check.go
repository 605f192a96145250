package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parts-pile/valuator/dataset"
	"github.com/parts-pile/valuator/estimator"
	"github.com/parts-pile/valuator/server"
	"github.com/parts-pile/valuator/vehicle"
)

func newCheckCmd() *cobra.Command {
	var datasetPath, artifactDir string
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check artifacts against a dataset",
		Long:  "Loads the dataset and artifacts the way the server does, prints the artifact dimensions and lists dataset values the encoder does not know.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, datasetPath, artifactDir, strict)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "data/Cleaned_Car_data.csv", "path to the dataset (.csv or SQLite)")
	cmd.Flags().StringVar(&artifactDir, "artifacts", "artifacts", "directory holding encoder.json, scaler.json and model.json")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the dataset has values outside the vocabulary")
	return cmd
}

func runCheck(cmd *cobra.Command, datasetPath, artifactDir string, strict bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	listings, err := dataset.Load(ctx, datasetPath)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	artifacts, err := estimator.Load(ctx, estimator.DirSource(artifactDir))
	if err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}

	summary := artifacts.Summary()
	fmt.Fprintf(out, "Listings:   %d\n", len(listings))
	fmt.Fprintf(out, "Encoded:    %d\n", summary.Encoded)
	fmt.Fprintf(out, "Scaled:     %d\n", summary.Scaled)
	fmt.Fprintf(out, "Input dim:  %d\n", summary.InputDim)

	gaps := server.VocabularyGaps(vehicle.BuildCatalog(listings), artifacts.Encoder)
	if len(gaps) == 0 {
		fmt.Fprintln(out, "All dataset values are in the trained vocabulary")
		return nil
	}
	for _, gap := range gaps {
		fmt.Fprintf(out, "Unknown %s\n", gap)
	}
	if strict {
		return fmt.Errorf("%d dataset values are outside the trained vocabulary", len(gaps))
	}
	return nil
}
