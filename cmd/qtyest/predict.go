package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piwi3910/QtyEstimate/internal/estimate"
	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/project"
	"github.com/piwi3910/QtyEstimate/internal/training"
	"github.com/spf13/cobra"
)

var (
	predictInputs []string
	predictModels string
)

var predictCmd = &cobra.Command{
	Use:   "predict ELEMENT TARGET",
	Short: "Evaluate one saved model",
	Long: `Evaluate the saved model of one element and target. Inputs are given as
role=value (b, h, length, width, ...) or as the feature column name the
model was trained on.

Examples:
  qtyest predict beam cut_length --input b=0.2 --input h=0.6 --input length=8
  qtyest predict column volume --input "Width=0.3" --input "Depth=0.3" --input "Height=3"`,
	Args: cobra.ExactArgs(2),
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
	predictCmd.Flags().StringArrayVarP(&predictInputs, "input", "i", nil, "input as name=value (repeatable)")
	predictCmd.Flags().StringVar(&predictModels, "models", "", "model directory (default models_dir from config)")
}

func runPredict(_ *cobra.Command, args []string) error {
	element, err := model.ParseElement(args[0])
	if err != nil {
		return err
	}
	in, err := parseInputs(predictInputs)
	if err != nil {
		return err
	}
	dir := predictModels
	if dir == "" {
		dir = appConfig.ModelsDir
	}

	a, err := project.LoadArtifact(dir, element, model.Target(args[1]))
	if err != nil {
		return err
	}
	row := estimate.FeatureRow(a, in)
	for _, f := range a.Features {
		if _, ok := row[f]; !ok {
			if v, ok := in[f]; ok {
				row[f] = v
			}
		}
	}
	v, err := training.Predict(a, row)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s = %.4f (%s, R² %s)\n", element, a.Target, v, a.Algorithm, formatR2(a.Scores.R2))
	return nil
}

// parseInputs parses name=value pairs. Names are kept as given.
func parseInputs(pairs []string) (estimate.Input, error) {
	in := estimate.Input{}
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid input %q, want name=value", p)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		in[name] = v
	}
	return in, nil
}
