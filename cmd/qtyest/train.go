package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"text/tabwriter"

	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/project"
	"github.com/piwi3910/QtyEstimate/internal/training"
	"github.com/spf13/cobra"
)

var (
	trainSources sourceFlags
	trainOut     string
)

var trainCmd = &cobra.Command{
	Use:   "train ELEMENT FILE...",
	Short: "Train one model per resolved target and save them",
	Long: `Prepare the schedules of one element, then fit a model for every target
column that was found. Each target compares plain least squares with two
ridge penalties on a seeded hold-out split and keeps the best R².

Examples:
  qtyest train foundation foundations.csv
  qtyest train beam beams.xlsx --steel rebar.xlsx --out models/`,
	Args: cobra.MinimumNArgs(2),
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
	trainSources.register(trainCmd)
	trainCmd.Flags().StringVar(&trainOut, "out", "", "model directory (default models_dir from config)")
}

func runTrain(_ *cobra.Command, args []string) error {
	element, err := model.ParseElement(args[0])
	if err != nil {
		return err
	}
	dir := trainOut
	if dir == "" {
		dir = appConfig.ModelsDir
	}

	prepared, err := trainSources.prepare(element, args[1:])
	if err != nil {
		return err
	}
	targets := prepared.TrainableTargets()
	if len(targets) == 0 {
		return fmt.Errorf("%s: no target columns found", element)
	}

	cfg := training.ConfigFromApp(appConfig)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TARGET\tROWS\tMODEL\tR²\tMAE\tRMSE\tFILE")

	trained := 0
	for _, target := range targets {
		set, err := prepared.TrainingSet(target)
		if err != nil {
			return err
		}
		artifact, report, err := training.Train(set, cfg)
		if errors.Is(err, training.ErrInsufficientData) {
			slog.Warn("model skipped", "element", element, "target", target, "rows", set.Len(), "error", err)
			continue
		}
		if err != nil {
			return fmt.Errorf("%s %s: %w", element, target, err)
		}
		for _, c := range report.Candidates {
			if c.Err != nil {
				slog.Debug("candidate failed", "target", target, "candidate", c.Candidate.Name, "error", c.Err)
				continue
			}
			slog.Debug("candidate", "target", target, "candidate", c.Candidate.Name, "r2", c.Scores.R2, "rmse", c.Scores.RMSE)
		}

		path, err := project.SaveArtifact(dir, artifact)
		if err != nil {
			return err
		}
		s := artifact.Scores
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%.4f\t%.4f\t%s\n", target, report.Rows, report.Best, formatR2(s.R2), s.MAE, s.RMSE, path)
		trained++
	}
	w.Flush()

	if trained == 0 {
		return fmt.Errorf("%s: %w for any target", element, training.ErrInsufficientData)
	}
	return nil
}

func formatR2(r2 float64) string {
	if math.IsNaN(r2) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", r2)
}
