// Package training fits and applies the per-target regression models.
// Every model is a linear function of standardised features; the only
// choice made per target is the amount of L2 regularisation.
package training

import (
	"errors"
	"fmt"
	"math"

	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/pipeline"
)

var (
	// ErrInsufficientData is returned when too few complete rows remain
	// to fit a model.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrMissingFeature is returned when a prediction input lacks one of
	// the model's features.
	ErrMissingFeature = errors.New("missing feature")
)

// Config controls training.
type Config struct {
	MinRows    int
	Seed       int64
	RidgeAlpha float64
}

// DefaultConfig returns the defaults of model.DefaultAppConfig.
func DefaultConfig() Config {
	return ConfigFromApp(model.DefaultAppConfig())
}

// ConfigFromApp takes the training settings from the application config.
func ConfigFromApp(c model.AppConfig) Config {
	return Config{
		MinRows:    c.MinTrainingRows,
		Seed:       c.RandomSeed,
		RidgeAlpha: c.RidgeAlpha,
	}
}

// Report describes one training run.
type Report struct {
	Element    model.Element
	Target     model.Target
	Rows       int
	Candidates []CandidateResult
	Best       string
}

// Train splits the set, fits every candidate on the training part and
// keeps the one with the best held-out R².
func Train(set pipeline.TrainingSet, cfg Config) (model.Artifact, Report, error) {
	report := Report{Element: set.Element, Target: set.Target, Rows: set.Len()}

	minRows := cfg.MinRows
	if minRows < 2 {
		minRows = 2
	}
	if set.Len() < minRows {
		return model.Artifact{}, report, fmt.Errorf("%s %s: %w: %d rows, need %d",
			set.Element, set.Target, ErrInsufficientData, set.Len(), minRows)
	}
	if len(set.Features) == 0 {
		return model.Artifact{}, report, fmt.Errorf("%s %s: %w", set.Element, set.Target, pipeline.ErrNoFeatures)
	}

	trainIdx, testIdx := Split(set.Len(), cfg.Seed)
	trainX, trainY := subset(set, trainIdx)
	testX, testY := subset(set, testIdx)

	scaler := FitScaler(trainX)
	trainX = scaler.Transform(trainX)
	testX = scaler.Transform(testX)

	results := CompareCandidates(DefaultCandidates(cfg), trainX, trainY, testX, testY)
	report.Candidates = results

	best := -1
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		if best < 0 || betterR2(r.Scores.R2, results[best].Scores.R2) {
			best = i
		}
	}
	if best < 0 {
		return model.Artifact{}, report, fmt.Errorf("%s %s: no candidate could be fitted: %w",
			set.Element, set.Target, results[0].Err)
	}
	winner := results[best]
	report.Best = winner.Candidate.Name

	a := model.NewArtifact(set.Element, set.Target)
	a.Algorithm = winner.Candidate.Name
	a.Features = append([]string(nil), set.Features...)
	if len(set.Roles) == len(set.Features) {
		a.Roles = append([]string(nil), set.Roles...)
	}
	a.Scaler = &model.Scaler{Mean: scaler.Mean, Std: scaler.Std}
	a.Coefficients = winner.Fit.Coefficients
	a.Intercept = winner.Fit.Intercept
	a.Scores = winner.Scores
	return a, report, nil
}

// betterR2 orders scores with NaN (undefined on a constant test target)
// below every real value.
func betterR2(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a > b
}

// Predict evaluates the artifact on a row of named feature values. Every
// feature the model was trained with must be present.
func Predict(a model.Artifact, row map[string]float64) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	y := a.Intercept
	for i, f := range a.Features {
		v, ok := row[f]
		if !ok || math.IsNaN(v) {
			return 0, fmt.Errorf("%s %s: %w: %s", a.Element, a.Target, ErrMissingFeature, f)
		}
		if a.Scaler != nil {
			v = (v - a.Scaler.Mean[i]) / a.Scaler.Std[i]
		}
		y += a.Coefficients[i] * v
	}
	return y, nil
}

func subset(set pipeline.TrainingSet, idx []int) ([][]float64, []float64) {
	x := make([][]float64, len(idx))
	y := make([]float64, len(idx))
	for i, j := range idx {
		x[i] = set.X[j]
		y[i] = set.Y[j]
	}
	return x, y
}
