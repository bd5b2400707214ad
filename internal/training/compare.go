package training

import (
	"fmt"

	"github.com/piwi3910/QtyEstimate/internal/model"
)

// Candidate is one model configuration tried during training.
type Candidate struct {
	Name  string
	Alpha float64 // L2 penalty; 0 is ordinary least squares
}

// CandidateResult holds the fit and held-out scores of one candidate.
type CandidateResult struct {
	Candidate Candidate
	Fit       Fit
	Scores    model.Scores
	Err       error
}

// Algorithm names stored in artifacts.
const (
	AlgorithmLinear = "linear"
	AlgorithmRidge  = "ridge"
)

// DefaultCandidates returns plain least squares plus a ridge fit with the
// configured penalty. A second, stronger ridge is added for wide feature
// sets where the fit is more likely to be unstable.
func DefaultCandidates(cfg Config) []Candidate {
	candidates := []Candidate{{Name: AlgorithmLinear}}
	if cfg.RidgeAlpha > 0 {
		candidates = append(candidates, Candidate{Name: AlgorithmRidge, Alpha: cfg.RidgeAlpha})
		candidates = append(candidates, Candidate{
			Name:  fmt.Sprintf("%s-%g", AlgorithmRidge, cfg.RidgeAlpha*10),
			Alpha: cfg.RidgeAlpha * 10,
		})
	}
	return candidates
}

// CompareCandidates fits each candidate on the training rows and scores it
// on the test rows. Results keep candidate order.
func CompareCandidates(candidates []Candidate, trainX [][]float64, trainY []float64, testX [][]float64, testY []float64) []CandidateResult {
	results := make([]CandidateResult, 0, len(candidates))

	for _, c := range candidates {
		fit, err := FitLinear(trainX, trainY, c.Alpha)
		if err != nil {
			results = append(results, CandidateResult{Candidate: c, Err: err})
			continue
		}

		pred := make([]float64, len(testX))
		for i, x := range testX {
			pred[i] = fit.Predict(x)
		}
		scores := Score(testY, pred)
		scores.TrainRows = len(trainY)
		scores.TestRows = len(testY)

		results = append(results, CandidateResult{
			Candidate: c,
			Fit:       fit,
			Scores:    scores,
		})
	}

	return results
}
