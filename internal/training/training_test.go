package training

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// linearSet builds n rows of y = 1 + 0.5·a + 2·b without noise.
func linearSet(n int) pipeline.TrainingSet {
	set := pipeline.TrainingSet{
		Element:  model.ElementBeam,
		Target:   model.TargetVolume,
		Features: []string{"B", "H"},
	}
	for i := 0; i < n; i++ {
		a := float64(i)
		b := float64((i*i)%7) + 0.5
		set.X = append(set.X, []float64{a, b})
		set.Y = append(set.Y, 1+0.5*a+2*b)
	}
	return set
}

func TestFitLinearRecoversCoefficients(t *testing.T) {
	set := linearSet(12)
	fit, err := FitLinear(set.X, set.Y, 0)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, fit.Intercept, 1e-6)
	assert.InDelta(t, 0.5, fit.Coefficients[0], 1e-6)
	assert.InDelta(t, 2.0, fit.Coefficients[1], 1e-6)
	assert.InDelta(t, 1+0.5*3+2*4, fit.Predict([]float64{3, 4}), 1e-6)
}

func TestFitLinearRidgeShrinks(t *testing.T) {
	set := linearSet(12)
	ols, err := FitLinear(set.X, set.Y, 0)
	require.NoError(t, err)
	ridge, err := FitLinear(set.X, set.Y, 10)
	require.NoError(t, err)

	// Single coefficients can grow when features are correlated; the norm cannot.
	assert.Less(t, floats.Norm(ridge.Coefficients, 2), floats.Norm(ols.Coefficients, 2))
}

func TestFitLinearConstantFeature(t *testing.T) {
	x := [][]float64{{1, 5}, {2, 5}, {3, 5}, {4, 5}}
	y := []float64{2, 4, 6, 8}
	fit, err := FitLinear(x, y, 0)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, fit.Predict([]float64{5, 5}), 1e-3)
}

func TestFitLinearBadInput(t *testing.T) {
	_, err := FitLinear(nil, nil, 0)
	assert.Error(t, err)
	_, err = FitLinear([][]float64{{1, 2}, {3}}, []float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		n         int
		wantTest  int
		wantTrain int
	}{
		{5, 1, 4},
		{9, 1, 8},
		{10, 2, 8},
		{23, 5, 18},
	}
	for _, tt := range tests {
		train, test := Split(tt.n, 42)
		assert.Len(t, test, tt.wantTest, "n=%d", tt.n)
		assert.Len(t, train, tt.wantTrain, "n=%d", tt.n)

		all := append(append([]int{}, train...), test...)
		sort.Ints(all)
		assert.Equal(t, seq(tt.n), all, "split must partition the rows")
	}

	a1, b1 := Split(20, 42)
	a2, b2 := Split(20, 42)
	assert.Equal(t, a1, a2)
	assert.Equal(t, b1, b2)
}

func TestFitScaler(t *testing.T) {
	s := FitScaler([][]float64{{1, 7}, {3, 7}})
	assert.Equal(t, []float64{2, 7}, s.Mean)
	assert.Equal(t, []float64{1, 1}, s.Std)

	out := s.Transform([][]float64{{3, 7}})
	assert.Equal(t, []float64{1, 0}, out[0])
}

func TestScore(t *testing.T) {
	s := Score([]float64{1, 2, 3}, []float64{1, 2, 3})
	assert.InDelta(t, 1.0, s.R2, 1e-12)
	assert.Equal(t, 0.0, s.MAE)
	assert.Equal(t, 0.0, s.RMSE)

	s = Score([]float64{1, 2, 3}, []float64{2, 3, 4})
	assert.InDelta(t, 1.0, s.MAE, 1e-12)
	assert.InDelta(t, 1.0, s.RMSE, 1e-12)
	assert.InDelta(t, -0.5, s.R2, 1e-12)

	assert.True(t, math.IsNaN(Score([]float64{4}, []float64{4}).R2))
}

func TestTrain(t *testing.T) {
	set := linearSet(20)
	a, report, err := Train(set, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, AlgorithmLinear, a.Algorithm)
	assert.Equal(t, AlgorithmLinear, report.Best)
	assert.Len(t, report.Candidates, 3)
	assert.Equal(t, []string{"B", "H"}, a.Features)
	assert.Equal(t, model.ElementBeam, a.Element)
	assert.Equal(t, model.TargetVolume, a.Target)
	assert.NotEmpty(t, a.ID)
	require.NotNil(t, a.Scaler)

	assert.InDelta(t, 1.0, a.Scores.R2, 1e-6)
	assert.Equal(t, 16, a.Scores.TrainRows)
	assert.Equal(t, 4, a.Scores.TestRows)

	got, err := Predict(a, map[string]float64{"B": 30, "H": 2})
	require.NoError(t, err)
	assert.InDelta(t, 1+0.5*30+2*2, got, 1e-6)
}

func TestTrainInsufficientData(t *testing.T) {
	_, _, err := Train(linearSet(4), DefaultConfig())
	assert.True(t, errors.Is(err, ErrInsufficientData), "got %v", err)

	cfg := DefaultConfig()
	cfg.MinRows = 3
	_, _, err = Train(linearSet(4), cfg)
	assert.NoError(t, err)
}

func TestPredictMissingFeature(t *testing.T) {
	a := model.Artifact{
		Element:      model.ElementColumn,
		Target:       model.TargetVolume,
		Features:     []string{"Width", "Depth"},
		Coefficients: []float64{1, 1},
	}
	_, err := Predict(a, map[string]float64{"Width": 0.3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingFeature)
	assert.Contains(t, err.Error(), "Depth")

	_, err = Predict(a, map[string]float64{"Width": 0.3, "Depth": math.NaN()})
	assert.ErrorIs(t, err, ErrMissingFeature)

	got, err := Predict(a, map[string]float64{"Width": 0.3, "Depth": 0.4, "Extra": 9})
	require.NoError(t, err)
	assert.InDelta(t, 0.7, got, 1e-12)
}

func TestPredictScalerMismatch(t *testing.T) {
	a := model.Artifact{
		Element:      model.ElementColumn,
		Target:       model.TargetVolume,
		Features:     []string{"Width", "Depth"},
		Coefficients: []float64{1, 1},
		Scaler:       &model.Scaler{Mean: []float64{0}, Std: []float64{1}},
	}
	assert.NotPanics(t, func() {
		_, err := Predict(a, map[string]float64{"Width": 0.3, "Depth": 0.4})
		assert.Error(t, err)
	})
}

func TestCompareCandidatesKeepsOrder(t *testing.T) {
	set := linearSet(12)
	results := CompareCandidates([]Candidate{{Name: "a", Alpha: 5}, {Name: "b"}}, set.X[:10], set.Y[:10], set.X[10:], set.Y[10:])
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Candidate.Name)
	assert.Equal(t, "b", results[1].Candidate.Name)
	assert.Equal(t, 10, results[1].Scores.TrainRows)
	assert.Equal(t, 2, results[1].Scores.TestRows)
}

func TestDefaultCandidates(t *testing.T) {
	names := func(cs []Candidate) []string {
		out := make([]string, len(cs))
		for i, c := range cs {
			out[i] = c.Name
		}
		return out
	}
	assert.Equal(t, []string{"linear", "ridge", "ridge-10"}, names(DefaultCandidates(Config{RidgeAlpha: 1})))
	assert.Equal(t, []string{"linear"}, names(DefaultCandidates(Config{})))
}
