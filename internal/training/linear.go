package training

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/piwi3910/QtyEstimate/internal/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Fit is a fitted linear function of already scaled features.
type Fit struct {
	Coefficients []float64
	Intercept    float64
}

// Predict evaluates the fit on one scaled feature row.
func (f Fit) Predict(x []float64) float64 {
	return f.Intercept + floats.Dot(f.Coefficients, x)
}

// singularJitter keeps the normal equations solvable when a feature is
// constant over the training rows.
const singularJitter = 1e-10

// FitLinear solves the ridge normal equations (XᵀX + αI)β = Xᵀy with an
// unpenalised intercept. alpha 0 gives ordinary least squares.
func FitLinear(x [][]float64, y []float64, alpha float64) (Fit, error) {
	n := len(x)
	if n == 0 || n != len(y) {
		return Fit{}, fmt.Errorf("cannot fit %d rows against %d targets", n, len(y))
	}
	p := len(x[0])

	// Column 0 is the intercept.
	design := mat.NewDense(n, p+1, nil)
	for i, row := range x {
		if len(row) != p {
			return Fit{}, fmt.Errorf("row %d has %d features, want %d", i, len(row), p)
		}
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}
	target := mat.NewVecDense(n, append([]float64(nil), y...))

	var gram mat.Dense
	gram.Mul(design.T(), design)
	for j := 1; j <= p; j++ {
		gram.Set(j, j, gram.At(j, j)+alpha+singularJitter)
	}
	var rhs mat.VecDense
	rhs.MulVec(design.T(), target)

	var beta mat.VecDense
	if err := beta.SolveVec(&gram, &rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return Fit{}, fmt.Errorf("failed to solve normal equations: %w", err)
		}
	}
	for i := 0; i < beta.Len(); i++ {
		if math.IsNaN(beta.AtVec(i)) || math.IsInf(beta.AtVec(i), 0) {
			return Fit{}, fmt.Errorf("failed to solve normal equations: non-finite coefficient")
		}
	}

	coef := make([]float64, p)
	for j := range coef {
		coef[j] = beta.AtVec(j + 1)
	}
	return Fit{Coefficients: coef, Intercept: beta.AtVec(0)}, nil
}

// Scaler standardises feature columns with the training mean and
// population standard deviation. Constant columns get a unit scale.
type Scaler struct {
	Mean []float64
	Std  []float64
}

// FitScaler computes per-column statistics of x.
func FitScaler(x [][]float64) Scaler {
	if len(x) == 0 {
		return Scaler{}
	}
	p := len(x[0])
	s := Scaler{Mean: make([]float64, p), Std: make([]float64, p)}
	col := make([]float64, len(x))
	for j := 0; j < p; j++ {
		for i, row := range x {
			col[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		s.Mean[j], s.Std[j] = mean, std
	}
	return s
}

// Transform returns scaled copies of the rows.
func (s Scaler) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = scaled
	}
	return out
}

// testFraction is the held-out share: 10% for very small sets, else 20%.
func testFraction(n int) float64 {
	if n < 10 {
		return 0.1
	}
	return 0.2
}

// Split shuffles row indices with a seeded source and returns the training
// and test indices. At least one row lands on each side.
func Split(n int, seed int64) (train, test []int) {
	if n < 2 {
		return seq(n), nil
	}
	nTest := int(math.Ceil(float64(n) * testFraction(n)))
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest]
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Score computes R², MAE and RMSE of predictions against actual values.
// R² is NaN when the actual values are constant.
func Score(actual, predicted []float64) model.Scores {
	n := len(actual)
	if n == 0 {
		return model.Scores{R2: math.NaN()}
	}
	var absErr, sqErr float64
	for i := range actual {
		d := actual[i] - predicted[i]
		absErr += math.Abs(d)
		sqErr += d * d
	}
	r2 := math.NaN()
	if stat.Variance(actual, nil) > 0 {
		r2 = stat.RSquaredFrom(predicted, actual, nil)
	}
	return model.Scores{
		R2:   r2,
		MAE:  absErr / float64(n),
		RMSE: math.Sqrt(sqErr / float64(n)),
	}
}
