package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Scaler is a fitted standardisation transform: x' = (x - Mean) / Std.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Scores are the held-out metrics of a fitted model.
type Scores struct {
	R2        float64 `json:"r2"`
	MAE       float64 `json:"mae"`
	RMSE      float64 `json:"rmse"`
	TrainRows int     `json:"train_rows"`
	TestRows  int     `json:"test_rows"`
}

// Artifact is a persisted, fitted regression model. Features is the
// ordered list of column names the coefficients were fitted against;
// Roles holds the resolved role of each feature, in the same order.
type Artifact struct {
	ID           string    `json:"id"`
	Element      Element   `json:"element"`
	Target       Target    `json:"target"`
	Algorithm    string    `json:"algorithm"`
	Features     []string  `json:"features"`
	Roles        []string  `json:"roles,omitempty"`
	Scaler       *Scaler   `json:"scaler,omitempty"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Scores       Scores    `json:"scores"`
	TrainedAt    string    `json:"trained_at"`
}

// NewArtifact creates an empty artifact for element and target with a
// generated ID and the current time.
func NewArtifact(element Element, target Target) Artifact {
	return Artifact{
		ID:        uuid.New().String()[:8],
		Element:   element,
		Target:    target,
		TrainedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// FileName returns the file name the artifact is stored under.
func (a Artifact) FileName() string {
	return ArtifactFileName(a.Element, a.Target)
}

// ArtifactFileName returns "<element>_<target>_model.json".
func ArtifactFileName(element Element, target Target) string {
	return fmt.Sprintf("%s_%s_model.json", element, target)
}

// Validate checks that the coefficients and scaler line up with the
// feature list.
func (a Artifact) Validate() error {
	n := len(a.Features)
	if len(a.Coefficients) != n {
		return fmt.Errorf("model %s: %d coefficients for %d features", a.FileName(), len(a.Coefficients), n)
	}
	if a.Scaler != nil && (len(a.Scaler.Mean) != n || len(a.Scaler.Std) != n) {
		return fmt.Errorf("model %s: scaler has %d means and %d deviations for %d features",
			a.FileName(), len(a.Scaler.Mean), len(a.Scaler.Std), n)
	}
	return nil
}
