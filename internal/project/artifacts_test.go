package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleArtifact(element model.Element, target model.Target) model.Artifact {
	a := model.NewArtifact(element, target)
	a.Algorithm = "linear"
	a.Features = []string{"B", "H", "Length"}
	a.Scaler = &model.Scaler{Mean: []float64{0.3, 0.6, 5}, Std: []float64{0.05, 0.1, 1.5}}
	a.Coefficients = []float64{0.1, 0.2, 1.4}
	a.Intercept = 4.8
	a.Scores = model.Scores{R2: 0.97, MAE: 0.1, RMSE: 0.12, TrainRows: 40, TestRows: 10}
	return a
}

func TestSaveAndLoadArtifact(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "models")
	a := sampleArtifact(model.ElementBeam, model.TargetCutLength)

	path, err := SaveArtifact(dir, a)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "beam_cut_length_model.json"), path)

	loaded, err := LoadArtifact(dir, model.ElementBeam, model.TargetCutLength)
	require.NoError(t, err)
	assert.Equal(t, a, loaded)
}

func TestLoadArtifactMissing(t *testing.T) {
	_, err := LoadArtifact(t.TempDir(), model.ElementSlab, model.TargetVolume)
	assert.True(t, errors.Is(err, ErrModelNotFound), "got %v", err)
}

func TestLoadArtifactInvalid(t *testing.T) {
	dir := t.TempDir()
	bad := `{"element":"column","target":"volume","features":["Width"],"coefficients":[1,2]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "column_volume_model.json"), []byte(bad), 0644))

	_, err := LoadArtifact(dir, model.ElementColumn, model.TargetVolume)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrModelNotFound))
}

func TestLoadArtifactScalerMismatch(t *testing.T) {
	dir := t.TempDir()
	bad := `{"element":"column","target":"volume","features":["Width","Depth"],"coefficients":[1,2],` +
		`"scaler":{"mean":[0],"std":[1]}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "column_volume_model.json"), []byte(bad), 0644))

	_, err := LoadArtifact(dir, model.ElementColumn, model.TargetVolume)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scaler")
}

func TestListArtifacts(t *testing.T) {
	dir := t.TempDir()
	for _, a := range []model.Artifact{
		sampleArtifact(model.ElementBeam, model.TargetVolume),
		sampleArtifact(model.ElementBeam, model.TargetCutLength),
		sampleArtifact(model.ElementColumn, model.TargetVolume),
	} {
		_, err := SaveArtifact(dir, a)
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	all, err := ListArtifacts(dir)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, model.TargetCutLength, all[0].Target)

	beams, err := LoadArtifacts(dir, model.ElementBeam)
	require.NoError(t, err)
	assert.Len(t, beams, 2)
	assert.Contains(t, beams, model.TargetVolume)

	none, err := ListArtifacts(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, none)
}
