package estimate

import (
	"testing"

	"github.com/piwi3910/QtyEstimate/internal/importer"
	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/training"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func artifact(element model.Element, target model.Target, features, roles []string, coef []float64, intercept float64) model.Artifact {
	a := model.NewArtifact(element, target)
	a.Algorithm = training.AlgorithmLinear
	a.Features = features
	a.Roles = roles
	a.Coefficients = coef
	a.Intercept = intercept
	return a
}

func testEstimator() *Estimator {
	e := NewEstimator(model.DefaultSettings())
	e.AddModel(artifact(model.ElementBeam, model.TargetCutLength,
		[]string{"B", "H", "Length"}, []string{"b", "h", "length"},
		[]float64{0, 0, 0.95}, 0))
	e.AddModel(artifact(model.ElementBeam, model.TargetFormwork,
		[]string{"B", "H", "Cut Length", "Length"}, []string{"b", "h", "cut_length", "length"},
		[]float64{0, 0, 1.5, 0}, 0))
	e.AddModel(artifact(model.ElementColumn, model.TargetVolume,
		[]string{"กว้าง", "ลึก", "สูง"}, []string{"width", "deep", "length"},
		[]float64{0, 0, 0.09}, 0))
	e.AddModel(artifact(model.ElementColumn, model.TargetFormwork,
		[]string{"Perimeter", "Length"}, []string{"perimeter", "length"},
		[]float64{0, 1.2}, 0.5))
	e.AddModel(artifact(model.ElementFoundation, model.TargetVolume,
		[]string{"Width", "Length", "Thickness"}, nil,
		[]float64{0, 0, 1.44}, 0))
	return e
}

func TestBeam(t *testing.T) {
	e := testEstimator()
	item, err := e.Beam(Input{RoleB: 0.2, RoleH: 0.6, RoleLength: 8})
	require.NoError(t, err)

	assert.Equal(t, model.ElementBeam, item.Element)
	assert.InDelta(t, 7.6, item.Results[ResultCutLength], 1e-9)
	assert.InDelta(t, 0.912, item.Results[ResultVolumeCut], 1e-9)
	assert.InDelta(t, 0.96, item.Results[ResultVolumeFull], 1e-9)
	assert.InDelta(t, 100.32, item.Results[ResultSteelCut], 1e-9)
	assert.InDelta(t, 105.6, item.Results[ResultSteelFull], 1e-9)
	assert.InDelta(t, 11.4, item.Results[ResultFormwork], 1e-9)
	assert.InDelta(t, 7.6, item.Inputs[RoleCutLength], 1e-9)

	assert.InDelta(t, 0.96, item.Quantities.VolumeM3, 1e-9)
	assert.InDelta(t, 11.4, item.Quantities.FormworkM2, 1e-9)
	assert.InDelta(t, 105.6, item.Quantities.SteelKg, 1e-9)
}

func TestBeamMissingInput(t *testing.T) {
	_, err := testEstimator().Beam(Input{RoleB: 0.2, RoleLength: 8})
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestColumnMatchesFeaturesByRole(t *testing.T) {
	e := testEstimator()
	item, err := e.Column(Input{RoleWidth: 0.4, RoleDepth: 0.4, RoleLength: 3, RolePerimeter: 1.6})
	require.NoError(t, err)

	assert.InDelta(t, 0.27, item.Results[ResultVolume], 1e-9)
	assert.InDelta(t, 4.1, item.Results[ResultFormwork], 1e-9)
	assert.InDelta(t, 0.27*110, item.Results[ResultSteel], 1e-9)
	assert.InDelta(t, 0.27*110, item.Quantities.SteelKg, 1e-9)
}

func TestColumnMissingFeature(t *testing.T) {
	_, err := testEstimator().Column(Input{RoleWidth: 0.4, RoleLength: 3, RolePerimeter: 1.6})
	assert.ErrorIs(t, err, training.ErrMissingFeature)
}

func TestFoundationMatchesFeaturesByName(t *testing.T) {
	e := testEstimator()
	e.AddModel(artifact(model.ElementFoundation, model.TargetFormwork,
		[]string{"Perimeter", "Thickness"}, nil, []float64{0.8, 0}, 0))

	item, err := e.Foundation(Input{"Width": 1.2, "Length": 1.2, "Thickness": 0.8, "Perimeter": 4.8})
	require.NoError(t, err)
	assert.InDelta(t, 1.152, item.Quantities.VolumeM3, 1e-9)
	assert.InDelta(t, 3.84, item.Quantities.FormworkM2, 1e-9)
	assert.Equal(t, 0.0, item.Quantities.SteelKg)
}

func TestFoundationWithoutModel(t *testing.T) {
	_, err := testEstimator().Foundation(Input{"Width": 1.2, "Length": 1.2, "Thickness": 0.8})
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestSlab(t *testing.T) {
	e := NewEstimator(model.DefaultSettings())
	in := Input{RoleArea: 80, RoleThickness: 0.15, RolePerimeter: 60}

	rc, err := e.Slab(in, model.SlabRC)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, rc.Results[ResultVolume], 1e-9)
	assert.InDelta(t, 9.0, rc.Results[ResultFormworkSide], 1e-9)
	assert.InDelta(t, 89.0, rc.Results[ResultFormworkAll], 1e-9)
	assert.InDelta(t, 1080.0, rc.Results[ResultSteel], 1e-9)
	assert.InDelta(t, 89.0, rc.Quantities.FormworkM2, 1e-9)

	pt, err := e.Slab(in, model.SlabPT)
	require.NoError(t, err)
	assert.Equal(t, model.SlabPT, pt.SlabType)
	assert.InDelta(t, 720.0, pt.Results[ResultSteel], 1e-9)

	_, err = e.Slab(Input{RoleArea: 80}, model.SlabRC)
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestEstimateDispatch(t *testing.T) {
	e := testEstimator()
	item, err := e.Estimate(model.ElementSlab, "Level 2 slab", Input{RoleArea: 10, RoleThickness: 0.2, RolePerimeter: 13}, model.SlabRC)
	require.NoError(t, err)
	assert.Equal(t, "Level 2 slab", item.Label)

	item, err = e.Estimate(model.ElementBeam, "", Input{RoleB: 0.2, RoleH: 0.6, RoleLength: 8}, model.SlabRC)
	require.NoError(t, err)
	assert.Equal(t, "Beam", item.Label)

	_, err = e.Estimate(model.Element("wall"), "", Input{}, model.SlabRC)
	assert.Error(t, err)
}

func TestInputFromShape(t *testing.T) {
	s := importer.Shape{AreaM2: 24, PerimeterM: 20, WidthM: 4, LengthM: 6}

	slab := InputFromShape(model.ElementSlab, s)
	assert.Equal(t, Input{RoleArea: 24, RolePerimeter: 20}, slab)

	f := InputFromShape(model.ElementFoundation, s)
	assert.Equal(t, 4.0, f[RoleWidth])
	assert.Equal(t, 6.0, f[RoleLength])

	slab[RoleThickness] = 0.2
	item, err := NewEstimator(model.DefaultSettings()).Slab(slab, model.SlabRC)
	require.NoError(t, err)
	assert.InDelta(t, 4.8, item.Quantities.VolumeM3, 1e-9)
}

func TestFeatureRow(t *testing.T) {
	a := artifact(model.ElementBeam, model.TargetCutLength,
		[]string{"B", "H", "Length"}, []string{"b", "h", "length"}, []float64{0, 0, 1}, 0)

	row := FeatureRow(a, Input{RoleB: 0.2, RoleLength: 8, "unused": 1})
	assert.Equal(t, map[string]float64{"B": 0.2, "Length": 8}, row)

	a.Roles = nil
	assert.Equal(t, map[string]float64{"Length": 3}, FeatureRow(a, Input{"Length": 3, RoleB: 1}))
}
