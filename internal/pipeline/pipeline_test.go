package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(columns []string, rows ...[]any) model.Table {
	t := model.NewTable(columns...)
	for _, values := range rows {
		r := make(model.Row, len(columns))
		for i, c := range columns {
			if i < len(values) {
				r[c] = values[i]
			}
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

func beamTable() model.Table {
	return table(
		[]string{"Type", "B", "H", "Length", "Cut Length", "Volume", "Formwork Area"},
		[]any{"B1", "0.30", "0.60", "6.00 m", "5.70 m", "1.03 m³", "7.2 m²"},
		[]any{"B2", "0.25", "0.50", "4.00 m", "3.75 m", "0.47", "4.5"},
		[]any{"B3", "0.30", "0.70", "8.00", "7.60", "", "9.8"},
		[]any{"B4", "0.20", "0.40", "3.00", "2.80", "0.22", nil},
		[]any{"B5", "0.20", "0.40", "3.00", "2.80", "0.22", "2.9"},
	)
}

func TestPrepareBeam(t *testing.T) {
	p, err := Prepare(model.ElementBeam, beamTable(), Options{
		Steel: []any{"120.5", 80.0, "n/a", 60.0},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "H", "Length"}, p.CutFeatures.Columns())
	assert.Equal(t, []string{"B", "H", "Cut Length", "Length"}, p.Features.Columns())

	assert.Equal(t, "Cut Length", p.Targets[model.TargetCutLength])
	assert.Equal(t, "Volume", p.Targets[model.TargetVolume])
	assert.Equal(t, "Formwork Area", p.Targets[model.TargetFormwork])
	assert.Equal(t, SteelColumn, p.Targets[model.TargetSteel])
	_, hasLength := p.Targets[model.TargetLength]
	assert.False(t, hasLength, "Length is a feature of the quantity pass")

	// B3 has no volume, B5 falls past the end of the steel schedule.
	require.Equal(t, 3, p.Table.Len())
	assert.Equal(t, 5, p.RawRows)
	assert.NotContains(t, p.Table.Columns, "Type")
	assert.InDelta(t, 1.03, p.Table.Rows[0]["Volume"], 1e-9)
	assert.InDelta(t, 120.5, p.Table.Rows[0][SteelColumn], 1e-9)
	assert.Nil(t, p.Table.Rows[2]["Formwork Area"])
	assert.InDelta(t, 60.0, p.Table.Rows[2][SteelColumn], 1e-9)

	assert.Contains(t, strings.Join(p.Warnings, "\n"), "Steel schedule has 4 rows")
}

func TestPrepareBeamTrainingSets(t *testing.T) {
	p, err := Prepare(model.ElementBeam, beamTable(), Options{
		Steel: []any{"120.5", 80.0, "n/a", 60.0},
	})
	require.NoError(t, err)

	cut, err := p.TrainingSet(model.TargetCutLength)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "H", "Length"}, cut.Features)
	assert.Equal(t, []float64{5.7, 3.75, 2.8}, cut.Y)
	assert.Equal(t, []float64{0.3, 0.6, 6.0}, cut.X[0])

	form, err := p.TrainingSet(model.TargetFormwork)
	require.NoError(t, err)
	assert.Equal(t, 2, form.Len(), "B4 has no formwork")
	assert.Equal(t, []float64{0.3, 0.6, 5.7, 6.0}, form.X[0])

	steel, err := p.TrainingSet(model.TargetSteel)
	require.NoError(t, err)
	assert.Equal(t, []float64{120.5, 80, 60}, steel.Y)

	_, err = p.TrainingSet(model.TargetLength)
	assert.ErrorIs(t, err, ErrTargetNotFound)

	assert.Equal(t, []model.Target{
		model.TargetCutLength, model.TargetVolume, model.TargetFormwork, model.TargetSteel,
	}, p.TrainableTargets())
}

func TestPrepareBeamLengthUsesCutFeatures(t *testing.T) {
	in := table(
		[]string{"B", "H", "Cut Length", "Length", "Total Length", "Volume"},
		[]any{"0.30", "0.60", "5.70", "6.00", "6.40", "1.03"},
		[]any{"0.25", "0.50", "3.75", "4.00", "4.30", "0.47"},
	)
	p, err := Prepare(model.ElementBeam, in, Options{})
	require.NoError(t, err)

	assert.Equal(t, "Total Length", p.Targets[model.TargetLength])
	assert.Equal(t, []string{"B", "H", "Length"}, p.FeaturesFor(model.TargetLength))
	assert.Equal(t, []string{"B", "H", "Cut Length", "Length"}, p.FeaturesFor(model.TargetVolume))

	set, err := p.TrainingSet(model.TargetLength)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.3, 0.6, 6.0}, set.X[0])
	assert.Equal(t, []float64{6.4, 4.3}, set.Y)
}

func TestPrepareBeamDoesNotMutateInput(t *testing.T) {
	in := beamTable()
	_, err := Prepare(model.ElementBeam, in, Options{Steel: []any{1.0}})
	require.NoError(t, err)
	assert.Equal(t, 5, in.Len())
	assert.Equal(t, "1.03 m³", in.Rows[0]["Volume"])
	assert.False(t, in.HasColumn(SteelColumn))
}

func TestPrepareFoundation(t *testing.T) {
	in := table(
		[]string{"Type", "Width", "Length", "Thickness", "Count", "Volume", "Formwork", "Rebar"},
		[]any{"F1", "1.20", "1.20", "0.80", "9", "1.152", "3.84", "85"},
		[]any{"F2", "1.50", "1.50", "0.80", "4", "1.8", "4.8", nil},
		[]any{"F3", "1.80", "1.80", "", "2", "2.6", "5.8", "120"},
	)

	p, err := Prepare(model.ElementFoundation, in, Options{})
	require.NoError(t, err)

	assert.Equal(t, []model.Assignment{
		{Role: "width", Column: "Width"},
		{Role: "length", Column: "Length"},
		{Role: "thickness", Column: "Thickness"},
		{Role: "count", Column: "Count"},
	}, p.Features.Assignments)
	assert.Equal(t, "Volume", p.Targets[model.TargetVolume])
	assert.Equal(t, "Formwork", p.Targets[model.TargetFormwork])
	assert.Equal(t, "Rebar", p.Targets[model.TargetSteel])
	assert.Empty(t, p.Skipped)

	// F3 lacks thickness; F2 lacks steel only and is kept.
	require.Equal(t, 2, p.Table.Len())
	assert.Nil(t, p.Table.Rows[1]["Rebar"])

	steel, err := p.TrainingSet(model.TargetSteel)
	require.NoError(t, err)
	assert.Equal(t, 1, steel.Len())
}

func TestPrepareColumnSkipsMissingTarget(t *testing.T) {
	in := table(
		[]string{"Family", "Type", "Width", "Depth", "Length", "Volume"},
		[]any{"Concrete-Rect", "C1", "0.3", "0.3", "2.8", "0.252"},
	)

	p, err := Prepare(model.ElementColumn, in, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Width", "Depth", "Length"}, p.Features.Columns())
	assert.Equal(t, []model.Target{model.TargetFormwork}, p.Skipped)
	assert.Equal(t, 1, p.Table.Len())
}

func TestPrepareNoFeatures(t *testing.T) {
	in := table([]string{"Mark", "Remarks"}, []any{"C1", "ok"})
	_, err := Prepare(model.ElementColumn, in, Options{})
	assert.True(t, errors.Is(err, ErrNoFeatures), "got %v", err)
}

func TestPrepareVocabularyOverride(t *testing.T) {
	store := model.NewVocabularyStore()
	store.Put(model.NewVocabulary(resolver.VocabColumn,
		model.Role{Name: "width", Keywords: []string{"กว้าง"}},
		model.Role{Name: "deep", Keywords: []string{"ลึก"}},
	))
	in := table(
		[]string{"กว้าง", "ลึก", "Volume", "Formwork"},
		[]any{"0.4", "0.4", "0.45", "4.5"},
	)

	p, err := Prepare(model.ElementColumn, in, Options{Vocabularies: resolver.NewRegistry(store)})
	require.NoError(t, err)
	assert.Equal(t, []string{"กว้าง", "ลึก"}, p.Features.Columns())
	assert.Equal(t, 1, p.Table.Len())
}

func TestPrepareSlab(t *testing.T) {
	cols := []string{"Type", "Default Thickness", "Perimeter", "Area", "Volume", "Formwork Side", "Formwork All"}
	rc := table(cols,
		[]any{"S1", "0.20", "24", "36", "7.2", "4.8", "40.8"},
		[]any{"S2", "0.15", "20", "25", "3.75", "3.0", "28.0"},
	)
	pt := table(cols,
		[]any{"P1", "0.25", "40", "100", "25", "10", "110"},
		[]any{"P2", "0.25", "30", "56", "14", "7.5", "63.5"},
	)

	combined, warnings := CombineSlabs(
		SlabPart{Type: model.SlabRC, Table: rc, Steel: []any{"640", "340"}},
		SlabPart{Type: model.SlabPT, Table: pt, Steel: []any{"1500"}},
	)
	require.Equal(t, 3, combined.Len())
	require.Len(t, warnings, 1, "only the PT part is short")
	assert.Equal(t, "PT steel schedule has 1 rows, PT slab table has 2; kept the first 1", warnings[0])

	p, err := Prepare(model.ElementSlab, combined, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Default Thickness", "Perimeter", "Area", resolver.SlabTypeColumn}, p.Features.Columns())
	assert.Equal(t, "Formwork Side", p.Targets[model.TargetFormworkSide])
	assert.Equal(t, "Formwork All", p.Targets[model.TargetFormworkAll])
	assert.Equal(t, SteelColumn, p.Targets[model.TargetSteel])

	require.Equal(t, 3, p.Table.Len())
	assert.Equal(t, 0.0, p.Table.Rows[1][resolver.SlabTypeColumn])
	assert.Equal(t, 1.0, p.Table.Rows[2][resolver.SlabTypeColumn])
	assert.Equal(t, 1500.0, p.Table.Rows[2][SteelColumn])
}

func TestFindSteelColumn(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    string
		ok      bool
	}{
		{"total steel", []string{"Mark", "Bar", "Total Steel"}, "Total Steel", true},
		{"total kg", []string{"Mark", "Weight (kg)", "TOTAL (kg)"}, "TOTAL (kg)", true},
		{"total reinforcement", []string{"Total Reinf."}, "Total Reinf.", true},
		{"no total", []string{"Steel", "kg"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindSteelColumn(tt.columns)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSteelValues(t *testing.T) {
	schedule := table([]string{"Mark", "Total Steel (kg)"}, []any{"B1", "120.5"}, []any{"B2", "80"})
	values, err := SteelValues(schedule)
	require.NoError(t, err)
	assert.Equal(t, []any{"120.5", "80"}, values)

	_, err = SteelValues(table([]string{"Mark"}))
	assert.Error(t, err)
}
