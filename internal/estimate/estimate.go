// Package estimate turns element dimensions into quantities using trained
// models and the fixed engineering factors, and collects them on a sheet.
package estimate

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/training"
)

// ErrMissingInput is returned when a dimension needed by a formula or a
// model was not supplied.
var ErrMissingInput = errors.New("missing input")

// ErrNoModel is returned when an element needs a model that is not loaded.
var ErrNoModel = errors.New("no trained model")

// Input role names. Model features are looked up by these names.
const (
	RoleWidth     = "width"
	RoleLength    = "length"
	RoleThickness = "thickness"
	RoleArea      = "area"
	RolePerimeter = "perimeter"
	RoleCount     = "count"
	RoleDepth     = "deep"
	RoleB         = "b"
	RoleH         = "h"
	RoleCutLength = "cut_length"
)

// Result keys of a line item.
const (
	ResultVolume       = "volume"
	ResultFormwork     = "formwork"
	ResultSteel        = "steel"
	ResultFormworkSide = "formwork_side"
	ResultFormworkAll  = "formwork_all"
	ResultCutLength    = "cut_length"
	ResultVolumeCut    = "volume_cut"
	ResultVolumeFull   = "volume_full"
	ResultSteelCut     = "steel_cut"
	ResultSteelFull    = "steel_full"
)

// Input holds the dimensions of one element, keyed by role.
type Input map[string]float64

// LineItem is one estimated element. Quantities is its contribution to
// the sheet totals.
type LineItem struct {
	ID         string             `json:"id"`
	Element    model.Element      `json:"element"`
	Label      string             `json:"label"`
	SlabType   model.SlabType     `json:"slab_type,omitempty"`
	Inputs     Input              `json:"inputs"`
	Results    map[string]float64 `json:"results"`
	Quantities model.Quantities   `json:"quantities"`
}

// Estimator holds the loaded models of each element and the engineering
// factors.
type Estimator struct {
	Models   map[model.Element]map[model.Target]model.Artifact
	Settings model.EstimateSettings
}

// NewEstimator creates an estimator without models.
func NewEstimator(settings model.EstimateSettings) *Estimator {
	return &Estimator{
		Models:   make(map[model.Element]map[model.Target]model.Artifact),
		Settings: settings,
	}
}

// AddModel registers a trained model.
func (e *Estimator) AddModel(a model.Artifact) {
	if e.Models[a.Element] == nil {
		e.Models[a.Element] = make(map[model.Target]model.Artifact)
	}
	e.Models[a.Element][a.Target] = a
}

// Estimate dispatches to the calculator of element.
func (e *Estimator) Estimate(element model.Element, label string, in Input, slabType model.SlabType) (LineItem, error) {
	var (
		item LineItem
		err  error
	)
	switch element {
	case model.ElementFoundation:
		item, err = e.Foundation(in)
	case model.ElementColumn:
		item, err = e.Column(in)
	case model.ElementSlab:
		item, err = e.Slab(in, slabType)
	case model.ElementBeam:
		item, err = e.Beam(in)
	default:
		return LineItem{}, fmt.Errorf("unknown element %q", element)
	}
	if err != nil {
		return LineItem{}, err
	}
	if label != "" {
		item.Label = label
	}
	return item, nil
}

// Foundation predicts volume and formwork. Foundations carry no steel
// estimate.
func (e *Estimator) Foundation(in Input) (LineItem, error) {
	item := newItem(model.ElementFoundation, in)
	volume, err := e.predict(model.ElementFoundation, model.TargetVolume, in)
	if err != nil {
		return LineItem{}, err
	}
	formwork, err := e.predict(model.ElementFoundation, model.TargetFormwork, in)
	if err != nil {
		return LineItem{}, err
	}
	item.Results[ResultVolume] = volume
	item.Results[ResultFormwork] = formwork
	item.Quantities = model.Quantities{VolumeM3: volume, FormworkM2: formwork}
	return item, nil
}

// Column predicts volume and formwork; steel follows from the volume.
func (e *Estimator) Column(in Input) (LineItem, error) {
	item := newItem(model.ElementColumn, in)
	volume, err := e.predict(model.ElementColumn, model.TargetVolume, in)
	if err != nil {
		return LineItem{}, err
	}
	formwork, err := e.predict(model.ElementColumn, model.TargetFormwork, in)
	if err != nil {
		return LineItem{}, err
	}
	steel := volume * e.Settings.ColumnSteelPerM3
	item.Results[ResultVolume] = volume
	item.Results[ResultFormwork] = formwork
	item.Results[ResultSteel] = steel
	item.Quantities = model.Quantities{VolumeM3: volume, FormworkM2: formwork, SteelKg: steel}
	return item, nil
}

// Slab computes quantities from geometry alone:
//
//	volume        = area × thickness
//	formwork side = perimeter × thickness
//	formwork all  = formwork side + area
//	steel         = volume × slab steel density (RC or PT)
func (e *Estimator) Slab(in Input, slabType model.SlabType) (LineItem, error) {
	area, err := requireInput(in, RoleArea)
	if err != nil {
		return LineItem{}, err
	}
	thickness, err := requireInput(in, RoleThickness)
	if err != nil {
		return LineItem{}, err
	}
	perimeter, err := requireInput(in, RolePerimeter)
	if err != nil {
		return LineItem{}, err
	}

	item := newItem(model.ElementSlab, in)
	item.SlabType = slabType
	volume := area * thickness
	side := perimeter * thickness
	all := side + area
	steel := volume * e.Settings.SlabSteelPerM3(slabType)

	item.Results[ResultVolume] = volume
	item.Results[ResultFormworkSide] = side
	item.Results[ResultFormworkAll] = all
	item.Results[ResultSteel] = steel
	item.Quantities = model.Quantities{VolumeM3: volume, FormworkM2: all, SteelKg: steel}
	return item, nil
}

// Beam predicts the cut length from B, H and length, derives cut and full
// volumes and steel, then predicts formwork with the cut length added to
// the inputs. Totals use the full-length figures.
func (e *Estimator) Beam(in Input) (LineItem, error) {
	b, err := requireInput(in, RoleB)
	if err != nil {
		return LineItem{}, err
	}
	h, err := requireInput(in, RoleH)
	if err != nil {
		return LineItem{}, err
	}
	length, err := requireInput(in, RoleLength)
	if err != nil {
		return LineItem{}, err
	}

	cut, err := e.predict(model.ElementBeam, model.TargetCutLength, in)
	if err != nil {
		return LineItem{}, err
	}

	withCut := copyInput(in)
	withCut[RoleCutLength] = cut
	item := newItem(model.ElementBeam, withCut)

	volumeCut := b * h * cut
	volumeFull := b * h * length
	steelCut := volumeCut * e.Settings.BeamSteelPerM3
	steelFull := volumeFull * e.Settings.BeamSteelPerM3

	formwork, err := e.predict(model.ElementBeam, model.TargetFormwork, withCut)
	if err != nil {
		return LineItem{}, err
	}

	item.Results[ResultCutLength] = cut
	item.Results[ResultVolumeCut] = volumeCut
	item.Results[ResultVolumeFull] = volumeFull
	item.Results[ResultSteelCut] = steelCut
	item.Results[ResultSteelFull] = steelFull
	item.Results[ResultFormwork] = formwork
	item.Quantities = model.Quantities{VolumeM3: volumeFull, FormworkM2: formwork, SteelKg: steelFull}
	return item, nil
}

// predict evaluates the model of element and target on in.
func (e *Estimator) predict(element model.Element, target model.Target, in Input) (float64, error) {
	a, ok := e.Models[element][target]
	if !ok {
		return 0, fmt.Errorf("%s %s: %w", element, target, ErrNoModel)
	}
	return training.Predict(a, FeatureRow(a, in))
}

// FeatureRow keys in by the feature names of a. Features are matched to
// inputs by role; models saved without roles are matched by feature name.
// Features with no input are left out.
func FeatureRow(a model.Artifact, in Input) map[string]float64 {
	row := make(map[string]float64, len(a.Features))
	for i, f := range a.Features {
		key := f
		if len(a.Roles) == len(a.Features) {
			key = a.Roles[i]
		}
		if v, ok := in[key]; ok {
			row[f] = v
		}
	}
	return row
}

func requireInput(in Input, role string) (float64, error) {
	v, ok := in[role]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingInput, role)
	}
	return v, nil
}

func newItem(element model.Element, in Input) LineItem {
	return LineItem{
		ID:      uuid.New().String()[:8],
		Element: element,
		Label:   element.Label(),
		Inputs:  copyInput(in),
		Results: make(map[string]float64),
	}
}

func copyInput(in Input) Input {
	out := make(Input, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
