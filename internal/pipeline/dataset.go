package pipeline

import (
	"fmt"

	"github.com/piwi3910/QtyEstimate/internal/model"
)

// TrainingSet is the numeric input of one model: a feature matrix in
// Features order and the matching target vector.
type TrainingSet struct {
	Element  model.Element
	Target   model.Target
	Features []string
	Roles    []string
	X        [][]float64
	Y        []float64
}

// Len returns the number of samples.
func (s TrainingSet) Len() int {
	return len(s.Y)
}

// TrainingSet extracts the samples for target. Rows missing the target or
// one of its features are left out here, so a sparse target such as steel
// only loses its own rows.
func (p Prepared) TrainingSet(target model.Target) (TrainingSet, error) {
	col, ok := p.Targets[target]
	if !ok {
		return TrainingSet{}, fmt.Errorf("%s %s: %w", p.Element, target, ErrTargetNotFound)
	}
	schema := p.schemaFor(target)
	features := schema.Columns()
	if len(features) == 0 {
		return TrainingSet{}, fmt.Errorf("%s %s: %w", p.Element, target, ErrNoFeatures)
	}

	set := TrainingSet{
		Element:  p.Element,
		Target:   target,
		Features: features,
		Roles:    make([]string, len(schema.Assignments)),
	}
	for i, a := range schema.Assignments {
		set.Roles[i] = a.Role
	}
	for _, r := range p.Table.Rows {
		y, ok := r[col].(float64)
		if !ok || model.IsMissing(y) {
			continue
		}
		x := make([]float64, len(features))
		complete := true
		for i, f := range features {
			v, ok := r[f].(float64)
			if !ok || model.IsMissing(v) {
				complete = false
				break
			}
			x[i] = v
		}
		if !complete {
			continue
		}
		set.X = append(set.X, x)
		set.Y = append(set.Y, y)
	}
	return set, nil
}
