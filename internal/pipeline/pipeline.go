// Package pipeline turns an imported schedule into a cleaned, numeric
// table for one structural element: it resolves feature and target
// columns, joins secondary steel quantities, normalises numbers and drops
// incomplete rows.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/piwi3910/QtyEstimate/internal/clean"
	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/resolver"
)

// ErrNoFeatures is returned when no feature role resolves against the
// table's columns.
var ErrNoFeatures = errors.New("no usable geometry columns found")

// ErrTargetNotFound is returned by TrainingSet for a target that was not
// resolved.
var ErrTargetNotFound = errors.New("target column not found")

// SteelColumn is the name given to steel quantities joined from a
// reinforcement schedule.
const SteelColumn = "Steel (kg)"

// Options controls Prepare.
type Options struct {
	// Vocabularies overrides the built-in vocabularies when set.
	Vocabularies *resolver.Registry
	// Steel holds per-row steel weights from a secondary schedule. They
	// are joined by position before cleaning.
	Steel []any
}

// Prepared is a cleaned table together with the columns that were resolved
// for it.
type Prepared struct {
	Element model.Element
	Table   model.Table
	// Features is the main feature pass. For beams it predicts volume,
	// formwork, length and steel.
	Features model.Schema
	// CutFeatures is the beam pass used to predict cut length. Empty for
	// other elements.
	CutFeatures model.Schema
	Targets     map[model.Target]string
	Skipped     []model.Target
	Warnings    []string
	// RawRows is the row count before filtering.
	RawRows int
}

// primaryTargets are the targets every kept row must have.
var primaryTargets = map[model.Element][]model.Target{
	model.ElementFoundation: {model.TargetVolume, model.TargetFormwork},
	model.ElementColumn:     {model.TargetVolume, model.TargetFormwork},
	model.ElementSlab:       {model.TargetVolume},
	model.ElementBeam:       {model.TargetVolume},
}

// Prepare runs the full cleaning pipeline for element.
func Prepare(element model.Element, table model.Table, opts Options) (Prepared, error) {
	reg := opts.Vocabularies
	if reg == nil {
		reg = resolver.NewRegistry(model.NewVocabularyStore())
	}

	p := Prepared{
		Element: element,
		Targets: make(map[model.Target]string),
		RawRows: table.Len(),
	}

	// Steel is joined before anything else so row positions still match
	// the reinforcement schedule.
	work := clean.JoinPositional{Column: SteelColumn, Values: opts.Steel}.Apply(table)
	if opts.Steel != nil && len(opts.Steel) != table.Len() {
		p.Warnings = append(p.Warnings, fmt.Sprintf(
			"Steel schedule has %d rows, %s table has %d; kept the first %d",
			len(opts.Steel), element, table.Len(), work.Len()))
	}

	columns := withoutColumn(work.Columns, SteelColumn)

	vocabName := string(element)
	vocab, err := reg.Vocabulary(vocabName)
	if err != nil {
		return Prepared{}, fmt.Errorf("failed to load %s vocabulary: %w", element, err)
	}
	p.Features = resolver.Resolve(columns, vocab)
	if p.Features.Empty() {
		return Prepared{}, fmt.Errorf("%s: %w", element, ErrNoFeatures)
	}

	if element == model.ElementBeam {
		cutVocab, err := reg.Vocabulary(resolver.VocabBeamCut)
		if err != nil {
			return Prepared{}, fmt.Errorf("failed to load %s vocabulary: %w", resolver.VocabBeamCut, err)
		}
		p.CutFeatures = resolver.Resolve(columns, cutVocab)
		p.resolveBeamTargets(columns)
	} else {
		p.resolveTargets(columns)
	}

	if work.HasColumn(SteelColumn) {
		p.Targets[model.TargetSteel] = SteelColumn
	}

	for _, t := range expectedTargets(element) {
		if _, ok := p.Targets[t]; !ok {
			p.Skipped = append(p.Skipped, t)
			p.Warnings = append(p.Warnings, fmt.Sprintf("No %s column found, %s model skipped", t, t))
		}
	}

	keep := p.columns()
	required := append([]string{}, p.Features.Columns()...)
	for _, t := range primaryTargets[element] {
		if col, ok := p.Targets[t]; ok {
			required = append(required, col)
		}
	}

	chain := clean.Chain{
		selectStage(keep),
		clean.Normalize{Columns: keep},
		clean.Require{Columns: required},
	}
	p.Table = chain.Apply(work)

	if dropped := p.RawRows - p.Table.Len(); dropped > 0 {
		p.Warnings = append(p.Warnings, fmt.Sprintf("Dropped %d incomplete rows", dropped))
	}
	return p, nil
}

// resolveTargets searches the element's targets in one pass, skipping the
// feature columns.
func (p *Prepared) resolveTargets(columns []string) {
	exclude := p.Features.Columns()
	for _, rule := range resolver.TargetRules(p.Element) {
		if col, ok := resolver.ResolveTarget(columns, rule, exclude); ok {
			p.Targets[rule.Target] = col
		}
	}
}

// resolveBeamTargets applies the per-pass exclusions: cut length excludes
// the cut features, length excludes the quantity features and the cut
// length column, and the rest exclude the quantity features.
func (p *Prepared) resolveBeamTargets(columns []string) {
	features := p.Features.Columns()

	if !p.CutFeatures.Empty() {
		if col, ok := resolver.ResolveTarget(columns, resolver.BeamCutLengthRule, p.CutFeatures.Columns()); ok {
			p.Targets[model.TargetCutLength] = col
		}
	}

	exclude := append([]string{}, features...)
	if col, ok := p.Targets[model.TargetCutLength]; ok {
		exclude = append(exclude, col)
	}
	if col, ok := resolver.ResolveTarget(columns, resolver.BeamLengthRule, exclude); ok {
		p.Targets[model.TargetLength] = col
	}

	for _, rule := range resolver.TargetRules(model.ElementBeam) {
		if col, ok := resolver.ResolveTarget(columns, rule, features); ok {
			p.Targets[rule.Target] = col
		}
	}
}

// expectedTargets lists the targets reported as skipped when missing.
func expectedTargets(e model.Element) []model.Target {
	var out []model.Target
	if e == model.ElementBeam {
		out = append(out, model.TargetCutLength)
	}
	for _, r := range resolver.TargetRules(e) {
		out = append(out, r.Target)
	}
	return out
}

// FeaturesFor returns the ordered feature columns a target is trained on.
func (p Prepared) FeaturesFor(target model.Target) []string {
	return p.schemaFor(target).Columns()
}

// schemaFor picks the beam cut pass for the two length targets; they are
// predicted before cut length is known.
func (p Prepared) schemaFor(target model.Target) model.Schema {
	if p.Element == model.ElementBeam && (target == model.TargetCutLength || target == model.TargetLength) {
		return p.CutFeatures
	}
	return p.Features
}

// TrainableTargets returns the resolved targets in a stable order.
func (p Prepared) TrainableTargets() []model.Target {
	order := []model.Target{
		model.TargetCutLength, model.TargetLength, model.TargetVolume,
		model.TargetFormwork, model.TargetFormworkSide, model.TargetFormworkAll,
		model.TargetSteel,
	}
	var out []model.Target
	for _, t := range order {
		if _, ok := p.Targets[t]; ok && len(p.FeaturesFor(t)) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// columns returns every resolved column once, features first.
func (p Prepared) columns() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(cols ...string) {
		for _, c := range cols {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	add(p.Features.Columns()...)
	add(p.CutFeatures.Columns()...)
	for _, t := range expectedTargets(p.Element) {
		if col, ok := p.Targets[t]; ok {
			add(col)
		}
	}
	if col, ok := p.Targets[model.TargetSteel]; ok {
		add(col)
	}
	return out
}

type selectStage []string

func (s selectStage) Apply(t model.Table) model.Table {
	return t.Select(s)
}

func withoutColumn(columns []string, name string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if c != name {
			out = append(out, c)
		}
	}
	return out
}
