// Package clean turns raw, resolved tables into numeric, complete tables.
// Every stage returns a new table and leaves its input untouched.
package clean

import "github.com/piwi3910/QtyEstimate/internal/model"

// Stage is one table-to-table cleaning step.
type Stage interface {
	Apply(model.Table) model.Table
}

// Chain is an ordered list of stages.
type Chain []Stage

func (c Chain) Apply(in model.Table) model.Table {
	out := in
	for _, s := range c {
		out = s.Apply(out)
	}
	return out
}

// Normalize is the stage form of NormalizeColumns.
type Normalize struct {
	Columns []string
}

func (n Normalize) Apply(t model.Table) model.Table {
	return NormalizeColumns(t, n.Columns)
}

// Require is the stage form of FilterComplete.
type Require struct {
	Columns []string
}

func (r Require) Apply(t model.Table) model.Table {
	return FilterComplete(t, r.Columns)
}

// JoinPositional is the stage form of JoinByPosition. A nil Values slice
// leaves the table unchanged.
type JoinPositional struct {
	Column string
	Values []any
}

func (j JoinPositional) Apply(t model.Table) model.Table {
	if j.Values == nil {
		return t
	}
	return JoinByPosition(t, j.Values, j.Column)
}
