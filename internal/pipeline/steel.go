package pipeline

import (
	"fmt"

	"github.com/piwi3910/QtyEstimate/internal/clean"
	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/resolver"
)

// FindSteelColumn returns the total-weight column of a reinforcement
// schedule: the first column naming a total together with steel,
// reinforcement or kilograms.
func FindSteelColumn(columns []string) (string, bool) {
	return resolver.ResolveTarget(columns, resolver.SteelTotalRule, nil)
}

// SteelValues returns the total-weight column of a reinforcement schedule
// in row order.
func SteelValues(schedule model.Table) ([]any, error) {
	col, ok := FindSteelColumn(schedule.Columns)
	if !ok {
		return nil, fmt.Errorf("no total steel column among %d columns", len(schedule.Columns))
	}
	return schedule.Values(col), nil
}

// SlabPart is one slab schedule with the steel rows exported for it.
type SlabPart struct {
	Type  model.SlabType
	Table model.Table
	Steel []any
}

// CombineSlabs tags each schedule with its slab type, joins its own steel
// by position, then stacks the parts. Steel is joined per part because
// the RC and PT reinforcement schedules are separate exports. A part whose
// steel count differs from its row count is cut to the shorter length and
// reported in the returned warnings.
func CombineSlabs(parts ...SlabPart) (model.Table, []string) {
	tables := make([]model.Table, 0, len(parts))
	var warnings []string
	for _, part := range parts {
		t := TagSlabType(part.Table, part.Type)
		t = clean.JoinPositional{Column: SteelColumn, Values: part.Steel}.Apply(t)
		if part.Steel != nil && len(part.Steel) != part.Table.Len() {
			warnings = append(warnings, fmt.Sprintf(
				"%s steel schedule has %d rows, %s slab table has %d; kept the first %d",
				part.Type, len(part.Steel), part.Type, part.Table.Len(), t.Len()))
		}
		tables = append(tables, t)
	}
	return model.Concat(tables...), warnings
}

// TagSlabType adds the Slab_Type column holding the numeric slab type.
func TagSlabType(t model.Table, st model.SlabType) model.Table {
	values := make([]any, t.Len())
	for i := range values {
		values[i] = float64(st)
	}
	return t.WithColumn(resolver.SlabTypeColumn, values)
}
