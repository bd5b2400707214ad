package clean

import "github.com/piwi3910/QtyEstimate/internal/model"

// JoinByPosition appends values to primary as column, matching rows by
// position. Both sides are cut to the shorter length first, so primary
// rows past len(values) are dropped and surplus values are ignored.
//
// There is no join key: the two sources are trusted to have been exported
// in the same row order. Misaligned inputs produce wrong pairings without
// any error.
func JoinByPosition(primary model.Table, values []any, column string) model.Table {
	n := primary.Len()
	if len(values) < n {
		n = len(values)
	}
	return primary.Head(n).WithColumn(column, values[:n])
}
