package clean

import "github.com/piwi3910/QtyEstimate/internal/model"

// FilterComplete drops every row that is missing a value in any of the
// required columns. Callers pass the feature columns plus the primary
// targets only; sparse secondary targets such as steel are filtered where
// they are consumed so they do not cost volume and formwork rows.
func FilterComplete(t model.Table, required []string) model.Table {
	return t.Filter(func(r model.Row) bool {
		for _, c := range required {
			if model.IsMissing(r[c]) {
				return false
			}
		}
		return true
	})
}
