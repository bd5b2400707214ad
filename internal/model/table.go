package model

import "math"

// Row maps a column name to a cell. A cell is nil (missing), a string
// (raw spreadsheet text) or a float64 (numeric).
type Row map[string]any

// Table is an ordered set of uniquely named columns and their rows.
// Operations return new tables; the receiver is never modified.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...string) Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return Table{Columns: cols, Rows: []Row{}}
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether name is one of the table's columns.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Values returns the cells of one column in row order.
func (t Table) Values(column string) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[column]
	}
	return out
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.clone()
	}
	return Table{Columns: cols, Rows: rows}
}

// Select restricts the table to the named columns, in the given order.
// Names that are not columns of t are ignored.
func (t Table) Select(columns []string) Table {
	var cols []string
	for _, c := range columns {
		if t.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(Row, len(cols))
		for _, c := range cols {
			nr[c] = r[c]
		}
		rows[i] = nr
	}
	return Table{Columns: cols, Rows: rows}
}

// WithColumn returns a copy of t where column holds values. An existing
// column is replaced in place; a new one is appended. Rows beyond
// len(values) get a missing cell.
func (t Table) WithColumn(column string, values []any) Table {
	out := t.Clone()
	if !out.HasColumn(column) {
		out.Columns = append(out.Columns, column)
	}
	for i, r := range out.Rows {
		if i < len(values) {
			r[column] = values[i]
		} else {
			r[column] = nil
		}
	}
	return out
}

// Head returns a copy of the first n rows.
func (t Table) Head(n int) Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := t.Clone()
	out.Rows = out.Rows[:n]
	return out
}

// Filter returns a copy holding only the rows for which keep is true.
func (t Table) Filter(keep func(Row) bool) Table {
	out := Table{Columns: append([]string(nil), t.Columns...), Rows: []Row{}}
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r.clone())
		}
	}
	return out
}

// Concat stacks tables vertically. The result has the union of all
// columns in first-seen order; cells absent from a source are missing.
func Concat(tables ...Table) Table {
	out := Table{Rows: []Row{}}
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				out.Columns = append(out.Columns, c)
			}
		}
	}
	for _, t := range tables {
		for _, r := range t.Rows {
			nr := make(Row, len(out.Columns))
			for _, c := range out.Columns {
				nr[c] = r[c]
			}
			out.Rows = append(out.Rows, nr)
		}
	}
	return out
}

// IsMissing reports whether a cell counts as missing: nil, a NaN float
// or an empty string.
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case string:
		return x == ""
	default:
		return false
	}
}

func (r Row) clone() Row {
	nr := make(Row, len(r))
	for k, v := range r {
		nr[k] = v
	}
	return nr
}
