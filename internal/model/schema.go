package model

// Assignment binds one role to the column chosen for it.
type Assignment struct {
	Role   string `json:"role"`
	Column string `json:"column"`
}

// Schema is the outcome of resolving a vocabulary against a table's
// columns. Assignments follow vocabulary order; roles without a match are
// absent. A column appears in at most one assignment.
type Schema struct {
	Assignments []Assignment `json:"assignments"`
}

// Column returns the column resolved for role.
func (s Schema) Column(role string) (string, bool) {
	for _, a := range s.Assignments {
		if a.Role == role {
			return a.Column, true
		}
	}
	return "", false
}

// Columns returns the resolved columns in role order. This is the feature
// order a model is trained and queried with.
func (s Schema) Columns() []string {
	cols := make([]string, len(s.Assignments))
	for i, a := range s.Assignments {
		cols[i] = a.Column
	}
	return cols
}

// Len returns the number of resolved roles.
func (s Schema) Len() int {
	return len(s.Assignments)
}

// Empty reports whether no role was resolved.
func (s Schema) Empty() bool {
	return len(s.Assignments) == 0
}

// Contains reports whether column was claimed by some role.
func (s Schema) Contains(column string) bool {
	for _, a := range s.Assignments {
		if a.Column == column {
			return true
		}
	}
	return false
}
