// Package resolver maps differently named spreadsheet columns onto the
// semantic roles (width, thickness, volume, ...) the estimators work with.
//
// Resolution is a single ordered pass: roles are taken in vocabulary order
// and each one claims the first unclaimed, non-denied column whose name
// contains one of its keywords. There is no scoring; declaration order
// settles every overlap.
package resolver

import (
	"strings"

	"github.com/piwi3910/QtyEstimate/internal/model"
)

// Resolve assigns columns to the roles of vocab. columns must be the
// trimmed column names of the dataset, in dataset order. Roles without a
// matching column are left out of the result. Every call starts with an
// empty claimed set, so two calls never influence each other.
func Resolve(columns []string, vocab model.Vocabulary) model.Schema {
	schema := model.Schema{Assignments: []model.Assignment{}}
	claimed := make(map[string]bool, len(columns))

	for _, role := range vocab.Roles {
		for _, col := range columns {
			if claimed[col] {
				continue
			}
			lower := strings.ToLower(col)
			if denied(lower, vocab, role) {
				continue
			}
			if containsAny(lower, role.Keywords) {
				schema.Assignments = append(schema.Assignments, model.Assignment{Role: role.Name, Column: col})
				claimed[col] = true
				break
			}
		}
	}
	return schema
}

// ResolveTarget returns the first column, in dataset order, that satisfies
// rule and is not listed in exclude. exclude normally holds the columns
// already claimed as features.
func ResolveTarget(columns []string, rule model.TargetRule, exclude []string) (string, bool) {
	skip := make(map[string]bool, len(exclude))
	for _, c := range exclude {
		skip[c] = true
	}
	for _, col := range columns {
		if skip[col] {
			continue
		}
		if Matches(col, rule) {
			return col, true
		}
	}
	return "", false
}

// Matches reports whether the column name satisfies rule.
func Matches(column string, rule model.TargetRule) bool {
	lower := strings.ToLower(column)
	if len(rule.AnyOf) > 0 && !containsAny(lower, rule.AnyOf) {
		return false
	}
	for _, kw := range rule.AllOf {
		if !strings.Contains(lower, strings.ToLower(kw)) {
			return false
		}
	}
	if containsAny(lower, rule.NoneOf) {
		return false
	}
	return len(rule.AnyOf) > 0 || len(rule.AllOf) > 0
}

// denied applies the vocabulary-wide exact and substring deny lists and the
// role's own exact deny list to a lower-cased column name.
func denied(lower string, vocab model.Vocabulary, role model.Role) bool {
	for _, term := range vocab.DenyExact {
		if lower == strings.ToLower(term) {
			return true
		}
	}
	for _, term := range role.DenyExact {
		if lower == strings.ToLower(term) {
			return true
		}
	}
	return containsAny(lower, vocab.DenyContains)
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
