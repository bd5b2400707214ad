package model

import (
	"time"

	"github.com/google/uuid"
)

// Role names one semantic purpose a column can serve and the keywords
// that identify it. Keywords match as case-insensitive substrings of the
// column name.
type Role struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	// DenyExact lists lower-cased column names this role must never take,
	// on top of the vocabulary-wide lists.
	DenyExact []string `json:"deny_exact,omitempty" yaml:"deny_exact,omitempty"`
}

// Vocabulary is an ordered list of roles plus the deny lists applied to
// every role. Role order is significant: earlier roles claim columns first.
type Vocabulary struct {
	ID           string   `json:"id" yaml:"id,omitempty"`
	Name         string   `json:"name" yaml:"name"`
	Roles        []Role   `json:"roles" yaml:"roles"`
	DenyExact    []string `json:"deny_exact,omitempty" yaml:"deny_exact,omitempty"`
	DenyContains []string `json:"deny_contains,omitempty" yaml:"deny_contains,omitempty"`
	UpdatedAt    string   `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// NewVocabulary creates a vocabulary with a generated ID.
func NewVocabulary(name string, roles ...Role) Vocabulary {
	return Vocabulary{
		ID:        uuid.New().String()[:8],
		Name:      name,
		Roles:     copyRoles(roles),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// RoleNames returns the role names in declaration order.
func (v Vocabulary) RoleNames() []string {
	names := make([]string, len(v.Roles))
	for i, r := range v.Roles {
		names[i] = r.Name
	}
	return names
}

// FindRole returns a pointer to the role with the given name, or nil.
func (v *Vocabulary) FindRole(name string) *Role {
	for i := range v.Roles {
		if v.Roles[i].Name == name {
			return &v.Roles[i]
		}
	}
	return nil
}

// TargetRule describes how a target column is recognised. A column
// qualifies when its lower-cased name contains any AnyOf keyword (or
// AnyOf is empty), all AllOf keywords and none of the NoneOf keywords.
type TargetRule struct {
	Target Target   `json:"target" yaml:"target"`
	AnyOf  []string `json:"any_of,omitempty" yaml:"any_of,omitempty"`
	AllOf  []string `json:"all_of,omitempty" yaml:"all_of,omitempty"`
	NoneOf []string `json:"none_of,omitempty" yaml:"none_of,omitempty"`
}

// VocabularyStore holds the vocabularies known to the application, keyed
// by name ("foundation", "beam-cut", ...).
type VocabularyStore struct {
	Vocabularies []Vocabulary `json:"vocabularies" yaml:"vocabularies"`
}

// NewVocabularyStore creates an empty store.
func NewVocabularyStore() VocabularyStore {
	return VocabularyStore{
		Vocabularies: []Vocabulary{},
	}
}

// Put adds v, replacing any vocabulary with the same name.
func (s *VocabularyStore) Put(v Vocabulary) {
	for i := range s.Vocabularies {
		if s.Vocabularies[i].Name == v.Name {
			s.Vocabularies[i] = v
			return
		}
	}
	s.Vocabularies = append(s.Vocabularies, v)
}

// Remove removes a vocabulary by name. Returns true if found and removed.
func (s *VocabularyStore) Remove(name string) bool {
	for i, v := range s.Vocabularies {
		if v.Name == name {
			s.Vocabularies = append(s.Vocabularies[:i], s.Vocabularies[i+1:]...)
			return true
		}
	}
	return false
}

// FindByName returns a pointer to the vocabulary with the given name, or nil.
func (s *VocabularyStore) FindByName(name string) *Vocabulary {
	for i := range s.Vocabularies {
		if s.Vocabularies[i].Name == name {
			return &s.Vocabularies[i]
		}
	}
	return nil
}

// Names returns the stored vocabulary names.
func (s *VocabularyStore) Names() []string {
	names := make([]string, len(s.Vocabularies))
	for i, v := range s.Vocabularies {
		names[i] = v.Name
	}
	return names
}

func copyRoles(roles []Role) []Role {
	if roles == nil {
		return []Role{}
	}
	cp := make([]Role, len(roles))
	copy(cp, roles)
	return cp
}
