package resolver

import (
	"fmt"
	"io"
	"strings"

	"github.com/piwi3910/QtyEstimate/internal/model"
	"gopkg.in/yaml.v3"
)

// Registry serves vocabularies by name, preferring user overrides over the
// built-in ones.
type Registry struct {
	overrides model.VocabularyStore
}

// NewRegistry creates a registry on top of the given overrides. An empty
// store yields the built-in vocabularies only.
func NewRegistry(overrides model.VocabularyStore) *Registry {
	return &Registry{overrides: overrides}
}

// Vocabulary returns the vocabulary called name.
func (r *Registry) Vocabulary(name string) (model.Vocabulary, error) {
	if v := r.overrides.FindByName(name); v != nil {
		return *v, nil
	}
	if v, ok := Builtin(name); ok {
		return v, nil
	}
	return model.Vocabulary{}, fmt.Errorf("unknown vocabulary %q", name)
}

// Overridden reports whether name comes from the overrides.
func (r *Registry) Overridden(name string) bool {
	return r.overrides.FindByName(name) != nil
}

// LoadVocabularies decodes a YAML vocabulary store and validates it.
//
//	vocabularies:
//	  - name: column
//	    deny_exact: [type]
//	    roles:
//	      - name: width
//	        keywords: [Width, กว้าง]
func LoadVocabularies(r io.Reader) (model.VocabularyStore, error) {
	store := model.NewVocabularyStore()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&store); err != nil {
		if err == io.EOF {
			return model.NewVocabularyStore(), nil
		}
		return model.VocabularyStore{}, fmt.Errorf("failed to parse vocabularies: %w", err)
	}
	if store.Vocabularies == nil {
		store.Vocabularies = []model.Vocabulary{}
	}
	for _, v := range store.Vocabularies {
		if err := Validate(v); err != nil {
			return model.VocabularyStore{}, err
		}
	}
	return store, nil
}

// Validate checks that a vocabulary is usable: it has a name, at least one
// role, unique role names and at least one keyword per role.
func Validate(v model.Vocabulary) error {
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("vocabulary has no name")
	}
	if len(v.Roles) == 0 {
		return fmt.Errorf("vocabulary %q has no roles", v.Name)
	}
	seen := make(map[string]bool, len(v.Roles))
	for _, role := range v.Roles {
		if strings.TrimSpace(role.Name) == "" {
			return fmt.Errorf("vocabulary %q has a role without a name", v.Name)
		}
		if seen[role.Name] {
			return fmt.Errorf("vocabulary %q declares role %q twice", v.Name, role.Name)
		}
		seen[role.Name] = true
		if len(role.Keywords) == 0 {
			return fmt.Errorf("vocabulary %q: role %q has no keywords", v.Name, role.Name)
		}
	}
	return nil
}

// Effective returns every vocabulary as resolution sees it: the built-ins
// in their usual order, each replaced by its override when there is one,
// followed by overrides that name no built-in.
func (r *Registry) Effective() model.VocabularyStore {
	store := model.NewVocabularyStore()
	for _, name := range BuiltinNames() {
		v, err := r.Vocabulary(name)
		if err == nil {
			store.Put(v)
		}
	}
	for _, v := range r.overrides.Vocabularies {
		if _, ok := Builtin(v.Name); !ok {
			store.Put(v)
		}
	}
	return store
}
