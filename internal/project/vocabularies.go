package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/piwi3910/QtyEstimate/internal/resolver"
	"gopkg.in/yaml.v3"
)

// DefaultVocabularyPath returns ~/.qtyest/vocabularies.yaml.
func DefaultVocabularyPath() string {
	return filepath.Join(DefaultConfigDir(), "vocabularies.yaml")
}

// SaveVocabularies writes the vocabulary overrides as YAML.
func SaveVocabularies(path string, store model.VocabularyStore) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(store); err != nil {
		return fmt.Errorf("failed to encode vocabularies: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// LoadVocabularies reads vocabulary overrides from a YAML file.
// If the file does not exist, returns an empty store.
func LoadVocabularies(path string) (model.VocabularyStore, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewVocabularyStore(), nil
		}
		return model.VocabularyStore{}, err
	}
	defer f.Close()
	return resolver.LoadVocabularies(f)
}

// LoadRegistry builds a resolver registry from the overrides at path. An
// empty path yields the built-in vocabularies.
func LoadRegistry(path string) (*resolver.Registry, error) {
	if path == "" {
		return resolver.NewRegistry(model.NewVocabularyStore()), nil
	}
	store, err := LoadVocabularies(path)
	if err != nil {
		return nil, err
	}
	return resolver.NewRegistry(store), nil
}
