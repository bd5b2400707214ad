package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/piwi3910/QtyEstimate/internal/model"
)

// ErrModelNotFound is returned when no artifact exists for an element and
// target.
var ErrModelNotFound = errors.New("model not found")

// SaveArtifact writes a trained model to dir under its standard file name
// and returns the path written.
func SaveArtifact(dir string, a model.Artifact) (string, error) {
	path := filepath.Join(dir, a.FileName())
	if err := writeJSON(path, a); err != nil {
		return "", fmt.Errorf("failed to save model %s: %w", a.FileName(), err)
	}
	return path, nil
}

// LoadArtifact reads the model for element and target from dir.
func LoadArtifact(dir string, element model.Element, target model.Target) (model.Artifact, error) {
	name := model.ArtifactFileName(element, target)
	a, err := readArtifact(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Artifact{}, fmt.Errorf("%s %s: %w", element, target, ErrModelNotFound)
		}
		return model.Artifact{}, err
	}
	return a, nil
}

// LoadArtifacts reads every model of element found in dir, keyed by target.
func LoadArtifacts(dir string, element model.Element) (map[model.Target]model.Artifact, error) {
	all, err := ListArtifacts(dir)
	if err != nil {
		return nil, err
	}
	out := make(map[model.Target]model.Artifact)
	for _, a := range all {
		if a.Element == element {
			out[a.Target] = a
		}
	}
	return out, nil
}

// ListArtifacts reads all models in dir, sorted by file name. A missing
// directory holds no models.
func ListArtifacts(dir string) ([]model.Artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Artifact{}, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), "_model.json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]model.Artifact, 0, len(names))
	for _, n := range names {
		a, err := readArtifact(filepath.Join(dir, n))
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func readArtifact(path string) (model.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Artifact{}, err
	}
	var a model.Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return model.Artifact{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if err := a.Validate(); err != nil {
		return model.Artifact{}, fmt.Errorf("invalid model %s: %w", filepath.Base(path), err)
	}
	return a, nil
}
