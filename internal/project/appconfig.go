package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/QtyEstimate/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.qtyest/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".qtyest")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	return writeJSON(path, config)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Fields absent from the file keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, err
	}
	// Ensure RecentEstimates is never nil
	if config.RecentEstimates == nil {
		config.RecentEstimates = []string{}
	}
	return config, nil
}

// AddRecentEstimate moves path to the front of the recent list, keeping at
// most limit entries.
func AddRecentEstimate(config *model.AppConfig, path string, limit int) {
	recent := []string{path}
	for _, p := range config.RecentEstimates {
		if p != path && len(recent) < limit {
			recent = append(recent, p)
		}
	}
	config.RecentEstimates = recent
}

func writeJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
