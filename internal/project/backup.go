package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/QtyEstimate/internal/model"
)

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version      string                `json:"version"`
	CreatedAt    string                `json:"created_at"`
	Config       model.AppConfig       `json:"config"`
	Prices       model.PriceList       `json:"prices"`
	Vocabularies model.VocabularyStore `json:"vocabularies"`
}

// ExportAllData exports config, prices and vocabulary overrides to a
// single JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, prices model.PriceList, vocab model.VocabularyStore) error {
	backup := BackupData{
		Version:      "1.0.0",
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		Config:       config,
		Prices:       prices,
		Vocabularies: vocab,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported config.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	// Ensure RecentEstimates is never nil
	if backup.Config.RecentEstimates == nil {
		backup.Config.RecentEstimates = []string{}
	}
	if backup.Vocabularies.Vocabularies == nil {
		backup.Vocabularies = model.NewVocabularyStore()
	}
	return backup, nil
}
