package project

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/piwi3910/QtyEstimate/internal/estimate"
)

// SaveSheet writes an estimate sheet as JSON.
func SaveSheet(path string, sheet estimate.Sheet) error {
	return writeJSON(path, sheet)
}

// LoadSheet reads an estimate sheet written by SaveSheet.
func LoadSheet(path string) (estimate.Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return estimate.Sheet{}, err
	}
	var sheet estimate.Sheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return estimate.Sheet{}, fmt.Errorf("invalid sheet file: %w", err)
	}
	if sheet.Items == nil {
		sheet.Items = []estimate.LineItem{}
	}
	return sheet, nil
}

// LoadOrCreateSheet loads the sheet at path, or starts a new one named
// name when the file does not exist.
func LoadOrCreateSheet(path, name string) (estimate.Sheet, error) {
	sheet, err := LoadSheet(path)
	if os.IsNotExist(err) {
		return estimate.NewSheet(name), nil
	}
	return sheet, err
}

// HistoryPath returns the undo history file kept beside a sheet file.
func HistoryPath(sheetPath string) string {
	return strings.TrimSuffix(sheetPath, ".json") + ".history.json"
}

// SaveHistory writes the undo history of the sheet at sheetPath.
func SaveHistory(sheetPath string, h *estimate.History) error {
	return writeJSON(HistoryPath(sheetPath), h)
}

// LoadHistory reads the undo history of the sheet at sheetPath. A sheet
// without a history file gets an empty one.
func LoadHistory(sheetPath string) (*estimate.History, error) {
	h := estimate.NewHistory()
	data, err := os.ReadFile(HistoryPath(sheetPath))
	if os.IsNotExist(err) {
		return h, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, h); err != nil {
		return nil, fmt.Errorf("invalid history file: %w", err)
	}
	return h, nil
}
