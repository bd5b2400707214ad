package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/piwi3910/QtyEstimate/internal/model"
)

// DefaultPriceListPath returns ~/.qtyest/prices.json.
func DefaultPriceListPath() string {
	return filepath.Join(DefaultConfigDir(), "prices.json")
}

// SavePriceList saves a price list to a JSON file.
func SavePriceList(path string, prices model.PriceList) error {
	return writeJSON(path, prices)
}

// LoadPriceList loads a price list from a JSON file.
// Returns the default price list if the file does not exist.
func LoadPriceList(path string) (model.PriceList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.DefaultPriceList(), nil
		}
		return model.PriceList{}, err
	}
	var prices model.PriceList
	if err := json.Unmarshal(data, &prices); err != nil {
		return model.PriceList{}, err
	}
	if prices.Prices == nil {
		prices.Prices = []model.MaterialPrice{}
	}
	return prices, nil
}
