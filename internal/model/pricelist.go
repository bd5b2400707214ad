package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Material is a priced bill-of-quantities material.
type Material string

const (
	MaterialConcrete Material = "concrete" // priced per m³
	MaterialFormwork Material = "formwork" // priced per m²
	MaterialSteel    Material = "steel"    // priced per kg
)

// MaterialPrice is one entry of a price list.
type MaterialPrice struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Material  Material        `json:"material"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// NewMaterialPrice creates a new MaterialPrice with a generated ID.
func NewMaterialPrice(name string, material Material, unit string, unitPrice decimal.Decimal) MaterialPrice {
	return MaterialPrice{
		ID:        uuid.New().String()[:8],
		Name:      name,
		Material:  material,
		Unit:      unit,
		UnitPrice: unitPrice,
	}
}

// PriceList holds the unit prices used for rough cost estimates.
type PriceList struct {
	Currency string          `json:"currency"`
	Prices   []MaterialPrice `json:"prices"`
}

// DefaultPriceList returns a price list populated with typical local rates.
func DefaultPriceList() PriceList {
	return PriceList{
		Currency: "THB",
		Prices: []MaterialPrice{
			NewMaterialPrice("Ready-mix concrete 240 ksc", MaterialConcrete, "m³", decimal.NewFromInt(2450)),
			NewMaterialPrice("Plywood formwork incl. labour", MaterialFormwork, "m²", decimal.NewFromInt(420)),
			NewMaterialPrice("Deformed bar SD40", MaterialSteel, "kg", decimal.RequireFromString("27.50")),
		},
	}
}

// FindByID returns a pointer to the price with the given ID, or nil.
func (pl *PriceList) FindByID(id string) *MaterialPrice {
	for i := range pl.Prices {
		if pl.Prices[i].ID == id {
			return &pl.Prices[i]
		}
	}
	return nil
}

// FindByMaterial returns a pointer to the first price for material, or nil.
func (pl *PriceList) FindByMaterial(m Material) *MaterialPrice {
	for i := range pl.Prices {
		if pl.Prices[i].Material == m {
			return &pl.Prices[i]
		}
	}
	return nil
}

// UnitPrice returns the unit price of material, or zero when unpriced.
func (pl *PriceList) UnitPrice(m Material) decimal.Decimal {
	if p := pl.FindByMaterial(m); p != nil {
		return p.UnitPrice
	}
	return decimal.Zero
}

// Names returns the price entry names.
func (pl *PriceList) Names() []string {
	names := make([]string, len(pl.Prices))
	for i, p := range pl.Prices {
		names[i] = p.Name
	}
	return names
}
