package model

import "github.com/shopspring/decimal"

// Quantities is a bill of quantities for one line item or a whole estimate.
type Quantities struct {
	VolumeM3   float64 `json:"volume_m3"`
	FormworkM2 float64 `json:"formwork_m2"`
	SteelKg    float64 `json:"steel_kg"`
}

// Add returns the element-wise sum of q and o.
func (q Quantities) Add(o Quantities) Quantities {
	return Quantities{
		VolumeM3:   q.VolumeM3 + o.VolumeM3,
		FormworkM2: q.FormworkM2 + o.FormworkM2,
		SteelKg:    q.SteelKg + o.SteelKg,
	}
}

// SteelTonnes returns the steel weight in metric tonnes.
func (q Quantities) SteelTonnes() float64 {
	return q.SteelKg / 1000
}

// CostEstimate holds the priced quantities of an estimate.
type CostEstimate struct {
	Currency string          `json:"currency"`
	Concrete decimal.Decimal `json:"concrete"`
	Formwork decimal.Decimal `json:"formwork"`
	Steel    decimal.Decimal `json:"steel"`
	Total    decimal.Decimal `json:"total"`
}

// CalculateCost prices q with the given price list. Each material cost is
// rounded to two decimals before the total is summed.
func CalculateCost(q Quantities, prices PriceList) CostEstimate {
	concrete := decimal.NewFromFloat(q.VolumeM3).Mul(prices.UnitPrice(MaterialConcrete)).Round(2)
	formwork := decimal.NewFromFloat(q.FormworkM2).Mul(prices.UnitPrice(MaterialFormwork)).Round(2)
	steel := decimal.NewFromFloat(q.SteelKg).Mul(prices.UnitPrice(MaterialSteel)).Round(2)

	return CostEstimate{
		Currency: prices.Currency,
		Concrete: concrete,
		Formwork: formwork,
		Steel:    steel,
		Total:    concrete.Add(formwork).Add(steel),
	}
}
