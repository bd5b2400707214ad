package estimate

import (
	"time"

	"github.com/google/uuid"
	"github.com/piwi3910/QtyEstimate/internal/model"
)

// Sheet is a named list of estimated line items.
type Sheet struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt string     `json:"created_at"`
	Items     []LineItem `json:"items"`
}

// NewSheet creates an empty sheet with a generated ID.
func NewSheet(name string) Sheet {
	return Sheet{
		ID:        uuid.New().String()[:8],
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Items:     []LineItem{},
	}
}

// Add appends an item.
func (s *Sheet) Add(item LineItem) {
	s.Items = append(s.Items, item)
}

// Remove removes an item by ID. Returns true if found and removed.
func (s *Sheet) Remove(id string) bool {
	for i, it := range s.Items {
		if it.ID == id {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Totals sums the quantities of all items.
func (s Sheet) Totals() model.Quantities {
	var q model.Quantities
	for _, it := range s.Items {
		q = q.Add(it.Quantities)
	}
	return q
}

// Cost prices the sheet totals.
func (s Sheet) Cost(prices model.PriceList) model.CostEstimate {
	return model.CalculateCost(s.Totals(), prices)
}

// SummaryRow is the subtotal of one element.
type SummaryRow struct {
	Element    model.Element
	Items      int
	Quantities model.Quantities
}

// Summary returns per-element subtotals in report order. Elements without
// items are left out.
func (s Sheet) Summary() []SummaryRow {
	var rows []SummaryRow
	for _, e := range model.Elements() {
		row := SummaryRow{Element: e}
		for _, it := range s.Items {
			if it.Element == e {
				row.Items++
				row.Quantities = row.Quantities.Add(it.Quantities)
			}
		}
		if row.Items > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}
