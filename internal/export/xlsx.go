package export

import (
	"fmt"
	"sort"

	"github.com/piwi3910/QtyEstimate/internal/estimate"
	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	itemsSheet   = "Items"
	summarySheet = "Summary"
)

// ExportSheetXLSX writes the sheet as an Excel workbook with an Items
// sheet (one row per line item, every input and result) and a Summary
// sheet (per-element subtotals, totals and cost).
func ExportSheetXLSX(path string, sheet estimate.Sheet, prices model.PriceList) error {
	if len(sheet.Items) == 0 {
		return ErrEmptySheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := writeItems(f, sheet.Items, header); err != nil {
		return fmt.Errorf("items: %w", err)
	}
	if err := writeSummary(f, sheet, prices, header); err != nil {
		return fmt.Errorf("summary: %w", err)
	}

	return f.SaveAs(path)
}

func writeItems(f *excelize.File, items []estimate.LineItem, style int) error {
	inputs, results := itemKeys(items)

	cols := []string{"ID", "Element", "Label", "Slab type"}
	for _, k := range inputs {
		cols = append(cols, "in: "+k)
	}
	for _, k := range results {
		cols = append(cols, k)
	}
	if err := writeRow(f, itemsSheet, 1, toCells(cols)); err != nil {
		return err
	}
	if err := styleRow(f, itemsSheet, 1, len(cols), style); err != nil {
		return err
	}

	for i, it := range items {
		row := []any{it.ID, it.Element.Label(), it.Label, ""}
		if it.Element == model.ElementSlab {
			row[3] = it.SlabType.String()
		}
		for _, k := range inputs {
			row = append(row, cellValue(it.Inputs, k))
		}
		for _, k := range results {
			row = append(row, cellValue(it.Results, k))
		}
		if err := writeRow(f, itemsSheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetPanes(itemsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummary(f *excelize.File, sheet estimate.Sheet, prices model.PriceList, style int) error {
	if err := writeRow(f, summarySheet, 1, []any{"Element", "Items", "Volume (m3)", "Formwork (m2)", "Steel (kg)"}); err != nil {
		return err
	}
	if err := styleRow(f, summarySheet, 1, 5, style); err != nil {
		return err
	}

	r := 2
	for _, s := range sheet.Summary() {
		q := s.Quantities
		if err := writeRow(f, summarySheet, r, []any{s.Element.Label(), s.Items, q.VolumeM3, q.FormworkM2, q.SteelKg}); err != nil {
			return err
		}
		r++
	}

	t := sheet.Totals()
	if err := writeRow(f, summarySheet, r, []any{"Total", len(sheet.Items), t.VolumeM3, t.FormworkM2, t.SteelKg}); err != nil {
		return err
	}
	if err := styleRow(f, summarySheet, r, 5, style); err != nil {
		return err
	}

	cost := sheet.Cost(prices)
	r += 2
	rows := [][]any{
		{"Cost (" + cost.Currency + ")", ""},
		{"Concrete", cost.Concrete.InexactFloat64()},
		{"Formwork", cost.Formwork.InexactFloat64()},
		{"Steel", cost.Steel.InexactFloat64()},
		{"Total", cost.Total.InexactFloat64()},
	}
	for _, row := range rows {
		if err := writeRow(f, summarySheet, r, row); err != nil {
			return err
		}
		r++
	}
	return nil
}

// itemKeys collects the sorted union of input and result names.
func itemKeys(items []estimate.LineItem) (inputs, results []string) {
	in := map[string]bool{}
	res := map[string]bool{}
	for _, it := range items {
		for k := range it.Inputs {
			in[k] = true
		}
		for k := range it.Results {
			res[k] = true
		}
	}
	return sortedKeys(in), sortedKeys(res)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// cellValue returns the value or an empty cell when the key is absent.
func cellValue(m map[string]float64, k string) any {
	if v, ok := m[k]; ok {
		return v
	}
	return nil
}

func toCells(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}
