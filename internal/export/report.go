// Package export writes estimate sheets and cleaned tables to PDF, Excel
// and Parquet files.
package export

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/QtyEstimate/internal/estimate"
	"github.com/piwi3910/QtyEstimate/internal/model"
)

// ErrEmptySheet is returned when a sheet has no line items to export.
var ErrEmptySheet = errors.New("sheet has no line items")

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	rowHeight    = 6.0
	summaryQR    = 32.0 // mm
)

// ExportReportPDF writes the sheet as a PDF report: totals with a QR code
// of the summary, per-element subtotals, the line items and a rough cost.
func ExportReportPDF(path string, sheet estimate.Sheet, prices model.PriceList) error {
	if len(sheet.Items) == 0 {
		return ErrEmptySheet
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	y := renderHeader(pdf, tr, sheet)

	totals := sheet.Totals()
	cost := sheet.Cost(prices)
	if err := renderSummaryQR(pdf, sheet, totals, cost); err != nil {
		return err
	}
	y = renderTotals(pdf, totals, y)
	y = renderSubtotals(pdf, sheet.Summary(), y+5)
	y = renderItems(pdf, tr, sheet.Items, y+5)
	renderCost(pdf, cost, y+5)

	renderFooter(pdf)
	return pdf.OutputFileAndClose(path)
}

func renderHeader(pdf *fpdf.Fpdf, tr func(string) string, sheet estimate.Sheet) float64 {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight-summaryQR, headerHeight, tr("Quantity Estimate: "+sheet.Name), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	pdf.CellFormat(150, 5, fmt.Sprintf("Sheet %s | Created %s | %d items", sheet.ID, sheet.CreatedAt, len(sheet.Items)), "", 0, "L", false, 0, "")
	return marginTop + headerHeight + 8
}

// renderTotals draws the three headline quantities.
func renderTotals(pdf *fpdf.Fpdf, q model.Quantities, y float64) float64 {
	boxes := []struct {
		label string
		value string
		unit  string
		r, g  int
		b     int
	}{
		{"Concrete", fmt.Sprintf("%.2f", q.VolumeM3), "m3", 25, 118, 210},
		{"Formwork", fmt.Sprintf("%.2f", q.FormworkM2), "m2", 123, 31, 162},
		{"Steel", fmt.Sprintf("%.2f", q.SteelKg), fmt.Sprintf("kg (%.2f t)", q.SteelTonnes()), 230, 81, 0},
	}

	w := 70.0
	for i, box := range boxes {
		x := marginLeft + float64(i)*(w+5)
		pdf.SetDrawColor(box.r, box.g, box.b)
		pdf.SetLineWidth(0.5)
		pdf.Rect(x, y, w, 22, "D")

		pdf.SetTextColor(box.r, box.g, box.b)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetXY(x, y+2)
		pdf.CellFormat(w, 5, box.label, "", 0, "C", false, 0, "")
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetXY(x, y+8)
		pdf.CellFormat(w, 7, box.value, "", 0, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(x, y+15)
		pdf.CellFormat(w, 5, box.unit, "", 0, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	return y + 22
}

// renderSubtotals draws the per-element table.
func renderSubtotals(pdf *fpdf.Fpdf, rows []estimate.SummaryRow, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "By Element", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{40, 20, 40, 40, 40}
	y = tableHeader(pdf, colWidths, []string{"Element", "Items", "Volume (m3)", "Formwork (m2)", "Steel (kg)"}, y)

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range rows {
		y = tableRow(pdf, colWidths, []string{
			r.Element.Label(),
			fmt.Sprintf("%d", r.Items),
			fmt.Sprintf("%.2f", r.Quantities.VolumeM3),
			fmt.Sprintf("%.2f", r.Quantities.FormworkM2),
			steelCell(r.Element, r.Quantities.SteelKg),
		}, i, y)
	}
	return y
}

// renderItems draws one row per line item, breaking pages as needed.
func renderItems(pdf *fpdf.Fpdf, tr func(string) string, items []estimate.LineItem, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Line Items", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{22, 60, 95, 30, 30, 30}
	headers := []string{"Element", "Label", "Inputs", "Volume (m3)", "Formwork (m2)", "Steel (kg)"}
	y = tableHeader(pdf, colWidths, headers, y)

	pdf.SetFont("Helvetica", "", 8)
	for i, it := range items {
		if y+rowHeight > pageHeight-marginBottom-5 {
			renderFooter(pdf)
			pdf.AddPage()
			y = tableHeader(pdf, colWidths, headers, marginTop)
			pdf.SetFont("Helvetica", "", 8)
		}
		y = tableRow(pdf, colWidths, []string{
			it.Element.Label(),
			tr(truncate(pdf, it.Label, colWidths[1]-2)),
			truncate(pdf, formatInputs(it), colWidths[2]-2),
			fmt.Sprintf("%.2f", it.Quantities.VolumeM3),
			fmt.Sprintf("%.2f", it.Quantities.FormworkM2),
			steelCell(it.Element, it.Quantities.SteelKg),
		}, i, y)
	}
	return y
}

// renderCost draws the priced totals on a fresh page when space runs out.
func renderCost(pdf *fpdf.Fpdf, cost model.CostEstimate, y float64) {
	if y+40 > pageHeight-marginBottom {
		renderFooter(pdf)
		pdf.AddPage()
		y = marginTop
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Rough Cost ("+cost.Currency+")", "", 0, "L", false, 0, "")
	y += 9

	items := []struct {
		label string
		value string
	}{
		{"Concrete", cost.Concrete.StringFixed(2)},
		{"Formwork", cost.Formwork.StringFixed(2)},
		{"Steel", cost.Steel.StringFixed(2)},
		{"Total", cost.Total.StringFixed(2)},
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		if item.label == "Total" {
			pdf.SetFont("Helvetica", "B", 10)
		}
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(40, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, item.value, "", 0, "R", false, 0, "")
		y += 7
	}
}

func renderFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4,
		"Machine-learning estimate. Check against detailed drawings before use.", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryQR places a QR code of the summary in the top right corner.
func renderSummaryQR(pdf *fpdf.Fpdf, sheet estimate.Sheet, q model.Quantities, cost model.CostEstimate) error {
	png, err := summaryQRCode(SummaryInfo{
		SheetID:    sheet.ID,
		Name:       sheet.Name,
		VolumeM3:   round2(q.VolumeM3),
		FormworkM2: round2(q.FormworkM2),
		SteelKg:    round2(q.SteelKg),
		Cost:       cost.Total.StringFixed(2),
		Currency:   cost.Currency,
	})
	if err != nil {
		return err
	}
	name := "qr_summary_" + sheet.ID
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(name, pageWidth-marginRight-summaryQR, marginTop, summaryQR, summaryQR, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

func tableHeader(pdf *fpdf.Fpdf, colWidths []float64, headers []string, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(colWidths[i], rowHeight, h, "1", 0, "C", true, 0, "")
		x += colWidths[i]
	}
	return y + rowHeight
}

func tableRow(pdf *fpdf.Fpdf, colWidths []float64, cells []string, i int, y float64) float64 {
	// Alternate row background
	if i%2 == 0 {
		pdf.SetFillColor(245, 245, 245)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	x := marginLeft
	for j, cell := range cells {
		align := "R"
		if j < 2 || len(colWidths) > 5 && j == 2 {
			align = "L"
		}
		pdf.SetXY(x, y)
		pdf.CellFormat(colWidths[j], rowHeight, cell, "1", 0, align, true, 0, "")
		x += colWidths[j]
	}
	return y + rowHeight
}

// truncate shortens s with an ellipsis to fit width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// steelCell prints "-" for foundations, which carry no steel estimate.
func steelCell(e model.Element, kg float64) string {
	if e == model.ElementFoundation {
		return "-"
	}
	return fmt.Sprintf("%.2f", kg)
}
