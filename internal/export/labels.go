package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/QtyEstimate/internal/estimate"
	"github.com/piwi3910/QtyEstimate/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// SummaryInfo is the sheet summary encoded in the report QR code.
type SummaryInfo struct {
	SheetID    string  `json:"sheet"`
	Name       string  `json:"name"`
	VolumeM3   float64 `json:"volume_m3"`
	FormworkM2 float64 `json:"formwork_m2"`
	SteelKg    float64 `json:"steel_kg"`
	Cost       string  `json:"cost"`
	Currency   string  `json:"currency"`
}

// LabelInfo holds the data encoded into each line item label's QR code.
type LabelInfo struct {
	SheetID    string  `json:"sheet"`
	ItemID     string  `json:"item"`
	Element    string  `json:"element"`
	Label      string  `json:"label"`
	VolumeM3   float64 `json:"volume_m3"`
	FormworkM2 float64 `json:"formwork_m2"`
	SteelKg    float64 `json:"steel_kg"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per line item, for
// tagging pours and deliveries on site. Labels are laid out on a standard
// label sheet (Avery 5160, 3 columns x 10 rows on US Letter).
func ExportLabels(path string, sheet estimate.Sheet) error {
	if len(sheet.Items) == 0 {
		return ErrEmptySheet
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, it := range sheet.Items {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		info := LabelInfo{
			SheetID:    sheet.ID,
			ItemID:     it.ID,
			Element:    string(it.Element),
			Label:      it.Label,
			VolumeM3:   round2(it.Quantities.VolumeM3),
			FormworkM2: round2(it.Quantities.FormworkM2),
			SteelKg:    round2(it.Quantities.SteelKg),
		}
		if err := renderLabel(pdf, tr, x, y, info, i); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", it.Label, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, tr func(string) string, x, y float64, info LabelInfo, index int) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", info.ItemID, index)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4, tr(truncate(pdf, info.Label, textW)), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	lines := []string{
		model.Element(info.Element).Label(),
		fmt.Sprintf("%.2f m3 | %.2f m2", info.VolumeM3, info.FormworkM2),
		fmt.Sprintf("%.1f kg steel", info.SteelKg),
	}
	for i, line := range lines {
		pdf.SetXY(textX, y+labelPadding+5+float64(i)*4)
		pdf.CellFormat(textW, 4, line, "", 0, "L", false, 0, "")
	}
	return nil
}

// summaryQRCode encodes the sheet summary as a QR code PNG.
func summaryQRCode(info SummaryInfo) ([]byte, error) {
	data, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// formatInputs renders the item inputs as "b=0.20 h=0.60 ..." in name order.
func formatInputs(it estimate.LineItem) string {
	keys := make([]string, 0, len(it.Inputs))
	for k := range it.Inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%.2f", k, it.Inputs[k])
	}
	if it.Element == model.ElementSlab {
		parts = append(parts, it.SlabType.String())
	}
	return strings.Join(parts, " ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
