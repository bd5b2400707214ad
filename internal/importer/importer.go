// Package importer reads quantity take-off exports (CSV and Excel) into
// tables. It locates the real header row below any title block, drops
// empty and repeated header rows, and tidies column names so the resolver
// sees a rectangular table with trimmed, unique names.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrEmptyFile is returned when a file holds no data at all.
	ErrEmptyFile = errors.New("file is empty")
	// ErrUnsupportedFormat is returned for file extensions we cannot read.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// DefaultHeaderMarkers are the cell texts that identify a header row in the
// take-off schedules. Matching is case-sensitive, as exported by the
// modelling tool.
var DefaultHeaderMarkers = []string{"Type", "Width", "Count", "Length", "Thickness", "Perimeter"}

// repeatedHeader is the first-column value of header rows repeated inside
// the data (schedules print the header again on every page).
const repeatedHeader = "Type"

// Options controls how a file is turned into a table.
type Options struct {
	// Sheet selects an Excel worksheet by name; empty means the first one.
	Sheet string
	// HeaderMarkers overrides DefaultHeaderMarkers.
	HeaderMarkers []string
	// FirstRowHeader uses row 0 as the header without scanning.
	FirstRowHeader bool
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Table    model.Table
	Sheet    string // worksheet read, Excel only
	Encoding string // detected text encoding, CSV only
	Warnings []string
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		// Score against the widest row: schedules often start with a
		// one-cell title line.
		widest := 0
		for _, row := range records {
			if len(row) > widest {
				widest = len(row)
			}
		}
		if widest < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == widest {
				score++
			}
		}

		weighted := score*10 + widest
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectHeaderRow returns the index of the first row whose non-empty cells,
// joined with spaces, contain any marker. It returns 0 and false when no
// row qualifies.
func DetectHeaderRow(rows [][]string, markers []string) (int, bool) {
	for i, row := range rows {
		var parts []string
		for _, cell := range row {
			if c := strings.TrimSpace(cell); c != "" {
				parts = append(parts, c)
			}
		}
		joined := strings.Join(parts, " ")
		for _, m := range markers {
			if m != "" && strings.Contains(joined, m) {
				return i, true
			}
		}
	}
	return 0, false
}

// BuildTable converts raw rows into a table: header detection, removal of
// empty rows, empty columns and repeated header rows, then column naming.
func BuildTable(rows [][]string, opts Options) ImportResult {
	result := ImportResult{Table: model.NewTable()}
	if len(rows) == 0 {
		return result
	}

	headerIdx := 0
	if !opts.FirstRowHeader {
		markers := opts.HeaderMarkers
		if markers == nil {
			markers = DefaultHeaderMarkers
		}
		idx, found := DetectHeaderRow(rows, markers)
		if !found {
			result.Warnings = append(result.Warnings, "No header row found, using the first row")
		} else if idx > 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Detected header on row %d, skipped %d title rows", idx+1, idx))
		}
		headerIdx = idx
	}

	header := rows[headerIdx]
	var data [][]string
	for _, row := range rows[headerIdx+1:] {
		if !isEmptyRow(row) {
			data = append(data, row)
		}
	}

	width := len(header)
	for _, row := range data {
		if len(row) > width {
			width = len(row)
		}
	}

	// Keep only columns holding at least one value.
	var keep []int
	for col := 0; col < width; col++ {
		for _, row := range data {
			if getCell(row, col) != "" {
				keep = append(keep, col)
				break
			}
		}
	}
	if dropped := width - len(keep); dropped > 0 && len(data) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Dropped %d empty columns", dropped))
	}

	names := make([]string, len(keep))
	for i, col := range keep {
		names[i] = getCell(header, col)
	}
	names = uniqueNames(names)

	table := model.NewTable(names...)
	repeats := 0
	for _, row := range data {
		if len(keep) > 0 && getCell(row, keep[0]) == repeatedHeader {
			repeats++
			continue
		}
		r := make(model.Row, len(keep))
		for i, col := range keep {
			if v := getCell(row, col); v != "" {
				r[names[i]] = v
			} else {
				r[names[i]] = nil
			}
		}
		table.Rows = append(table.Rows, r)
	}
	if repeats > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Dropped %d repeated header rows", repeats))
	}

	result.Table = table
	return result
}

// uniqueNames NFC-folds and trims names, fills blanks with "Unnamed: i"
// and suffixes duplicates with ".1", ".2", ...
func uniqueNames(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]int, len(names))
	for i, n := range names {
		n = strings.TrimSpace(norm.NFC.String(n))
		if n == "" {
			n = fmt.Sprintf("Unnamed: %d", i)
		}
		base := n
		for seen[n] > 0 {
			n = fmt.Sprintf("%s.%d", base, seen[base])
			seen[base]++
		}
		seen[n]++
		out[i] = n
	}
	return out
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportFile imports a CSV or Excel file, chosen by extension.
func ImportFile(path string, opts Options) (ImportResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".tsv":
		return ImportCSV(path, opts)
	case ".xlsx", ".xlsm", ".xltx":
		return ImportExcel(path, opts)
	default:
		return ImportResult{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// ImportCSV imports a table from a CSV file.
// It detects the text encoding and the delimiter before parsing.
func ImportCSV(path string, opts Options) (ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyFile)
	}

	text, encoding, err := DecodeText(data)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	result, err := ImportCSVFromReader(strings.NewReader(text), DetectCSVDelimiter([]byte(text)), opts)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	result.Encoding = encoding
	if encoding != EncodingUTF8 {
		result.Warnings = append([]string{fmt.Sprintf("Decoded as %s", encoding)}, result.Warnings...)
	}
	return result, nil
}

// ImportCSVFromReader imports a table from already decoded CSV text with a
// known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, opts Options) (ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return ImportResult{}, fmt.Errorf("cannot read CSV: %w", err)
	}
	if len(records) == 0 {
		return ImportResult{}, ErrEmptyFile
	}
	return BuildTable(records, opts), nil
}

// SheetNames lists the worksheets of an Excel workbook.
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open Excel file: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// ImportExcel imports a table from one worksheet of an Excel workbook.
func ImportExcel(path string, opts Options) (ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("cannot open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, fmt.Errorf("%s: workbook has no sheets: %w", filepath.Base(path), ErrEmptyFile)
	}

	sheet := sheets[0]
	if opts.Sheet != "" {
		found := false
		for _, s := range sheets {
			if s == opts.Sheet {
				found = true
				break
			}
		}
		if !found {
			return ImportResult{}, fmt.Errorf("%s: sheet %q not found", filepath.Base(path), opts.Sheet)
		}
		sheet = opts.Sheet
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportResult{}, fmt.Errorf("cannot read Excel data: %w", err)
	}
	if len(rows) == 0 {
		return ImportResult{}, fmt.Errorf("%s: sheet %q: %w", filepath.Base(path), sheet, ErrEmptyFile)
	}

	result := BuildTable(rows, opts)
	result.Sheet = sheet
	return result, nil
}

// ImportAll imports several files with the same options and concatenates
// them. Warnings are prefixed with the file name.
func ImportAll(paths []string, opts Options) (ImportResult, error) {
	var tables []model.Table
	var warnings []string
	for _, p := range paths {
		res, err := ImportFile(p, opts)
		if err != nil {
			return ImportResult{}, err
		}
		for _, w := range res.Warnings {
			warnings = append(warnings, fmt.Sprintf("%s: %s", filepath.Base(p), w))
		}
		tables = append(tables, res.Table)
	}
	return ImportResult{Table: model.Concat(tables...), Warnings: warnings}, nil
}
