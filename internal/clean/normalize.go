package clean

import (
	"math"
	"strconv"
	"strings"

	"github.com/piwi3910/QtyEstimate/internal/model"
)

// NormalizeValue converts one raw cell into a float64 or nil.
//
// Numbers of any Go numeric kind pass through as float64. Strings lose
// every rune that is not a digit, '.' or '-', and the remainder is parsed;
// "1.20 m" becomes 1.2 and "450 kg" becomes 450. Anything that does not
// parse after stripping ("", "abc", "1.2.3", "-") is missing.
func NormalizeValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(x) {
			return nil
		}
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case string:
		return parseStripped(x)
	default:
		return nil
	}
}

// NormalizeColumn applies NormalizeValue to every value.
func NormalizeColumn(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = NormalizeValue(v)
	}
	return out
}

// NormalizeColumns returns a copy of t with the named columns normalized.
// Names that are not columns of t are ignored.
func NormalizeColumns(t model.Table, columns []string) model.Table {
	out := t.Clone()
	for _, c := range columns {
		if !out.HasColumn(c) {
			continue
		}
		for _, r := range out.Rows {
			r[c] = NormalizeValue(r[c])
		}
	}
	return out
}

func parseStripped(s string) any {
	stripped := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if stripped == "" {
		return nil
	}
	f, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return nil
	}
	return f
}
