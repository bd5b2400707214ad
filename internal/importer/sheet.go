package importer

import "strings"

// SheetRule selects a worksheet by name. A sheet matches when its
// lower-cased name contains one of AnyOf and, if AlsoAnyOf is set, one of
// AlsoAnyOf as well.
type SheetRule struct {
	AnyOf     []string
	AlsoAnyOf []string
}

// Sheet rules for the reinforcement schedule workbook.
var (
	BeamSteelSheet   = SheetRule{AnyOf: []string{"beam", "framing", "คาน"}}
	SlabRCSteelSheet = SheetRule{AnyOf: []string{"slab", "floor", "พื้น"}, AlsoAnyOf: []string{"rc"}}
	SlabPTSteelSheet = SheetRule{AnyOf: []string{"slab", "floor", "พื้น"}, AlsoAnyOf: []string{"pt", "post", "tension", "อัดแรง"}}
)

// Match reports whether the sheet name satisfies the rule.
func (r SheetRule) Match(sheet string) bool {
	lower := strings.ToLower(sheet)
	if !containsAny(lower, r.AnyOf) {
		return false
	}
	return len(r.AlsoAnyOf) == 0 || containsAny(lower, r.AlsoAnyOf)
}

// FindSheet returns the first sheet matching rule.
func FindSheet(sheets []string, rule SheetRule) (string, bool) {
	for _, s := range sheets {
		if rule.Match(s) {
			return s, true
		}
	}
	return "", false
}

// FindSheetOrFirst is FindSheet falling back to the first sheet.
func FindSheetOrFirst(sheets []string, rule SheetRule) string {
	if s, ok := FindSheet(sheets, rule); ok {
		return s
	}
	if len(sheets) > 0 {
		return sheets[0]
	}
	return ""
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
