package resolver

import "github.com/piwi3910/QtyEstimate/internal/model"

// Names of the built-in vocabularies.
const (
	VocabFoundation = "foundation"
	VocabColumn     = "column"
	VocabSlab       = "slab"
	VocabBeamCut    = "beam-cut" // features used to predict beam cut length
	VocabBeam       = "beam"     // features used to predict beam quantities
)

// BuiltinNames lists the built-in vocabularies in a stable order.
func BuiltinNames() []string {
	return []string{VocabFoundation, VocabColumn, VocabSlab, VocabBeamCut, VocabBeam}
}

// Builtin returns a fresh copy of the named built-in vocabulary.
func Builtin(name string) (model.Vocabulary, bool) {
	switch name {
	case VocabFoundation:
		return model.Vocabulary{
			Name: VocabFoundation,
			Roles: []model.Role{
				{Name: "width", Keywords: []string{"Width", "กว้าง", "W"}},
				{Name: "length", Keywords: []string{"Length", "ยาว", "L"}},
				{Name: "thickness", Keywords: []string{"Thickness", "หนา", "Thk", "Thick", "T"}, DenyExact: []string{"type", "count"}},
				{Name: "area", Keywords: []string{"Area", "พื้นที่"}},
				{Name: "perimeter", Keywords: []string{"Perimeter", "เส้นรอบรูป"}},
				{Name: "count", Keywords: []string{"Count", "จำนวน", "Qty"}},
			},
		}, true
	case VocabColumn:
		return model.Vocabulary{
			Name: VocabColumn,
			Roles: []model.Role{
				{Name: "width", Keywords: []string{"Width"}},
				{Name: "deep", Keywords: []string{"Depth"}},
				{Name: "length", Keywords: []string{"Length"}},
				{Name: "perimeter", Keywords: []string{"Perimeter"}},
				{Name: "area", Keywords: []string{"Area Column"}},
			},
			DenyExact:    []string{"type"},
			DenyContains: []string{"family"},
		}, true
	case VocabSlab:
		return model.Vocabulary{
			Name: VocabSlab,
			Roles: []model.Role{
				{Name: "thickness", Keywords: []string{"Thickness", "หนา", "Default Thickness"}},
				{Name: "perimeter", Keywords: []string{"Perimeter", "เส้นรอบรูป"}},
				{Name: "area", Keywords: []string{"Area", "พื้นที่"}},
				{Name: "slab_type", Keywords: []string{SlabTypeColumn}},
			},
			DenyExact: []string{"type", "description", "family"},
		}, true
	case VocabBeamCut:
		return model.Vocabulary{
			Name: VocabBeamCut,
			Roles: []model.Role{
				{Name: "b", Keywords: []string{"B", "Width", "กว้าง"}},
				{Name: "h", Keywords: []string{"H", "Height", "Depth", "สูง"}},
				{Name: "length", Keywords: []string{"Length", "ยาว"}},
			},
			DenyExact:    []string{"type", "description", "family", "level", "count"},
			DenyContains: []string{"cut", "formwork", "volume"},
		}, true
	case VocabBeam:
		return model.Vocabulary{
			Name: VocabBeam,
			Roles: []model.Role{
				{Name: "b", Keywords: []string{"B", "Width", "กว้าง"}},
				{Name: "h", Keywords: []string{"H", "Height", "Depth", "สูง"}},
				{Name: "cut_length", Keywords: []string{"Cut Length", "Cut", "ตัด"}},
				{Name: "length", Keywords: []string{"Length", "ยาว"}},
			},
			DenyExact:    []string{"type", "description", "family", "level", "count"},
			DenyContains: []string{"formwork", "volume"},
		}, true
	default:
		return model.Vocabulary{}, false
	}
}

// SlabTypeColumn is the column added to slab tables to tell RC rows (0)
// from post-tensioned rows (1).
const SlabTypeColumn = "Slab_Type"

// SteelTotalRule recognises the total-weight column of a reinforcement
// schedule.
var SteelTotalRule = model.TargetRule{
	Target: model.TargetSteel,
	AllOf:  []string{"total"},
	AnyOf:  []string{"steel", "reinf", "kg"},
}

var (
	volumeRule   = model.TargetRule{Target: model.TargetVolume, AnyOf: []string{"volume", "ปริมาตร"}}
	formworkRule = model.TargetRule{Target: model.TargetFormwork, AnyOf: []string{"formwork", "แบบหล่อ"}}
)

// TargetRules returns the target rules of an element in search order.
// Beam cut length and length are not listed: they depend on two feature
// passes and are searched by the pipeline directly.
func TargetRules(e model.Element) []model.TargetRule {
	switch e {
	case model.ElementFoundation:
		return []model.TargetRule{
			{Target: model.TargetVolume, AnyOf: []string{"volume", "ปริมาตร", "concrete", "คอนกรีต", "vol"}},
			{Target: model.TargetFormwork, AnyOf: []string{"formwork", "แบบหล่อ", "form"}},
			{Target: model.TargetSteel, AnyOf: []string{"steel", "เหล็ก", "rebar"}},
		}
	case model.ElementColumn:
		return []model.TargetRule{volumeRule, formworkRule}
	case model.ElementSlab:
		return []model.TargetRule{
			volumeRule,
			{Target: model.TargetFormworkSide, AllOf: []string{"formwork", "side"}},
			{Target: model.TargetFormworkAll, AllOf: []string{"formwork", "all"}},
		}
	case model.ElementBeam:
		return []model.TargetRule{volumeRule, formworkRule}
	default:
		return nil
	}
}

// Beam targets that need pass-specific exclusions.
var (
	BeamCutLengthRule = model.TargetRule{Target: model.TargetCutLength, AllOf: []string{"cut", "length"}}
	BeamLengthRule    = model.TargetRule{Target: model.TargetLength, AnyOf: []string{"length"}, NoneOf: []string{"cut"}}
)
