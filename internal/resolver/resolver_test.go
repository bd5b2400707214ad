package resolver

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roles(pairs ...any) []model.Role {
	var out []model.Role
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.Role{Name: pairs[i].(string), Keywords: pairs[i+1].([]string)})
	}
	return out
}

func assignments(s model.Schema) map[string]string {
	m := make(map[string]string, s.Len())
	for _, a := range s.Assignments {
		m[a.Role] = a.Column
	}
	return m
}

func TestResolveTwoPassColumnScenario(t *testing.T) {
	vocab := model.Vocabulary{
		Roles: roles(
			"width", []string{"Width"},
			"height", []string{"Depth", "Height"},
			"length", []string{"Length"},
		),
		DenyExact: []string{"area column"},
	}
	columns := []string{"Width", "Depth", "Length", "Perimeter", "Area Column"}

	schema := Resolve(columns, vocab)

	assert.Equal(t, map[string]string{"width": "Width", "height": "Depth", "length": "Length"}, assignments(schema))
	assert.False(t, schema.Contains("Perimeter"))
	assert.False(t, schema.Contains("Area Column"))
	assert.Equal(t, []string{"Width", "Depth", "Length"}, schema.Columns())
}

func TestResolveBeamCutLengthDenied(t *testing.T) {
	vocab := model.Vocabulary{
		Roles: roles(
			"b", []string{"B"},
			"h", []string{"H"},
			"length", []string{"Length"},
		),
		DenyContains: []string{"cut"},
	}

	schema := Resolve([]string{"B", "H", "Length", "Cut Length"}, vocab)
	assert.Equal(t, map[string]string{"b": "B", "h": "H", "length": "Length"}, assignments(schema))

	// Without a plain Length column the role stays empty rather than
	// falling back to Cut Length.
	schema = Resolve([]string{"Cut Length", "B", "H"}, vocab)
	_, ok := schema.Column("length")
	assert.False(t, ok)
	assert.False(t, schema.Contains("Cut Length"))
}

func TestResolveFirstDeclaredRoleWins(t *testing.T) {
	vocab := model.Vocabulary{Roles: roles(
		"area", []string{"Area"},
		"column_area", []string{"Area Column"},
	)}
	schema := Resolve([]string{"Area Column"}, vocab)

	col, ok := schema.Column("area")
	require.True(t, ok)
	assert.Equal(t, "Area Column", col)
	_, ok = schema.Column("column_area")
	assert.False(t, ok, "a claimed column must not be reused")
}

func TestResolveCaseInsensitive(t *testing.T) {
	vocab := model.Vocabulary{Roles: roles("thickness", []string{"THICK"})}
	schema := Resolve([]string{"Default thickness (m)"}, vocab)
	col, ok := schema.Column("thickness")
	require.True(t, ok)
	assert.Equal(t, "Default thickness (m)", col)
}

func TestResolveColumnOrderDecidesWithinRole(t *testing.T) {
	vocab := model.Vocabulary{Roles: roles("length", []string{"Length"})}
	schema := Resolve([]string{"Length 2", "Length"}, vocab)
	col, _ := schema.Column("length")
	assert.Equal(t, "Length 2", col)
}

func TestResolveRoleDenyExact(t *testing.T) {
	vocab, ok := Builtin(VocabFoundation)
	require.True(t, ok)

	schema := Resolve([]string{"Type", "Count", "Thickness"}, vocab)
	col, ok := schema.Column("thickness")
	require.True(t, ok)
	assert.Equal(t, "Thickness", col)

	countCol, ok := schema.Column("count")
	require.True(t, ok)
	assert.Equal(t, "Count", countCol)
}

func TestResolveIndependentPasses(t *testing.T) {
	columns := []string{"Type", "B", "H", "Length", "Cut Length", "Volume", "Formwork"}

	cut, _ := Builtin(VocabBeamCut)
	qty, _ := Builtin(VocabBeam)

	first := Resolve(columns, cut)
	second := Resolve(columns, qty)

	assert.Equal(t, []string{"B", "H", "Length"}, first.Columns())
	assert.Equal(t, []string{"B", "H", "Cut Length", "Length"}, second.Columns())
}

func TestResolveNoMatches(t *testing.T) {
	vocab, _ := Builtin(VocabColumn)
	schema := Resolve([]string{"Type", "Family and Type", "Mark"}, vocab)
	assert.True(t, schema.Empty())
	assert.NotNil(t, schema.Assignments)
}

func TestBuiltinColumnVocabulary(t *testing.T) {
	vocab, _ := Builtin(VocabColumn)
	columns := []string{"Family", "Type", "Width", "Depth", "Length", "Perimeter", "Area Column", "Volume", "Formwork Area"}
	schema := Resolve(columns, vocab)

	assert.Equal(t, map[string]string{
		"width":     "Width",
		"deep":      "Depth",
		"length":    "Length",
		"perimeter": "Perimeter",
		"area":      "Area Column",
	}, assignments(schema))
}

func TestBuiltinUnknown(t *testing.T) {
	_, ok := Builtin("wall")
	assert.False(t, ok)
	for _, name := range BuiltinNames() {
		v, ok := Builtin(name)
		require.True(t, ok, name)
		assert.NoError(t, Validate(v), name)
	}
}

// Randomised check of the two resolver invariants: a column is assigned
// to at most one role, and every assignment carries one of the role's
// keywords and none of the denied terms.
func TestResolveInvariants(t *testing.T) {
	pool := []string{
		"Type", "Width", "Depth", "Height", "Length", "Cut Length", "Thickness", "Count",
		"Area", "Area Column", "Perimeter", "Volume", "Formwork", "Steel Total (kg)",
		"B", "H", "Level", "Family", "Description", "ความกว้าง", "ยาว",
	}
	keywords := []string{"width", "w", "length", "l", "h", "b", "thick", "t", "area", "cut", "vol", "ยาว", "กว้าง"}

	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 500; iter++ {
		cols := pick(rng, pool, 1+rng.Intn(len(pool)))
		var vocab model.Vocabulary
		for r := 0; r < 1+rng.Intn(6); r++ {
			vocab.Roles = append(vocab.Roles, model.Role{
				Name:     string(rune('a' + r)),
				Keywords: pick(rng, keywords, 1+rng.Intn(3)),
			})
		}
		vocab.DenyExact = pick(rng, []string{"type", "count", "level"}, rng.Intn(3))
		vocab.DenyContains = pick(rng, []string{"cut", "volume", "family"}, rng.Intn(3))

		schema := Resolve(cols, vocab)

		seen := map[string]bool{}
		for _, a := range schema.Assignments {
			require.False(t, seen[a.Column], "column %q assigned twice", a.Column)
			seen[a.Column] = true

			lower := strings.ToLower(a.Column)
			role := vocab.FindRole(a.Role)
			require.NotNil(t, role)
			assert.True(t, containsAny(lower, role.Keywords), "%q does not match role %s", a.Column, a.Role)
			for _, d := range vocab.DenyExact {
				assert.NotEqual(t, d, lower)
			}
			for _, d := range vocab.DenyContains {
				assert.NotContains(t, lower, d)
			}
		}
	}
}

func pick(rng *rand.Rand, from []string, n int) []string {
	idx := rng.Perm(len(from))
	if n > len(from) {
		n = len(from)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = from[idx[i]]
	}
	return out
}

func TestResolveTarget(t *testing.T) {
	columns := []string{"Type", "Length", "Cut Length", "Volume (m³)", "Formwork Side", "Formwork ALL"}

	col, ok := ResolveTarget(columns, BeamCutLengthRule, nil)
	require.True(t, ok)
	assert.Equal(t, "Cut Length", col)

	col, ok = ResolveTarget(columns, BeamLengthRule, []string{"Length"})
	assert.False(t, ok, "got %q", col)

	col, ok = ResolveTarget(columns, model.TargetRule{AllOf: []string{"formwork", "all"}}, nil)
	require.True(t, ok)
	assert.Equal(t, "Formwork ALL", col)

	_, ok = ResolveTarget(columns, model.TargetRule{AnyOf: []string{"steel"}}, nil)
	assert.False(t, ok)
}

func TestResolveTargetSkipsFeatures(t *testing.T) {
	rules := TargetRules(model.ElementFoundation)
	columns := []string{"Concrete Grade", "Volume"}

	col, ok := ResolveTarget(columns, rules[0], []string{"Concrete Grade"})
	require.True(t, ok)
	assert.Equal(t, "Volume", col)
}

func TestMatchesEmptyRule(t *testing.T) {
	assert.False(t, Matches("anything", model.TargetRule{}))
	assert.True(t, Matches("Total Steel (kg)", SteelTotalRule))
	assert.True(t, Matches("TOTAL REINF.", SteelTotalRule))
	assert.False(t, Matches("Steel Grade", SteelTotalRule))
}
