package model

import (
	"fmt"
	"math"
	"strings"
)

// Element is a structural element type. Each element has its own
// vocabulary, targets and trained models.
type Element string

const (
	ElementFoundation Element = "foundation"
	ElementColumn     Element = "column"
	ElementSlab       Element = "slab"
	ElementBeam       Element = "beam"
)

// Elements returns all element types in report order.
func Elements() []Element {
	return []Element{ElementFoundation, ElementColumn, ElementSlab, ElementBeam}
}

func (e Element) String() string {
	return string(e)
}

// Label returns the display name used in reports.
func (e Element) Label() string {
	switch e {
	case ElementFoundation:
		return "Foundation"
	case ElementColumn:
		return "Column"
	case ElementSlab:
		return "Slab"
	case ElementBeam:
		return "Beam"
	default:
		return string(e)
	}
}

// ParseElement converts a case-insensitive name into an Element.
func ParseElement(s string) (Element, error) {
	e := Element(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Elements() {
		if e == known {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown element %q (want foundation, column, slab or beam)", s)
}

// Target is a quantity a model is trained to predict.
type Target string

const (
	TargetVolume       Target = "volume"
	TargetFormwork     Target = "formwork"
	TargetFormworkSide Target = "formwork_side"
	TargetFormworkAll  Target = "formwork_all"
	TargetSteel        Target = "steel"
	TargetCutLength    Target = "cut_length"
	TargetLength       Target = "length"
)

// SlabType distinguishes conventionally reinforced from post-tensioned slabs.
// The numeric value is the one written into the Slab_Type column.
type SlabType int

const (
	SlabRC SlabType = iota // Reinforced concrete
	SlabPT                 // Post-tensioned
)

func (s SlabType) String() string {
	if s == SlabPT {
		return "PT"
	}
	return "RC"
}

// ParseSlabType accepts "rc", "pt" or the numeric codes 0 and 1.
func ParseSlabType(s string) (SlabType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rc", "0", "":
		return SlabRC, nil
	case "pt", "post-tension", "1":
		return SlabPT, nil
	default:
		return SlabRC, fmt.Errorf("unknown slab type %q", s)
	}
}

// Point2D represents a 2D coordinate in drawing units.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Outline represents a closed polygon as a sequence of 2D points.
// The outline is implicitly closed: the last point connects back to the first.
type Outline []Point2D

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point2D) {
	if len(o) == 0 {
		return Point2D{}, Point2D{}
	}
	min, max = o[0], o[0]
	for _, p := range o[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Scale multiplies every coordinate by f.
func (o Outline) Scale(f float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point2D{X: p.X * f, Y: p.Y * f}
	}
	return result
}

// Area returns the enclosed area using the shoelace formula.
func (o Outline) Area() float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X*o[j].Y - o[j].X*o[i].Y
	}
	return math.Abs(area) / 2
}

// Perimeter returns the length of the closed boundary.
func (o Outline) Perimeter() float64 {
	n := len(o)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		total += math.Hypot(o[j].X-o[i].X, o[j].Y-o[i].Y)
	}
	return total
}
