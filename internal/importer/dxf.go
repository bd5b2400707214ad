package importer

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/QtyEstimate/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// ErrNoOutlines is returned when a drawing holds no closed shape.
var ErrNoOutlines = errors.New("no closed shapes found in DXF file")

// Shape is one closed outline taken from a plan drawing, with its plan
// geometry already converted to metres.
type Shape struct {
	Label      string        `json:"label"`
	Outline    model.Outline `json:"outline"`
	AreaM2     float64       `json:"area_m2"`
	PerimeterM float64       `json:"perimeter_m"`
	WidthM     float64       `json:"width_m"`
	LengthM    float64       `json:"length_m"`
}

// OutlineResult holds the shapes found in a drawing.
type OutlineResult struct {
	Shapes   []Shape
	Warnings []string
}

// segment is a loose LINE or ARC piece waiting to be chained.
type segment struct {
	start model.Point2D
	end   model.Point2D
}

const (
	chainTolerance = 0.01 // drawing units
	arcSteps       = 32
	circleSteps    = 64
)

// ImportOutlines reads the closed shapes of a slab or footing plan. Each
// LWPOLYLINE, CIRCLE and closed chain of LINE/ARC entities becomes a Shape.
// unitToMetre converts drawing units to metres (0.001 for drawings in mm).
// Shapes are returned largest first.
func ImportOutlines(path string, unitToMetre float64) (OutlineResult, error) {
	if unitToMetre <= 0 {
		return OutlineResult{}, fmt.Errorf("invalid unit scale %v", unitToMetre)
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		return OutlineResult{}, fmt.Errorf("cannot open DXF file: %w", err)
	}

	var result OutlineResult
	var outlines []model.Outline
	var loose []segment

	for _, ent := range drawing.Entities() {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			o := lwPolylineToOutline(e)
			if len(o) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			outlines = append(outlines, o)
		case *entity.Circle:
			outlines = append(outlines, sampleArc(e.Center[0], e.Center[1], e.Radius, 0, 2*math.Pi, circleSteps, false))
		case *entity.Arc:
			start := e.Angle[0] * math.Pi / 180
			end := e.Angle[1] * math.Pi / 180
			if end <= start {
				end += 2 * math.Pi
			}
			pts := sampleArc(e.Circle.Center[0], e.Circle.Center[1], e.Circle.Radius, start, end, arcSteps, true)
			for i := 0; i+1 < len(pts); i++ {
				loose = append(loose, segment{start: pts[i], end: pts[i+1]})
			}
		case *entity.Line:
			loose = append(loose, segment{
				start: model.Point2D{X: e.Start[0], Y: e.Start[1]},
				end:   model.Point2D{X: e.End[0], Y: e.End[1]},
			})
		}
	}

	chained, open := chainSegments(loose, chainTolerance)
	outlines = append(outlines, chained...)
	if open > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Ignored %d open LINE/ARC chains", open))
	}

	sort.SliceStable(outlines, func(i, j int) bool {
		return outlines[i].Area() > outlines[j].Area()
	})

	for _, o := range outlines {
		scaled := normalizeOutline(o).Scale(unitToMetre)
		_, max := scaled.BoundingBox()
		if scaled.Area() < 1e-6 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.3f x %.3f m)", max.X, max.Y))
			continue
		}
		width, length := math.Min(max.X, max.Y), math.Max(max.X, max.Y)
		result.Shapes = append(result.Shapes, Shape{
			Label:      fmt.Sprintf("Outline %d", len(result.Shapes)+1),
			Outline:    scaled,
			AreaM2:     scaled.Area(),
			PerimeterM: scaled.Perimeter(),
			WidthM:     width,
			LengthM:    length,
		})
	}

	if len(result.Shapes) == 0 {
		return result, ErrNoOutlines
	}
	return result, nil
}

// lwPolylineToOutline converts an LWPOLYLINE to an outline. A vertex with a
// non-zero bulge starts an arc to the next vertex.
func lwPolylineToOutline(lw *entity.LwPolyline) model.Outline {
	var o model.Outline
	n := len(lw.Vertices)
	for i := 0; i < n; i++ {
		cur := model.Point2D{X: lw.Vertices[i][0], Y: lw.Vertices[i][1]}
		var bulge float64
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) < 1e-9 {
			o = append(o, cur)
			continue
		}
		next := model.Point2D{X: lw.Vertices[(i+1)%n][0], Y: lw.Vertices[(i+1)%n][1]}
		arc := bulgeArc(cur, next, bulge)
		o = append(o, arc[:len(arc)-1]...)
	}
	return o
}

// bulgeArc samples the arc from p1 to p2 described by a DXF bulge, the
// tangent of a quarter of the included angle. Positive bulges turn
// counter-clockwise.
func bulgeArc(p1, p2 model.Point2D, bulge float64) model.Outline {
	chord := math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
	if chord < 1e-9 {
		return model.Outline{p1, p2}
	}
	theta := 4 * math.Atan(bulge) // signed included angle
	radius := chord / (2 * math.Sin(math.Abs(theta)/2))

	// Centre lies on the chord's perpendicular bisector.
	mx, my := (p1.X+p2.X)/2, (p1.Y+p2.Y)/2
	ux, uy := (p2.X-p1.X)/chord, (p2.Y-p1.Y)/chord
	offset := radius * math.Cos(theta/2)
	if bulge < 0 {
		offset = -offset
	}
	cx, cy := mx-uy*offset, my+ux*offset

	start := math.Atan2(p1.Y-cy, p1.X-cx)
	return sampleArc(cx, cy, radius, start, start+theta, arcSteps, true)
}

// sampleArc returns points on a circle between two angles in radians. With
// inclusive set the end point is part of the result.
func sampleArc(cx, cy, r, from, to float64, steps int, inclusive bool) model.Outline {
	n := steps
	if inclusive {
		n++
	}
	pts := make(model.Outline, n)
	for i := 0; i < n; i++ {
		a := from + (to-from)*float64(i)/float64(steps)
		pts[i] = model.Point2D{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return pts
}

// chainSegments joins loose segments end to end. Closed chains become
// outlines; the number of chains left open is returned alongside.
func chainSegments(segs []segment, tolerance float64) ([]model.Outline, int) {
	used := make([]bool, len(segs))
	var outlines []model.Outline
	open := 0

	for startIdx := range segs {
		if used[startIdx] {
			continue
		}
		used[startIdx] = true
		chain := model.Outline{segs[startIdx].start, segs[startIdx].end}

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, s := range segs {
				if used[i] {
					continue
				}
				switch {
				case pointsClose(tail, s.start, tolerance):
					chain = append(chain, s.end)
				case pointsClose(tail, s.end, tolerance):
					chain = append(chain, s.start)
				default:
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		} else {
			open++
		}
	}
	return outlines, open
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b model.Point2D, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}

// normalizeOutline translates the outline so its bounding box starts at (0, 0).
func normalizeOutline(o model.Outline) model.Outline {
	if len(o) == 0 {
		return o
	}
	min, _ := o.BoundingBox()
	return o.Translate(-min.X, -min.Y)
}
