package estimate

import (
	"github.com/piwi3910/QtyEstimate/internal/importer"
	"github.com/piwi3910/QtyEstimate/internal/model"
)

// InputFromShape fills the plan dimensions of an outline taken from a
// drawing. Thickness and depth are not in a plan and must be added by the
// caller.
func InputFromShape(element model.Element, s importer.Shape) Input {
	in := Input{}
	switch element {
	case model.ElementSlab:
		in[RoleArea] = s.AreaM2
		in[RolePerimeter] = s.PerimeterM
	case model.ElementFoundation:
		in[RoleWidth] = s.WidthM
		in[RoleLength] = s.LengthM
		in[RoleArea] = s.AreaM2
		in[RolePerimeter] = s.PerimeterM
	case model.ElementColumn:
		in[RoleWidth] = s.WidthM
		in[RoleDepth] = s.LengthM
		in[RolePerimeter] = s.PerimeterM
		in[RoleArea] = s.AreaM2
	}
	return in
}
