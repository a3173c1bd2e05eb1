package region

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sargas/pyregion/wcs"
)

// argField is one named slot in a shape's argument schema.
type argField struct {
	name string
	arg  Argument
}

// shapeDef is the declarative schema for one shape kind: an ordered list
// of named arguments. Construction, serialization, and frame transforms
// are all driven from this table.
type shapeDef struct {
	name   string
	fields []argField
}

var (
	coordArg = SkyCoordArgument{}
	sizeArg  = SizeArgument{}
	angleArg = AngleArgument{}
	intArg   = IntegerArgument{}
)

func def(name string, fields ...argField) *shapeDef {
	return &shapeDef{name: name, fields: fields}
}

func f(name string, a Argument) argField { return argField{name: name, arg: a} }

// shapeDefs maps shape names to their schemas, following the DS9 shape
// catalog. rotbox is the CIAO spelling of box.
var shapeDefs = map[string]*shapeDef{
	"circle": def("circle",
		f("origin", coordArg),
		f("radius", sizeArg)),
	"ellipse": def("ellipse",
		f("origin", coordArg),
		f("levels", RepeatedArgument{Args: []Argument{sizeArg, sizeArg}}),
		f("angle", angleArg)),
	"box": def("box",
		f("origin", coordArg),
		f("levels", RepeatedArgument{Args: []Argument{sizeArg, sizeArg}}),
		f("angle", angleArg)),
	"rotbox": def("rotbox",
		f("origin", coordArg),
		f("levels", RepeatedArgument{Args: []Argument{sizeArg, sizeArg}}),
		f("angle", angleArg)),
	"polygon": def("polygon",
		f("points", RepeatedArgument{Args: []Argument{coordArg}})),
	"annulus": def("annulus",
		f("origin", coordArg),
		f("radii", RepeatedArgument{Args: []Argument{sizeArg}})),
	"panda": def("panda",
		f("origin", coordArg),
		f("start_angle", angleArg),
		f("stop_angle", angleArg),
		f("nangle", intArg),
		f("inner", sizeArg),
		f("outer", sizeArg),
		f("nradius", intArg)),
	"epanda": def("epanda",
		f("origin", coordArg),
		f("start_angle", angleArg),
		f("stop_angle", angleArg),
		f("nangle", intArg),
		f("inner_width", sizeArg),
		f("inner_height", sizeArg),
		f("outer_width", sizeArg),
		f("outer_height", sizeArg),
		f("nradius", intArg),
		f("angle", angleArg)),
	"bpanda": def("bpanda",
		f("origin", coordArg),
		f("start_angle", angleArg),
		f("stop_angle", angleArg),
		f("nangle", intArg),
		f("inner_width", sizeArg),
		f("inner_height", sizeArg),
		f("outer_width", sizeArg),
		f("outer_height", sizeArg),
		f("nradius", intArg),
		f("angle", angleArg)),
	"pie": def("pie",
		f("origin", coordArg),
		f("inner", sizeArg),
		f("outer", sizeArg),
		f("start_angle", angleArg),
		f("stop_angle", angleArg)),
	"point": def("point",
		f("origin", coordArg)),
	"line": def("line",
		f("start", coordArg),
		f("end", coordArg)),
	"vector": def("vector",
		f("origin", coordArg),
		f("length", sizeArg),
		f("angle", angleArg)),
	"text": def("text",
		f("origin", coordArg)),
}

// ShapeNames returns the names of all registered shapes.
func ShapeNames() []string {
	names := make([]string, 0, len(shapeDefs))
	for name := range shapeDefs {
		names = append(names, name)
	}
	return names
}

// Shape is one parsed region primitive: a schema, the bound field values,
// the coordinate system it was declared in, and its display properties.
// Shapes are immutable; TransformTo returns a new instance.
type Shape struct {
	def    *shapeDef
	system wcs.Frame
	props  *Properties
	values []any
}

// FromCoordlist builds a shape by consuming the coordinate-list tokens
// with the named shape's argument schema. Leftover tokens, missing tokens,
// and unit mismatches fail with ErrInconsistentArguments.
func FromCoordlist(name string, coordlist []string, system wcs.Frame, props *Properties) (*Shape, error) {
	d, ok := shapeDefs[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, name)
	}
	if props == nil {
		props = NewProperties(nil)
	}

	q := newCoordQueue(coordlist)
	values := make([]any, len(d.fields))
	for i, field := range d.fields {
		v, err := field.arg.FromCoords(q, system)
		if err != nil {
			if errors.Is(err, ErrParse) {
				// Present one error taxonomy for schema failures.
				return nil, fmt.Errorf("%w: %s %s: %w", ErrInconsistentArguments, d.name, field.name, err)
			}
			return nil, fmt.Errorf("%s %s: %w", d.name, field.name, err)
		}
		values[i] = v
	}
	if n := q.remaining(); n > 0 {
		return nil, inconsistentf("%s received %d extra coordinates %v", d.name, n, q.toks)
	}
	return &Shape{def: d, system: system, props: props, values: values}, nil
}

// Name returns the shape kind, e.g. "circle".
func (s *Shape) Name() string { return s.def.name }

// CoordSystem returns the frame the shape was declared in.
func (s *Shape) CoordSystem() wcs.Frame { return s.system }

// CoordFormat returns the frame name. Old accessor kept for compatibility
// with region-file tooling that predates CoordSystem.
func (s *Shape) CoordFormat() string { return s.system.Name() }

// Properties returns the shape's display properties.
func (s *Shape) Properties() *Properties { return s.props }

// CoordList flattens the shape's fields into output coordinates: degrees
// for angular values, raw values for pixels and integers.
func (s *Shape) CoordList() []float64 {
	var out []float64
	for i, field := range s.def.fields {
		out = append(out, field.arg.ToCoords(s.values[i])...)
	}
	return out
}

// CoordTokens renders the shape's fields as region-file tokens that parse
// back to the same values: angular values carry a "d" suffix, pixel values
// and integers are bare.
func (s *Shape) CoordTokens() []string {
	var out []string
	for i, field := range s.def.fields {
		out = append(out, field.arg.tokens(s.values[i])...)
	}
	return out
}

// TransformTo converts every field into the new frame and returns a new
// shape of the same kind, carrying the properties unchanged.
func (s *Shape) TransformTo(to wcs.Frame) (*Shape, error) {
	values := make([]any, len(s.values))
	for i, field := range s.def.fields {
		v, err := field.arg.TransformTo(s.values[i], s.system, to)
		if err != nil {
			return nil, fmt.Errorf("transform %s %s: %w", s.def.name, field.name, err)
		}
		values[i] = v
	}
	return &Shape{def: s.def, system: to, props: s.props, values: values}, nil
}

// String renders the shape as a region-file statement, with a leading "-"
// when the shape is excluded.
func (s *Shape) String() string {
	prefix := ""
	if !s.props.Include() {
		prefix = "-"
	}
	return prefix + s.def.name + "(" + strings.Join(s.CoordTokens(), ",") + ")"
}

func (s *Shape) field(name string) (any, bool) {
	for i, field := range s.def.fields {
		if field.name == name {
			return s.values[i], true
		}
	}
	return nil, false
}

// Origin returns the shape's origin coordinate (the line start for line
// shapes is exposed separately via Start).
func (s *Shape) Origin() wcs.SkyCoord {
	if v, ok := s.field("origin"); ok {
		return v.(wcs.SkyCoord)
	}
	return wcs.SkyCoord{}
}

// Radius returns a circle's radius.
func (s *Shape) Radius() wcs.Quantity {
	if v, ok := s.field("radius"); ok {
		return v.(wcs.Quantity)
	}
	return wcs.Quantity{}
}

// Levels returns the width/height pairs of an ellipse or box annulus.
func (s *Shape) Levels() [][2]wcs.Quantity {
	v, ok := s.field("levels")
	if !ok {
		return nil
	}
	groups := v.([][]any)
	out := make([][2]wcs.Quantity, len(groups))
	for i, g := range groups {
		out[i] = [2]wcs.Quantity{g[0].(wcs.Quantity), g[1].(wcs.Quantity)}
	}
	return out
}

// Width returns the first-level width of a box or ellipse.
func (s *Shape) Width() wcs.Quantity {
	if levels := s.Levels(); len(levels) > 0 {
		return levels[0][0]
	}
	return wcs.Quantity{}
}

// Height returns the first-level height of a box or ellipse.
func (s *Shape) Height() wcs.Quantity {
	if levels := s.Levels(); len(levels) > 0 {
		return levels[0][1]
	}
	return wcs.Quantity{}
}

// Angle returns the rotation angle field.
func (s *Shape) Angle() wcs.Quantity {
	if v, ok := s.field("angle"); ok {
		return v.(wcs.Quantity)
	}
	return wcs.Quantity{}
}

// Radii returns an annulus's radius list.
func (s *Shape) Radii() []wcs.Quantity {
	v, ok := s.field("radii")
	if !ok {
		return nil
	}
	flat := v.([]any)
	out := make([]wcs.Quantity, len(flat))
	for i, item := range flat {
		out[i] = item.(wcs.Quantity)
	}
	return out
}

// Points returns a polygon's vertices.
func (s *Shape) Points() []wcs.SkyCoord {
	v, ok := s.field("points")
	if !ok {
		return nil
	}
	flat := v.([]any)
	out := make([]wcs.SkyCoord, len(flat))
	for i, item := range flat {
		out[i] = item.(wcs.SkyCoord)
	}
	return out
}

// Panda field accessors.

func (s *Shape) StartAngle() wcs.Quantity {
	if v, ok := s.field("start_angle"); ok {
		return v.(wcs.Quantity)
	}
	return wcs.Quantity{}
}

func (s *Shape) StopAngle() wcs.Quantity {
	if v, ok := s.field("stop_angle"); ok {
		return v.(wcs.Quantity)
	}
	return wcs.Quantity{}
}

func (s *Shape) NAngle() int {
	if v, ok := s.field("nangle"); ok {
		return v.(int)
	}
	return 0
}

func (s *Shape) Inner() wcs.Quantity {
	if v, ok := s.field("inner"); ok {
		return v.(wcs.Quantity)
	}
	return wcs.Quantity{}
}

func (s *Shape) Outer() wcs.Quantity {
	if v, ok := s.field("outer"); ok {
		return v.(wcs.Quantity)
	}
	return wcs.Quantity{}
}

func (s *Shape) NRadius() int {
	if v, ok := s.field("nradius"); ok {
		return v.(int)
	}
	return 0
}

// Line field accessors.

// Start returns a line's start position.
func (s *Shape) Start() wcs.SkyCoord {
	if v, ok := s.field("start"); ok {
		return v.(wcs.SkyCoord)
	}
	return wcs.SkyCoord{}
}

// End returns a line's end position.
func (s *Shape) End() wcs.SkyCoord {
	if v, ok := s.field("end"); ok {
		return v.(wcs.SkyCoord)
	}
	return wcs.SkyCoord{}
}

// PointType returns the marker style from the two-argument "point"
// property, or "" if unset.
func (s *Shape) PointType() string {
	vs, ok := s.props.Pair("point")
	if !ok || len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// PointSize returns the marker size from the "point" property. The second
// return is false when no size was given.
func (s *Shape) PointSize() (float64, bool) {
	vs, ok := s.props.Pair("point")
	if !ok || len(vs) < 2 {
		return 0, false
	}
	v, err := strconv.ParseFloat(vs[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// StartArrow reports whether the two-argument "line" property requests an
// arrowhead at the line start.
func (s *Shape) StartArrow() bool {
	vs, ok := s.props.Pair("line")
	return ok && len(vs) > 0 && vs[0] == "1"
}

// EndArrow reports whether the "line" property requests an arrowhead at
// the line end.
func (s *Shape) EndArrow() bool {
	vs, ok := s.props.Pair("line")
	return ok && len(vs) > 1 && vs[1] == "1"
}
