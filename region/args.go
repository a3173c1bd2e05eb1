package region

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sargas/pyregion/wcs"
)

// coordQueue is the token stream an argument schema consumes from.
type coordQueue struct {
	toks []string
}

func newCoordQueue(toks []string) *coordQueue {
	return &coordQueue{toks: append([]string(nil), toks...)}
}

func (q *coordQueue) pop() (string, bool) {
	if len(q.toks) == 0 {
		return "", false
	}
	t := q.toks[0]
	q.toks = q.toks[1:]
	return t, true
}

func (q *coordQueue) remaining() int { return len(q.toks) }

// Argument is a typed field descriptor: it parses tokens from the front of
// a queue into a domain value, serializes a value back into numeric
// coordinates, and transforms a value between reference frames.
type Argument interface {
	// FromCoords pops this argument's tokens from the queue and returns
	// the typed value.
	FromCoords(q *coordQueue, system wcs.Frame) (any, error)

	// ToCoords flattens a value into output coordinates: degrees for
	// angular values, raw values for pixels and integers.
	ToCoords(v any) []float64

	// TransformTo converts a value from the old frame into the new frame.
	TransformTo(v any, old, new wcs.Frame) (any, error)

	// tokens renders a value as round-trippable region file tokens.
	tokens(v any) []string

	// arity is the number of tokens one value consumes.
	arity() int
}

// SkyCoordArgument parses a coordinate pair: two tokens, the first
// longitude-like ("odd"), the second latitude-like ("even").
type SkyCoordArgument struct{}

// position is one classified coordinate token: either an angle or a bare
// pixel value.
type position struct {
	angular bool
	angle   wcs.Angle
	pixel   float64
}

// parsePosition classifies a single position token. Tokens containing 'd'
// or 'h' are explicit angles, a trailing 'r' means radians, a colon form is
// sexagesimal (hour-angle for the odd token, degrees for the even one), and
// everything else is a pixel value, optionally suffixed 'p' or 'i'.
func (SkyCoordArgument) parsePosition(tok string, odd bool) (position, error) {
	if strings.ContainsAny(tok, "dh") {
		a, err := wcs.ParseAngle(tok)
		if err != nil {
			return position{}, fmt.Errorf("%w: %v", ErrParse, err)
		}
		return position{angular: true, angle: a}, nil
	}
	if strings.HasSuffix(tok, "r") {
		v, err := strconv.ParseFloat(tok[:len(tok)-1], 64)
		if err != nil {
			return position{}, fmt.Errorf("%w: malformed radian position %q", ErrParse, tok)
		}
		return position{angular: true, angle: wcs.Radians(v)}, nil
	}
	if strings.Contains(tok, ":") {
		parts := strings.Split(tok, ":")
		if len(parts) != 3 {
			return position{}, fmt.Errorf("%w: malformed sexagesimal position %q", ErrParse, tok)
		}
		var vals [3]float64
		for i, p := range parts {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return position{}, fmt.Errorf("%w: malformed sexagesimal position %q", ErrParse, tok)
			}
			vals[i] = v
		}
		return position{angular: true, angle: wcs.Sexagesimal(vals[0], vals[1], vals[2], odd)}, nil
	}
	num := tok
	if strings.HasSuffix(tok, "p") || strings.HasSuffix(tok, "i") {
		num = tok[:len(tok)-1]
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return position{}, fmt.Errorf("%w: malformed position %q", ErrParse, tok)
	}
	return position{pixel: v}, nil
}

func (a SkyCoordArgument) FromCoords(q *coordQueue, system wcs.Frame) (any, error) {
	oddTok, ok := q.pop()
	if !ok {
		return nil, inconsistentf("coordinate pair needs two values, queue is empty")
	}
	evenTok, ok := q.pop()
	if !ok {
		return nil, inconsistentf("coordinate pair needs two values, got only %q", oddTok)
	}

	odd, err := a.parsePosition(oddTok, true)
	if err != nil {
		return nil, err
	}
	even, err := a.parsePosition(evenTok, false)
	if err != nil {
		return nil, err
	}

	switch {
	case odd.angular && even.angular:
		// Angular pairs under a pixel-class system land in the equatorial
		// default; a sky value must never carry a pixel frame.
		frame := system
		if system.PixelClass() {
			frame = wcs.FK5
		}
		return wcs.NewSkyCoord(odd.angle, even.angle, frame), nil
	case !odd.angular && !even.angular:
		// Pixel pairs land in the current system when it is itself
		// pixel-class, and in the image frame otherwise.
		frame := wcs.Image
		if system.PixelClass() {
			frame = system
		}
		return wcs.NewPixelCoord(odd.pixel, even.pixel, frame), nil
	default:
		return nil, fmt.Errorf("%w: inconsistent units in coordinate pair %q, %q", ErrParse, oddTok, evenTok)
	}
}

func (SkyCoordArgument) ToCoords(v any) []float64 {
	c := v.(wcs.SkyCoord)
	if c.Pixel() {
		return []float64{c.X, c.Y}
	}
	return []float64{c.Lon.Degree(), c.Lat.Degree()}
}

func (SkyCoordArgument) TransformTo(v any, old, new wcs.Frame) (any, error) {
	c := v.(wcs.SkyCoord)
	return c.Transform(new)
}

func (SkyCoordArgument) tokens(v any) []string {
	c := v.(wcs.SkyCoord)
	if c.Pixel() {
		return []string{formatFloat(c.X), formatFloat(c.Y)}
	}
	return []string{formatFloat(c.Lon.Degree()) + "d", formatFloat(c.Lat.Degree()) + "d"}
}

func (SkyCoordArgument) arity() int { return 2 }

// SizeArgument parses one radius or length token into a Quantity.
type SizeArgument struct{}

func (SizeArgument) FromCoords(q *coordQueue, system wcs.Frame) (any, error) {
	tok, ok := q.pop()
	if !ok {
		return nil, inconsistentf("size argument missing, queue is empty")
	}
	if strings.ContainsAny(tok, `d"'`) {
		a, err := wcs.ParseAngle(tok)
		if err != nil {
			return nil, inconsistentf("malformed size %q: %v", tok, err)
		}
		return wcs.AngularQuantity(a), nil
	}
	if strings.HasSuffix(tok, "r") {
		v, err := strconv.ParseFloat(tok[:len(tok)-1], 64)
		if err != nil {
			return nil, inconsistentf("malformed size %q", tok)
		}
		return wcs.AngularQuantity(wcs.Radians(v)), nil
	}
	num := tok
	if strings.HasSuffix(tok, "p") || strings.HasSuffix(tok, "i") {
		num = tok[:len(tok)-1]
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return nil, inconsistentf("malformed size %q", tok)
	}
	return wcs.PixelQuantity(v), nil
}

func (SizeArgument) ToCoords(v any) []float64 {
	return []float64{v.(wcs.Quantity).Value}
}

func (SizeArgument) TransformTo(v any, old, new wcs.Frame) (any, error) {
	q := v.(wcs.Quantity)
	switch {
	case old.PixelClass() == new.PixelClass():
		return q, nil
	case q.Unit == wcs.UnitPixel && old.PixelClass():
		proj := old.Projection()
		if proj == nil {
			return nil, fmt.Errorf("wcs: frame %q has no projection to scale pixel sizes", old.Name())
		}
		return wcs.Quantity{Value: q.Value * proj.CombinedScale(), Unit: wcs.UnitDegree}, nil
	case q.Unit == wcs.UnitDegree && new.PixelClass():
		proj := new.Projection()
		if proj == nil {
			return nil, fmt.Errorf("wcs: frame %q has no projection to scale angular sizes", new.Name())
		}
		return wcs.Quantity{Value: q.Value / proj.CombinedScale(), Unit: wcs.UnitPixel}, nil
	default:
		// The quantity's unit class does not match the frame being left;
		// nothing meaningful to rescale.
		return q, nil
	}
}

func (SizeArgument) tokens(v any) []string {
	q := v.(wcs.Quantity)
	if q.Unit == wcs.UnitPixel {
		return []string{formatFloat(q.Value)}
	}
	return []string{formatFloat(q.Value) + "d"}
}

func (SizeArgument) arity() int { return 1 }

// AngleArgument parses one rotation angle token, always in degrees.
type AngleArgument struct{}

func (AngleArgument) FromCoords(q *coordQueue, system wcs.Frame) (any, error) {
	tok, ok := q.pop()
	if !ok {
		return nil, inconsistentf("angle argument missing, queue is empty")
	}
	if strings.Contains(tok, "d") {
		a, err := wcs.ParseAngle(tok)
		if err != nil {
			return nil, inconsistentf("malformed angle %q: %v", tok, err)
		}
		return wcs.AngularQuantity(a), nil
	}
	if strings.HasSuffix(tok, "r") {
		v, err := strconv.ParseFloat(tok[:len(tok)-1], 64)
		if err != nil {
			return nil, inconsistentf("malformed angle %q", tok)
		}
		return wcs.AngularQuantity(wcs.Radians(v)), nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil, inconsistentf("malformed angle %q", tok)
	}
	return wcs.AngularQuantity(wcs.Degrees(v)), nil
}

func (AngleArgument) ToCoords(v any) []float64 {
	return []float64{v.(wcs.Quantity).Value}
}

// TransformTo re-derives a rotation angle under a frame change. The
// orientation of the pixel grid's "up" axis is estimated numerically:
// the projection reference point is perturbed by one pixel-scale unit
// toward the pole, projected, and the arctangent of the displacement gives
// the rotation of the up direction. The sign handling for the pixel-to-sky
// direction follows the historical otherway convention.
func (AngleArgument) TransformTo(v any, old, new wcs.Frame) (any, error) {
	q := v.(wcs.Quantity)
	switch {
	case old.PixelClass() == new.PixelClass():
		return q, nil
	case new.PixelClass():
		proj := new.Projection()
		if proj == nil {
			return nil, fmt.Errorf("wcs: frame %q has no projection to rotate angles", new.Name())
		}
		v, err := estimateAngle(q.Value, proj, false)
		if err != nil {
			return nil, err
		}
		return wcs.Quantity{Value: v, Unit: wcs.UnitDegree}, nil
	default:
		proj := old.Projection()
		if proj == nil {
			return nil, fmt.Errorf("wcs: frame %q has no projection to rotate angles", old.Name())
		}
		v, err := estimateAngle(q.Value, proj, true)
		if err != nil {
			return nil, err
		}
		return wcs.Quantity{Value: v, Unit: wcs.UnitDegree}, nil
	}
}

// estimateAngle measures how far the pixel grid's up axis is rotated from
// the sky frame's pole direction, and adjusts angle by it.
func estimateAngle(angle float64, proj *wcs.Projection, otherway bool) (float64, error) {
	sx, _ := proj.PixelScales()
	origin := proj.Reference()

	x0, y0, err := proj.ToPixel(origin)
	if err != nil {
		return 0, fmt.Errorf("estimate grid rotation: %w", err)
	}
	offset := wcs.NewSkyCoord(origin.Lon, origin.Lat+wcs.Degrees(sx), origin.Frame)
	x2, y2, err := proj.ToPixel(offset)
	if err != nil {
		return 0, fmt.Errorf("estimate grid rotation: %w", err)
	}

	yAxisRot := math.Atan2(y2-y0, x2-x0) / math.Pi * 180
	temp := yAxisRot - 90
	if !otherway {
		temp = -temp
	}
	return angle - temp, nil
}

func (AngleArgument) tokens(v any) []string {
	return []string{formatFloat(v.(wcs.Quantity).Value)}
}

func (AngleArgument) arity() int { return 1 }

// IntegerArgument parses one integer token, passed through unchanged by
// frame transforms.
type IntegerArgument struct{}

func (IntegerArgument) FromCoords(q *coordQueue, system wcs.Frame) (any, error) {
	tok, ok := q.pop()
	if !ok {
		return nil, inconsistentf("integer argument missing, queue is empty")
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return nil, inconsistentf("%q is not an integer", tok)
	}
	return n, nil
}

func (IntegerArgument) ToCoords(v any) []float64 {
	return []float64{float64(v.(int))}
}

func (IntegerArgument) TransformTo(v any, old, new wcs.Frame) (any, error) {
	return v, nil
}

func (IntegerArgument) tokens(v any) []string {
	return []string{strconv.Itoa(v.(int))}
}

func (IntegerArgument) arity() int { return 1 }

// RepeatedArgument wraps a fixed group of sub-arguments and consumes one
// group per iteration while enough tokens remain. Its value is a slice of
// per-group tuples, or a flat slice when the group has a single member.
type RepeatedArgument struct {
	Args []Argument
}

func (r RepeatedArgument) groupArity() int {
	n := 0
	for _, a := range r.Args {
		n += a.arity()
	}
	return n
}

func (r RepeatedArgument) FromCoords(q *coordQueue, system wcs.Frame) (any, error) {
	var groups [][]any
	for q.remaining() >= r.groupArity() {
		group := make([]any, len(r.Args))
		for i, a := range r.Args {
			v, err := a.FromCoords(q, system)
			if err != nil {
				return nil, err
			}
			group[i] = v
		}
		groups = append(groups, group)
	}
	if len(groups) == 0 {
		return nil, inconsistentf("repeated argument group consumed no values")
	}
	if len(r.Args) == 1 {
		flat := make([]any, len(groups))
		for i, g := range groups {
			flat[i] = g[0]
		}
		return flat, nil
	}
	return groups, nil
}

// eachGroup normalizes the flat single-member form back into groups.
func (r RepeatedArgument) eachGroup(v any) [][]any {
	if len(r.Args) == 1 {
		flat := v.([]any)
		groups := make([][]any, len(flat))
		for i, item := range flat {
			groups[i] = []any{item}
		}
		return groups
	}
	return v.([][]any)
}

func (r RepeatedArgument) regroup(groups [][]any) any {
	if len(r.Args) == 1 {
		flat := make([]any, len(groups))
		for i, g := range groups {
			flat[i] = g[0]
		}
		return flat
	}
	return groups
}

func (r RepeatedArgument) ToCoords(v any) []float64 {
	var out []float64
	for _, group := range r.eachGroup(v) {
		for i, a := range r.Args {
			out = append(out, a.ToCoords(group[i])...)
		}
	}
	return out
}

func (r RepeatedArgument) TransformTo(v any, old, new wcs.Frame) (any, error) {
	in := r.eachGroup(v)
	out := make([][]any, len(in))
	for gi, group := range in {
		out[gi] = make([]any, len(group))
		for i, a := range r.Args {
			tv, err := a.TransformTo(group[i], old, new)
			if err != nil {
				return nil, err
			}
			out[gi][i] = tv
		}
	}
	return r.regroup(out), nil
}

func (r RepeatedArgument) tokens(v any) []string {
	var out []string
	for _, group := range r.eachGroup(v) {
		for i, a := range r.Args {
			out = append(out, a.tokens(group[i])...)
		}
	}
	return out
}

func (r RepeatedArgument) arity() int { return r.groupArity() }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
