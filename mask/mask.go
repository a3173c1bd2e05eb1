// Package mask rasterizes region shapes onto image pixel grids: boolean
// membership masks for filtering, and colored overlays for display.
package mask

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/sargas/pyregion/region"
	"github.com/sargas/pyregion/wcs"
)

// ErrUnsupportedShape reports a shape kind the rasterizer cannot turn
// into a filled area.
var ErrUnsupportedShape = errors.New("mask: unsupported shape")

// Mask is a boolean pixel membership grid. Index (0, 0) is the first
// image pixel, which region files address as (1, 1).
type Mask struct {
	w, h int
	bits []bool
}

// New returns an empty mask of the given size.
func New(w, h int) *Mask {
	return &Mask{w: w, h: h, bits: make([]bool, w*h)}
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.w }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.h }

// Contains reports membership of the pixel at zero-based (x, y).
func (m *Mask) Contains(x, y int) bool {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return false
	}
	return m.bits[y*m.w+x]
}

// Count returns the number of member pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Image renders the mask as an 8-bit alpha image.
func (m *Mask) Image() *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, m.w, m.h))
	for i, b := range m.bits {
		if b {
			img.Pix[i] = 0xff
		}
	}
	return img
}

// FromShapes rasterizes a shape list into a w x h mask. Shapes marked
// include accumulate into the mask, excluded shapes punch holes in the
// order they appear. Annotation shapes that enclose no area (text, line,
// vector, point) are skipped. All shapes must already be in a pixel-class
// coordinate system; transform sky shapes first.
func FromShapes(shapes region.ShapeList, w, h int) (*Mask, error) {
	m := New(w, h)
	for _, s := range shapes {
		if !s.CoordSystem().PixelClass() {
			return nil, fmt.Errorf("mask: shape %s is in sky system %q, transform it to a pixel frame first",
				s.Name(), s.CoordSystem().Name())
		}
		cov, err := coverage(s, w, h)
		if err != nil {
			return nil, err
		}
		if cov == nil {
			continue
		}
		include := s.Properties().Include()
		for i := range m.bits {
			if cov.Pix[i] >= 0x80 {
				m.bits[i] = include
			}
		}
	}
	return m, nil
}

// Overlay draws each shape filled with its display color onto dst.
// Excluded and annotation shapes are skipped.
func Overlay(dst draw.Image, shapes region.ShapeList) error {
	b := dst.Bounds()
	for _, s := range shapes {
		if !s.Properties().Include() {
			continue
		}
		if !s.CoordSystem().PixelClass() {
			return fmt.Errorf("mask: shape %s is in sky system %q, transform it to a pixel frame first",
				s.Name(), s.CoordSystem().Name())
		}
		z, err := rasterize(s, b.Dx(), b.Dy())
		if err != nil {
			return err
		}
		if z == nil {
			continue
		}
		col, err := ResolveColor(s.Properties().Color())
		if err != nil {
			return err
		}
		z.DrawOp = draw.Over
		z.Draw(dst, b, image.NewUniform(col), image.Point{})
	}
	return nil
}

// coverage rasterizes one shape into an alpha coverage image, or returns
// nil for shapes that enclose no area. Annuli are rendered as the outer
// disk minus the inner disk.
func coverage(s *region.Shape, w, h int) (*image.Alpha, error) {
	if s.Name() == "annulus" {
		return annulusCoverage(s, w, h)
	}
	z, err := rasterize(s, w, h)
	if err != nil || z == nil {
		return nil, err
	}
	return drawAlpha(z, w, h), nil
}

func annulusCoverage(s *region.Shape, w, h int) (*image.Alpha, error) {
	radii := s.Radii()
	if len(radii) < 2 {
		return nil, fmt.Errorf("%w: annulus needs at least two radii", ErrUnsupportedShape)
	}
	cx, cy := pixelCenter(s.Origin())
	inner, err := pixelSize(s, radii[0])
	if err != nil {
		return nil, err
	}
	outer, err := pixelSize(s, radii[len(radii)-1])
	if err != nil {
		return nil, err
	}

	zo := vector.NewRasterizer(w, h)
	ellipsePath(zo, cx, cy, outer, outer, 0)
	out := drawAlpha(zo, w, h)

	zi := vector.NewRasterizer(w, h)
	ellipsePath(zi, cx, cy, inner, inner, 0)
	hole := drawAlpha(zi, w, h)

	for i := range out.Pix {
		if hole.Pix[i] >= out.Pix[i] {
			out.Pix[i] = 0
		} else {
			out.Pix[i] -= hole.Pix[i]
		}
	}
	return out, nil
}

// rasterize builds the fill path for one shape. A nil rasterizer with a
// nil error means the shape encloses no area.
func rasterize(s *region.Shape, w, h int) (*vector.Rasterizer, error) {
	z := vector.NewRasterizer(w, h)
	switch s.Name() {
	case "circle":
		cx, cy := pixelCenter(s.Origin())
		r, err := pixelSize(s, s.Radius())
		if err != nil {
			return nil, err
		}
		ellipsePath(z, cx, cy, r, r, 0)
	case "ellipse":
		cx, cy := pixelCenter(s.Origin())
		rx, err := pixelSize(s, outermost(s.Levels(), 0))
		if err != nil {
			return nil, err
		}
		ry, err := pixelSize(s, outermost(s.Levels(), 1))
		if err != nil {
			return nil, err
		}
		ellipsePath(z, cx, cy, rx, ry, s.Angle().Value)
	case "box", "rotbox":
		cx, cy := pixelCenter(s.Origin())
		bw, err := pixelSize(s, outermost(s.Levels(), 0))
		if err != nil {
			return nil, err
		}
		bh, err := pixelSize(s, outermost(s.Levels(), 1))
		if err != nil {
			return nil, err
		}
		boxPath(z, cx, cy, bw, bh, s.Angle().Value)
	case "polygon":
		pts := s.Points()
		if len(pts) < 3 {
			return nil, fmt.Errorf("%w: polygon needs at least three vertices", ErrUnsupportedShape)
		}
		x, y := pixelCenter(pts[0])
		z.MoveTo(float32(x), float32(y))
		for _, p := range pts[1:] {
			px, py := pixelCenter(p)
			z.LineTo(float32(px), float32(py))
		}
		z.ClosePath()
	case "annulus":
		// Handled by coverage; a bare rasterize call fills the outer disk.
		cx, cy := pixelCenter(s.Origin())
		radii := s.Radii()
		r, err := pixelSize(s, radii[len(radii)-1])
		if err != nil {
			return nil, err
		}
		ellipsePath(z, cx, cy, r, r, 0)
	case "text", "line", "vector", "point":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedShape, s.Name())
	}
	return z, nil
}

func drawAlpha(z *vector.Rasterizer, w, h int) *image.Alpha {
	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	z.DrawOp = draw.Src
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}

// pixelCenter converts a one-based region pixel position, with centers on
// integer values, into the rasterizer's zero-based continuous coordinates.
func pixelCenter(c wcs.SkyCoord) (x, y float64) {
	return c.X - 0.5, c.Y - 0.5
}

func pixelSize(s *region.Shape, q wcs.Quantity) (float64, error) {
	if q.Unit != wcs.UnitPixel {
		return 0, fmt.Errorf("mask: shape %s has angular size %v in pixel frame %q, transform it first",
			s.Name(), q, s.CoordSystem().Name())
	}
	return q.Value, nil
}

// outermost picks one member of the last (largest) width/height level.
func outermost(levels [][2]wcs.Quantity, i int) wcs.Quantity {
	if len(levels) == 0 {
		return wcs.Quantity{}
	}
	return levels[len(levels)-1][i]
}

// kappa is the cubic Bezier circle constant.
const kappa = 0.5522847498307936

// ellipsePath appends a filled ellipse with semi-axes rx, ry rotated by
// angle degrees, approximated by four cubic arcs.
func ellipsePath(z *vector.Rasterizer, cx, cy, rx, ry, angleDeg float64) {
	rot := angleDeg * math.Pi / 180
	cos, sin := math.Cos(rot), math.Sin(rot)
	pt := func(ex, ey float64) (float32, float32) {
		return float32(cx + ex*cos - ey*sin), float32(cy + ex*sin + ey*cos)
	}

	x0, y0 := pt(rx, 0)
	z.MoveTo(x0, y0)
	arc := func(x1, y1, x2, y2, x3, y3 float64) {
		cx1, cy1 := pt(x1, y1)
		cx2, cy2 := pt(x2, y2)
		ex, ey := pt(x3, y3)
		z.CubeTo(cx1, cy1, cx2, cy2, ex, ey)
	}
	arc(rx, ry*kappa, rx*kappa, ry, 0, ry)
	arc(-rx*kappa, ry, -rx, ry*kappa, -rx, 0)
	arc(-rx, -ry*kappa, -rx*kappa, -ry, 0, -ry)
	arc(rx*kappa, -ry, rx, -ry*kappa, rx, 0)
	z.ClosePath()
}

// boxPath appends a filled rectangle of full width bw and height bh
// rotated by angle degrees about its center.
func boxPath(z *vector.Rasterizer, cx, cy, bw, bh, angleDeg float64) {
	rot := angleDeg * math.Pi / 180
	cos, sin := math.Cos(rot), math.Sin(rot)
	pt := func(ex, ey float64) (float32, float32) {
		return float32(cx + ex*cos - ey*sin), float32(cy + ex*sin + ey*cos)
	}
	hx, hy := bw/2, bh/2
	x0, y0 := pt(-hx, -hy)
	z.MoveTo(x0, y0)
	for _, c := range [][2]float64{{hx, -hy}, {hx, hy}, {-hx, hy}} {
		x, y := pt(c[0], c[1])
		z.LineTo(x, y)
	}
	z.ClosePath()
}
