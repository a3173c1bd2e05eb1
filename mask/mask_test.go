package mask

import (
	"image"
	"testing"

	"github.com/sargas/pyregion/region"
)

func parse(t *testing.T, input string) region.ShapeList {
	t.Helper()
	shapes, err := region.Parse(input)
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return shapes
}

func TestCircleMask(t *testing.T) {
	shapes := parse(t, "image;circle(16,16,5)")
	m, err := FromShapes(shapes, 32, 32)
	if err != nil {
		t.Fatalf("FromShapes: %v", err)
	}
	if !m.Contains(15, 15) {
		t.Error("center pixel should be inside")
	}
	if m.Contains(0, 0) || m.Contains(31, 31) {
		t.Error("corners should be outside")
	}
	// Area within a pixel of the analytic value.
	want := 3.14159 * 5 * 5
	got := float64(m.Count())
	if got < want*0.9 || got > want*1.1 {
		t.Errorf("area: got %v pixels, want about %v", got, want)
	}
}

func TestBoxMask(t *testing.T) {
	shapes := parse(t, "image;box(16,16,10,4,0)")
	m, err := FromShapes(shapes, 32, 32)
	if err != nil {
		t.Fatalf("FromShapes: %v", err)
	}
	if !m.Contains(15, 15) {
		t.Error("center should be inside")
	}
	if !m.Contains(11, 15) || !m.Contains(19, 15) {
		t.Error("points along the long axis should be inside")
	}
	if m.Contains(15, 20) {
		t.Error("point beyond the short axis should be outside")
	}
}

func TestRotatedBoxMask(t *testing.T) {
	shapes := parse(t, "image;box(16,16,12,2,90)")
	m, err := FromShapes(shapes, 32, 32)
	if err != nil {
		t.Fatalf("FromShapes: %v", err)
	}
	// Rotated 90 degrees, the long axis now runs along y.
	if !m.Contains(15, 11) || !m.Contains(15, 19) {
		t.Error("points along the rotated long axis should be inside")
	}
	if m.Contains(11, 15) {
		t.Error("point along the original long axis should be outside")
	}
}

func TestPolygonMask(t *testing.T) {
	shapes := parse(t, "image;polygon(4,4,28,4,16,28)")
	m, err := FromShapes(shapes, 32, 32)
	if err != nil {
		t.Fatalf("FromShapes: %v", err)
	}
	if !m.Contains(15, 8) {
		t.Error("interior point should be inside")
	}
	if m.Contains(2, 28) || m.Contains(30, 28) {
		t.Error("points outside the triangle should be outside")
	}
}

func TestAnnulusMask(t *testing.T) {
	shapes := parse(t, "image;annulus(16,16,4,8)")
	m, err := FromShapes(shapes, 32, 32)
	if err != nil {
		t.Fatalf("FromShapes: %v", err)
	}
	if m.Contains(15, 15) {
		t.Error("center should be in the hole")
	}
	if !m.Contains(15+6, 15) {
		t.Error("ring pixel should be inside")
	}
	if m.Contains(15+10, 15) {
		t.Error("pixel beyond the outer radius should be outside")
	}
}

func TestExcludedShapePunchesHole(t *testing.T) {
	shapes := parse(t, "image;circle(16,16,8)\n-circle(16,16,3)")
	m, err := FromShapes(shapes, 32, 32)
	if err != nil {
		t.Fatalf("FromShapes: %v", err)
	}
	if m.Contains(15, 15) {
		t.Error("excluded inner circle should punch a hole")
	}
	if !m.Contains(15+5, 15) {
		t.Error("ring between the circles should remain")
	}
}

func TestAnnotationShapesSkipped(t *testing.T) {
	shapes := parse(t, "image;text(5,5)\nline(1,1,10,10)\ncircle(16,16,4)")
	m, err := FromShapes(shapes, 32, 32)
	if err != nil {
		t.Fatalf("FromShapes: %v", err)
	}
	if !m.Contains(15, 15) {
		t.Error("circle should still be rasterized")
	}
}

func TestSkyShapeRejected(t *testing.T) {
	shapes := parse(t, "fk5;circle(10d,20d,0.1d)")
	if _, err := FromShapes(shapes, 32, 32); err == nil {
		t.Fatal("sky shape: want error, got none")
	}
}

func TestOverlayDrawsShapeColor(t *testing.T) {
	shapes := parse(t, "image;circle(16,16,5) # color=red")
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	if err := Overlay(img, shapes); err != nil {
		t.Fatalf("Overlay: %v", err)
	}
	r, _, _, _ := img.At(15, 15).RGBA()
	if r == 0 {
		t.Error("center pixel should be painted red")
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Error("corner pixel should be untouched")
	}
}

func TestResolveColor(t *testing.T) {
	c, err := ResolveColor("green")
	if err != nil {
		t.Fatalf("ResolveColor(green): %v", err)
	}
	if c.G != 0xff || c.R != 0 || c.B != 0 {
		t.Errorf("green: got %v", c)
	}
	c, err = ResolveColor("#8040c0")
	if err != nil {
		t.Fatalf("ResolveColor(hex): %v", err)
	}
	if c.R != 0x80 || c.G != 0x40 || c.B != 0xc0 {
		t.Errorf("hex: got %v", c)
	}
	if _, err := ResolveColor("nonsense"); err == nil {
		t.Error("unknown color: want error")
	}
}
