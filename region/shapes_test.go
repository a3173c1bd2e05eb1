package region

import (
	"errors"
	"math"
	"testing"

	"github.com/sargas/pyregion/wcs"
)

func mustShape(t *testing.T, name string, coords []string, system wcs.Frame) *Shape {
	t.Helper()
	s, err := FromCoordlist(name, coords, system, nil)
	if err != nil {
		t.Fatalf("FromCoordlist(%s, %v): %v", name, coords, err)
	}
	return s
}

func TestCircleFromCoordlist(t *testing.T) {
	s := mustShape(t, "circle", []string{"100.01d", "20.02d", "3.5d"}, wcs.FK5)
	origin := s.Origin()
	if origin.Lon.Degree() != 100.01 || origin.Lat.Degree() != 20.02 {
		t.Errorf("origin: got (%v, %v)", origin.Lon, origin.Lat)
	}
	if r := s.Radius(); !r.Angular() || r.Value != 3.5 {
		t.Errorf("radius: got %v, want 3.5d", r)
	}

	s = mustShape(t, "circle", []string{"5", "4", "54"}, wcs.Physical)
	if o := s.Origin(); o.X != 5 || o.Y != 4 || o.Frame.Name() != "physical" {
		t.Errorf("pixel origin: got %v", o)
	}
	if r := s.Radius(); r.Unit != wcs.UnitPixel || r.Value != 54 {
		t.Errorf("pixel radius: got %v", r)
	}
}

func TestFromCoordlistUnits(t *testing.T) {
	// Radian suffix.
	s := mustShape(t, "circle", []string{"1r", "0.5r", "0.01r"}, wcs.FK5)
	origin := s.Origin()
	if math.Abs(origin.Lon.Radian()-1) > 1e-12 {
		t.Errorf("lon: got %v rad, want 1", origin.Lon.Radian())
	}
	if r := s.Radius(); math.Abs(r.Value-wcs.Radians(0.01).Degree()) > 1e-12 {
		t.Errorf("radius: got %v", r)
	}

	// Hour-angle position.
	s = mustShape(t, "circle", []string{"4h3m1s", "2d0m1s", "41\""}, wcs.FK5)
	wantLon := 4*15 + 3*15.0/60 + 1*15.0/3600
	if o := s.Origin(); math.Abs(o.Lon.Degree()-wantLon) > 1e-9 {
		t.Errorf("lon: got %v, want %v", o.Lon.Degree(), wantLon)
	}
	if r := s.Radius(); math.Abs(r.Value-41.0/3600) > 1e-12 {
		t.Errorf("radius: got %v, want 41 arcsec", r)
	}

	// Explicit pixel suffixes.
	s = mustShape(t, "circle", []string{"100p", "200i", "15p"}, wcs.Physical)
	if o := s.Origin(); o.X != 100 || o.Y != 200 {
		t.Errorf("origin: got (%g, %g)", o.X, o.Y)
	}
	if r := s.Radius(); r.Unit != wcs.UnitPixel || r.Value != 15 {
		t.Errorf("radius: got %v", r)
	}
}

func TestFromCoordlistErrors(t *testing.T) {
	cases := []struct {
		name   string
		coords []string
	}{
		{"circle", nil},
		{"circle", []string{"1", "2"}},
		{"circle", []string{"1", "2", "3", "4"}},
		{"circle", []string{"1d", "2", "3"}}, // mixed units in the pair
		{"ellipse", []string{"1", "2", "45"}},
		{"polygon", nil},
		{"polygon", []string{"1"}},
		{"panda", []string{"1", "2", "0", "90", "x", "3", "5", "2"}},
	}
	for _, c := range cases {
		_, err := FromCoordlist(c.name, c.coords, wcs.Physical, nil)
		if !errors.Is(err, ErrInconsistentArguments) {
			t.Errorf("FromCoordlist(%s, %v): got %v, want ErrInconsistentArguments", c.name, c.coords, err)
		}
	}

	if _, err := FromCoordlist("fulcrum", []string{"1", "2", "3"}, wcs.Physical, nil); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("unknown shape: got %v, want ErrUnknownShape", err)
	}
}

func TestEllipseLevels(t *testing.T) {
	s := mustShape(t, "ellipse", []string{"1", "2", "3", "4", "5", "6", "45"}, wcs.Physical)
	levels := s.Levels()
	if len(levels) != 2 {
		t.Fatalf("levels: got %d, want 2", len(levels))
	}
	if levels[0][0].Value != 3 || levels[0][1].Value != 4 || levels[1][0].Value != 5 || levels[1][1].Value != 6 {
		t.Errorf("levels: got %v", levels)
	}
	if s.Width().Value != 3 || s.Height().Value != 4 {
		t.Errorf("width/height: got %v, %v", s.Width(), s.Height())
	}
	if a := s.Angle(); a.Value != 45 || !a.Angular() {
		t.Errorf("angle: got %v, want 45d", a)
	}
}

func TestBoxAndRotbox(t *testing.T) {
	for _, name := range []string{"box", "rotbox"} {
		s := mustShape(t, name, []string{"10", "20", "4", "6", "30"}, wcs.Physical)
		if s.Width().Value != 4 || s.Height().Value != 6 || s.Angle().Value != 30 {
			t.Errorf("%s: got w=%v h=%v a=%v", name, s.Width(), s.Height(), s.Angle())
		}
	}
}

func TestAnnulusRadii(t *testing.T) {
	s := mustShape(t, "annulus", []string{"1", "2", "3", "4", "5"}, wcs.Physical)
	radii := s.Radii()
	if len(radii) != 3 {
		t.Fatalf("radii: got %d, want 3", len(radii))
	}
	for i, want := range []float64{3, 4, 5} {
		if radii[i].Value != want {
			t.Errorf("radius %d: got %v, want %v", i, radii[i].Value, want)
		}
	}
}

func TestPolygonPoints(t *testing.T) {
	s := mustShape(t, "polygon", []string{"1", "2", "3", "4", "5", "6"}, wcs.Physical)
	pts := s.Points()
	if len(pts) != 3 {
		t.Fatalf("points: got %d, want 3", len(pts))
	}
	if pts[2].X != 5 || pts[2].Y != 6 {
		t.Errorf("point 2: got (%g, %g)", pts[2].X, pts[2].Y)
	}
}

func TestPandaFields(t *testing.T) {
	s := mustShape(t, "panda", []string{"50", "50", "0", "90", "4", "10", "20", "2"}, wcs.Physical)
	if s.StartAngle().Value != 0 || s.StopAngle().Value != 90 {
		t.Errorf("angles: got %v, %v", s.StartAngle(), s.StopAngle())
	}
	if s.NAngle() != 4 || s.NRadius() != 2 {
		t.Errorf("counts: got nangle=%d nradius=%d", s.NAngle(), s.NRadius())
	}
	if s.Inner().Value != 10 || s.Outer().Value != 20 {
		t.Errorf("radii: got %v, %v", s.Inner(), s.Outer())
	}
}

func TestLineFields(t *testing.T) {
	shapes := mustParse(t, "line(1,2,3,4) # line=1 0")
	s := shapes[0]
	if a, b := s.Start(), s.End(); a.X != 1 || a.Y != 2 || b.X != 3 || b.Y != 4 {
		t.Errorf("line: got %v -> %v", a, b)
	}
	if !s.StartArrow() || s.EndArrow() {
		t.Errorf("arrows: got start=%v end=%v, want true, false", s.StartArrow(), s.EndArrow())
	}
}

func TestShapeString(t *testing.T) {
	s := mustShape(t, "circle", []string{"1", "2", "3"}, wcs.Physical)
	if got := s.String(); got != "circle(1,2,3)" {
		t.Errorf("String: got %q", got)
	}
	props := NewProperties(map[string]any{"include": "0"})
	s, err := FromCoordlist("circle", []string{"1", "2", "3"}, wcs.Physical, props)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.String(); got != "-circle(1,2,3)" {
		t.Errorf("excluded String: got %q", got)
	}
}

func TestTransformSkyToSky(t *testing.T) {
	s := mustShape(t, "circle", []string{"120.5d", "-30.25d", "0.1d"}, wcs.FK5)
	g, err := s.TransformTo(wcs.Galactic)
	if err != nil {
		t.Fatalf("TransformTo(galactic): %v", err)
	}
	if g.CoordSystem().Name() != "galactic" {
		t.Fatalf("system: got %q", g.CoordSystem().Name())
	}
	// Angular sizes survive sky-to-sky unchanged.
	if r := g.Radius(); !r.Angular() || math.Abs(r.Value-0.1) > 1e-12 {
		t.Errorf("radius: got %v, want 0.1d", r)
	}
	// The rotation is invertible.
	back, err := g.TransformTo(wcs.FK5)
	if err != nil {
		t.Fatalf("TransformTo(fk5): %v", err)
	}
	o, bo := s.Origin(), back.Origin()
	if math.Abs(o.Lon.Degree()-bo.Lon.Degree()) > 1e-9 || math.Abs(o.Lat.Degree()-bo.Lat.Degree()) > 1e-9 {
		t.Errorf("round trip origin: got %v, want %v", bo, o)
	}
	// The properties ride along untouched.
	if g.Properties() != s.Properties() {
		t.Error("properties should be shared across transforms")
	}
}

func testProjection() *wcs.Projection {
	return &wcs.Projection{
		Frame:  wcs.FK5,
		CRVAL1: 185.63, CRVAL2: 29.77,
		CRPIX1: 32, CRPIX2: 32,
		CDELT1: -0.016667, CDELT2: 0.016667,
	}
}

func TestTransformSkyToPixel(t *testing.T) {
	proj := testProjection()
	frame := wcs.Image.WithProjection(proj)

	s := mustShape(t, "circle", []string{"185.63d", "29.77d", "0.05d"}, wcs.FK5)
	img, err := s.TransformTo(frame)
	if err != nil {
		t.Fatalf("TransformTo(image): %v", err)
	}
	o := img.Origin()
	if math.Abs(o.X-32) > 1e-6 || math.Abs(o.Y-32) > 1e-6 {
		t.Errorf("origin: got (%g, %g), want (32, 32)", o.X, o.Y)
	}
	wantR := 0.05 / proj.CombinedScale()
	if r := img.Radius(); r.Unit != wcs.UnitPixel || math.Abs(r.Value-wantR) > 1e-6 {
		t.Errorf("radius: got %v, want %v pixels", r, wantR)
	}

	// And back again.
	sky, err := img.TransformTo(wcs.FK5)
	if err != nil {
		t.Fatalf("TransformTo(fk5): %v", err)
	}
	so := sky.Origin()
	if math.Abs(so.Lon.Degree()-185.63) > 1e-6 || math.Abs(so.Lat.Degree()-29.77) > 1e-6 {
		t.Errorf("round trip origin: got %v", so)
	}
	if r := sky.Radius(); !r.Angular() || math.Abs(r.Value-0.05) > 1e-6 {
		t.Errorf("round trip radius: got %v, want 0.05d", r)
	}
}

func TestTransformToSameFrameIsNoOp(t *testing.T) {
	s := mustShape(t, "circle", []string{"120.5d", "-30.25d", "0.1d"}, wcs.FK5)
	same, err := s.TransformTo(wcs.FK5)
	if err != nil {
		t.Fatalf("TransformTo(fk5): %v", err)
	}
	if sep := s.Origin().Separation(same.Origin()); sep != 0 {
		t.Errorf("separation: got %v, want 0", sep)
	}
	if r := same.Radius(); r != s.Radius() {
		t.Errorf("radius: got %v, want %v", r, s.Radius())
	}
}

func TestTransformPixelToPixelPassthrough(t *testing.T) {
	s := mustShape(t, "circle", []string{"10", "20", "5"}, wcs.Physical)
	img, err := s.TransformTo(wcs.Image)
	if err != nil {
		t.Fatalf("TransformTo(image): %v", err)
	}
	if o := img.Origin(); o.X != 10 || o.Y != 20 {
		t.Errorf("origin: got (%g, %g), want (10, 20)", o.X, o.Y)
	}
	if r := img.Radius(); r.Value != 5 || r.Unit != wcs.UnitPixel {
		t.Errorf("radius: got %v", r)
	}
}

func TestTransformWithoutProjectionFails(t *testing.T) {
	s := mustShape(t, "circle", []string{"185d", "29d", "0.05d"}, wcs.FK5)
	if _, err := s.TransformTo(wcs.Image); err == nil {
		t.Fatal("sky to bare pixel frame: want error, got none")
	}
}

func TestFromCoordlistAngularPairInPixelSystem(t *testing.T) {
	s := mustShape(t, "circle", []string{"10d", "20d", "3"}, wcs.Physical)
	origin := s.Origin()
	if origin.Frame.PixelClass() {
		t.Fatalf("angular origin carries pixel frame %q", origin.Frame.Name())
	}
	if origin.Lon.Degree() != 10 || origin.Lat.Degree() != 20 {
		t.Errorf("origin: got (%v, %v), want (10d, 20d)", origin.Lon, origin.Lat)
	}
	coords := s.CoordList()
	if len(coords) != 3 || coords[0] != 10 || coords[1] != 20 || coords[2] != 3 {
		t.Errorf("coord list: got %v, want [10 20 3]", coords)
	}
}

func TestTransformAngleBeyondTangentPlaneFails(t *testing.T) {
	// A plate scale this large pushes the perturbed reference point off the
	// tangent plane, so the grid-rotation estimate cannot be computed.
	proj := &wcs.Projection{
		Frame:  wcs.FK5,
		CRVAL1: 30, CRVAL2: 45,
		CRPIX1: 32, CRPIX2: 32,
		CDELT1: -100, CDELT2: 100,
	}
	frame := wcs.Image.WithProjection(proj)
	s := mustShape(t, "box", []string{"30d", "45d", "0.2d", "0.1d", "20"}, wcs.FK5)
	if _, err := s.TransformTo(frame); err == nil {
		t.Fatal("degenerate projection: want error, got none")
	}
}

func TestTransformBoxAngleRoundTrip(t *testing.T) {
	frame := wcs.Image.WithProjection(testProjection())
	s := mustShape(t, "box", []string{"185.63d", "29.77d", "0.2d", "0.1d", "20"}, wcs.FK5)
	img, err := s.TransformTo(frame)
	if err != nil {
		t.Fatalf("TransformTo(image): %v", err)
	}
	back, err := img.TransformTo(wcs.FK5)
	if err != nil {
		t.Fatalf("TransformTo(fk5): %v", err)
	}
	if a := back.Angle(); math.Abs(a.Value-20) > 1e-6 {
		t.Errorf("angle round trip: got %v, want 20", a.Value)
	}
}
