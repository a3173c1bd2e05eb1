package wcs

import "strings"

// Frame identifies a coordinate reference frame. Sky frames address
// positions as angles on the celestial sphere; pixel frames address
// positions on an image grid. A pixel frame may carry a Projection that
// relates its grid to the sky.
type Frame struct {
	name  string
	pixel bool
	proj  *Projection
}

// Well-known frames.
var (
	ICRS     = Frame{name: "icrs"}
	FK5      = Frame{name: "fk5"}
	FK4      = Frame{name: "fk4"}
	Galactic = Frame{name: "galactic"}
	Ecliptic = Frame{name: "ecliptic"}

	Image     = Frame{name: "image", pixel: true}
	Physical  = Frame{name: "physical", pixel: true}
	Amplifier = Frame{name: "amplifier", pixel: true}
	Detector  = Frame{name: "detector", pixel: true}
)

var frameByName = map[string]Frame{
	"icrs":      ICRS,
	"fk5":       FK5,
	"j2000":     FK5,
	"fk4":       FK4,
	"b1950":     FK4,
	"galactic":  Galactic,
	"ecliptic":  Ecliptic,
	"image":     Image,
	"physical":  Physical,
	"amplifier": Amplifier,
	"detector":  Detector,
	"linear":    Image,
}

// FrameByName resolves a frame keyword, applying the j2000/b1950 aliases.
// The lookup is case-insensitive.
func FrameByName(name string) (Frame, bool) {
	f, ok := frameByName[strings.ToLower(name)]
	return f, ok
}

// Name returns the canonical frame name.
func (f Frame) Name() string { return f.name }

// PixelClass reports whether the frame addresses image pixels.
func (f Frame) PixelClass() bool { return f.pixel }

// Projection returns the frame's pixel projection, or nil.
func (f Frame) Projection() *Projection { return f.proj }

// WithProjection returns a copy of a pixel frame carrying the given
// projection metadata.
func (f Frame) WithProjection(p *Projection) Frame {
	f.proj = p
	return f
}

// Equivalent reports whether two frames name the same reference system.
func (f Frame) Equivalent(other Frame) bool {
	return f.name == other.name && f.pixel == other.pixel
}

func (f Frame) String() string { return f.name }
