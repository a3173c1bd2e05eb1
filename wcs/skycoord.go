package wcs

import (
	"fmt"
	"math"
)

// SkyCoord is a position in a reference frame. For sky frames Lon/Lat hold
// angular coordinates; for pixel frames X/Y hold grid coordinates.
type SkyCoord struct {
	Frame Frame
	Lon   Angle
	Lat   Angle
	X     float64
	Y     float64
}

// NewSkyCoord constructs an angular position in a sky frame.
func NewSkyCoord(lon, lat Angle, frame Frame) SkyCoord {
	return SkyCoord{Frame: frame, Lon: lon, Lat: lat}
}

// NewPixelCoord constructs a position in a pixel frame.
func NewPixelCoord(x, y float64, frame Frame) SkyCoord {
	return SkyCoord{Frame: frame, X: x, Y: y}
}

// Pixel reports whether the coordinate lives in a pixel frame.
func (c SkyCoord) Pixel() bool { return c.Frame.PixelClass() }

// mat3 is a 3x3 rotation matrix in row-major order.
type mat3 [3][3]float64

// Rotation matrices from the J2000 equatorial basis (FK5/ICRS treated as
// coincident at this precision) to each sky frame.
var (
	identity = mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	// IAU 1958 galactic pole/origin, J2000 values.
	eqToGalactic = mat3{
		{-0.0548755604162154, -0.8734370902348850, -0.4838350155487132},
		{+0.4941094278755837, -0.4448296299600112, +0.7469822444972189},
		{-0.8676661490190047, -0.1980763734312015, +0.4559837761750669},
	}

	// J2000 mean obliquity 23.439291111 degrees.
	eqToEcliptic = obliquityMatrix(23.439291111)

	// B1950 -> J2000 (Standish), applied without E-term or proper motion
	// corrections.
	fk4ToEq = mat3{
		{+0.9999256782, -0.0111820611, -0.0048579477},
		{+0.0111820610, +0.9999374784, -0.0000271765},
		{+0.0048579479, -0.0000271474, +0.9999881997},
	}
)

func obliquityMatrix(epsDeg float64) mat3 {
	eps := epsDeg * math.Pi / 180
	c, s := math.Cos(eps), math.Sin(eps)
	return mat3{
		{1, 0, 0},
		{0, c, s},
		{0, -s, c},
	}
}

func (m mat3) transpose() mat3 {
	var t mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t[i][j] = m[j][i]
		}
	}
	return t
}

func (m mat3) apply(v [3]float64) [3]float64 {
	var out [3]float64
	for i := 0; i < 3; i++ {
		out[i] = m[i][0]*v[0] + m[i][1]*v[1] + m[i][2]*v[2]
	}
	return out
}

// fromEquatorial returns the rotation from the J2000 equatorial basis into
// the given sky frame.
func fromEquatorial(f Frame) mat3 {
	switch f.name {
	case "galactic":
		return eqToGalactic
	case "ecliptic":
		return eqToEcliptic
	case "fk4":
		return fk4ToEq.transpose()
	default: // icrs, fk5
		return identity
	}
}

func unitVector(lon, lat Angle) [3]float64 {
	cl := math.Cos(lat.Radian())
	return [3]float64{
		cl * math.Cos(lon.Radian()),
		cl * math.Sin(lon.Radian()),
		math.Sin(lat.Radian()),
	}
}

func vectorAngles(v [3]float64) (lon, lat Angle) {
	lon = Radians(math.Atan2(v[1], v[0]))
	if lon < 0 {
		lon += 360
	}
	lat = Radians(math.Asin(math.Max(-1, math.Min(1, v[2]))))
	return lon, lat
}

// skyToSky rotates an angular position between two sky frames.
func skyToSky(c SkyCoord, to Frame) SkyCoord {
	if c.Frame.Equivalent(to) {
		return SkyCoord{Frame: to, Lon: c.Lon, Lat: c.Lat}
	}
	v := unitVector(c.Lon, c.Lat)
	eq := fromEquatorial(c.Frame).transpose().apply(v)
	out := fromEquatorial(to).apply(eq)
	lon, lat := vectorAngles(out)
	return SkyCoord{Frame: to, Lon: lon, Lat: lat}
}

// Transform converts the coordinate into another frame.
//
// Sky-to-sky conversion applies the frame rotation matrices. Pixel-to-pixel
// conversion passes the grid coordinates through unchanged; the pixel frames
// here are not related by any modeled linear transform. Crossing between the
// pixel and sky classes requires a Projection on the pixel frame.
func (c SkyCoord) Transform(to Frame) (SkyCoord, error) {
	switch {
	case !c.Pixel() && !to.PixelClass():
		return skyToSky(c, to), nil
	case c.Pixel() && to.PixelClass():
		return SkyCoord{Frame: to, X: c.X, Y: c.Y}, nil
	case c.Pixel():
		proj := c.Frame.Projection()
		if proj == nil {
			return SkyCoord{}, fmt.Errorf("wcs: frame %q has no projection for pixel to sky conversion", c.Frame.Name())
		}
		sky := proj.ToSky(c.X, c.Y)
		return skyToSky(sky, to), nil
	default:
		proj := to.Projection()
		if proj == nil {
			return SkyCoord{}, fmt.Errorf("wcs: frame %q has no projection for sky to pixel conversion", to.Name())
		}
		ref := skyToSky(c, proj.Frame)
		x, y, err := proj.ToPixel(ref)
		if err != nil {
			return SkyCoord{}, err
		}
		return SkyCoord{Frame: to, X: x, Y: y}, nil
	}
}

// Separation returns the distance to another coordinate: the angular
// separation in degrees for sky frames, or the Euclidean pixel distance for
// pixel frames.
func (c SkyCoord) Separation(other SkyCoord) float64 {
	if c.Pixel() {
		return math.Hypot(other.X-c.X, other.Y-c.Y)
	}
	a := unitVector(c.Lon, c.Lat)
	b := unitVector(other.Lon, other.Lat)
	dot := a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
	return Radians(math.Acos(math.Max(-1, math.Min(1, dot)))).Degree()
}

func (c SkyCoord) String() string {
	if c.Pixel() {
		return fmt.Sprintf("(%g, %g) %s", c.X, c.Y, c.Frame.Name())
	}
	return fmt.Sprintf("(%gd, %gd) %s", c.Lon.Degree(), c.Lat.Degree(), c.Frame.Name())
}
