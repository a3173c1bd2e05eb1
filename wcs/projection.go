package wcs

import (
	"fmt"
	"math"
)

// Projection is a tangent-plane (gnomonic) mapping between a sky frame and
// an image pixel grid, described by the usual FITS keywords: reference sky
// position CRVAL, reference pixel CRPIX, plate scale CDELT (degrees per
// pixel) and rotation CROTA2 (degrees).
type Projection struct {
	Frame  Frame // sky frame of the reference values
	CRVAL1 float64
	CRVAL2 float64
	CRPIX1 float64
	CRPIX2 float64
	CDELT1 float64
	CDELT2 float64
	CROTA2 float64
}

// ToPixel projects an angular position onto the pixel grid. The input is
// rotated into the projection's sky frame first if necessary.
func (p *Projection) ToPixel(c SkyCoord) (x, y float64, err error) {
	if c.Pixel() {
		return 0, 0, fmt.Errorf("wcs: ToPixel requires a sky coordinate, got frame %q", c.Frame.Name())
	}
	c = skyToSky(c, p.Frame)

	a := c.Lon.Radian()
	d := c.Lat.Radian()
	a0 := Degrees(p.CRVAL1).Radian()
	d0 := Degrees(p.CRVAL2).Radian()

	div := math.Sin(d)*math.Sin(d0) + math.Cos(d)*math.Cos(d0)*math.Cos(a-a0)
	if div <= 0 {
		return 0, 0, fmt.Errorf("wcs: position %v is outside the tangent plane", c)
	}
	xi := math.Cos(d) * math.Sin(a-a0) / div
	eta := (math.Sin(d)*math.Cos(d0) - math.Cos(d)*math.Sin(d0)*math.Cos(a-a0)) / div

	xiDeg := xi / math.Pi * 180
	etaDeg := eta / math.Pi * 180

	rot := Degrees(p.CROTA2).Radian()
	u := xiDeg*math.Cos(rot) + etaDeg*math.Sin(rot)
	v := -xiDeg*math.Sin(rot) + etaDeg*math.Cos(rot)

	return p.CRPIX1 + u/p.CDELT1, p.CRPIX2 + v/p.CDELT2, nil
}

// ToSky deprojects a pixel position into the projection's sky frame.
func (p *Projection) ToSky(x, y float64) SkyCoord {
	u := (x - p.CRPIX1) * p.CDELT1
	v := (y - p.CRPIX2) * p.CDELT2

	rot := Degrees(p.CROTA2).Radian()
	xiDeg := u*math.Cos(rot) - v*math.Sin(rot)
	etaDeg := u*math.Sin(rot) + v*math.Cos(rot)

	xi := xiDeg * math.Pi / 180
	eta := etaDeg * math.Pi / 180

	a0 := Degrees(p.CRVAL1).Radian()
	d0 := Degrees(p.CRVAL2).Radian()

	den := math.Cos(d0) - eta*math.Sin(d0)
	a := a0 + math.Atan2(xi, den)
	d := math.Atan2(math.Sin(d0)+eta*math.Cos(d0), math.Hypot(xi, den))

	lon := Radians(a)
	for lon < 0 {
		lon += 360
	}
	for lon >= 360 {
		lon -= 360
	}
	return SkyCoord{Frame: p.Frame, Lon: lon, Lat: Radians(d)}
}

// PixelScales returns the absolute plate scales along each axis in degrees
// per pixel.
func (p *Projection) PixelScales() (sx, sy float64) {
	return math.Abs(p.CDELT1), math.Abs(p.CDELT2)
}

// CombinedScale returns a single degrees-per-pixel scale, the geometric mean
// of the per-axis scales. Used to convert pixel sizes to angular sizes.
func (p *Projection) CombinedScale() float64 {
	sx, sy := p.PixelScales()
	return math.Sqrt(sx * sy)
}

// Reference returns the projection's reference point as a sky coordinate.
func (p *Projection) Reference() SkyCoord {
	return NewSkyCoord(Degrees(p.CRVAL1), Degrees(p.CRVAL2), p.Frame)
}
