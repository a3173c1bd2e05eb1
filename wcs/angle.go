// Package wcs provides the celestial-coordinate capability used by the
// region parser: angle values, coordinate frames, sky-to-sky rotations,
// and a tangent-plane pixel projection.
package wcs

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Angle is an angular value stored in degrees.
type Angle float64

// Degrees constructs an Angle from a value in degrees.
func Degrees(v float64) Angle { return Angle(v) }

// Radians constructs an Angle from a value in radians.
func Radians(v float64) Angle { return Angle(v / math.Pi * 180) }

// HourAngle constructs an Angle from a value in hours (1h = 15 degrees).
func HourAngle(v float64) Angle { return Angle(v * 15) }

// Arcmin constructs an Angle from a value in arcminutes.
func Arcmin(v float64) Angle { return Angle(v / 60) }

// Arcsec constructs an Angle from a value in arcseconds.
func Arcsec(v float64) Angle { return Angle(v / 3600) }

// Sexagesimal constructs an Angle from three components. When hour is true
// the components are hours/minutes/seconds of time, otherwise
// degrees/arcminutes/arcseconds. The sign of the leading component carries
// the sign of the whole angle.
func Sexagesimal(a, b, c float64, hour bool) Angle {
	sign := 1.0
	if math.Signbit(a) {
		sign = -1
		a = -a
	}
	v := sign * (a + b/60 + c/3600)
	if hour {
		return HourAngle(v)
	}
	return Degrees(v)
}

// Degree returns the angle in degrees.
func (a Angle) Degree() float64 { return float64(a) }

// Radian returns the angle in radians.
func (a Angle) Radian() float64 { return float64(a) * math.Pi / 180 }

// Hour returns the angle in hours of time.
func (a Angle) Hour() float64 { return float64(a) / 15 }

func (a Angle) String() string {
	return strconv.FormatFloat(float64(a), 'g', -1, 64) + "d"
}

// ParseAngle parses an angle with explicit units: "44d", "5.0535d",
// "4h3m1s", "2d0m1s", "41\"" (arcseconds), "51'" (arcminutes) and "12h".
// A bare number is not a valid angle; callers decide the unit for those.
func ParseAngle(s string) (Angle, error) {
	orig := s
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("wcs: empty angle")
	}

	sign := 1.0
	if s[0] == '+' || s[0] == '-' {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	var total float64
	hour := false
	seen := false
	for len(s) > 0 {
		i := 0
		for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
			i++
		}
		if i == 0 {
			return 0, fmt.Errorf("wcs: malformed angle %q", orig)
		}
		v, err := strconv.ParseFloat(s[:i], 64)
		if err != nil {
			return 0, fmt.Errorf("wcs: malformed angle %q: %w", orig, err)
		}
		if i >= len(s) {
			return 0, fmt.Errorf("wcs: missing unit in angle %q", orig)
		}
		unit := s[i]
		s = s[i+1:]

		switch unit {
		case 'h':
			hour = true
			total += v * 15
		case 'd':
			total += v
		case 'm':
			if hour {
				total += v * 15 / 60
			} else {
				total += v / 60
			}
		case 's':
			if hour {
				total += v * 15 / 3600
			} else {
				total += v / 3600
			}
		case '\'':
			total += v / 60
		case '"':
			total += v / 3600
		default:
			return 0, fmt.Errorf("wcs: unknown unit %q in angle %q", string(unit), orig)
		}
		seen = true
	}
	if !seen {
		return 0, fmt.Errorf("wcs: malformed angle %q", orig)
	}
	return Angle(sign * total), nil
}

// Unit labels the unit class of a Quantity.
type Unit int

const (
	UnitDegree Unit = iota
	UnitPixel
)

func (u Unit) String() string {
	if u == UnitPixel {
		return "pixel"
	}
	return "degree"
}

// Quantity is a scalar with a unit class, used for region sizes and angles.
// Angular quantities are stored in degrees.
type Quantity struct {
	Value float64
	Unit  Unit
}

// PixelQuantity constructs a pixel-valued Quantity.
func PixelQuantity(v float64) Quantity { return Quantity{Value: v, Unit: UnitPixel} }

// AngularQuantity constructs a degree-valued Quantity.
func AngularQuantity(a Angle) Quantity { return Quantity{Value: a.Degree(), Unit: UnitDegree} }

// Angular reports whether the quantity carries an angular unit.
func (q Quantity) Angular() bool { return q.Unit == UnitDegree }

func (q Quantity) String() string {
	if q.Unit == UnitPixel {
		return strconv.FormatFloat(q.Value, 'g', -1, 64) + "p"
	}
	return strconv.FormatFloat(q.Value, 'g', -1, 64) + "d"
}
