// Package geodetic provides the geographic rectangle and ellipsoid math
// that terrain tile slicing is expressed in.
package geodetic

import (
	"fmt"

	"github.com/golang/geo/s1"
)

// Rectangle is a geographic bounding rectangle. All bounds are in
// radians; West/East are longitudes, South/North are latitudes.
type Rectangle struct {
	West  float64
	South float64
	East  float64
	North float64
}

// RectangleFromDegrees builds a Rectangle from degree bounds.
func RectangleFromDegrees(west, south, east, north float64) Rectangle {
	return Rectangle{
		West:  (s1.Angle(west) * s1.Degree).Radians(),
		South: (s1.Angle(south) * s1.Degree).Radians(),
		East:  (s1.Angle(east) * s1.Degree).Radians(),
		North: (s1.Angle(north) * s1.Degree).Radians(),
	}
}

// Width returns the longitudinal extent in radians.
func (r Rectangle) Width() float64 {
	return r.East - r.West
}

// Height returns the latitudinal extent in radians.
func (r Rectangle) Height() float64 {
	return r.North - r.South
}

// IsValid reports whether the rectangle has positive extent on both
// axes. Rectangles spanning the antimeridian are not supported.
func (r Rectangle) IsValid() bool {
	return r.East > r.West && r.North > r.South
}

// Contains reports whether the point (lon, lat) lies within the
// rectangle, boundary included.
func (r Rectangle) Contains(lon, lat float64) bool {
	return lon >= r.West && lon <= r.East && lat >= r.South && lat <= r.North
}

// Intersects reports whether two rectangles share any area or boundary.
func (r Rectangle) Intersects(other Rectangle) bool {
	return r.West <= other.East && r.East >= other.West &&
		r.South <= other.North && r.North >= other.South
}

// ExpandedBy returns the rectangle grown by margin radians on all four
// sides. A negative margin shrinks it.
func (r Rectangle) ExpandedBy(margin float64) Rectangle {
	return Rectangle{
		West:  r.West - margin,
		South: r.South - margin,
		East:  r.East + margin,
		North: r.North + margin,
	}
}

// LongitudeFraction returns the position of a meridian as a fraction of
// the rectangle's width: 0 at West, 1 at East. The result is not
// clamped; values outside [0,1] mean the meridian misses the rectangle.
func (r Rectangle) LongitudeFraction(lon float64) float64 {
	return (lon - r.West) / r.Width()
}

// LatitudeFraction returns the position of a parallel as a fraction of
// the rectangle's height: 0 at South, 1 at North. Not clamped.
func (r Rectangle) LatitudeFraction(lat float64) float64 {
	return (lat - r.South) / r.Height()
}

// CenterLongitude returns the longitude of the rectangle's center.
func (r Rectangle) CenterLongitude() float64 {
	return (r.West + r.East) / 2
}

// CenterLatitude returns the latitude of the rectangle's center.
func (r Rectangle) CenterLatitude() float64 {
	return (r.South + r.North) / 2
}

// String formats the bounds in degrees for diagnostics.
func (r Rectangle) String() string {
	return fmt.Sprintf("[%.6f, %.6f, %.6f, %.6f]",
		s1.Angle(r.West).Degrees(), s1.Angle(r.South).Degrees(),
		s1.Angle(r.East).Degrees(), s1.Angle(r.North).Degrees())
}
