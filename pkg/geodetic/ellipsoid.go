package geodetic

import (
	"math"

	"github.com/golang/geo/r3"
)

// Ellipsoid is a reference ellipsoid centered on the origin with its
// axes aligned to the world frame.
type Ellipsoid struct {
	radii        r3.Vector
	radiiSquared r3.Vector
}

// WGS84 is the World Geodetic System 1984 reference ellipsoid.
var WGS84 = NewEllipsoid(6378137.0, 6378137.0, 6356752.3142451793)

// NewEllipsoid builds an ellipsoid from its three semi-axis lengths in
// meters.
func NewEllipsoid(x, y, z float64) Ellipsoid {
	return Ellipsoid{
		radii:        r3.Vector{X: x, Y: y, Z: z},
		radiiSquared: r3.Vector{X: x * x, Y: y * y, Z: z * z},
	}
}

// Radii returns the semi-axis lengths in meters.
func (e Ellipsoid) Radii() r3.Vector {
	return e.radii
}

// GeodeticSurfaceNormal returns the unit outward normal of the
// ellipsoid surface at the given longitude and latitude (radians).
func (e Ellipsoid) GeodeticSurfaceNormal(lon, lat float64) r3.Vector {
	cosLat := math.Cos(lat)
	n := r3.Vector{
		X: cosLat * math.Cos(lon),
		Y: cosLat * math.Sin(lon),
		Z: math.Sin(lat),
	}
	return n.Normalize()
}

// GeographicToWorld converts a geographic position (longitude and
// latitude in radians, height in meters above the ellipsoid) to a
// world-space cartesian point. Heights are measured along the geodetic
// surface normal.
func (e Ellipsoid) GeographicToWorld(lon, lat, height float64) r3.Vector {
	n := e.GeodeticSurfaceNormal(lon, lat)
	k := r3.Vector{
		X: e.radiiSquared.X * n.X,
		Y: e.radiiSquared.Y * n.Y,
		Z: e.radiiSquared.Z * n.Z,
	}
	gamma := math.Sqrt(n.Dot(k))
	return k.Mul(1 / gamma).Add(n.Mul(height))
}
