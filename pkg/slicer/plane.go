package slicer

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r3"
)

// distanceEpsilon is the tolerance for treating a vertex as lying on a
// plane and for rejecting near-parallel edge crossings.
const distanceEpsilon = 1e-6

// unitRange is the valid span of parametric coordinates and of edge
// interpolation parameters.
var unitRange = r1.Interval{Lo: 0, Hi: 1}

// Plane is an axis-aligned slicing plane in parametric tile space,
// stored in normal-and-distance form: a point p is on the plane when
// Normal.Dot(p) + Distance == 0. Build planes with PlaneAtU or
// PlaneAtV.
type Plane struct {
	Normal   r3.Vector
	Distance float64
}

// PlaneAtU returns the vertical plane at the parametric coordinate
// u = frac, facing +u.
func PlaneAtU(frac float64) Plane {
	return Plane{Normal: r3.Vector{X: 1}, Distance: -frac}
}

// PlaneAtV returns the horizontal plane at the parametric coordinate
// v = frac, facing +v.
func PlaneAtV(frac float64) Plane {
	return Plane{Normal: r3.Vector{Y: 1}, Distance: -frac}
}

// SignedDistance returns the signed distance from p to the plane,
// positive on the side the normal points to.
func (p Plane) SignedDistance(v r3.Vector) float64 {
	return p.Normal.Dot(v) + p.Distance
}

// CrossesTile reports whether the plane lies within the tile's unit
// parametric range. Planes outside it cannot cut any conforming tile
// mesh and are skipped.
func (p Plane) CrossesTile() bool {
	return unitRange.Contains(-p.Distance)
}

// intersectEdge returns the point where the segment from a to b crosses
// the plane. ok is false when the segment is nearly parallel to the
// plane or the crossing parameter falls outside the segment.
func (p Plane) intersectEdge(a, b r3.Vector) (r3.Vector, bool) {
	da := p.SignedDistance(a)
	db := p.SignedDistance(b)
	if math.Abs(da-db) < distanceEpsilon {
		return r3.Vector{}, false
	}
	t := da / (da - db)
	if !unitRange.Contains(t) {
		return r3.Vector{}, false
	}
	pt := a.Add(b.Sub(a).Mul(t))
	// Snap the sliced axis exactly onto the plane so both triangles
	// sharing the edge, and the neighbouring tile, land on identical
	// coordinates.
	if p.Normal.X != 0 {
		pt.X = -p.Distance
	} else {
		pt.Y = -p.Distance
	}
	return pt, true
}
