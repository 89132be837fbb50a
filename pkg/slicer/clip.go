package slicer

import (
	"math"

	"github.com/golang/geo/r3"
)

type side int8

const (
	sideOn side = iota
	sideBehind
	sideFront
)

// classify places a signed distance into the on-plane band or on one
// side of the plane.
func classify(d float64) side {
	if math.Abs(d) <= distanceEpsilon {
		return sideOn
	}
	if d < 0 {
		return sideBehind
	}
	return sideFront
}

// workspace carries the mutable state of one slicing run: the working
// vertex list, the current (widened) triangle indices and the dedup
// cache for intersection vertices.
type workspace struct {
	verts   []Vertex
	indices []uint32
	cache   *vertexCache
}

// admit returns the working index for an intersection point, reusing a
// cached vertex when one already sits on the same dedup grid cell.
func (w *workspace) admit(p r3.Vector) uint32 {
	if idx, ok := w.cache.lookup(p); ok {
		return uint32(idx)
	}
	idx := len(w.verts)
	w.verts = append(w.verts, Vertex{Pos: p, Index: idx})
	w.cache.insert(p, idx)
	return uint32(idx)
}

// intersect computes the plane crossing of the edge between two working
// vertices. Endpoints are taken in index order so both triangles
// sharing the edge derive bit-identical coordinates.
func (w *workspace) intersect(p Plane, ia, ib uint32) (r3.Vector, bool) {
	if ia > ib {
		ia, ib = ib, ia
	}
	return p.intersectEdge(w.verts[ia].Pos, w.verts[ib].Pos)
}

// clipPlane re-triangulates every triangle in the workspace against one
// plane and reports whether anything was split. Triangles that do not
// straddle the plane pass through unchanged.
func (w *workspace) clipPlane(p Plane) bool {
	if !p.CrossesTile() {
		return false
	}
	out := make([]uint32, 0, len(w.indices))
	changed := false
	for i := 0; i < len(w.indices); i += 3 {
		if w.clipTriangle(p, w.indices[i], w.indices[i+1], w.indices[i+2], &out) {
			changed = true
		}
	}
	if changed {
		w.indices = out
	}
	return changed
}

// clipTriangle appends the re-triangulation of one triangle against the
// plane to out, preserving winding, and reports whether it was split.
func (w *workspace) clipTriangle(p Plane, i0, i1, i2 uint32, out *[]uint32) bool {
	s0 := classify(p.SignedDistance(w.verts[i0].Pos))
	s1 := classify(p.SignedDistance(w.verts[i1].Pos))
	s2 := classify(p.SignedDistance(w.verts[i2].Pos))

	var behind, front, on int
	for _, s := range [3]side{s0, s1, s2} {
		switch s {
		case sideBehind:
			behind++
		case sideFront:
			front++
		default:
			on++
		}
	}

	// Nothing straddles the plane: either all vertices are on one side,
	// or two or more sit on the plane itself, which means the plane
	// touches an edge or the whole face but never the interior.
	if behind == 0 || front == 0 {
		*out = append(*out, i0, i1, i2)
		return false
	}

	if on == 1 {
		// One vertex on the plane, the other two on opposite sides.
		// Rotate the on-plane vertex to the front; the far edge is cut
		// once and the triangle splits in two around that point.
		switch {
		case s0 == sideOn:
			return w.splitAcross(p, i0, i1, i2, out)
		case s1 == sideOn:
			return w.splitAcross(p, i1, i2, i0, out)
		default:
			return w.splitAcross(p, i2, i0, i1, out)
		}
	}

	// No vertex on the plane: one vertex stands alone on its side. Six
	// cases, by lone corner and side; each rotates the lone vertex to
	// the front of the cycle.
	if behind == 1 {
		switch {
		case s0 == sideBehind:
			return w.splitIsolated(p, i0, i1, i2, out)
		case s1 == sideBehind:
			return w.splitIsolated(p, i1, i2, i0, out)
		default:
			return w.splitIsolated(p, i2, i0, i1, out)
		}
	}
	switch {
	case s0 == sideFront:
		return w.splitIsolated(p, i0, i1, i2, out)
	case s1 == sideFront:
		return w.splitIsolated(p, i1, i2, i0, out)
	default:
		return w.splitIsolated(p, i2, i0, i1, out)
	}
}

// splitAcross splits the triangle (a, b, c), with a on the plane and b
// and c on opposite sides, into two triangles sharing a and the
// crossing of edge b-c. The caller rotated a to the front, so emitting
// around the cycle keeps the original winding.
func (w *workspace) splitAcross(p Plane, a, b, c uint32, out *[]uint32) bool {
	pt, ok := w.intersect(p, b, c)
	if !ok {
		// Classification promised a crossing but interpolation could
		// not produce one. Leave the triangle alone.
		*out = append(*out, a, b, c)
		return false
	}
	n := w.admit(pt)
	*out = append(*out, a, b, n, a, n, c)
	return true
}

// splitIsolated splits the triangle (a, b, c), with a alone on its side
// of the plane, into three: the corner triangle at a and two covering
// the quad left on the far side. Both edges out of a are cut; emitting
// around the cycle keeps the original winding.
func (w *workspace) splitIsolated(p Plane, a, b, c uint32, out *[]uint32) bool {
	ptAB, okAB := w.intersect(p, a, b)
	ptCA, okCA := w.intersect(p, c, a)
	if !okAB || !okCA {
		*out = append(*out, a, b, c)
		return false
	}
	nab := w.admit(ptAB)
	nca := w.admit(ptCA)
	*out = append(*out, a, nab, nca, nab, b, c, nab, c, nca)
	return true
}
