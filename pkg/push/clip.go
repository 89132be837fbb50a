package push

import (
	"errors"

	"github.com/mapfault/terrapush/pkg/geodetic"
	"github.com/mapfault/terrapush/pkg/slicer"
	"github.com/mapfault/terrapush/pkg/tile"
)

var (
	// ErrMeshNotReady signals that the upstream tile pipeline has not
	// produced a mesh for the tile yet. Sources return it to defer
	// clipping until the mesh exists.
	ErrMeshNotReady = errors.New("tile mesh not ready")

	// ErrNilMesh is returned when a nil mesh reaches Clip.
	ErrNilMesh = errors.New("nil tile mesh")
)

// MeshSource supplies the raw mesh of one terrain tile.
type MeshSource func() (*tile.Mesh, error)

// SlicingPlanes returns the eight slicing planes of the boundary pair
// in a tile's parametric space, in clipping order: inner west, east,
// north, south, then outer west, east, north, south. Boundary edges
// outside the tile yield planes that do not cross it.
func (b Boundaries) SlicingPlanes(tileRect geodetic.Rectangle) [8]slicer.Plane {
	return [8]slicer.Plane{
		slicer.PlaneAtU(tileRect.LongitudeFraction(b.Inner.West)),
		slicer.PlaneAtU(tileRect.LongitudeFraction(b.Inner.East)),
		slicer.PlaneAtV(tileRect.LatitudeFraction(b.Inner.North)),
		slicer.PlaneAtV(tileRect.LatitudeFraction(b.Inner.South)),
		slicer.PlaneAtU(tileRect.LongitudeFraction(b.Outer.West)),
		slicer.PlaneAtU(tileRect.LongitudeFraction(b.Outer.East)),
		slicer.PlaneAtV(tileRect.LatitudeFraction(b.Outer.North)),
		slicer.PlaneAtV(tileRect.LatitudeFraction(b.Outer.South)),
	}
}

// Clip slices a tile mesh along a boundary pair so that triangles stop
// exactly at the region edges. Tiles the outer rectangle does not
// touch come back unchanged.
func Clip(m *tile.Mesh, b Boundaries, ellipsoid geodetic.Ellipsoid) (*tile.Mesh, error) {
	if m == nil {
		return nil, ErrNilMesh
	}
	if !b.Outer.Intersects(m.Rectangle) {
		return m, nil
	}
	planes := b.SlicingPlanes(m.Rectangle)
	return slicer.Slice(m, planes[:], ellipsoid)
}

// Apply clips a tile mesh against the region's current boundaries.
func (r *Region) Apply(m *tile.Mesh, ellipsoid geodetic.Ellipsoid) (*tile.Mesh, error) {
	return Clip(m, r.Boundaries(), ellipsoid)
}

// WrapSource returns a source yielding the region-clipped version of
// whatever src produces. Boundaries are snapshotted per call, so the
// wrapped source follows later rectangle updates. Errors from src,
// ErrMeshNotReady included, pass through unchanged.
func (r *Region) WrapSource(src MeshSource, ellipsoid geodetic.Ellipsoid) MeshSource {
	return func() (*tile.Mesh, error) {
		m, err := src()
		if err != nil {
			return nil, err
		}
		return r.Apply(m, ellipsoid)
	}
}
