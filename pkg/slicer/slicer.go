// Package slicer re-triangulates terrain tile meshes against
// axis-aligned planes in parametric tile space. Each plane cuts every
// straddling triangle exactly along the plane, deduplicating the new
// boundary vertices, so the result stays watertight and can be
// displaced per region without cracks along the boundary.
package slicer

import (
	"github.com/golang/geo/r3"

	"github.com/mapfault/terrapush/pkg/geodetic"
	"github.com/mapfault/terrapush/pkg/tile"
)

// Slice clips a tile mesh against the given planes, applied in order,
// and rebuilds the vertex and index buffers with world positions
// recomputed on the ellipsoid. When no plane cuts anything the input
// mesh is returned untouched.
func Slice(m *tile.Mesh, planes []Plane, ellipsoid geodetic.Ellipsoid) (*tile.Mesh, error) {
	w, err := load(m)
	if err != nil {
		return nil, err
	}
	changed := false
	for _, p := range planes {
		if w.clipPlane(p) {
			changed = true
		}
	}
	if !changed {
		return m, nil
	}
	return w.rebuild(m.Rectangle, m.Center, ellipsoid), nil
}

// load validates the mesh and unpacks its interleaved vertex stream
// into the parametric working list, widening the indices.
func load(m *tile.Mesh) (*workspace, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	count := m.VertexCount()
	verts := make([]Vertex, count)
	for i := 0; i < count; i++ {
		rec := m.Vertex(i)
		verts[i] = Vertex{
			Pos: r3.Vector{
				X: float64(rec[tile.OffsetU]),
				Y: float64(rec[tile.OffsetV]),
				Z: float64(rec[tile.OffsetHeight]),
			},
			Index: i,
		}
	}
	return &workspace{
		verts:   verts,
		indices: m.Indices.AsUint32(),
		cache:   newVertexCache(),
	}, nil
}

// rebuild packs the working list back into a tile mesh. World offsets
// are recomputed from each vertex's parametric position: the tile
// rectangle maps u and v to longitude and latitude, the ellipsoid
// lifts them to world space and the tile center is subtracted.
func (w *workspace) rebuild(rect geodetic.Rectangle, center r3.Vector, ellipsoid geodetic.Ellipsoid) *tile.Mesh {
	vertices := make([]float32, 0, len(w.verts)*tile.VertexStride)
	for _, v := range w.verts {
		lon := rect.West + v.Pos.X*rect.Width()
		lat := rect.South + v.Pos.Y*rect.Height()
		world := ellipsoid.GeographicToWorld(lon, lat, v.Pos.Z)
		vertices = append(vertices,
			float32(world.X-center.X),
			float32(world.Y-center.Y),
			float32(world.Z-center.Z),
			float32(v.Pos.Z),
			float32(v.Pos.X),
			float32(v.Pos.Y),
		)
	}
	return &tile.Mesh{
		Vertices:  vertices,
		Indices:   tile.MakeIndices(w.indices, len(w.verts)),
		Rectangle: rect,
		Center:    center,
	}
}
