// Package tile defines the terrain tile mesh representation shared by
// the slicing pipeline: an interleaved vertex buffer, a dual-width
// index buffer and the tile's geographic footprint.
package tile

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"

	"github.com/mapfault/terrapush/pkg/geodetic"
)

// VertexStride is the number of float32 scalars per vertex record:
// center-relative world offset X, Y, Z, terrain height, then the
// parametric tile coordinates u and v.
const VertexStride = 6

// Vertex record field offsets within a stride.
const (
	OffsetX = iota
	OffsetY
	OffsetZ
	OffsetHeight
	OffsetU
	OffsetV
)

var (
	ErrVertexStride = errors.New("vertex buffer length is not a multiple of the vertex stride")
	ErrIndexCount   = errors.New("index count is not a multiple of three")
	ErrIndexRange   = errors.New("index references a vertex outside the buffer")
	ErrIndexWidth   = errors.New("index buffer has both 16- and 32-bit backing")
)

// Mesh is a triangulated terrain tile. Vertices is the interleaved
// buffer described by VertexStride; Rectangle is the tile's geographic
// footprint and Center the world-space point vertex offsets are
// relative to.
type Mesh struct {
	Vertices  []float32
	Indices   Indices
	Rectangle geodetic.Rectangle
	Center    r3.Vector
}

// VertexCount returns the number of vertex records in the buffer.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / VertexStride
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *Mesh) TriangleCount() int {
	return m.Indices.Len() / 3
}

// Vertex returns the interleaved record of vertex i.
func (m *Mesh) Vertex(i int) []float32 {
	return m.Vertices[i*VertexStride : (i+1)*VertexStride]
}

// Validate checks the structural invariants of the mesh: stride
// alignment, triangle-sized index count and index range.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%VertexStride != 0 {
		return fmt.Errorf("%w: %d floats", ErrVertexStride, len(m.Vertices))
	}
	if m.Indices.U16 != nil && m.Indices.U32 != nil {
		return ErrIndexWidth
	}
	if m.Indices.Len()%3 != 0 {
		return fmt.Errorf("%w: %d entries", ErrIndexCount, m.Indices.Len())
	}
	count := uint32(m.VertexCount())
	for i := 0; i < m.Indices.Len(); i++ {
		if idx := m.Indices.At(i); idx >= count {
			return fmt.Errorf("%w: index %d at entry %d, %d vertices", ErrIndexRange, idx, i, count)
		}
	}
	return nil
}
