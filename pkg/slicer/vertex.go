package slicer

import (
	"math"

	"github.com/golang/geo/r3"
)

// Vertex is a working vertex in parametric tile space: Pos.X is the
// horizontal coordinate u, Pos.Y the vertical coordinate v and Pos.Z
// the terrain height in meters. Index is the vertex's position in the
// working list and becomes its index in the rebuilt buffers.
type Vertex struct {
	Pos   r3.Vector
	Index int
}

// coordQuantum is the grid spacing used to key deduplicated
// intersection vertices. Two points closer than this on every axis are
// the same vertex.
const coordQuantum = 1e-7

// cacheKey quantizes a parametric position onto the dedup grid.
func cacheKey(p r3.Vector) [3]int64 {
	return [3]int64{
		int64(math.Round(p.X / coordQuantum)),
		int64(math.Round(p.Y / coordQuantum)),
		int64(math.Round(p.Z / coordQuantum)),
	}
}

// vertexCache maps quantized positions of intersection vertices to
// their working indices, so a crossing point shared by several
// triangles or planes is admitted once.
type vertexCache struct {
	byKey map[[3]int64]int
}

func newVertexCache() *vertexCache {
	return &vertexCache{byKey: make(map[[3]int64]int)}
}

func (c *vertexCache) lookup(p r3.Vector) (int, bool) {
	idx, ok := c.byKey[cacheKey(p)]
	return idx, ok
}

func (c *vertexCache) insert(p r3.Vector, index int) {
	c.byKey[cacheKey(p)] = index
}
