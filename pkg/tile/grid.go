package tile

import (
	"github.com/mapfault/terrapush/pkg/geodetic"
)

// HeightFunc samples terrain height in meters at a parametric tile
// coordinate. Both u and v are in [0, 1].
type HeightFunc func(u, v float64) float64

// GridMesh builds a regular (divisions+1)^2 grid mesh over rect with
// counter-clockwise winding, sampling heights from height (flat at zero
// when nil). The mesh center is the world-space point under the
// rectangle's center at height zero.
func GridMesh(rect geodetic.Rectangle, divisions int, height HeightFunc, ellipsoid geodetic.Ellipsoid) *Mesh {
	if divisions < 1 {
		divisions = 1
	}
	if height == nil {
		height = func(u, v float64) float64 { return 0 }
	}

	side := divisions + 1
	center := ellipsoid.GeographicToWorld(rect.CenterLongitude(), rect.CenterLatitude(), 0)
	vertices := make([]float32, 0, side*side*VertexStride)

	for row := 0; row < side; row++ {
		v := float64(row) / float64(divisions)
		lat := rect.South + v*rect.Height()
		for col := 0; col < side; col++ {
			u := float64(col) / float64(divisions)
			lon := rect.West + u*rect.Width()
			h := height(u, v)
			world := ellipsoid.GeographicToWorld(lon, lat, h)
			vertices = append(vertices,
				float32(world.X-center.X),
				float32(world.Y-center.Y),
				float32(world.Z-center.Z),
				float32(h),
				float32(u),
				float32(v),
			)
		}
	}

	indices := make([]uint32, 0, divisions*divisions*6)
	for row := 0; row < divisions; row++ {
		for col := 0; col < divisions; col++ {
			i0 := uint32(row*side + col)
			i1 := i0 + 1
			i2 := i0 + uint32(side)
			i3 := i2 + 1
			indices = append(indices, i0, i1, i2, i1, i3, i2)
		}
	}

	return &Mesh{
		Vertices:  vertices,
		Indices:   MakeIndices(indices, side*side),
		Rectangle: rect,
		Center:    center,
	}
}
