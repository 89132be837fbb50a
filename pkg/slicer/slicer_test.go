package slicer

import (
	"errors"
	"math"
	"testing"

	"github.com/mapfault/terrapush/pkg/geodetic"
	"github.com/mapfault/terrapush/pkg/tile"
)

var testRect = geodetic.RectangleFromDegrees(110, 20, 111, 21)

// paramMesh builds a tile mesh from parametric (u, v, height) triples.
// World offsets are left zero; slicing only reads the parametric slots
// and recomputes offsets on rebuild.
func paramMesh(points [][3]float64, indices []uint16) *tile.Mesh {
	vertices := make([]float32, 0, len(points)*tile.VertexStride)
	for _, p := range points {
		vertices = append(vertices, 0, 0, 0, float32(p[2]), float32(p[0]), float32(p[1]))
	}
	return &tile.Mesh{
		Vertices:  vertices,
		Indices:   tile.Indices{U16: indices},
		Rectangle: testRect,
		Center:    geodetic.WGS84.GeographicToWorld(testRect.CenterLongitude(), testRect.CenterLatitude(), 0),
	}
}

// signedUVArea returns twice the signed parametric area of triangle tri.
func signedUVArea(m *tile.Mesh, tri int) float64 {
	a := m.Vertex(int(m.Indices.At(tri * 3)))
	b := m.Vertex(int(m.Indices.At(tri*3 + 1)))
	c := m.Vertex(int(m.Indices.At(tri*3 + 2)))
	return float64(b[tile.OffsetU]-a[tile.OffsetU])*float64(c[tile.OffsetV]-a[tile.OffsetV]) -
		float64(b[tile.OffsetV]-a[tile.OffsetV])*float64(c[tile.OffsetU]-a[tile.OffsetU])
}

func totalUVArea(m *tile.Mesh) float64 {
	var sum float64
	for tri := 0; tri < m.TriangleCount(); tri++ {
		sum += signedUVArea(m, tri)
	}
	return sum / 2
}

func TestSliceSingleCrossingTriangle(t *testing.T) {
	m := paramMesh([][3]float64{
		{0.2, 0.5, 0},
		{0.8, 0.5, 300},
		{0.55, 0.9, 100},
	}, []uint16{0, 1, 2})

	out, err := Slice(m, []Plane{PlaneAtU(0.5)}, geodetic.WGS84)
	if err != nil {
		t.Fatalf("Slice(): %v", err)
	}
	if out == m {
		t.Fatal("crossing plane returned the input mesh")
	}
	if got := out.TriangleCount(); got != 3 {
		t.Errorf("TriangleCount() = %d, want 3", got)
	}
	if got := out.VertexCount(); got != 5 {
		t.Errorf("VertexCount() = %d, want 5", got)
	}

	// Both new vertices sit exactly on the plane.
	for _, i := range []int{3, 4} {
		if got := out.Vertex(i)[tile.OffsetU]; got != 0.5 {
			t.Errorf("new vertex %d u = %v, want exactly 0.5", i, got)
		}
	}

	// The crossing of the bottom edge interpolates height halfway.
	if got := out.Vertex(3)[tile.OffsetHeight]; math.Abs(float64(got)-150) > 1e-3 {
		t.Errorf("new vertex 3 height = %v, want 150", got)
	}

	for tri := 0; tri < out.TriangleCount(); tri++ {
		if signedUVArea(out, tri) <= 0 {
			t.Errorf("triangle %d lost counter-clockwise winding", tri)
		}
	}
	if got := totalUVArea(out); math.Abs(got-0.12) > 1e-6 {
		t.Errorf("total area = %v, want 0.12", got)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("Validate(): %v", err)
	}
}

func TestSliceOnPlaneVertex(t *testing.T) {
	// The apex sits exactly on the plane, so only the far edge is cut
	// and the triangle splits in two around the apex.
	m := paramMesh([][3]float64{
		{0.2, 0.5, 0},
		{0.8, 0.5, 0},
		{0.5, 0.9, 0},
	}, []uint16{0, 1, 2})

	out, err := Slice(m, []Plane{PlaneAtU(0.5)}, geodetic.WGS84)
	if err != nil {
		t.Fatalf("Slice(): %v", err)
	}
	if got := out.TriangleCount(); got != 2 {
		t.Errorf("TriangleCount() = %d, want 2", got)
	}
	if got := out.VertexCount(); got != 4 {
		t.Errorf("VertexCount() = %d, want 4", got)
	}

	rec := out.Vertex(3)
	if rec[tile.OffsetU] != 0.5 || rec[tile.OffsetV] != 0.5 {
		t.Errorf("new vertex at (%v, %v), want (0.5, 0.5)", rec[tile.OffsetU], rec[tile.OffsetV])
	}
	for tri := 0; tri < out.TriangleCount(); tri++ {
		if signedUVArea(out, tri) <= 0 {
			t.Errorf("triangle %d lost counter-clockwise winding", tri)
		}
	}
	if got := totalUVArea(out); math.Abs(got-0.12) > 1e-6 {
		t.Errorf("total area = %v, want 0.12", got)
	}
}

func TestSliceNoOpReturnsInput(t *testing.T) {
	m := paramMesh([][3]float64{
		{0.1, 0.1, 0},
		{0.4, 0.1, 0},
		{0.25, 0.4, 0},
	}, []uint16{0, 1, 2})

	// Planes east of the triangle, off the tile entirely, or an empty
	// plane set must all hand back the input mesh untouched.
	cases := [][]Plane{
		{PlaneAtU(0.5)},
		{PlaneAtU(1.5), PlaneAtV(-0.2)},
		nil,
	}
	for i, planes := range cases {
		out, err := Slice(m, planes, geodetic.WGS84)
		if err != nil {
			t.Fatalf("case %d: Slice(): %v", i, err)
		}
		if out != m {
			t.Errorf("case %d: input mesh not returned unchanged", i)
		}
	}
}

func TestSliceSharedEdgeDeduplicated(t *testing.T) {
	// Two triangles share the quad diagonal. The plane crosses the
	// diagonal once; both triangles must reuse that crossing vertex.
	m := paramMesh([][3]float64{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{1, 1, 0},
	}, []uint16{0, 1, 2, 1, 3, 2})

	out, err := Slice(m, []Plane{PlaneAtU(0.5)}, geodetic.WGS84)
	if err != nil {
		t.Fatalf("Slice(): %v", err)
	}
	if got := out.TriangleCount(); got != 6 {
		t.Errorf("TriangleCount() = %d, want 6", got)
	}
	if got := out.VertexCount(); got != 7 {
		t.Errorf("VertexCount() = %d, want 7", got)
	}

	onPlane := 0
	for i := 0; i < out.VertexCount(); i++ {
		if out.Vertex(i)[tile.OffsetU] == 0.5 {
			onPlane++
		}
	}
	if onPlane != 3 {
		t.Errorf("vertices on the plane = %d, want 3", onPlane)
	}

	if got := totalUVArea(out); math.Abs(got-1) > 1e-6 {
		t.Errorf("total area = %v, want 1", got)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("Validate(): %v", err)
	}
}

func TestSliceWindingAllRotations(t *testing.T) {
	// One vertex alone on its side of the plane, in every corner slot
	// and on both sides. Winding must survive all six splits.
	configs := []struct {
		name   string
		points [][3]float64
	}{
		{"lone behind", [][3]float64{{0.2, 0.5, 0}, {0.8, 0.2, 0}, {0.8, 0.8, 0}}},
		{"lone in front", [][3]float64{{0.8, 0.5, 0}, {0.2, 0.8, 0}, {0.2, 0.2, 0}}},
	}
	rotations := [][]uint16{{0, 1, 2}, {1, 2, 0}, {2, 0, 1}}

	for _, cfg := range configs {
		for ri, rot := range rotations {
			m := paramMesh(cfg.points, rot)
			out, err := Slice(m, []Plane{PlaneAtU(0.5)}, geodetic.WGS84)
			if err != nil {
				t.Fatalf("%s rotation %d: Slice(): %v", cfg.name, ri, err)
			}
			if got := out.TriangleCount(); got != 3 {
				t.Errorf("%s rotation %d: TriangleCount() = %d, want 3", cfg.name, ri, got)
			}
			if got := out.VertexCount(); got != 5 {
				t.Errorf("%s rotation %d: VertexCount() = %d, want 5", cfg.name, ri, got)
			}
			for tri := 0; tri < out.TriangleCount(); tri++ {
				if signedUVArea(out, tri) <= 0 {
					t.Errorf("%s rotation %d: triangle %d lost winding", cfg.name, ri, tri)
				}
			}
			if got := totalUVArea(out); math.Abs(got-0.18) > 1e-6 {
				t.Errorf("%s rotation %d: total area = %v, want 0.18", cfg.name, ri, got)
			}
		}
	}
}

func TestSliceEightPlanesStable(t *testing.T) {
	m := paramMesh([][3]float64{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{1, 1, 0},
	}, []uint16{0, 1, 2, 1, 3, 2})

	planes := []Plane{
		PlaneAtU(0.3), PlaneAtU(0.7), PlaneAtV(0.6), PlaneAtV(0.4),
		PlaneAtU(0.25), PlaneAtU(0.75), PlaneAtV(0.65), PlaneAtV(0.35),
	}

	first, err := Slice(m, planes, geodetic.WGS84)
	if err != nil {
		t.Fatalf("Slice(): %v", err)
	}
	if first == m {
		t.Fatal("eight crossing planes left the mesh unchanged")
	}
	if err := first.Validate(); err != nil {
		t.Fatalf("Validate(): %v", err)
	}
	if got := totalUVArea(first); math.Abs(got-1) > 1e-6 {
		t.Errorf("total area = %v, want 1", got)
	}
	for tri := 0; tri < first.TriangleCount(); tri++ {
		if signedUVArea(first, tri) < 0 {
			t.Errorf("triangle %d flipped winding", tri)
		}
	}

	// Every cut now lies exactly on a plane, so a second pass with the
	// same planes must change nothing.
	second, err := Slice(first, planes, geodetic.WGS84)
	if err != nil {
		t.Fatalf("second Slice(): %v", err)
	}
	if second != first {
		t.Error("second pass re-cut an already sliced mesh")
	}
}

func TestSliceRebuildsWorldOffsets(t *testing.T) {
	m := paramMesh([][3]float64{
		{0, 0, 0},
		{1, 0, 200},
		{0, 1, 0},
		{1, 1, 200},
	}, []uint16{0, 1, 2, 1, 3, 2})

	out, err := Slice(m, []Plane{PlaneAtU(0.5)}, geodetic.WGS84)
	if err != nil {
		t.Fatalf("Slice(): %v", err)
	}

	for i := 0; i < out.VertexCount(); i++ {
		rec := out.Vertex(i)
		lon := out.Rectangle.West + float64(rec[tile.OffsetU])*out.Rectangle.Width()
		lat := out.Rectangle.South + float64(rec[tile.OffsetV])*out.Rectangle.Height()
		want := geodetic.WGS84.GeographicToWorld(lon, lat, float64(rec[tile.OffsetHeight])).Sub(out.Center)
		if math.Abs(float64(rec[tile.OffsetX])-want.X) > 0.1 ||
			math.Abs(float64(rec[tile.OffsetY])-want.Y) > 0.1 ||
			math.Abs(float64(rec[tile.OffsetZ])-want.Z) > 0.1 {
			t.Errorf("vertex %d world offset = (%v, %v, %v), want %v",
				i, rec[tile.OffsetX], rec[tile.OffsetY], rec[tile.OffsetZ], want)
		}
	}
}

func TestSliceDegenerateTriangle(t *testing.T) {
	// A triangle with a repeated index straddling the plane must not
	// panic and must still produce a structurally valid mesh.
	m := paramMesh([][3]float64{
		{0.2, 0.5, 0},
		{0.8, 0.5, 0},
	}, []uint16{0, 0, 1})

	out, err := Slice(m, []Plane{PlaneAtU(0.5)}, geodetic.WGS84)
	if err != nil {
		t.Fatalf("Slice(): %v", err)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("Validate(): %v", err)
	}
}

func TestSliceInvalidMesh(t *testing.T) {
	m := paramMesh([][3]float64{
		{0.2, 0.5, 0},
		{0.8, 0.5, 0},
		{0.5, 0.9, 0},
	}, []uint16{0, 1, 2})
	m.Vertices = m.Vertices[:len(m.Vertices)-2]

	if _, err := Slice(m, []Plane{PlaneAtU(0.5)}, geodetic.WGS84); !errors.Is(err, tile.ErrVertexStride) {
		t.Errorf("Slice() on malformed mesh: got %v, want ErrVertexStride", err)
	}
}

func TestSliceGridMesh(t *testing.T) {
	// A realistic grid tile cut by planes that fall between grid lines.
	m := tile.GridMesh(testRect, 8, func(u, v float64) float64 { return 1000 * u * v }, geodetic.WGS84)
	before := totalUVArea(m)

	planes := []Plane{PlaneAtU(0.33), PlaneAtU(0.66), PlaneAtV(0.41), PlaneAtV(0.78)}
	out, err := Slice(m, planes, geodetic.WGS84)
	if err != nil {
		t.Fatalf("Slice(): %v", err)
	}
	if out == m {
		t.Fatal("crossing planes left the grid unchanged")
	}
	if err := out.Validate(); err != nil {
		t.Fatalf("Validate(): %v", err)
	}
	if got := totalUVArea(out); math.Abs(got-before) > 1e-5 {
		t.Errorf("total area = %v, want %v", got, before)
	}
	if out.TriangleCount() <= m.TriangleCount() {
		t.Errorf("TriangleCount() = %d, want more than %d", out.TriangleCount(), m.TriangleCount())
	}
	for tri := 0; tri < out.TriangleCount(); tri++ {
		if signedUVArea(out, tri) < 0 {
			t.Errorf("triangle %d flipped winding", tri)
		}
	}
}
