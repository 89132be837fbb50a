package meshfile

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mapfault/terrapush/pkg/geodetic"
	"github.com/mapfault/terrapush/pkg/tile"
)

func testMesh() *tile.Mesh {
	rect := geodetic.RectangleFromDegrees(100, 30, 101, 31)
	return tile.GridMesh(rect, 3, func(u, v float64) float64 { return 250 * v }, geodetic.WGS84)
}

func TestRoundTrip(t *testing.T) {
	m := testMesh()

	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		t.Fatalf("Write(): %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read(): %v", err)
	}

	if got.VertexCount() != m.VertexCount() {
		t.Errorf("VertexCount() = %d, want %d", got.VertexCount(), m.VertexCount())
	}
	if got.Indices.Len() != m.Indices.Len() || got.Indices.Bits() != m.Indices.Bits() {
		t.Errorf("indices %d entries at %d bits, want %d at %d",
			got.Indices.Len(), got.Indices.Bits(), m.Indices.Len(), m.Indices.Bits())
	}
	if got.Rectangle != m.Rectangle {
		t.Errorf("Rectangle = %v, want %v", got.Rectangle, m.Rectangle)
	}
	if got.Center != m.Center {
		t.Errorf("Center = %v, want %v", got.Center, m.Center)
	}
	for _, i := range []int{0, 7, m.VertexCount() - 1} {
		want := m.Vertex(i)
		rec := got.Vertex(i)
		for s := 0; s < tile.VertexStride; s++ {
			if rec[s] != want[s] {
				t.Errorf("vertex %d slot %d = %v, want %v", i, s, rec[s], want[s])
			}
		}
	}
}

func TestRoundTripFile(t *testing.T) {
	m := testMesh()
	path := filepath.Join(t.TempDir(), "tile.tpmf")

	if err := WriteFile(path, m); err != nil {
		t.Fatalf("WriteFile(): %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(): %v", err)
	}
	if got.TriangleCount() != m.TriangleCount() {
		t.Errorf("TriangleCount() = %d, want %d", got.TriangleCount(), m.TriangleCount())
	}
}

func TestReadBadMagic(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testMesh()); err != nil {
		t.Fatalf("Write(): %v", err)
	}
	data := buf.Bytes()
	data[0] = 'X'

	if _, err := Read(bytes.NewReader(data)); !errors.Is(err, ErrBadMagic) {
		t.Errorf("Read() = %v, want ErrBadMagic", err)
	}
}

func TestReadBadVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testMesh()); err != nil {
		t.Fatalf("Write(): %v", err)
	}
	data := buf.Bytes()
	data[4] = 99

	if _, err := Read(bytes.NewReader(data)); !errors.Is(err, ErrBadVersion) {
		t.Errorf("Read() = %v, want ErrBadVersion", err)
	}
}

func TestReadBadIndexWidth(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testMesh()); err != nil {
		t.Fatalf("Write(): %v", err)
	}
	data := buf.Bytes()
	data[5] = 24

	if _, err := Read(bytes.NewReader(data)); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Read() = %v, want ErrCorrupt", err)
	}
}

func TestReadTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testMesh()); err != nil {
		t.Fatalf("Write(): %v", err)
	}
	data := buf.Bytes()

	for _, cut := range []int{3, 20, len(data) / 2, len(data) - 1} {
		if _, err := Read(bytes.NewReader(data[:cut])); !errors.Is(err, ErrTruncated) {
			t.Errorf("Read() of %d bytes = %v, want ErrTruncated", cut, err)
		}
	}
}

func TestWriteInvalidMesh(t *testing.T) {
	m := testMesh()
	m.Vertices = m.Vertices[:len(m.Vertices)-1]

	var buf bytes.Buffer
	if err := Write(&buf, m); !errors.Is(err, tile.ErrVertexStride) {
		t.Errorf("Write() = %v, want ErrVertexStride", err)
	}
}
