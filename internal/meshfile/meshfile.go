// Package meshfile reads and writes terrain tile meshes as flat binary
// files, so tiles can be generated once and clipped or inspected later.
//
// Layout, all little-endian: a fixed header (magic "TPMF", format
// version, index width, tile rectangle in radians, tile center, vertex
// and index counts) followed by the interleaved float32 vertex buffer
// and the index buffer at its native width.
package meshfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/golang/geo/r3"

	"github.com/mapfault/terrapush/pkg/geodetic"
	"github.com/mapfault/terrapush/pkg/tile"
)

// Magic identifies a tile mesh file.
var Magic = [4]byte{'T', 'P', 'M', 'F'}

// Version is the current format version.
const Version = 1

var (
	ErrBadMagic   = errors.New("not a tile mesh file")
	ErrBadVersion = errors.New("unsupported tile mesh file version")
	ErrTruncated  = errors.New("truncated tile mesh file")
	ErrCorrupt    = errors.New("corrupt tile mesh file")
)

// Sanity bounds on header counts, far above any real tile.
const (
	maxVertexCount = 1 << 26
	maxIndexCount  = 1 << 27
)

type header struct {
	Magic       [4]byte
	Version     uint8
	IndexBits   uint8
	West        float64
	South       float64
	East        float64
	North       float64
	CenterX     float64
	CenterY     float64
	CenterZ     float64
	VertexCount uint32
	IndexCount  uint32
}

// Write serializes a mesh to w.
func Write(w io.Writer, m *tile.Mesh) error {
	if err := m.Validate(); err != nil {
		return err
	}
	hdr := header{
		Magic:       Magic,
		Version:     Version,
		IndexBits:   uint8(m.Indices.Bits()),
		West:        m.Rectangle.West,
		South:       m.Rectangle.South,
		East:        m.Rectangle.East,
		North:       m.Rectangle.North,
		CenterX:     m.Center.X,
		CenterY:     m.Center.Y,
		CenterZ:     m.Center.Z,
		VertexCount: uint32(m.VertexCount()),
		IndexCount:  uint32(m.Indices.Len()),
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, m.Vertices); err != nil {
		return fmt.Errorf("write vertices: %w", err)
	}
	var err error
	if m.Indices.U32 != nil {
		err = binary.Write(w, binary.LittleEndian, m.Indices.U32)
	} else {
		err = binary.Write(w, binary.LittleEndian, m.Indices.U16)
	}
	if err != nil {
		return fmt.Errorf("write indices: %w", err)
	}
	return nil
}

// Read parses a mesh from r and validates it.
func Read(r io.Reader) (*tile.Mesh, error) {
	var hdr header
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: header", ErrTruncated)
	}
	if hdr.Magic != Magic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadMagic, hdr.Magic[:])
	}
	if hdr.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, hdr.Version)
	}
	if hdr.IndexBits != 16 && hdr.IndexBits != 32 {
		return nil, fmt.Errorf("%w: index width %d", ErrCorrupt, hdr.IndexBits)
	}
	if hdr.VertexCount > maxVertexCount || hdr.IndexCount > maxIndexCount {
		return nil, fmt.Errorf("%w: %d vertices, %d indices", ErrCorrupt, hdr.VertexCount, hdr.IndexCount)
	}

	vertices := make([]float32, int(hdr.VertexCount)*tile.VertexStride)
	if err := binary.Read(r, binary.LittleEndian, vertices); err != nil {
		return nil, fmt.Errorf("%w: vertex data", ErrTruncated)
	}

	var indices tile.Indices
	if hdr.IndexBits == 16 {
		buf := make([]uint16, hdr.IndexCount)
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("%w: index data", ErrTruncated)
		}
		indices = tile.Indices{U16: buf}
	} else {
		buf := make([]uint32, hdr.IndexCount)
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("%w: index data", ErrTruncated)
		}
		indices = tile.Indices{U32: buf}
	}

	m := &tile.Mesh{
		Vertices: vertices,
		Indices:  indices,
		Rectangle: geodetic.Rectangle{
			West:  hdr.West,
			South: hdr.South,
			East:  hdr.East,
			North: hdr.North,
		},
		Center: r3.Vector{X: hdr.CenterX, Y: hdr.CenterY, Z: hdr.CenterZ},
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return m, nil
}

// WriteFile serializes a mesh to the named file.
func WriteFile(path string, m *tile.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile parses a mesh from the named file.
func ReadFile(path string) (*tile.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
