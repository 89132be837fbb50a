package tile

// Indices is a triangle index buffer backed by either 16- or 32-bit
// entries. At most one of U16 and U32 is non-nil; the zero value is an
// empty buffer.
type Indices struct {
	U16 []uint16
	U32 []uint32
}

// maxUint16Vertices is the largest vertex count addressable by a
// 16-bit index buffer.
const maxUint16Vertices = 1 << 16

// MakeIndices packs a widened index stream into the narrowest buffer
// that can address vertexCount vertices.
func MakeIndices(indices []uint32, vertexCount int) Indices {
	if vertexCount > maxUint16Vertices {
		out := make([]uint32, len(indices))
		copy(out, indices)
		return Indices{U32: out}
	}
	out := make([]uint16, len(indices))
	for i, idx := range indices {
		out[i] = uint16(idx)
	}
	return Indices{U16: out}
}

// Len returns the number of index entries.
func (n Indices) Len() int {
	if n.U16 != nil {
		return len(n.U16)
	}
	return len(n.U32)
}

// At returns the index entry at position i widened to uint32.
func (n Indices) At(i int) uint32 {
	if n.U16 != nil {
		return uint32(n.U16[i])
	}
	return n.U32[i]
}

// Bits returns the entry width of the backing buffer: 16 or 32.
func (n Indices) Bits() int {
	if n.U32 != nil {
		return 32
	}
	return 16
}

// AsUint32 returns a widened copy of the buffer.
func (n Indices) AsUint32() []uint32 {
	out := make([]uint32, n.Len())
	if n.U16 != nil {
		for i, idx := range n.U16 {
			out[i] = uint32(idx)
		}
		return out
	}
	copy(out, n.U32)
	return out
}
