package mesh

import (
	"encoding/binary"
	"math"
)

// Vertex is the per-vertex record uploaded to the GPU.
type Vertex struct {
	Position  [3]float32
	Normal    [3]float32
	TexCoords [2]float32
	AO        float32
}

// VertexSize is the byte stride of an encoded Vertex.
const VertexSize = 36

// Attribute describes one field of the encoded vertex.
type Attribute struct {
	Location   int
	Offset     int
	Components int
}

// VertexLayout lists the attributes of Vertex in shader location order.
var VertexLayout = []Attribute{
	{Location: 0, Offset: 0, Components: 3},
	{Location: 1, Offset: 12, Components: 3},
	{Location: 2, Offset: 24, Components: 2},
	{Location: 3, Offset: 32, Components: 1},
}

// EncodeVertices packs vs as little-endian float32 records.
func EncodeVertices(vs []Vertex) []byte {
	buf := make([]byte, 0, len(vs)*VertexSize)
	for _, v := range vs {
		for _, f := range v.Position {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
		for _, f := range v.Normal {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
		for _, f := range v.TexCoords {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.AO))
	}
	return buf
}

// EncodeIndices packs indices as little-endian uint32 values.
func EncodeIndices(indices []uint32) []byte {
	buf := make([]byte, 0, len(indices)*4)
	for _, i := range indices {
		buf = binary.LittleEndian.AppendUint32(buf, i)
	}
	return buf
}
