// Package mesh turns chunk voxels into vertex and index streams with
// per-vertex ambient occlusion.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-world/pkg/world/block"
	"github.com/OCharnyshevich/voxel-world/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
)

// Stream is one vertex/index pair. Indices reference Vertices.
type Stream struct {
	Vertices []Vertex
	Indices  []uint32
}

// Len returns the number of indices.
func (s *Stream) Len() int { return len(s.Indices) }

// Empty reports whether the stream has no geometry.
func (s *Stream) Empty() bool { return len(s.Indices) == 0 }

func (s *Stream) appendQuad(vs [4]Vertex, indices [6]uint32) {
	base := uint32(len(s.Vertices))
	s.Vertices = append(s.Vertices, vs[:]...)
	for _, i := range indices {
		s.Indices = append(s.Indices, base+i)
	}
}

// ChunkMesh is the geometry of one chunk. Opaque is drawn first, Translucent
// with blending afterwards.
type ChunkMesh struct {
	Pos         coord.ChunkPos
	Opaque      Stream
	Translucent Stream
}

// Neighbours resolves absolute block positions across a set of loaded chunks.
type Neighbours []*chunk.Chunk

func (n Neighbours) find(pos coord.ChunkPos) *chunk.Chunk {
	for _, c := range n {
		if c != nil && c.Pos() == pos {
			return c
		}
	}
	return nil
}

// BlockAt returns the block at absolute position p, or nil when the owning
// chunk is not in the set or the cell is empty.
func (n Neighbours) BlockAt(p mgl32.Vec3) *block.Block {
	if p.Y() < 0 {
		return nil
	}
	c := n.find(coord.ChunkFromAbsolute(p))
	if c == nil {
		return nil
	}
	return c.BlockAt(coord.RelativeFromAbsolute(p))
}

func (n Neighbours) occludes(p mgl32.Vec3) bool {
	b := n.BlockAt(p)
	return b != nil && b.Type().Occludes()
}

// Build meshes c. neighbours supplies the adjacent chunks used for face
// culling and AO at the chunk edges; c itself need not be included. The
// chunk's grid is only read through short per-block lookups.
func Build(c *chunk.Chunk, neighbours []*chunk.Chunk) *ChunkMesh {
	set := make(Neighbours, 0, len(neighbours)+1)
	set = append(set, c)
	set = append(set, neighbours...)

	m := &ChunkMesh{Pos: c.Pos()}
	for _, b := range c.Blocks() {
		dst := &m.Opaque
		if b.Type().Translucent() {
			dst = &m.Translucent
		}
		for _, f := range block.AllFaces() {
			if !set.faceVisible(b, f) {
				continue
			}
			vs, indices := set.face(b, f)
			dst.appendQuad(vs, indices)
		}
	}
	return m
}

// faceVisible reports whether face f of b borders an empty cell, or a
// translucent cell while b itself is opaque. Faces against the world floor
// are never drawn.
func (n Neighbours) faceVisible(b *block.Block, f block.Face) bool {
	p := b.AbsolutePosition().Add(f.Normal())
	if p.Y() < 0 {
		return false
	}
	other := n.BlockAt(p)
	if other == nil {
		return true
	}
	return other.Type().Translucent() && !b.Type().Translucent()
}

func (n Neighbours) face(b *block.Block, f block.Face) ([4]Vertex, [6]uint32) {
	corners, indices := f.Quad()
	uv := b.Type().TexCoords(f)
	normal := f.Normal()

	var vs [4]Vertex
	for i, ci := range corners {
		corner := block.CubeVertex[ci]
		vs[i] = Vertex{
			Position:  b.Position().Add(corner),
			Normal:    normal,
			TexCoords: uv[i],
			AO:        ConvertAO(n.vertexAO(b.AbsolutePosition(), normal, corner)),
		}
	}
	return vs, indices
}

// vertexAO probes the cells in front of the face that touch the vertex at
// corner: two edge neighbours and the diagonal between them.
func (n Neighbours) vertexAO(pos, normal, corner mgl32.Vec3) uint8 {
	front := pos.Add(normal)

	var tangents [2]mgl32.Vec3
	k := 0
	for axis := range 3 {
		if normal[axis] != 0 {
			continue
		}
		var t mgl32.Vec3
		if corner[axis] > 0 {
			t[axis] = 1
		} else {
			t[axis] = -1
		}
		tangents[k] = t
		k++
	}

	side1 := n.occludes(front.Add(tangents[0]))
	side2 := n.occludes(front.Add(tangents[1]))
	diag := n.occludes(front.Add(tangents[0]).Add(tangents[1]))
	return CalcVertexAO(side1, side2, diag)
}
