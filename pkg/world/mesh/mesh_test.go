package mesh

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-world/pkg/world/block"
	"github.com/OCharnyshevich/voxel-world/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
)

func place(c *chunk.Chunk, x, y, z int, t block.Type) {
	c.AddBlock(block.New(coord.Vec(x, y, z), c.Pos(), t), false)
}

func TestCalcVertexAO(t *testing.T) {
	for _, corner := range []bool{false, true} {
		if got := CalcVertexAO(true, true, corner); got != 0 {
			t.Errorf("CalcVertexAO(true, true, %v) = %d, want 0", corner, got)
		}
	}
	tests := []struct {
		s1, s2, c bool
		want      uint8
	}{
		{false, false, false, 3},
		{true, false, false, 2},
		{false, true, true, 1},
		{false, false, true, 2},
	}
	for _, tt := range tests {
		if got := CalcVertexAO(tt.s1, tt.s2, tt.c); got != tt.want {
			t.Errorf("CalcVertexAO(%v, %v, %v) = %d, want %d", tt.s1, tt.s2, tt.c, got, tt.want)
		}
	}
}

func TestConvertAO(t *testing.T) {
	if got := ConvertAO(0); got != 1 {
		t.Errorf("ConvertAO(0) = %v, want 1", got)
	}
	if got := ConvertAO(3); got != 0 {
		t.Errorf("ConvertAO(3) = %v, want 0", got)
	}
}

func TestBuildSingleBlock(t *testing.T) {
	c := chunk.New(coord.ChunkPos{})
	place(c, 4, 5, 4, block.Stone)

	m := Build(c, nil)
	if got := len(m.Opaque.Vertices); got != 24 {
		t.Errorf("vertices = %d, want 24", got)
	}
	if got := m.Opaque.Len(); got != 36 {
		t.Errorf("indices = %d, want 36", got)
	}
	if !m.Translucent.Empty() {
		t.Errorf("translucent indices = %d, want 0", m.Translucent.Len())
	}
	for i := 0; i < len(m.Opaque.Indices); i += 6 {
		base := uint32(i / 6 * 4)
		want := []uint32{base, base + 1, base + 2, base, base + 2, base + 3}
		for k := range want {
			if m.Opaque.Indices[i+k] != want[k] {
				t.Fatalf("quad %d indices = %v, want %v", i/6, m.Opaque.Indices[i:i+6], want)
			}
		}
	}
	for _, v := range m.Opaque.Vertices {
		if v.AO != ConvertAO(3) {
			t.Errorf("isolated block vertex AO = %v, want %v", v.AO, ConvertAO(3))
		}
		for axis := range 3 {
			if d := v.Position[axis] - []float32{4, 5, 4}[axis]; d != 0.5 && d != -0.5 {
				t.Errorf("vertex %v is not a corner of the block", v.Position)
			}
		}
	}
}

func TestBuildCullsSharedFaces(t *testing.T) {
	c := chunk.New(coord.ChunkPos{})
	place(c, 4, 5, 4, block.Stone)
	place(c, 5, 5, 4, block.Dirt)

	m := Build(c, nil)
	if got := m.Opaque.Len() / 6; got != 10 {
		t.Errorf("faces = %d, want 10", got)
	}
}

func TestBuildFloorFacesSkipped(t *testing.T) {
	c := chunk.New(coord.ChunkPos{})
	place(c, 0, 0, 0, block.Sand)

	m := Build(c, nil)
	for _, v := range m.Opaque.Vertices {
		if v.Normal == [3]float32{0, -1, 0} {
			t.Fatal("bottom face emitted at the world floor")
		}
	}
	if got := m.Opaque.Len() / 6; got != 5 {
		t.Errorf("faces = %d, want 5", got)
	}
}

func TestBuildSeparatesWater(t *testing.T) {
	c := chunk.New(coord.ChunkPos{})
	place(c, 1, 0, 1, block.Stone)
	place(c, 1, 1, 1, block.Water)

	m := Build(c, nil)
	// Stone: four sides and a top under water.
	if got := m.Opaque.Len() / 6; got != 5 {
		t.Errorf("opaque faces = %d, want 5", got)
	}
	// Water: four sides and a top; its bottom rests on stone.
	if got := m.Translucent.Len() / 6; got != 5 {
		t.Errorf("translucent faces = %d, want 5", got)
	}
	for _, v := range m.Translucent.Vertices {
		if v.Normal == [3]float32{0, -1, 0} {
			t.Error("water face against stone emitted")
		}
	}
}

func TestBuildAdjacentWaterCulled(t *testing.T) {
	c := chunk.New(coord.ChunkPos{})
	place(c, 3, 2, 3, block.Water)
	place(c, 4, 2, 3, block.Water)

	m := Build(c, nil)
	if got := m.Translucent.Len() / 6; got != 10 {
		t.Errorf("translucent faces = %d, want 10", got)
	}
}

func TestBuildCrossChunkNeighbour(t *testing.T) {
	c := chunk.New(coord.ChunkPos{X: 0, Z: 0})
	place(c, 15, 5, 0, block.Stone)
	east := chunk.New(coord.ChunkPos{X: 1, Z: 0})
	place(east, 0, 5, 0, block.Stone)

	if got := Build(c, nil).Opaque.Len() / 6; got != 6 {
		t.Errorf("faces without neighbour = %d, want 6", got)
	}
	m := Build(c, []*chunk.Chunk{east})
	if got := m.Opaque.Len() / 6; got != 5 {
		t.Errorf("faces with neighbour = %d, want 5", got)
	}
	for _, v := range m.Opaque.Vertices {
		if v.Normal == [3]float32{1, 0, 0} {
			t.Error("face against the neighbouring chunk emitted")
		}
	}
}

func TestBuildAOFromNeighbour(t *testing.T) {
	c := chunk.New(coord.ChunkPos{})
	place(c, 5, 5, 5, block.Stone)
	place(c, 6, 6, 5, block.Stone)

	m := Build(c, nil)
	var checked int
	for _, v := range m.Opaque.Vertices {
		if v.Normal != [3]float32{0, 1, 0} || v.Position[1] != 5.5 {
			continue
		}
		checked++
		want := ConvertAO(3)
		if v.Position[0] == 5.5 {
			want = ConvertAO(2)
		}
		if v.AO != want {
			t.Errorf("top vertex %v AO = %v, want %v", v.Position, v.AO, want)
		}
	}
	if checked != 4 {
		t.Errorf("checked %d top vertices, want 4", checked)
	}
}

func TestWaterDoesNotOcclude(t *testing.T) {
	c := chunk.New(coord.ChunkPos{})
	place(c, 5, 5, 5, block.Stone)
	place(c, 6, 6, 5, block.Water)

	for _, v := range Build(c, nil).Opaque.Vertices {
		if v.AO != ConvertAO(3) {
			t.Errorf("vertex %v AO = %v, want %v", v.Position, v.AO, ConvertAO(3))
		}
	}
}

func TestNeighboursBlockAt(t *testing.T) {
	west := chunk.New(coord.ChunkPos{X: -1, Z: 0})
	place(west, 15, 2, 3, block.Wood)
	n := Neighbours{west}

	if b := n.BlockAt(mgl32.Vec3{-1, 2, 3}); b == nil || b.Type() != block.Wood {
		t.Errorf("BlockAt(-1, 2, 3) = %v, want wood", b)
	}
	if b := n.BlockAt(mgl32.Vec3{40, 2, 3}); b != nil {
		t.Errorf("BlockAt in missing chunk = %v, want nil", b)
	}
}

func TestEncodeVertices(t *testing.T) {
	v := Vertex{
		Position:  [3]float32{1, 2, 3},
		Normal:    [3]float32{0, 1, 0},
		TexCoords: [2]float32{0.25, 0.5},
		AO:        0.75,
	}
	buf := EncodeVertices([]Vertex{v, v})
	if len(buf) != 2*VertexSize {
		t.Fatalf("len = %d, want %d", len(buf), 2*VertexSize)
	}
	for _, a := range VertexLayout {
		if a.Offset+a.Components*4 > VertexSize {
			t.Errorf("attribute %d overruns stride", a.Location)
		}
	}
	ao := math.Float32frombits(binary.LittleEndian.Uint32(buf[VertexLayout[3].Offset:]))
	if ao != 0.75 {
		t.Errorf("encoded AO = %v, want 0.75", ao)
	}
	u := math.Float32frombits(binary.LittleEndian.Uint32(buf[VertexSize+VertexLayout[2].Offset:]))
	if u != 0.25 {
		t.Errorf("second vertex u = %v, want 0.25", u)
	}

	if got := EncodeIndices([]uint32{1, 2, 3}); len(got) != 12 || binary.LittleEndian.Uint32(got[8:]) != 3 {
		t.Errorf("EncodeIndices = %v", got)
	}
}

func TestUpload(t *testing.T) {
	c := chunk.New(coord.ChunkPos{X: 2, Z: 2})
	place(c, 1, 3, 1, block.Dirt)

	m := Build(c, nil)
	dev := &MemoryDevice{}
	g, err := Upload(dev, m)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if g.OpaqueIndexCount != 36 {
		t.Errorf("OpaqueIndexCount = %d, want 36", g.OpaqueIndexCount)
	}
	if g.TranslucentVertices != nil || g.TranslucentIndexCount != 0 {
		t.Error("translucent buffers allocated for empty stream")
	}
	alloc := dev.Allocated()
	if alloc[VertexBuffer] != 24*VertexSize {
		t.Errorf("vertex bytes = %d, want %d", alloc[VertexBuffer], 24*VertexSize)
	}
	if alloc[IndexBuffer] != 36*4 {
		t.Errorf("index bytes = %d, want %d", alloc[IndexBuffer], 36*4)
	}
}

type failingDevice struct{}

var errFull = errors.New("out of memory")

func (failingDevice) CreateBuffer(string, BufferUsage, []byte) (Buffer, error) {
	return nil, errFull
}

func TestUploadErrors(t *testing.T) {
	c := chunk.New(coord.ChunkPos{})
	place(c, 1, 1, 1, block.Stone)
	m := Build(c, nil)

	if _, err := Upload(failingDevice{}, m); !errors.Is(err, errFull) {
		t.Errorf("Upload error = %v, want %v", err, errFull)
	}

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrNoDevice) {
			t.Errorf("recover() = %v, want error wrapping ErrNoDevice", r)
		}
	}()
	_, _ = Upload(nil, m)
	t.Error("Upload(nil) did not panic")
}
