package mesh

import (
	"errors"
	"fmt"
	"sync"

	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
)

// ErrNoDevice is wrapped by the panic raised when Upload is given no device.
var ErrNoDevice = errors.New("no render device")

// BufferUsage tells the device how a buffer will be bound.
type BufferUsage uint8

const (
	VertexBuffer BufferUsage = iota
	IndexBuffer
)

func (u BufferUsage) String() string {
	if u == IndexBuffer {
		return "index"
	}
	return "vertex"
}

// Buffer is a device allocation.
type Buffer interface {
	Size() int
}

// Device allocates GPU-visible buffers initialised from raw bytes.
type Device interface {
	CreateBuffer(label string, usage BufferUsage, contents []byte) (Buffer, error)
}

// GPUMesh holds the uploaded buffers of a chunk. Buffers of an empty stream
// are nil.
type GPUMesh struct {
	Pos coord.ChunkPos

	OpaqueVertices   Buffer
	OpaqueIndices    Buffer
	OpaqueIndexCount uint32

	TranslucentVertices   Buffer
	TranslucentIndices    Buffer
	TranslucentIndexCount uint32
}

// Upload allocates the buffers for m on d. It panics with ErrNoDevice if d
// is nil.
func Upload(d Device, m *ChunkMesh) (*GPUMesh, error) {
	if d == nil {
		panic(fmt.Errorf("upload chunk %v: %w", m.Pos, ErrNoDevice))
	}

	out := &GPUMesh{Pos: m.Pos}
	var err error
	out.OpaqueVertices, out.OpaqueIndices, err = uploadStream(d, m.Pos, "opaque", &m.Opaque)
	if err != nil {
		return nil, err
	}
	out.OpaqueIndexCount = uint32(m.Opaque.Len())

	out.TranslucentVertices, out.TranslucentIndices, err = uploadStream(d, m.Pos, "translucent", &m.Translucent)
	if err != nil {
		return nil, err
	}
	out.TranslucentIndexCount = uint32(m.Translucent.Len())
	return out, nil
}

func uploadStream(d Device, pos coord.ChunkPos, pass string, s *Stream) (Buffer, Buffer, error) {
	if s.Empty() {
		return nil, nil, nil
	}
	label := fmt.Sprintf("chunk %d,%d %s", pos.X, pos.Z, pass)

	vb, err := d.CreateBuffer(label+" vertices", VertexBuffer, EncodeVertices(s.Vertices))
	if err != nil {
		return nil, nil, fmt.Errorf("create %s vertex buffer: %w", pass, err)
	}
	ib, err := d.CreateBuffer(label+" indices", IndexBuffer, EncodeIndices(s.Indices))
	if err != nil {
		return nil, nil, fmt.Errorf("create %s index buffer: %w", pass, err)
	}
	return vb, ib, nil
}

// MemoryDevice is a Device that keeps buffers in host memory. It is used by
// headless tools and tests.
type MemoryDevice struct {
	mu      sync.Mutex
	buffers []*MemoryBuffer
}

// MemoryBuffer is a buffer created by MemoryDevice.
type MemoryBuffer struct {
	Label string
	Usage BufferUsage
	Data  []byte
}

// Size returns the buffer length in bytes.
func (b *MemoryBuffer) Size() int { return len(b.Data) }

// CreateBuffer copies contents into a new MemoryBuffer.
func (d *MemoryDevice) CreateBuffer(label string, usage BufferUsage, contents []byte) (Buffer, error) {
	buf := &MemoryBuffer{Label: label, Usage: usage, Data: append([]byte(nil), contents...)}
	d.mu.Lock()
	d.buffers = append(d.buffers, buf)
	d.mu.Unlock()
	return buf, nil
}

// Allocated returns the total bytes held per usage.
func (d *MemoryDevice) Allocated() map[BufferUsage]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[BufferUsage]int)
	for _, b := range d.buffers {
		out[b.Usage] += len(b.Data)
	}
	return out
}
