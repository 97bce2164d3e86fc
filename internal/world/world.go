// Package world keeps the loaded chunks of a voxel world and coordinates
// generation, persistence, meshing and block edits across them.
package world

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-world/internal/storage"
	"github.com/OCharnyshevich/voxel-world/pkg/world/block"
	"github.com/OCharnyshevich/voxel-world/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
	"github.com/OCharnyshevich/voxel-world/pkg/world/gen"
	"github.com/OCharnyshevich/voxel-world/pkg/world/mesh"
	"github.com/OCharnyshevich/voxel-world/pkg/world/visibility"
)

// ErrBelowWorld is returned for edits at negative heights.
var ErrBelowWorld = errors.New("position below world floor")

// Store persists and restores chunks.
type Store interface {
	storage.Saveable
	storage.Loadable
}

// Option configures a World.
type Option func(*World)

// WithStore makes the world load chunks from s before generating them and
// enables Save.
func WithStore(s Store) Option {
	return func(w *World) { w.store = s }
}

// WithWorkers sets the worker pool size used by GenerateRadius and
// BuildMeshes.
func WithWorkers(n int) Option {
	return func(w *World) {
		if n > 0 {
			w.workers = n
		}
	}
}

// World tracks loaded chunks with a generator for missing ones.
type World struct {
	log       *slog.Logger
	generator *gen.Generator
	store     Store
	workers   int
	pool      pond.Pool

	mu     sync.RWMutex
	chunks map[coord.ChunkPos]*chunk.Chunk
	// pending maps an unloaded chunk to the loaded chunks whose outside
	// queues still hold blocks for it. The blocks stay on the source chunk
	// until delivered so they are saved with it.
	pending map[coord.ChunkPos]map[coord.ChunkPos]struct{}
	dirty   map[coord.ChunkPos]struct{}
	meshes  map[coord.ChunkPos]*mesh.ChunkMesh
}

// New creates a World around generator. A nil log discards output.
func New(generator *gen.Generator, log *slog.Logger, opts ...Option) *World {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w := &World{
		log:       log,
		generator: generator,
		workers:   4,
		chunks:    make(map[coord.ChunkPos]*chunk.Chunk),
		pending:   make(map[coord.ChunkPos]map[coord.ChunkPos]struct{}),
		dirty:     make(map[coord.ChunkPos]struct{}),
		meshes:    make(map[coord.ChunkPos]*mesh.ChunkMesh),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.pool = pond.NewPool(w.workers)
	return w
}

// Close stops the worker pool.
func (w *World) Close() {
	w.pool.StopAndWait()
}

// Chunk returns the loaded chunk at pos.
func (w *World) Chunk(pos coord.ChunkPos) (*chunk.Chunk, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.chunks[pos]
	return c, ok
}

// Len returns the number of loaded chunks.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// Chunks returns the loaded chunks ordered by position.
func (w *World) Chunks() []*chunk.Chunk {
	w.mu.RLock()
	out := make([]*chunk.Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		out = append(out, c)
	}
	w.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Pos(), out[j].Pos()
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Z < b.Z
	})
	return out
}

// GetOrGenerateChunk returns the chunk at pos, loading it from the store or
// generating it if needed.
func (w *World) GetOrGenerateChunk(pos coord.ChunkPos) *chunk.Chunk {
	w.mu.RLock()
	if c, ok := w.chunks[pos]; ok {
		w.mu.RUnlock()
		return c
	}
	w.mu.RUnlock()

	c := w.loadOrGenerate(pos)

	w.mu.Lock()
	defer w.mu.Unlock()
	// Double-check after acquiring write lock.
	if existing, ok := w.chunks[pos]; ok {
		return existing
	}
	w.insertLocked(c)
	return c
}

func (w *World) loadOrGenerate(pos coord.ChunkPos) *chunk.Chunk {
	if w.store != nil {
		c, err := w.store.LoadChunk(pos)
		if err == nil {
			w.log.Debug("loaded chunk", "chunk", pos)
			return c
		}
		if !errors.Is(err, storage.ErrChunkNotFound) {
			w.log.Warn("load chunk failed, regenerating", "chunk", pos, "error", err)
		}
	}
	c := w.generator.Generate(pos)
	w.log.Debug("generated chunk", "chunk", pos, "outside", len(c.OutsideBlocks()))
	return c
}

// insertLocked adds c to the map, pulls the blocks other chunks queued for
// it and delivers its own outside blocks to loaded targets. Delivery takes the
// block off the source queue and marks both chunks modified, so a delivered
// block is never applied twice. Caller holds w.mu.
func (w *World) insertLocked(c *chunk.Chunk) {
	pos := c.Pos()
	w.chunks[pos] = c
	w.dirty[pos] = struct{}{}

	for src := range w.pending[pos] {
		if s, ok := w.chunks[src]; ok {
			w.deliverLocked(s, c)
		}
	}
	delete(w.pending, pos)

	for _, b := range c.OutsideBlocks() {
		target := b.ChunkPos()
		if t, ok := w.chunks[target]; ok {
			w.deliverLocked(c, t)
			continue
		}
		if w.pending[target] == nil {
			w.pending[target] = make(map[coord.ChunkPos]struct{})
		}
		w.pending[target][pos] = struct{}{}
	}

	// Loaded neighbours get new border faces culled against c.
	for _, n := range neighbourOffsets {
		if _, ok := w.chunks[pos.Add(n[0], n[1])]; ok {
			w.dirty[pos.Add(n[0], n[1])] = struct{}{}
		}
	}
}

// deliverLocked moves the blocks src queued for dst into dst.
func (w *World) deliverLocked(src, dst *chunk.Chunk) {
	blocks := src.TakeOutsideBlocksFor(dst.Pos())
	for _, b := range blocks {
		dst.AddBlock(b, true)
	}
	if len(blocks) > 0 {
		w.dirty[dst.Pos()] = struct{}{}
	}
}

// neighbourOffsets lists the eight chunks around a chunk.
var neighbourOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// PendingLen returns the number of blocks waiting for an unloaded chunk.
func (w *World) PendingLen() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := 0
	for _, c := range w.chunks {
		n += len(c.OutsideBlocks())
	}
	return n
}

// GenerateRadius makes sure every chunk within radius chunks of center is
// loaded, using the worker pool.
func (w *World) GenerateRadius(ctx context.Context, center coord.ChunkPos, radius int) error {
	group := w.pool.NewGroupContext(ctx)
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			pos := center.Add(dx, dz)
			group.Submit(func() {
				w.GetOrGenerateChunk(pos)
			})
		}
	}
	if err := group.Wait(); err != nil {
		return fmt.Errorf("generate radius %d around %v: %w", radius, center, err)
	}
	w.log.Info("generated chunks", "center", center, "radius", radius, "loaded", w.Len())
	return nil
}

// UpdateVisibility flags every loaded chunk against f and returns the number
// of visible chunks.
func (w *World) UpdateVisibility(f visibility.Frustum) int {
	visible := 0
	for _, c := range w.Chunks() {
		v := f.ChunkVisible(c.Pos())
		c.SetVisible(v)
		if v {
			visible++
		}
	}
	return visible
}

// BuildMeshes rebuilds the meshes of dirty chunks on the worker pool. With
// visibleOnly set, hidden chunks stay dirty for a later pass. It returns the
// number of meshes built.
func (w *World) BuildMeshes(ctx context.Context, visibleOnly bool) (int, error) {
	type job struct {
		c          *chunk.Chunk
		neighbours []*chunk.Chunk
	}

	w.mu.Lock()
	var jobs []job
	for pos := range w.dirty {
		c := w.chunks[pos]
		if c == nil {
			delete(w.dirty, pos)
			continue
		}
		if visibleOnly && !c.Visible() {
			continue
		}
		j := job{c: c}
		for _, n := range neighbourOffsets {
			if nc, ok := w.chunks[pos.Add(n[0], n[1])]; ok {
				j.neighbours = append(j.neighbours, nc)
			}
		}
		jobs = append(jobs, j)
		delete(w.dirty, pos)
	}
	w.mu.Unlock()

	results := make([]*mesh.ChunkMesh, len(jobs))
	group := w.pool.NewGroupContext(ctx)
	for i, j := range jobs {
		group.Submit(func() {
			results[i] = mesh.Build(j.c, j.neighbours)
		})
	}
	err := group.Wait()

	w.mu.Lock()
	built := 0
	for i, m := range results {
		if m == nil {
			// Cancelled before it ran.
			w.dirty[jobs[i].c.Pos()] = struct{}{}
			continue
		}
		w.meshes[m.Pos] = m
		built++
	}
	w.mu.Unlock()

	if err != nil {
		return built, fmt.Errorf("build meshes: %w", err)
	}
	w.log.Debug("built meshes", "count", built)
	return built, nil
}

// Mesh returns the last mesh built for pos.
func (w *World) Mesh(pos coord.ChunkPos) (*mesh.ChunkMesh, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	m, ok := w.meshes[pos]
	return m, ok
}

// VisibleMeshes returns the meshes of visible chunks ordered by position.
func (w *World) VisibleMeshes() []*mesh.ChunkMesh {
	var out []*mesh.ChunkMesh
	for _, c := range w.Chunks() {
		if !c.Visible() {
			continue
		}
		if m, ok := w.Mesh(c.Pos()); ok {
			out = append(out, m)
		}
	}
	return out
}

// BlockAt returns the block at absolute position p, generating its chunk if
// needed.
func (w *World) BlockAt(p mgl32.Vec3) *block.Block {
	if p.Y() < 0 {
		return nil
	}
	c := w.GetOrGenerateChunk(coord.ChunkFromAbsolute(p))
	return c.BlockAt(coord.RelativeFromAbsolute(p))
}

// SetBlock places a block of type t at absolute position p, replacing any
// existing block.
func (w *World) SetBlock(p mgl32.Vec3, t block.Type) (*block.Block, error) {
	if p.Y() < 0 {
		return nil, fmt.Errorf("set block at %v: %w", p, ErrBelowWorld)
	}
	x, y, z := coord.Floor(p)
	b := block.NewAbsolute(coord.Vec(x, y, z), t)
	c := w.GetOrGenerateChunk(b.ChunkPos())
	c.AddBlock(b, true)
	w.markEdited(b)
	return b, nil
}

// RemoveBlock clears the cell at absolute position p and returns the block
// that was there, or nil if the cell was already empty.
func (w *World) RemoveBlock(p mgl32.Vec3) (*block.Block, error) {
	if p.Y() < 0 {
		return nil, fmt.Errorf("remove block at %v: %w", p, ErrBelowWorld)
	}
	c := w.GetOrGenerateChunk(coord.ChunkFromAbsolute(p))
	old := c.BlockAt(coord.RelativeFromAbsolute(p))
	if old == nil {
		return nil, nil
	}
	c.RemoveBlock(old.Position())
	w.markEdited(old)
	return old, nil
}

// markEdited flags the chunk holding b and any neighbour sharing a face with
// it for re-meshing.
func (w *World) markEdited(b *block.Block) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirty[b.ChunkPos()] = struct{}{}
	for _, pos := range b.NeighbourChunks() {
		if _, ok := w.chunks[pos]; ok {
			w.dirty[pos] = struct{}{}
		}
	}
}

// DirtyLen returns the number of chunks waiting to be re-meshed.
func (w *World) DirtyLen() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.dirty)
}

// Save writes modified chunks to the store, or every loaded chunk when all
// is set. Without a store it does nothing.
func (w *World) Save(all bool) (int, error) {
	if w.store == nil {
		return 0, nil
	}
	var batch []*chunk.Chunk
	for _, c := range w.Chunks() {
		if all || c.Modified() {
			batch = append(batch, c)
		}
	}
	if err := w.store.SaveChunks(batch); err != nil {
		return 0, fmt.Errorf("save world: %w", err)
	}
	if len(batch) > 0 {
		w.log.Info("saved chunks", "count", len(batch))
	}
	return len(batch), nil
}

// SpawnHeight returns the terrain height at the world origin + 1.
func (w *World) SpawnHeight() int {
	return w.generator.HeightAt(0, 0) + 1
}
