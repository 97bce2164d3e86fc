package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/OCharnyshevich/voxel-world/pkg/world/anvil"
	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
)

// regionBackend keeps chunks in 32x32 region files. Writing a chunk rewrites
// its whole region.
type regionBackend struct {
	dir string
	mu  sync.Mutex
}

func newRegionBackend(dir string) *regionBackend {
	return &regionBackend{dir: dir}
}

type regionKey struct{ x, z int }

func (b *regionBackend) Put(chunks map[coord.ChunkPos][]byte) error {
	byRegion := make(map[regionKey]map[coord.ChunkPos][]byte)
	for pos, data := range chunks {
		rx, rz := anvil.RegionOf(pos)
		k := regionKey{rx, rz}
		if byRegion[k] == nil {
			byRegion[k] = make(map[coord.ChunkPos][]byte)
		}
		byRegion[k][pos] = data
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for k, updates := range byRegion {
		existing, err := anvil.LoadRegion(b.dir, k.x, k.z)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if existing == nil {
			existing = make(map[coord.ChunkPos][]byte, len(updates))
		}
		for pos, data := range updates {
			existing[pos] = data
		}
		if err := anvil.SaveRegion(b.dir, k.x, k.z, existing); err != nil {
			return err
		}
	}
	return nil
}

func (b *regionBackend) Get(pos coord.ChunkPos) ([]byte, error) {
	rx, rz := anvil.RegionOf(pos)

	b.mu.Lock()
	chunks, err := anvil.LoadRegion(b.dir, rx, rz)
	b.mu.Unlock()

	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("chunk (%d,%d): %w", pos.X, pos.Z, ErrChunkNotFound)
	}
	if errors.Is(err, anvil.ErrCorrupt) {
		return nil, fmt.Errorf("chunk (%d,%d): %v: %w", pos.X, pos.Z, err, ErrCorrupt)
	}
	if err != nil {
		return nil, err
	}
	data, ok := chunks[pos]
	if !ok {
		return nil, fmt.Errorf("chunk (%d,%d): %w", pos.X, pos.Z, ErrChunkNotFound)
	}
	return data, nil
}

func (b *regionBackend) Close() error { return nil }
