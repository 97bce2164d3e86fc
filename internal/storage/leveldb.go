package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/opt"

	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
)

// levelDBBackend keeps one key per chunk: the little-endian chunk X and Z
// followed by a tag byte.
type levelDBBackend struct {
	db *leveldb.DB
}

const chunkTag byte = 'c'

func newLevelDBBackend(dir string) (*levelDBBackend, error) {
	db, err := leveldb.OpenFile(dir, &opt.Options{
		Compression: opt.SnappyCompression,
	})
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", dir, err)
	}
	return &levelDBBackend{db: db}, nil
}

func chunkKey(pos coord.ChunkPos) []byte {
	key := make([]byte, 0, 9)
	key = binary.LittleEndian.AppendUint32(key, uint32(int32(pos.X)))
	key = binary.LittleEndian.AppendUint32(key, uint32(int32(pos.Z)))
	return append(key, chunkTag)
}

func (b *levelDBBackend) Put(chunks map[coord.ChunkPos][]byte) error {
	batch := new(leveldb.Batch)
	for pos, data := range chunks {
		batch.Put(chunkKey(pos), data)
	}
	if err := b.db.Write(batch, nil); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	return nil
}

func (b *levelDBBackend) Get(pos coord.ChunkPos) ([]byte, error) {
	data, err := b.db.Get(chunkKey(pos), nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return nil, fmt.Errorf("chunk (%d,%d): %w", pos.X, pos.Z, ErrChunkNotFound)
	case err != nil:
		return nil, fmt.Errorf("get chunk (%d,%d): %w", pos.X, pos.Z, err)
	}
	return data, nil
}

func (b *levelDBBackend) Close() error {
	return b.db.Close()
}
