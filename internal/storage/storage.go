// Package storage persists chunks and world metadata under a directory.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/OCharnyshevich/voxel-world/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
)

var (
	// ErrChunkNotFound is returned by Load for chunks that were never saved.
	ErrChunkNotFound = errors.New("chunk not found")
	// ErrCorrupt is returned when stored data cannot be decoded.
	ErrCorrupt = errors.New("corrupt chunk data")
	// ErrSeedMismatch is returned by Open when the directory belongs to a
	// world generated with a different seed.
	ErrSeedMismatch = errors.New("seed mismatch")
)

// Backend names accepted by Open.
const (
	BackendRegion  = "region"
	BackendLevelDB = "leveldb"
)

// Backend stores encoded chunk payloads by position.
type Backend interface {
	Put(chunks map[coord.ChunkPos][]byte) error
	Get(pos coord.ChunkPos) ([]byte, error)
	Close() error
}

// Saveable is implemented by anything that can persist chunks.
type Saveable interface {
	SaveChunks(chunks []*chunk.Chunk) error
}

// Loadable is implemented by anything that can restore chunks.
type Loadable interface {
	LoadChunk(pos coord.ChunkPos) (*chunk.Chunk, error)
}

// Level is the world metadata stored in level.json.
type Level struct {
	ID        string    `json:"id"`
	Seed      int64     `json:"seed"`
	Backend   string    `json:"backend"`
	CreatedAt time.Time `json:"created_at"`
	SavedAt   time.Time `json:"saved_at"`
}

// Storage handles file-based persistence for chunks and world metadata.
type Storage struct {
	dir     string
	log     *slog.Logger
	backend Backend
	level   Level
}

// Open prepares dir for the world with the given seed, creating level.json
// on first use. Reopening a directory with another seed or backend fails.
func Open(dir, backend string, seed int64, log *slog.Logger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}

	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Storage{dir: dir, log: log}
	level, err := s.readLevel()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		level = Level{
			ID:        uuid.NewString(),
			Seed:      seed,
			Backend:   backend,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.writeLevel(level); err != nil {
			return nil, err
		}
		log.Info("created world", "id", level.ID, "dir", dir, "backend", backend)
	case err != nil:
		return nil, err
	default:
		if level.Seed != seed {
			return nil, fmt.Errorf("open world %s: stored seed %d, got %d: %w", level.ID, level.Seed, seed, ErrSeedMismatch)
		}
		if level.Backend != backend {
			return nil, fmt.Errorf("open world %s: stored backend %q, got %q", level.ID, level.Backend, backend)
		}
		log.Info("opened world", "id", level.ID, "dir", dir, "backend", backend)
	}
	s.level = level

	switch backend {
	case BackendRegion:
		s.backend = newRegionBackend(filepath.Join(dir, "region"))
	case BackendLevelDB:
		b, err := newLevelDBBackend(filepath.Join(dir, "db"))
		if err != nil {
			return nil, err
		}
		s.backend = b
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
	return s, nil
}

// Level returns the world metadata.
func (s *Storage) Level() Level {
	return s.level
}

// SaveChunks encodes and writes chunks, then clears their modified flags.
func (s *Storage) SaveChunks(chunks []*chunk.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	payloads := make(map[coord.ChunkPos][]byte, len(chunks))
	for _, c := range chunks {
		data, err := EncodeChunk(c)
		if err != nil {
			return err
		}
		payloads[c.Pos()] = data
	}
	if err := s.backend.Put(payloads); err != nil {
		return fmt.Errorf("save chunks: %w", err)
	}
	for _, c := range chunks {
		c.ClearModified()
	}

	s.level.SavedAt = time.Now().UTC()
	if err := s.writeLevel(s.level); err != nil {
		return err
	}
	s.log.Debug("saved chunks", "count", len(chunks))
	return nil
}

// LoadChunk returns the stored chunk at pos, or ErrChunkNotFound.
func (s *Storage) LoadChunk(pos coord.ChunkPos) (*chunk.Chunk, error) {
	data, err := s.backend.Get(pos)
	if err != nil {
		return nil, err
	}
	c, savedAt, err := DecodeChunk(data)
	if err != nil {
		return nil, err
	}
	if c.Pos() != pos {
		return nil, fmt.Errorf("load chunk (%d,%d): stored position (%d,%d): %w", pos.X, pos.Z, c.Pos().X, c.Pos().Z, ErrCorrupt)
	}
	s.log.Debug("loaded chunk", "chunk", pos, "saved_at", savedAt)
	return c, nil
}

// Close releases the backend.
func (s *Storage) Close() error {
	return s.backend.Close()
}

func (s *Storage) levelPath() string {
	return filepath.Join(s.dir, "level.json")
}

func (s *Storage) readLevel() (Level, error) {
	var l Level
	data, err := os.ReadFile(s.levelPath())
	if err != nil {
		return l, fmt.Errorf("read level: %w", err)
	}
	if err := json.Unmarshal(data, &l); err != nil {
		return l, fmt.Errorf("parse level: %w", err)
	}
	return l, nil
}

func (s *Storage) writeLevel(l Level) error {
	return atomicWriteJSON(s.levelPath(), l)
}

// atomicWriteJSON marshals v to JSON and writes it atomically using a temp file + rename.
func atomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
