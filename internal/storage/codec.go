package storage

import (
	"bytes"
	"fmt"
	"time"

	"github.com/OCharnyshevich/voxel-world/pkg/world/block"
	"github.com/OCharnyshevich/voxel-world/pkg/world/chunk"
	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
	"github.com/OCharnyshevich/voxel-world/pkg/world/nbt"
)

const (
	// airID marks an empty cell inside a column.
	airID = 0xFF
	// chunkVersion is bumped whenever the Level layout changes.
	chunkVersion = 1
)

// EncodeChunk serializes c as an NBT compound. Each column is stored as a
// byte array of block IDs indexed by height. Pending outside blocks are kept
// as a flat int array of (x, y, z, id) quads in absolute coordinates.
func EncodeChunk(c *chunk.Chunk) ([]byte, error) {
	var buf bytes.Buffer
	w := nbt.NewWriter(&buf)

	pos := c.Pos()
	w.BeginCompound("")
	w.BeginCompound("Level")
	w.WriteTagByte("Version", chunkVersion)
	w.WriteInt("xPos", int32(pos.X))
	w.WriteInt("zPos", int32(pos.Z))
	w.WriteLong("LastUpdate", time.Now().Unix())

	heightMap := make([]int32, coord.ColumnCount)
	w.BeginList("Columns", nbt.TagByteArray, coord.ColumnCount)
	for x := 0; x < coord.ChunkSize; x++ {
		for z := 0; z < coord.ChunkSize; z++ {
			col := c.Column(x, z)
			ids := make([]byte, len(col))
			for y, b := range col {
				if b == nil {
					ids[y] = airID
					continue
				}
				ids[y] = byte(b.Type().ID())
				heightMap[coord.ColumnIndex(x, z)] = int32(y + 1)
			}
			w.ByteArrayElem(ids)
		}
	}
	w.WriteIntArray("HeightMap", heightMap)

	outside := c.OutsideBlocks()
	quads := make([]int32, 0, len(outside)*4)
	for _, b := range outside {
		x, y, z := coord.Floor(b.AbsolutePosition())
		quads = append(quads, int32(x), int32(y), int32(z), int32(b.Type().ID()))
	}
	w.WriteIntArray("Outside", quads)

	w.EndCompound() // Level
	w.EndCompound() // root

	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("encode chunk (%d,%d): %w", pos.X, pos.Z, err)
	}
	return buf.Bytes(), nil
}

// DecodeChunk rebuilds a chunk from EncodeChunk output and returns the time
// it was saved. The chunk is not marked modified.
func DecodeChunk(data []byte) (*chunk.Chunk, time.Time, error) {
	_, root, err := nbt.Read(bytes.NewReader(data))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("decode chunk: %w", err)
	}
	level, ok := root.Compound("Level")
	if !ok {
		return nil, time.Time{}, fmt.Errorf("decode chunk: missing Level: %w", ErrCorrupt)
	}
	if v, ok := level.Byte("Version"); !ok || v != chunkVersion {
		return nil, time.Time{}, fmt.Errorf("decode chunk: version %d, want %d: %w", v, chunkVersion, ErrCorrupt)
	}
	x, okX := level.Int("xPos")
	z, okZ := level.Int("zPos")
	if !okX || !okZ {
		return nil, time.Time{}, fmt.Errorf("decode chunk: missing position: %w", ErrCorrupt)
	}
	pos := coord.ChunkPos{X: int(x), Z: int(z)}

	columns, ok := level.List("Columns")
	if !ok || len(columns) != coord.ColumnCount {
		return nil, time.Time{}, fmt.Errorf("decode chunk (%d,%d): bad column list: %w", pos.X, pos.Z, ErrCorrupt)
	}

	c := chunk.New(pos)
	for i, v := range columns {
		ids, ok := v.([]byte)
		if !ok {
			return nil, time.Time{}, fmt.Errorf("decode chunk (%d,%d): column %d: %w", pos.X, pos.Z, i, ErrCorrupt)
		}
		cx, cz := i/coord.ChunkSize, i%coord.ChunkSize
		for y, id := range ids {
			if id == airID {
				continue
			}
			if uint32(id) > block.MaxID {
				return nil, time.Time{}, fmt.Errorf("decode chunk (%d,%d): block id %d: %w", pos.X, pos.Z, id, block.ErrInvalidID)
			}
			c.AddBlock(block.New(coord.Vec(cx, y, cz), pos, block.FromID(uint32(id))), false)
		}
	}

	if quads, ok := level.IntArray("Outside"); ok {
		if len(quads)%4 != 0 {
			return nil, time.Time{}, fmt.Errorf("decode chunk (%d,%d): outside blocks: %w", pos.X, pos.Z, ErrCorrupt)
		}
		for i := 0; i < len(quads); i += 4 {
			id := uint32(quads[i+3])
			if id > block.MaxID {
				return nil, time.Time{}, fmt.Errorf("decode chunk (%d,%d): block id %d: %w", pos.X, pos.Z, id, block.ErrInvalidID)
			}
			p := coord.Vec(int(quads[i]), int(quads[i+1]), int(quads[i+2]))
			c.AddOutsideBlock(block.NewAbsolute(p, block.FromID(id)))
		}
	}

	var savedAt time.Time
	if ts, ok := level.Long("LastUpdate"); ok {
		savedAt = time.Unix(ts, 0)
	}
	return c, savedAt, nil
}
