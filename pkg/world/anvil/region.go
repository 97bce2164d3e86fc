// Package anvil stores chunk payloads in 32x32-chunk region files made of
// 4 KiB sectors.
package anvil

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/OCharnyshevich/voxel-world/pkg/world/coord"
)

const (
	sectorSize      = 4096
	headerSectors   = 2 // location table + timestamp table
	compressionZlib = 2

	// RegionSize is the number of chunks along each side of a region.
	RegionSize = 32
)

// ErrCorrupt is returned when a region file's tables or payloads are
// inconsistent.
var ErrCorrupt = errors.New("corrupt region file")

// RegionOf returns the region containing chunk pos.
func RegionOf(pos coord.ChunkPos) (rx, rz int) {
	return pos.X >> 5, pos.Z >> 5
}

// Path returns the file name of region (rx, rz) under dir.
func Path(dir string, rx, rz int) string {
	return filepath.Join(dir, fmt.Sprintf("r.%d.%d.mca", rx, rz))
}

func slot(pos coord.ChunkPos) int {
	return (pos.X & 31) + (pos.Z&31)*RegionSize
}

// SaveRegion writes chunks, keyed by chunk position, as region (rx, rz).
// Payloads are stored zlib-compressed. The file is replaced atomically.
func SaveRegion(dir string, rx, rz int, chunks map[coord.ChunkPos][]byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create region dir: %w", err)
	}

	locations := make([]byte, sectorSize)
	timestamps := make([]byte, sectorSize)
	now := uint32(time.Now().Unix())

	var dataBuf bytes.Buffer
	currentSector := uint32(headerSectors)

	for pos, payload := range chunks {
		if r, z := RegionOf(pos); r != rx || z != rz {
			return fmt.Errorf("chunk (%d,%d) is not in region (%d,%d)", pos.X, pos.Z, rx, rz)
		}

		var cbuf bytes.Buffer
		zw := zlib.NewWriter(&cbuf)
		if _, err := zw.Write(payload); err != nil {
			return fmt.Errorf("compress chunk (%d,%d): %w", pos.X, pos.Z, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("close zlib writer: %w", err)
		}

		// Length field, compression byte, compressed data, padded to a sector.
		payloadLen := uint32(cbuf.Len()) + 1
		totalLen := 4 + payloadLen
		sectorCount := (totalLen + sectorSize - 1) / sectorSize
		if sectorCount > 0xFF {
			return fmt.Errorf("chunk (%d,%d) needs %d sectors", pos.X, pos.Z, sectorCount)
		}

		off := slot(pos) * 4
		binary.BigEndian.PutUint32(locations[off:off+4], (currentSector<<8)|sectorCount)
		binary.BigEndian.PutUint32(timestamps[off:off+4], now)

		var header [5]byte
		binary.BigEndian.PutUint32(header[0:4], payloadLen)
		header[4] = compressionZlib
		dataBuf.Write(header[:])
		dataBuf.Write(cbuf.Bytes())
		if pad := int(sectorCount)*sectorSize - int(totalLen); pad > 0 {
			dataBuf.Write(make([]byte, pad))
		}

		currentSector += sectorCount
	}

	path := Path(dir, rx, rz)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp region file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmp)
	}()

	for _, part := range [][]byte{locations, timestamps, dataBuf.Bytes()} {
		if _, err := f.Write(part); err != nil {
			return fmt.Errorf("write region file: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close region file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename region file: %w", err)
	}
	return nil
}

// LoadRegion reads every chunk payload stored in region (rx, rz). A missing
// file yields an error satisfying errors.Is(err, fs.ErrNotExist).
func LoadRegion(dir string, rx, rz int) (map[coord.ChunkPos][]byte, error) {
	data, err := os.ReadFile(Path(dir, rx, rz))
	if err != nil {
		return nil, fmt.Errorf("read region (%d,%d): %w", rx, rz, err)
	}
	if len(data) < headerSectors*sectorSize {
		return nil, fmt.Errorf("region (%d,%d) header truncated: %w", rx, rz, ErrCorrupt)
	}

	out := make(map[coord.ChunkPos][]byte)
	for i := 0; i < RegionSize*RegionSize; i++ {
		loc := binary.BigEndian.Uint32(data[i*4 : i*4+4])
		if loc == 0 {
			continue
		}
		pos := coord.ChunkPos{X: rx*RegionSize + i%RegionSize, Z: rz*RegionSize + i/RegionSize}

		start := int(loc>>8) * sectorSize
		end := start + int(loc&0xFF)*sectorSize
		if start < headerSectors*sectorSize || end > len(data) || end-start < 5 {
			return nil, fmt.Errorf("chunk (%d,%d) location out of range: %w", pos.X, pos.Z, ErrCorrupt)
		}
		sector := data[start:end]

		n := int(binary.BigEndian.Uint32(sector[0:4]))
		if n < 1 || 4+n > len(sector) {
			return nil, fmt.Errorf("chunk (%d,%d) length %d: %w", pos.X, pos.Z, n, ErrCorrupt)
		}
		if sector[4] != compressionZlib {
			return nil, fmt.Errorf("chunk (%d,%d) compression %d: %w", pos.X, pos.Z, sector[4], ErrCorrupt)
		}

		zr, err := zlib.NewReader(bytes.NewReader(sector[5 : 4+n]))
		if err != nil {
			return nil, fmt.Errorf("open chunk (%d,%d): %w", pos.X, pos.Z, err)
		}
		payload, err := io.ReadAll(zr)
		zr.Close()
		if err != nil {
			return nil, fmt.Errorf("decompress chunk (%d,%d): %w", pos.X, pos.Z, err)
		}
		out[pos] = payload
	}
	return out, nil
}
