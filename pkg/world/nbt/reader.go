package nbt

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrMalformed is returned for payloads that are not valid NBT.
var ErrMalformed = errors.New("malformed nbt")

// maxLen bounds array and list lengths accepted by the reader.
const maxLen = 1 << 24

// maxDepth bounds compound and list nesting.
const maxDepth = 64

// Compound is a decoded compound tag. Values are byte, int16, int32, int64,
// float32, float64, []byte, string, []any, Compound or []int32.
type Compound map[string]any

// Byte returns the byte tag name.
func (c Compound) Byte(name string) (byte, bool) {
	v, ok := c[name].(byte)
	return v, ok
}

// Int returns the int tag name.
func (c Compound) Int(name string) (int32, bool) {
	v, ok := c[name].(int32)
	return v, ok
}

// Long returns the long tag name.
func (c Compound) Long(name string) (int64, bool) {
	v, ok := c[name].(int64)
	return v, ok
}

// Compound returns the nested compound name.
func (c Compound) Compound(name string) (Compound, bool) {
	v, ok := c[name].(Compound)
	return v, ok
}

// List returns the list tag name.
func (c Compound) List(name string) ([]any, bool) {
	v, ok := c[name].([]any)
	return v, ok
}

// IntArray returns the int array tag name.
func (c Compound) IntArray(name string) ([]int32, bool) {
	v, ok := c[name].([]int32)
	return v, ok
}

type reader struct {
	r *bufio.Reader
}

// Read decodes one root compound from r and returns its name and contents.
func Read(r io.Reader) (string, Compound, error) {
	rd := &reader{r: bufio.NewReader(r)}

	tagType, err := rd.u8()
	if err != nil {
		return "", nil, fmt.Errorf("read root tag: %w", err)
	}
	if tagType != TagCompound {
		return "", nil, fmt.Errorf("root tag type %d: %w", tagType, ErrMalformed)
	}
	name, err := rd.str()
	if err != nil {
		return "", nil, fmt.Errorf("read root name: %w", err)
	}
	v, err := rd.payload(TagCompound, 0)
	if err != nil {
		return "", nil, err
	}
	return name, v.(Compound), nil
}

func (rd *reader) full(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rd.r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf, nil
}

func (rd *reader) u8() (byte, error) {
	b, err := rd.r.ReadByte()
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return b, err
}

func (rd *reader) u16() (uint16, error) {
	buf, err := rd.full(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

func (rd *reader) i32() (int32, error) {
	buf, err := rd.full(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(buf)), nil
}

func (rd *reader) i64() (int64, error) {
	buf, err := rd.full(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(buf)), nil
}

func (rd *reader) str() (string, error) {
	n, err := rd.u16()
	if err != nil {
		return "", err
	}
	buf, err := rd.full(int(n))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func (rd *reader) length() (int, error) {
	n, err := rd.i32()
	if err != nil {
		return 0, err
	}
	if n < 0 || n > maxLen {
		return 0, fmt.Errorf("length %d: %w", n, ErrMalformed)
	}
	return int(n), nil
}

func (rd *reader) payload(tagType byte, depth int) (any, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("nesting deeper than %d: %w", maxDepth, ErrMalformed)
	}

	switch tagType {
	case TagByte:
		return rd.u8()
	case TagShort:
		v, err := rd.u16()
		return int16(v), err
	case TagInt:
		return rd.i32()
	case TagLong:
		return rd.i64()
	case TagFloat:
		v, err := rd.i32()
		return math.Float32frombits(uint32(v)), err
	case TagDouble:
		v, err := rd.i64()
		return math.Float64frombits(uint64(v)), err
	case TagByteArray:
		n, err := rd.length()
		if err != nil {
			return nil, err
		}
		return rd.full(n)
	case TagString:
		return rd.str()
	case TagIntArray:
		n, err := rd.length()
		if err != nil {
			return nil, err
		}
		out := make([]int32, n)
		for i := range out {
			if out[i], err = rd.i32(); err != nil {
				return nil, err
			}
		}
		return out, nil
	case TagList:
		elemType, err := rd.u8()
		if err != nil {
			return nil, err
		}
		n, err := rd.length()
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, min(n, 1024))
		for range n {
			v, err := rd.payload(elemType, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case TagCompound:
		out := make(Compound)
		for {
			t, err := rd.u8()
			if err != nil {
				return nil, err
			}
			if t == TagEnd {
				return out, nil
			}
			name, err := rd.str()
			if err != nil {
				return nil, err
			}
			v, err := rd.payload(t, depth+1)
			if err != nil {
				return nil, fmt.Errorf("tag %q: %w", name, err)
			}
			out[name] = v
		}
	default:
		return nil, fmt.Errorf("tag type %d: %w", tagType, ErrMalformed)
	}
}
