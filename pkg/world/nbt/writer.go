// Package nbt reads and writes the big-endian named binary tag format used
// for chunk payloads.
package nbt

import (
	"encoding/binary"
	"io"
)

// Tag type IDs.
const (
	TagEnd       byte = 0
	TagByte      byte = 1
	TagShort     byte = 2
	TagInt       byte = 3
	TagLong      byte = 4
	TagFloat     byte = 5
	TagDouble    byte = 6
	TagByteArray byte = 7
	TagString    byte = 8
	TagList      byte = 9
	TagCompound  byte = 10
	TagIntArray  byte = 11
)

// Writer emits NBT to an io.Writer. Errors are accumulated; check Err after
// writing.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first write error.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) write(data []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(data)
}

func (w *Writer) putByte(v byte) {
	w.write([]byte{v})
}

func (w *Writer) putUint16(v uint16) {
	w.write(binary.BigEndian.AppendUint16(nil, v))
}

func (w *Writer) putInt32(v int32) {
	w.write(binary.BigEndian.AppendUint32(nil, uint32(v)))
}

func (w *Writer) putInt64(v int64) {
	w.write(binary.BigEndian.AppendUint64(nil, uint64(v)))
}

func (w *Writer) putString(s string) {
	w.putUint16(uint16(len(s)))
	w.write([]byte(s))
}

func (w *Writer) header(tagType byte, name string) {
	w.putByte(tagType)
	w.putString(name)
}

// BeginCompound opens a named compound. The root compound uses name "".
func (w *Writer) BeginCompound(name string) {
	w.header(TagCompound, name)
}

// EndCompound closes the innermost compound.
func (w *Writer) EndCompound() {
	w.putByte(TagEnd)
}

// WriteTagByte writes a named byte.
func (w *Writer) WriteTagByte(name string, v byte) {
	w.header(TagByte, name)
	w.putByte(v)
}

// WriteInt writes a named int.
func (w *Writer) WriteInt(name string, v int32) {
	w.header(TagInt, name)
	w.putInt32(v)
}

// WriteLong writes a named long.
func (w *Writer) WriteLong(name string, v int64) {
	w.header(TagLong, name)
	w.putInt64(v)
}

// WriteIntArray writes a named int array.
func (w *Writer) WriteIntArray(name string, v []int32) {
	w.header(TagIntArray, name)
	w.putInt32(int32(len(v)))
	for _, val := range v {
		w.putInt32(val)
	}
}

// BeginList writes a list header. The count elements that follow carry no
// name or tag type: use ByteArrayElem for byte arrays, and for compounds
// write the member tags followed by EndCompound.
func (w *Writer) BeginList(name string, elemType byte, count int32) {
	w.header(TagList, name)
	w.putByte(elemType)
	w.putInt32(count)
}

// ByteArrayElem writes an unnamed byte array list element.
func (w *Writer) ByteArrayElem(v []byte) {
	w.putInt32(int32(len(v)))
	w.write(v)
}
