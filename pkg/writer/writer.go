package writer

import (
	"encoding/binary"
	"math/bits"
)

// Sink is the append-only destination every write targets.
// Implementations only have to provide the two primitives; the typed
// write functions below are layered on top of them.
type Sink interface {
	WriteU8(value uint8)
	WriteBytes(values []byte)
}

// Serializable is implemented by values that know their own byte layout.
type Serializable interface {
	WriteInto(s Sink)
}

type Writer struct {
	Buf []byte
}

func NewWriter() *Writer {
	return &Writer{
		Buf: []byte{},
	}
}

func (w *Writer) WriteU8(value uint8) {
	w.Buf = append(w.Buf, value)
}

func (w *Writer) WriteBytes(values []byte) {
	w.Buf = append(w.Buf, values...)
}

// WriteBool writes a boolean as a single byte, 1 for true and 0 for false.
func WriteBool(s Sink, value bool) {
	if value {
		s.WriteU8(1)
	} else {
		s.WriteU8(0)
	}
}

// WriteU16 writes a u16 value in little-endian byte order.
func WriteU16(s Sink, value uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], value)
	s.WriteBytes(buf[:])
}

// WriteU32 writes a u32 value in little-endian byte order.
func WriteU32(s Sink, value uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	s.WriteBytes(buf[:])
}

// WriteU64 writes a u64 value in little-endian byte order.
func WriteU64(s Sink, value uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], value)
	s.WriteBytes(buf[:])
}

// NOTE: vint64 encoding format:
// 1. trailing zero count of byte 0 gives the total length minus one
// 2. the bits above the marker bit, little-endian across the following
//    bytes, hold the value
// 3. byte 0 == 0x00 escapes to a raw 8-byte little-endian value (length 9)

// WriteVarUint writes a u64 value in vint64 format, occupying between
// 1 and 9 bytes.
func WriteVarUint(s Sink, value uint64) {
	length := VarUintLen(value)

	// 9-byte special case, the length byte is zero
	if length == 9 {
		s.WriteU8(0)
		WriteU64(s, value)
		return
	}

	encoded := (value<<1 | 1) << (length - 1)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], encoded)
	s.WriteBytes(buf[:length])
}

// VarUintLen returns the number of bytes the vint64 encoding of value
// will occupy. The width is pinned to 64 bits so the 9-byte escape
// boundary is the same on every platform.
func VarUintLen(value uint64) int {
	zeros := bits.LeadingZeros64(value)

	// saturate: a value with the top bit set has no leading zero to spend
	groups := 0
	if zeros > 0 {
		groups = (zeros - 1) / 7
	}

	return 9 - min(groups, 8)
}

// Write delegates to the value's own serialization logic, passing the
// sink through unchanged.
func Write(s Sink, value Serializable) {
	value.WriteInto(s)
}
