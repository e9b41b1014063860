package reader

import (
	"encoding/binary"
	"errors"
	"math/bits"
)

var ErrEndOfBuffer = errors.New("EndOfBuffer")

// Deserializable is implemented by values that know how to reconstruct
// themselves from a reader.
type Deserializable interface {
	ReadFrom(r *Reader) error
}

// Reader is a cursor over a byte slice; it never copies the buffer.
type Reader struct {
	buf  []byte
	next int
}

func FromBuffer(buf []byte) Reader {
	return Reader{
		buf:  buf,
		next: 0,
	}
}

func (r *Reader) HasContent() bool {
	return r.next != len(r.buf)
}

// Remaining returns the number of unread bytes left in the buffer.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.next
}

func (r *Reader) ReadU8() (uint8, error) {
	if r.next == len(r.buf) {
		return 0, ErrEndOfBuffer
	}
	n := r.buf[r.next]
	r.next = r.next + 1
	return n, nil
}

func (r *Reader) ReadBytes(n int) ([]byte, error) {
	// n can come straight off the wire, reject negatives before slicing
	if n < 0 || n > len(r.buf)-r.next {
		return nil, ErrEndOfBuffer
	}
	values := r.buf[r.next : r.next+n]
	r.next = r.next + n
	return values, nil
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadU8()
	return b != 0, err
}

func (r *Reader) ReadU16() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

func (r *Reader) ReadU32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ReadVarUint reads a vint64 encoded u64. The trailing zero count of the
// first byte gives the length; a zero first byte means 8 raw
// little-endian bytes follow.
func (r *Reader) ReadVarUint() (uint64, error) {
	first, err := r.ReadU8()
	if err != nil {
		return 0, err
	}

	if first == 0 {
		return r.ReadU64()
	}

	length := bits.TrailingZeros8(first) + 1

	var buf [8]byte
	buf[0] = first
	rest, err := r.ReadBytes(length - 1)
	if err != nil {
		return 0, err
	}
	copy(buf[1:], rest)

	// shift out the marker bit and the zeros below it
	return binary.LittleEndian.Uint64(buf[:]) >> length, nil
}

// Read delegates to the value's own deserialization logic.
func (r *Reader) Read(value Deserializable) error {
	return value.ReadFrom(r)
}
