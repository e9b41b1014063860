package writer

import (
	"bytes"
	"testing"
)

func TestVarUintLen(t *testing.T) {
	cases := []struct {
		value    uint64
		expected int
	}{
		{0, 1},
		{1, 1},
		{127, 1},
		{128, 2},
		{1<<14 - 1, 2},
		{1 << 14, 3},
		{1<<21 - 1, 3},
		{1 << 21, 4},
		{1<<49 - 1, 8},
		{1<<56 - 1, 8},
		{1 << 56, 9},
		{1<<64 - 1, 9},
	}

	for _, c := range cases {
		length := VarUintLen(c.value)
		if length != c.expected {
			t.Errorf("value %d: expected length %d got %d", c.value, c.expected, length)
		}
	}
}

func TestVarUintLenNonDecreasing(t *testing.T) {
	previous := VarUintLen(0)
	for shift := 0; shift < 64; shift++ {
		length := VarUintLen(1 << shift)
		if length < previous {
			t.Errorf("length decreased at bit %d: %d -> %d", shift, previous, length)
		}
		previous = length
	}
}

func TestWriteVarUint(t *testing.T) {
	cases := []struct {
		value    uint64
		expected []byte
	}{
		{0, []byte{0x01}},
		{127, []byte{0xFF}},
		{128, []byte{0x02, 0x02}},
		{1 << 56, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}},
		{1<<64 - 1, []byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
	}

	for _, c := range cases {
		w := NewWriter()
		WriteVarUint(w, c.value)
		if !bytes.Equal(w.Buf, c.expected) {
			t.Errorf("value %d: expected %v got %v", c.value, c.expected, w.Buf)
		}
		if len(w.Buf) != VarUintLen(c.value) {
			t.Errorf("value %d: emitted %d bytes, VarUintLen says %d", c.value, len(w.Buf), VarUintLen(c.value))
		}
	}
}

func TestWriteVarUintDeterminism(t *testing.T) {
	for _, value := range varUintSamples() {
		first := NewWriter()
		second := NewWriter()
		WriteVarUint(first, value)
		WriteVarUint(second, value)
		if !bytes.Equal(first.Buf, second.Buf) {
			t.Errorf("value %d: encodings differ: %v vs %v", value, first.Buf, second.Buf)
		}
	}
}

func TestWriteVarUintInjective(t *testing.T) {
	seen := make(map[string]uint64)
	for _, value := range varUintSamples() {
		w := NewWriter()
		WriteVarUint(w, value)
		if other, ok := seen[string(w.Buf)]; ok && other != value {
			t.Errorf("values %d and %d share encoding %v", value, other, w.Buf)
		}
		seen[string(w.Buf)] = value
	}
}

func TestWriteBool(t *testing.T) {
	w := NewWriter()
	WriteBool(w, true)
	WriteBool(w, false)
	if !bytes.Equal(w.Buf, []byte{0x01, 0x00}) {
		t.Errorf("expected [1 0] got %v", w.Buf)
	}
}

func TestWriteFixedWidth(t *testing.T) {
	t.Run("u16", func(t *testing.T) {
		w := NewWriter()
		WriteU16(w, 0x1234)
		if !bytes.Equal(w.Buf, []byte{0x34, 0x12}) {
			t.Errorf("expected [34 12] got %x", w.Buf)
		}
	})

	t.Run("u32", func(t *testing.T) {
		w := NewWriter()
		WriteU32(w, 0x12345678)
		if !bytes.Equal(w.Buf, []byte{0x78, 0x56, 0x34, 0x12}) {
			t.Errorf("expected [78 56 34 12] got %x", w.Buf)
		}
	})

	t.Run("u64", func(t *testing.T) {
		w := NewWriter()
		WriteU64(w, 0x123456789ABCDEF0)
		expected := []byte{0xF0, 0xDE, 0xBC, 0x9A, 0x78, 0x56, 0x34, 0x12}
		if !bytes.Equal(w.Buf, expected) {
			t.Errorf("expected %x got %x", expected, w.Buf)
		}
	})
}

type testRecord struct {
	flag  bool
	count uint64
}

func (rec testRecord) WriteInto(s Sink) {
	WriteBool(s, rec.flag)
	WriteVarUint(s, rec.count)
}

func TestWriteSerializable(t *testing.T) {
	w := NewWriter()
	Write(w, testRecord{flag: true, count: 128})
	if !bytes.Equal(w.Buf, []byte{0x01, 0x02, 0x02}) {
		t.Errorf("expected [01 02 02] got %x", w.Buf)
	}
}

func TestWriterAppendOnly(t *testing.T) {
	w := NewWriter()
	WriteU32(w, 0xDEADBEEF)
	prefix := make([]byte, len(w.Buf))
	copy(prefix, w.Buf)

	WriteVarUint(w, 1<<40)
	WriteBool(w, true)
	w.WriteBytes([]byte{1, 2, 3})

	if !bytes.Equal(w.Buf[:len(prefix)], prefix) {
		t.Errorf("previously written bytes changed: %x -> %x", prefix, w.Buf[:len(prefix)])
	}
}

func varUintSamples() []uint64 {
	samples := []uint64{0, 1, 42, 127, 128, 300, 1<<64 - 1}
	for shift := 1; shift < 64; shift++ {
		samples = append(samples, 1<<shift, 1<<shift-1, 1<<shift+1)
	}
	return samples
}
