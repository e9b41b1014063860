package snapshot

import (
	"bytes"
	"errors"
	"maps"
	"testing"

	"github.com/brianvoe/gofakeit"
	"github.com/google/uuid"
	"github.com/rejdeboer/snapshot-server/internal/sync"
	"github.com/rejdeboer/snapshot-server/pkg/writer"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := Snapshot{
		DocumentID:  uuid.New(),
		Clock:       1 << 33,
		StateVector: sync.StateVector{1: 1 << 33, 2: 17},
		Updates: []sync.Update{
			{Client: 1, Clock: 1 << 33, Ops: []byte(gofakeit.Sentence(4))},
			{Client: 2, Clock: 17, Ops: []byte(gofakeit.Sentence(2))},
		},
	}

	decoded, err := Decode(s.Encode())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if decoded.DocumentID != s.DocumentID {
		t.Errorf("document id mangled: %v vs %v", decoded.DocumentID, s.DocumentID)
	}
	if decoded.Clock != s.Clock {
		t.Errorf("clock mangled: %d vs %d", decoded.Clock, s.Clock)
	}
	if !maps.Equal(decoded.StateVector, s.StateVector) {
		t.Errorf("state vector mangled: %v vs %v", decoded.StateVector, s.StateVector)
	}
	if len(decoded.Updates) != len(s.Updates) {
		t.Fatalf("expected %d updates got %d", len(s.Updates), len(decoded.Updates))
	}
	for i, u := range decoded.Updates {
		if u.Client != s.Updates[i].Client || u.Clock != s.Updates[i].Clock || !bytes.Equal(u.Ops, s.Updates[i].Ops) {
			t.Errorf("update %d mangled: %+v vs %+v", i, u, s.Updates[i])
		}
	}
}

func TestSnapshotHeader(t *testing.T) {
	s := Snapshot{DocumentID: uuid.New(), StateVector: sync.StateVector{}}
	encoded := s.Encode()

	if !bytes.Equal(encoded[:4], []byte("SNAP")) {
		t.Errorf("expected SNAP magic got %x", encoded[:4])
	}
	if encoded[4] != formatVersion {
		t.Errorf("expected version %d got %d", formatVersion, encoded[4])
	}
}

func TestDecodeRejectsBadHeader(t *testing.T) {
	t.Run("wrong magic", func(t *testing.T) {
		if _, err := Decode([]byte("NOPE.............")); !errors.Is(err, ErrBadMagic) {
			t.Errorf("expected ErrBadMagic got %v", err)
		}
	})

	t.Run("unknown version", func(t *testing.T) {
		s := Snapshot{DocumentID: uuid.New(), StateVector: sync.StateVector{}}
		encoded := s.Encode()
		encoded[4] = 0xFF
		if _, err := Decode(encoded); !errors.Is(err, ErrUnknownVersion) {
			t.Errorf("expected ErrUnknownVersion got %v", err)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		s := Snapshot{DocumentID: uuid.New(), StateVector: sync.StateVector{1: 2}}
		encoded := s.Encode()
		if _, err := Decode(encoded[:len(encoded)-1]); err == nil {
			t.Error("expected an error for a truncated snapshot")
		}
	})

	t.Run("oversized update count", func(t *testing.T) {
		s := Snapshot{DocumentID: uuid.New(), StateVector: sync.StateVector{}}
		w := writer.NewWriter()
		w.WriteBytes([]byte("SNAP"))
		w.WriteU8(formatVersion)
		w.WriteBytes(s.DocumentID[:])
		writer.WriteVarUint(w, 0)
		sync.WriteStateVector(w, s.StateVector)
		writer.WriteVarUint(w, 1<<62)

		if _, err := Decode(w.Buf); err == nil {
			t.Error("expected an error for an update count beyond the buffer")
		}
	})
}
