package snapshot

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rejdeboer/snapshot-server/internal/sync"
	"github.com/rejdeboer/snapshot-server/pkg/reader"
	"github.com/rejdeboer/snapshot-server/pkg/writer"
)

const formatVersion uint8 = 1

var magic = []byte("SNAP")

var (
	ErrBadMagic       = errors.New("BadSnapshotMagic")
	ErrUnknownVersion = errors.New("UnknownSnapshotVersion")
)

// Snapshot is the persisted state of a document: its state vector plus
// the update log that produced it.
//
// NOTE: snapshot encoding format:
// 1. magic "SNAP" | 4 bytes
// 2. format version | u8
// 3. document id | 16 raw bytes
// 4. clock | vint64
// 5. state vector
// 6. `updates_len` | vint64, then that many updates
type Snapshot struct {
	DocumentID  uuid.UUID
	Clock       uint64
	StateVector sync.StateVector
	Updates     []sync.Update
}

func (s *Snapshot) WriteInto(w writer.Sink) {
	w.WriteBytes(magic)
	w.WriteU8(formatVersion)
	w.WriteBytes(s.DocumentID[:])
	writer.WriteVarUint(w, s.Clock)
	sync.WriteStateVector(w, s.StateVector)
	writer.WriteVarUint(w, uint64(len(s.Updates)))
	for _, u := range s.Updates {
		writer.Write(w, u)
	}
}

func (s *Snapshot) ReadFrom(r *reader.Reader) error {
	head, err := r.ReadBytes(len(magic))
	if err != nil {
		return err
	}
	if string(head) != string(magic) {
		return ErrBadMagic
	}

	version, err := r.ReadU8()
	if err != nil {
		return err
	}
	if version != formatVersion {
		return ErrUnknownVersion
	}

	id, err := r.ReadBytes(16)
	if err != nil {
		return err
	}
	copy(s.DocumentID[:], id)

	if s.Clock, err = r.ReadVarUint(); err != nil {
		return err
	}
	if s.StateVector, err = sync.ReadStateVector(r); err != nil {
		return err
	}

	count, err := r.ReadVarUint()
	if err != nil {
		return err
	}
	// untrusted length, bound it by the bytes actually present
	if count > uint64(r.Remaining()) {
		return reader.ErrEndOfBuffer
	}
	s.Updates = make([]sync.Update, count)
	for i := range s.Updates {
		if err := r.Read(&s.Updates[i]); err != nil {
			return err
		}
	}

	return nil
}

func (s *Snapshot) Encode() []byte {
	w := writer.NewWriter()
	writer.Write(w, s)
	return w.Buf
}

func Decode(buf []byte) (Snapshot, error) {
	r := reader.FromBuffer(buf)
	var s Snapshot
	err := r.Read(&s)
	return s, err
}
