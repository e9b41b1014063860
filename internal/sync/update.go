package sync

import (
	"github.com/rejdeboer/snapshot-server/pkg/reader"
	"github.com/rejdeboer/snapshot-server/pkg/writer"
)

// Update is a single client edit: an opaque op payload stamped with the
// client id and its clock after the edit.
//
// NOTE: update encoding format:
// 1. `client` | vint64
// 2. `clock` | vint64
// 3. `ops_len` | vint64
// 4. `ops` | raw bytes
type Update struct {
	Client uint64
	Clock  uint64
	Ops    []byte
}

func (u Update) WriteInto(s writer.Sink) {
	writer.WriteVarUint(s, u.Client)
	writer.WriteVarUint(s, u.Clock)
	writer.WriteVarUint(s, uint64(len(u.Ops)))
	s.WriteBytes(u.Ops)
}

func (u *Update) ReadFrom(r *reader.Reader) error {
	client, err := r.ReadVarUint()
	if err != nil {
		return err
	}
	clock, err := r.ReadVarUint()
	if err != nil {
		return err
	}
	opsLen, err := r.ReadVarUint()
	if err != nil {
		return err
	}
	// the length is untrusted wire data, never allocate past the buffer
	if opsLen > uint64(r.Remaining()) {
		return reader.ErrEndOfBuffer
	}
	ops, err := r.ReadBytes(int(opsLen))
	if err != nil {
		return err
	}

	u.Client = client
	u.Clock = clock
	u.Ops = ops
	return nil
}

func EncodeUpdate(u Update) []byte {
	w := writer.NewWriter()
	writer.Write(w, u)
	return w.Buf
}

func DecodeUpdate(buf []byte) (Update, error) {
	r := reader.FromBuffer(buf)
	var u Update
	err := r.Read(&u)
	return u, err
}
