package sync

import (
	"errors"

	"github.com/rejdeboer/snapshot-server/pkg/reader"
	"github.com/rejdeboer/snapshot-server/pkg/writer"
)

// Sync message kinds, one byte on the wire.
const (
	MessageSyncStep1 uint8 = 0
	MessageSyncStep2 uint8 = 1
	MessageUpdate    uint8 = 2
)

var ErrUnknownMessage = errors.New("UnknownMessageType")

// Message is one frame of the websocket sync protocol.
//
// NOTE: message encoding format:
// 1. `type` | u8
// 2. step1: a state vector
//    step2: `updates_len` | vint64, then that many updates
//    update: a single update
type Message struct {
	Type        uint8
	StateVector StateVector
	Updates     []Update
}

func (m Message) WriteInto(s writer.Sink) {
	s.WriteU8(m.Type)

	switch m.Type {
	case MessageSyncStep1:
		WriteStateVector(s, m.StateVector)
	case MessageSyncStep2:
		writer.WriteVarUint(s, uint64(len(m.Updates)))
		for _, u := range m.Updates {
			writer.Write(s, u)
		}
	case MessageUpdate:
		if len(m.Updates) > 0 {
			writer.Write(s, m.Updates[0])
		}
	}
}

func (m *Message) ReadFrom(r *reader.Reader) error {
	kind, err := r.ReadU8()
	if err != nil {
		return err
	}
	m.Type = kind

	switch kind {
	case MessageSyncStep1:
		sv, err := ReadStateVector(r)
		if err != nil {
			return err
		}
		m.StateVector = sv
	case MessageSyncStep2:
		count, err := r.ReadVarUint()
		if err != nil {
			return err
		}
		// every update occupies at least 3 bytes, an honest count can
		// never exceed what is left in the buffer
		if count > uint64(r.Remaining()) {
			return reader.ErrEndOfBuffer
		}
		updates := make([]Update, count)
		for i := range updates {
			if err := r.Read(&updates[i]); err != nil {
				return err
			}
		}
		m.Updates = updates
	case MessageUpdate:
		var u Update
		if err := r.Read(&u); err != nil {
			return err
		}
		m.Updates = []Update{u}
	default:
		return ErrUnknownMessage
	}

	return nil
}

func EncodeMessage(m Message) []byte {
	w := writer.NewWriter()
	writer.Write(w, m)
	return w.Buf
}

func DecodeMessage(buf []byte) (Message, error) {
	r := reader.FromBuffer(buf)
	var m Message
	err := r.Read(&m)
	return m, err
}
