package sync

import (
	"slices"

	"github.com/rejdeboer/snapshot-server/pkg/reader"
	"github.com/rejdeboer/snapshot-server/pkg/writer"
)

// StateVector maps a client id to the highest clock observed for it.
type StateVector = map[uint64]uint64

// NOTE: state vector encoding format:
// 1. `clients_len` | vint64
// 2. For each client, ordered by client id:
//   - `client` | vint64
//   - `clock` | vint64

func WriteStateVector(s writer.Sink, sv StateVector) {
	writer.WriteVarUint(s, uint64(len(sv)))

	// fixed iteration order keeps the encoding deterministic
	clients := make([]uint64, 0, len(sv))
	for client := range sv {
		clients = append(clients, client)
	}
	slices.Sort(clients)

	for _, client := range clients {
		writer.WriteVarUint(s, client)
		writer.WriteVarUint(s, sv[client])
	}
}

func EncodeStateVector(sv StateVector) []byte {
	w := writer.NewWriter()
	WriteStateVector(w, sv)
	return w.Buf
}

func ReadStateVector(r *reader.Reader) (StateVector, error) {
	svLen, err := r.ReadVarUint()
	if err != nil {
		return nil, err
	}

	sv := make(StateVector, svLen)
	for range svLen {
		client, err := r.ReadVarUint()
		if err != nil {
			return nil, err
		}
		clock, err := r.ReadVarUint()
		if err != nil {
			return nil, err
		}
		sv[client] = clock
	}

	return sv, nil
}

func DecodeStateVector(buf []byte) (StateVector, error) {
	r := reader.FromBuffer(buf)
	return ReadStateVector(&r)
}

// diffStateVectors returns, per client, the remote clock from which the
// remote side is missing updates that the local side has.
func diffStateVectors(localSv StateVector, remoteSv StateVector) StateVector {
	diff := make(StateVector)
	for client, localClock := range localSv {
		remoteClock, known := remoteSv[client]
		if !known {
			diff[client] = 0
			continue
		}
		if localClock > remoteClock {
			diff[client] = remoteClock
		}
	}
	return diff
}
