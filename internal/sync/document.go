package sync

import (
	"github.com/google/uuid"
)

// Doc is the in-memory sync state of one document.
type Doc struct {
	ID          uuid.UUID
	StateVector StateVector
}

func NewDoc(id uuid.UUID, sv StateVector) *Doc {
	if sv == nil {
		sv = make(StateVector)
	}
	return &Doc{
		ID:          id,
		StateVector: sv,
	}
}

// ApplyUpdate advances the document's state vector; stale updates are a
// no-op.
func (doc *Doc) ApplyUpdate(u Update) {
	if u.Clock > doc.StateVector[u.Client] {
		doc.StateVector[u.Client] = u.Clock
	}
}

// MissingFor returns per client the clock from which the remote peer is
// missing updates that this document has.
func (doc *Doc) MissingFor(remoteSv StateVector) StateVector {
	return diffStateVectors(doc.StateVector, remoteSv)
}
