package websocket

import (
	stdsync "sync"

	"github.com/rejdeboer/snapshot-server/internal/snapshot"
	"github.com/rejdeboer/snapshot-server/internal/sync"
)

// Hub hands out the live room per document. Every websocket handler
// goroutine goes through here, so the room map is guarded by a mutex.
type Hub struct {
	mu    stdsync.Mutex
	rooms map[*Room]bool
	store *snapshot.Store
}

func NewHub(store *snapshot.Store) *Hub {
	return &Hub{
		rooms: make(map[*Room]bool),
		store: store,
	}
}

// GetDocumentRoom returns the live room for the document, spawning one
// if no client is editing it yet. The returned room is pinned until the
// caller's client registers, so it cannot be torn down underneath them.
func (h *Hub) GetDocumentRoom(doc *sync.Doc) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range h.rooms {
		if room.Doc.ID == doc.ID {
			room.pending++
			return room
		}
	}

	room := NewRoom(doc, h.store)
	room.pending++
	h.rooms[room] = true
	go room.Run(h)

	return room
}

// release drops the pin taken by GetDocumentRoom once the client made
// it into the room.
func (h *Hub) release(r *Room) {
	h.mu.Lock()
	r.pending--
	h.mu.Unlock()
}

// tryRemove tears the room down unless a client is still on its way in.
func (h *Hub) tryRemove(r *Room) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if r.pending > 0 {
		return false
	}
	delete(h.rooms, r)
	return true
}

func (h *Hub) roomCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}
