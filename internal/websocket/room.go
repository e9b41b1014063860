package websocket

import (
	"context"

	"github.com/rejdeboer/snapshot-server/internal/snapshot"
	"github.com/rejdeboer/snapshot-server/internal/sync"
)

type inbound struct {
	client *Client
	data   []byte
}

// Room serializes all sync traffic for one document: a single goroutine
// owns the document state vector, so no further locking is needed.
type Room struct {
	Doc        *sync.Doc
	Clients    map[*Client]bool
	Inbound    chan inbound
	Register   chan *Client
	Unregister chan *Client

	store *snapshot.Store

	// number of clients handed this room but not yet registered,
	// guarded by the hub mutex
	pending int
}

func NewRoom(doc *sync.Doc, store *snapshot.Store) *Room {
	return &Room{
		Doc:        doc,
		Inbound:    make(chan inbound),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Clients:    make(map[*Client]bool),
		store:      store,
	}
}

func (r *Room) Run(h *Hub) {
	for {
		select {
		case client := <-r.Register:
			r.Clients[client] = true
			h.release(r)
		case client := <-r.Unregister:
			if _, ok := r.Clients[client]; ok {
				delete(r.Clients, client)
				close(client.Send)
			}
			if len(r.Clients) == 0 && h.tryRemove(r) {
				return
			}
		case msg := <-r.Inbound:
			r.handleMessage(msg.client, msg.data)
		}
	}
}

func (r *Room) handleMessage(client *Client, data []byte) {
	log := client.Context.Log

	message, err := sync.DecodeMessage(data)
	if err != nil {
		log.Error().Err(err).Msg("received malformed sync message")
		return
	}

	switch message.Type {
	case sync.MessageSyncStep1:
		diff := r.Doc.MissingFor(message.StateVector)
		updates, err := r.store.MissingUpdates(context.Background(), r.Doc.ID, diff)
		if err != nil {
			log.Error().Err(err).Msg("failed to load missing updates")
			return
		}
		reply := sync.EncodeMessage(sync.Message{
			Type:    sync.MessageSyncStep2,
			Updates: updates,
		})
		client.Send <- reply

	case sync.MessageUpdate:
		update := message.Updates[0]
		if err := r.store.StoreUpdate(context.Background(), r.Doc, update); err != nil {
			log.Error().Err(err).Msg("failed to persist update")
			return
		}
		r.broadcast(client, data)

	default:
		log.Error().Uint8("type", message.Type).Msg("unexpected sync message type")
	}
}

func (r *Room) broadcast(sender *Client, message []byte) {
	for client := range r.Clients {
		if client == sender {
			continue
		}
		select {
		case client.Send <- message:
		default:
			close(client.Send)
			delete(r.Clients, client)
		}
	}
}
