package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rejdeboer/snapshot-server/internal/logger"
	"github.com/rejdeboer/snapshot-server/internal/sync"
	"github.com/segmentio/kafka-go"
)

var log = logger.Get()

// Store persists document updates and snapshots: updates and sync state
// in Postgres, encoded snapshots in blob storage, with an event on the
// document topic per snapshot.
type Store struct {
	pool      *pgxpool.Pool
	blob      *azblob.Client
	producer  *kafka.Writer
	container string
}

type SnapshotEvent struct {
	Type       string `json:"type"`
	DocumentID string `json:"document_id"`
	Clock      uint64 `json:"clock"`
	Blob       string `json:"blob"`
}

func NewStore(pool *pgxpool.Pool, blob *azblob.Client, producer *kafka.Writer, container string) *Store {
	return &Store{
		pool:      pool,
		blob:      blob,
		producer:  producer,
		container: container,
	}
}

// FetchDoc loads a document's sync state, checking that the user owns or
// contributes to it.
func (st *Store) FetchDoc(ctx context.Context, docID uuid.UUID, userID uuid.UUID) (*sync.Doc, error) {
	var ownerID uuid.UUID
	var sharedWith []uuid.UUID
	var stateVector []byte

	err := st.pool.QueryRow(ctx,
		`SELECT owner_id, shared_with, state_vector FROM documents WHERE id = $1`,
		docID,
	).Scan(&ownerID, &sharedWith, &stateVector)
	if err != nil {
		return nil, err
	}

	if ownerID != userID && !slices.Contains(sharedWith, userID) {
		return nil, fmt.Errorf("user %v does not have access to document %v", userID, docID)
	}

	sv := make(sync.StateVector)
	if len(stateVector) > 0 {
		if sv, err = sync.DecodeStateVector(stateVector); err != nil {
			return nil, err
		}
	}

	return sync.NewDoc(docID, sv), nil
}

// StoreUpdate appends one update to the document's log and advances the
// stored state vector in the same transaction.
func (st *Store) StoreUpdate(ctx context.Context, doc *sync.Doc, u sync.Update) error {
	tx, err := st.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx,
		`INSERT INTO document_updates (document_id, client, clock, ops) VALUES ($1, $2, $3, $4)`,
		doc.ID, int64(u.Client), int64(u.Clock), u.Ops,
	); err != nil {
		return err
	}

	// write the prospective state vector, the in-memory doc only
	// advances once the transaction is durable
	next := maps.Clone(doc.StateVector)
	if u.Clock > next[u.Client] {
		next[u.Client] = u.Clock
	}
	if _, err = tx.Exec(ctx,
		`UPDATE documents SET state_vector = $2 WHERE id = $1`,
		doc.ID, sync.EncodeStateVector(next),
	); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	doc.ApplyUpdate(u)
	return nil
}

// MissingUpdates returns the updates a peer with the given diff has not
// seen yet, in client then clock order.
func (st *Store) MissingUpdates(ctx context.Context, docID uuid.UUID, diff sync.StateVector) ([]sync.Update, error) {
	var updates []sync.Update

	for client, fromClock := range diff {
		rows, err := st.pool.Query(ctx,
			`SELECT client, clock, ops FROM document_updates
			 WHERE document_id = $1 AND client = $2 AND clock > $3
			 ORDER BY clock`,
			docID, int64(client), int64(fromClock),
		)
		if err != nil {
			return nil, err
		}

		for rows.Next() {
			var u sync.Update
			var c, k int64
			if err := rows.Scan(&c, &k, &u.Ops); err != nil {
				rows.Close()
				return nil, err
			}
			u.Client = uint64(c)
			u.Clock = uint64(k)
			updates = append(updates, u)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	return updates, nil
}

// CreateSnapshot encodes the document's full update log, archives it in
// blob storage and announces it on the document topic.
func (st *Store) CreateSnapshot(ctx context.Context, doc *sync.Doc) (*Snapshot, error) {
	updates, err := st.MissingUpdates(ctx, doc.ID, emptyDiff(doc.StateVector))
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		DocumentID:  doc.ID,
		Clock:       maxClock(doc.StateVector),
		StateVector: doc.StateVector,
		Updates:     updates,
	}
	encoded := s.Encode()

	blobName := fmt.Sprintf("%s/%d.snap", doc.ID, s.Clock)
	if _, err := st.blob.UploadBuffer(ctx, st.container, blobName, encoded, nil); err != nil {
		return nil, err
	}

	event, err := json.Marshal(SnapshotEvent{
		Type:       "snapshot.created",
		DocumentID: doc.ID.String(),
		Clock:      s.Clock,
		Blob:       blobName,
	})
	if err != nil {
		return nil, err
	}

	if err := st.producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(doc.ID.String()),
		Value: event,
	}); err != nil {
		// the snapshot is durable at this point, losing the event is not fatal
		log.Error().Err(err).Str("document_id", doc.ID.String()).Msg("failed to publish snapshot event")
	}

	return s, nil
}

// GetSnapshot downloads and decodes the archived snapshot at the given
// clock.
func (st *Store) GetSnapshot(ctx context.Context, docID uuid.UUID, clock uint64) (Snapshot, error) {
	blobName := fmt.Sprintf("%s/%d.snap", docID, clock)

	response, err := st.blob.DownloadStream(ctx, st.container, blobName, nil)
	if err != nil {
		return Snapshot{}, err
	}
	defer response.Body.Close()

	buf, err := io.ReadAll(response.Body)
	if err != nil {
		return Snapshot{}, err
	}

	return Decode(buf)
}

func emptyDiff(sv sync.StateVector) sync.StateVector {
	diff := make(sync.StateVector, len(sv))
	for client := range sv {
		diff[client] = 0
	}
	return diff
}

func maxClock(sv sync.StateVector) uint64 {
	var max uint64
	for _, clock := range sv {
		if clock > max {
			max = clock
		}
	}
	return max
}
