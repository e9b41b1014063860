package routes

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rejdeboer/snapshot-server/pkg/httperrors"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type DocumentCreate struct {
	Name string `json:"name"`
}

type DocumentResponse struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	OwnerID    uuid.UUID   `json:"owner_id"`
	SharedWith []uuid.UUID `json:"shared_with"`
}

func (env *Env) createDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := zerolog.Ctx(ctx)

	var document DocumentCreate
	err := json.NewDecoder(r.Body).Decode(&document)
	if err != nil {
		httperrors.Write(w, err.Error(), http.StatusBadRequest)
		log.Error().Err(err).Msg("invalid body for create document")
		return
	}

	userID, err := uuid.Parse(ctx.Value("user_id").(string))
	if err != nil {
		httperrors.InternalServerError(w)
		log.Error().Err(err).Msg("failed to parse uuid")
		return
	}

	var docID uuid.UUID
	err = env.Pool.QueryRow(ctx,
		`INSERT INTO documents (name, owner_id) VALUES ($1, $2) RETURNING id`,
		document.Name, userID,
	).Scan(&docID)
	if err != nil {
		httperrors.InternalServerError(w)
		log.Error().Err(err).Msg("failed to push document to db")
		return
	}

	log.Info().Str("document_id", docID.String()).Msg("created new document")

	event, _ := json.Marshal(map[string]string{
		"type":        "document.created",
		"document_id": docID.String(),
		"owner_id":    userID.String(),
	})
	if err := env.Producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(docID.String()),
		Value: event,
	}); err != nil {
		log.Error().Err(err).Msg("failed to publish document event")
	}

	response, err := json.Marshal(DocumentResponse{
		ID:         docID,
		Name:       document.Name,
		OwnerID:    userID,
		SharedWith: []uuid.UUID{},
	})
	if err != nil {
		httperrors.InternalServerError(w)
		log.Error().Err(err).Msg("error marshalling response")
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(response)
}

func (env *Env) listDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := zerolog.Ctx(ctx)

	userID, err := uuid.Parse(ctx.Value("user_id").(string))
	if err != nil {
		httperrors.InternalServerError(w)
		log.Error().Err(err).Msg("failed to parse uuid")
		return
	}

	rows, err := env.Pool.Query(ctx,
		`SELECT id, name, owner_id, shared_with FROM documents
		 WHERE owner_id = $1 OR $1 = ANY(shared_with)
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		httperrors.InternalServerError(w)
		log.Error().Err(err).Msg("failed to list documents")
		return
	}
	defer rows.Close()

	documents := make([]DocumentResponse, 0)
	for rows.Next() {
		var doc DocumentResponse
		if err := rows.Scan(&doc.ID, &doc.Name, &doc.OwnerID, &doc.SharedWith); err != nil {
			httperrors.InternalServerError(w)
			log.Error().Err(err).Msg("failed to scan document row")
			return
		}
		documents = append(documents, doc)
	}

	response, err := json.Marshal(documents)
	if err != nil {
		httperrors.InternalServerError(w)
		log.Error().Err(err).Msg("error marshalling response")
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(response)
}
