package routes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rejdeboer/snapshot-server/pkg/httperrors"
	"github.com/rs/zerolog"
)

type SnapshotResponse struct {
	DocumentID uuid.UUID `json:"document_id"`
	Clock      uint64    `json:"clock"`
	Updates    int       `json:"updates"`
}

func (env *Env) createSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := zerolog.Ctx(ctx)

	docID, err := uuid.Parse(r.PathValue("document_id"))
	if err != nil {
		httperrors.Write(w, "please provide a valid uuid", http.StatusBadRequest)
		log.Error().Err(err).Msg("invalid uuid")
		return
	}

	userID, _ := uuid.Parse(ctx.Value("user_id").(string))

	doc, err := env.Store.FetchDoc(ctx, docID, userID)
	if err != nil {
		httperrors.Write(w, "document not found", http.StatusNotFound)
		log.Error().Err(err).Str("document_id", docID.String()).Msg("document not found")
		return
	}

	s, err := env.Store.CreateSnapshot(ctx, doc)
	if err != nil {
		httperrors.InternalServerError(w)
		log.Error().Err(err).Str("document_id", docID.String()).Msg("failed to create snapshot")
		return
	}

	log.Info().
		Str("document_id", docID.String()).
		Uint64("clock", s.Clock).
		Msg("created snapshot")

	response, err := json.Marshal(SnapshotResponse{
		DocumentID: s.DocumentID,
		Clock:      s.Clock,
		Updates:    len(s.Updates),
	})
	if err != nil {
		httperrors.InternalServerError(w)
		log.Error().Err(err).Msg("error marshalling response")
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(response)
}

func (env *Env) getSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := zerolog.Ctx(ctx)

	docID, err := uuid.Parse(r.PathValue("document_id"))
	if err != nil {
		httperrors.Write(w, "please provide a valid uuid", http.StatusBadRequest)
		log.Error().Err(err).Msg("invalid uuid")
		return
	}

	clock, err := strconv.ParseUint(r.PathValue("clock"), 10, 64)
	if err != nil {
		httperrors.Write(w, "please provide a valid clock", http.StatusBadRequest)
		log.Error().Err(err).Msg("invalid clock")
		return
	}

	userID, _ := uuid.Parse(ctx.Value("user_id").(string))
	if _, err := env.Store.FetchDoc(ctx, docID, userID); err != nil {
		httperrors.Write(w, "document not found", http.StatusNotFound)
		log.Error().Err(err).Str("document_id", docID.String()).Msg("document not found")
		return
	}

	s, err := env.Store.GetSnapshot(ctx, docID, clock)
	if err != nil {
		httperrors.Write(w, "snapshot not found", http.StatusNotFound)
		log.Error().Err(err).Str("document_id", docID.String()).Msg("snapshot not found")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(s.Encode())
}
