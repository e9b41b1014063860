package routes

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rejdeboer/snapshot-server/pkg/httperrors"
	"github.com/rs/zerolog"
)

type DocumentContributorCreate struct {
	UserID uuid.UUID `json:"userId"`
}

func (env *Env) addDocumentContributor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := zerolog.Ctx(ctx)

	var contributor DocumentContributorCreate
	err := json.NewDecoder(r.Body).Decode(&contributor)
	if err != nil {
		httperrors.Write(w, err.Error(), http.StatusBadRequest)
		log.Error().Err(err).Msg("invalid body for create contributor")
		return
	}

	docID, err := uuid.Parse(r.PathValue("document_id"))
	if err != nil {
		httperrors.Write(w, "Invalid document id, please use uuid format", http.StatusBadRequest)
		log.Error().Err(err).Msg("user used invalid document id format")
		return
	}

	userID, err := uuid.Parse(ctx.Value("user_id").(string))
	if err != nil {
		httperrors.InternalServerError(w)
		log.Error().Err(err).Msg("failed to parse uuid")
		return
	}

	*log = log.With().
		Str("document_id", docID.String()).
		Str("contributor_id", contributor.UserID.String()).
		Logger()

	tag, err := env.Pool.Exec(ctx,
		`UPDATE documents
		 SET shared_with = array_append(shared_with, $3)
		 WHERE id = $1 AND owner_id = $2 AND NOT ($3 = ANY(shared_with))`,
		docID, userID, contributor.UserID,
	)
	if err != nil {
		httperrors.InternalServerError(w)
		log.Error().Err(err).Msg("error adding contributor")
		return
	}
	if tag.RowsAffected() == 0 {
		httperrors.Write(w, "Document not found", http.StatusNotFound)
		log.Error().Msg("document not found or not owned by user")
		return
	}

	log.Info().Msg("added contributor")
	w.WriteHeader(http.StatusAccepted)
}
