package routes

import (
	"encoding/json"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"
	"github.com/rejdeboer/snapshot-server/pkg/httperrors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type UserCreate struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserListItem struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

func (env *Env) createUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := zerolog.Ctx(ctx)

	var user UserCreate
	err := json.NewDecoder(r.Body).Decode(&user)
	if err != nil {
		httperrors.Write(w, err.Error(), http.StatusBadRequest)
		log.Error().Err(err).Msg("invalid body for create user")
		return
	}

	passhash, err := hashPassword(user.Password)
	if err != nil {
		httperrors.Write(w, "invalid password", http.StatusBadRequest)
		log.Error().Err(err).Msg("invalid password")
		return
	}

	var userID uuid.UUID
	err = env.Pool.QueryRow(ctx,
		`INSERT INTO users (email, username, passhash) VALUES ($1, $2, $3) RETURNING id`,
		user.Email, user.Username, passhash,
	).Scan(&userID)
	if err != nil {
		httperrors.InternalServerError(w)
		log.Error().Err(err).Msg("failed to push user to db")
		return
	}

	_, err = env.SearchClient.Index(UsersIndex).
		Id(userID.String()).
		Request(UserListItem{ID: userID, Username: user.Username}).
		Do(ctx)
	if err != nil {
		// the user exists either way, search will lag behind
		log.Error().Err(err).Msg("failed to index user")
	}

	log.Info().Str("user_id", userID.String()).Msg("created new user")
	w.WriteHeader(http.StatusOK)
}

func (env *Env) searchUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := zerolog.Ctx(ctx)

	query := r.URL.Query().Get("query")

	request := &search.Request{}
	if query != "" {
		request.Query = &types.Query{
			MatchPhrasePrefix: map[string]types.MatchPhrasePrefixQuery{
				"username": {Query: query},
			},
		}
	}

	result, err := env.SearchClient.Search().
		Index(UsersIndex).
		Request(request).
		Do(ctx)
	if err != nil {
		httperrors.InternalServerError(w)
		log.Error().Err(err).Msg("user search query failed")
		return
	}

	users := make([]UserListItem, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		var user UserListItem
		if err := json.Unmarshal(hit.Source_, &user); err != nil {
			log.Error().Err(err).Msg("malformed user document in index")
			continue
		}
		users = append(users, user)
	}

	response, err := json.Marshal(users)
	if err != nil {
		httperrors.InternalServerError(w)
		log.Error().Err(err).Msg("error marshalling response")
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(response)
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
