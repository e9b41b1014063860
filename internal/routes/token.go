package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/rejdeboer/snapshot-server/pkg/httperrors"
	"github.com/rs/zerolog"
)

type UserCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token            string `json:"token"`
	ExpiresInSeconds uint16 `json:"expiresInSeconds"`
}

func (env *Env) getToken(signingKey string, tokenExpirationSeconds uint16) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := zerolog.Ctx(ctx)

		var credentials UserCredentials
		err := json.NewDecoder(r.Body).Decode(&credentials)
		if err != nil {
			httperrors.Write(w, err.Error(), http.StatusBadRequest)
			log.Error().Err(err).Msg("invalid payload")
			return
		}

		var userID uuid.UUID
		var passhash string
		err = env.Pool.QueryRow(ctx,
			`SELECT id, passhash FROM users WHERE email = $1`,
			credentials.Email,
		).Scan(&userID, &passhash)
		if err != nil {
			httperrors.Write(w, "invalid email or password", http.StatusUnauthorized)
			log.Error().Err(err).Str("email", credentials.Email).Msg("user with email does not exist")
			return
		}

		if !checkPasswordHash(credentials.Password, passhash) {
			httperrors.Write(w, "invalid email or password", http.StatusUnauthorized)
			log.Error().Msg("user entered wrong password")
			return
		}

		token, err := GetJwt(signingKey, tokenExpirationSeconds, userID.String())
		if err != nil {
			httperrors.InternalServerError(w)
			log.Error().Err(err).Msg("error signing jwt")
			return
		}

		response, err := json.Marshal(TokenResponse{
			Token:            token,
			ExpiresInSeconds: tokenExpirationSeconds,
		})
		if err != nil {
			httperrors.InternalServerError(w)
			log.Error().Err(err).Msg("error marshalling response")
			return
		}

		log.Info().Str("user_id", userID.String()).Msg("successful authentication")
		w.WriteHeader(http.StatusOK)
		w.Write(response)
	}
}

func GetJwt(signingKey string, tokenExpirationSeconds uint16, userId string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = userId
	claims["exp"] = time.Now().Add(time.Second * time.Duration(tokenExpirationSeconds)).Unix()

	tokenString, err := token.SignedString([]byte(signingKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
