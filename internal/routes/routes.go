package routes

import (
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rejdeboer/snapshot-server/internal/configuration"
	"github.com/rejdeboer/snapshot-server/internal/middleware"
	"github.com/rejdeboer/snapshot-server/internal/snapshot"
	"github.com/rejdeboer/snapshot-server/internal/websocket"
	"github.com/rs/cors"
	"github.com/segmentio/kafka-go"
)

const UsersIndex = "users"

type Env struct {
	Pool         *pgxpool.Pool
	Producer     *kafka.Writer
	Blob         *azblob.Client
	SearchClient *elasticsearch.TypedClient
	Store        *snapshot.Store
	Hub          *websocket.Hub
}

func CreateHandler(settings configuration.Settings, env *Env) http.Handler {
	if env.Store == nil {
		env.Store = snapshot.NewStore(env.Pool, env.Blob, env.Producer, settings.Azure.SnapshotContainer)
	}
	if env.Hub == nil {
		env.Hub = websocket.NewHub(env.Store)
	}

	withAuth := middleware.WithAuth(settings.Application.SigningKey)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /user", env.createUser)
	mux.HandleFunc("GET /user", withAuth(env.searchUsers))
	mux.HandleFunc("POST /token", env.getToken(
		settings.Application.SigningKey,
		settings.Application.TokenExpirationSeconds,
	))
	mux.HandleFunc("POST /document", withAuth(env.createDocument))
	mux.HandleFunc("GET /document", withAuth(env.listDocuments))
	mux.HandleFunc("POST /document/{document_id}/contributor", withAuth(env.addDocumentContributor))
	mux.HandleFunc("POST /document/{document_id}/snapshot", withAuth(env.createSnapshot))
	mux.HandleFunc("GET /document/{document_id}/snapshot/{clock}", withAuth(env.getSnapshot))
	mux.HandleFunc("GET /sync/{document_id}", withAuth(env.handleSync()))

	handler := cors.Default().Handler(mux)
	return middleware.WithLogging(handler)
}
