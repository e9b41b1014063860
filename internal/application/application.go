package application

import (
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rejdeboer/snapshot-server/internal/configuration"
	"github.com/rejdeboer/snapshot-server/internal/logger"
	"github.com/rejdeboer/snapshot-server/internal/routes"
	"github.com/segmentio/kafka-go"
)

var log = logger.Get()

type Application struct {
	pool     *pgxpool.Pool
	producer *kafka.Writer
	handler  http.Handler
	addr     string
}

func Build(settings configuration.Settings) Application {
	addr := fmt.Sprintf(":%d", settings.Application.Port)

	pool := GetDbConnectionPool(settings.Database)

	producer := &kafka.Writer{
		Addr:     kafka.TCP(settings.Application.KafkaEndpoint),
		Topic:    settings.Application.KafkaTopic,
		Balancer: &kafka.LeastBytes{},
	}

	handler := routes.CreateHandler(settings, &routes.Env{
		Pool:         pool,
		Producer:     producer,
		Blob:         GetBlobClient(settings.Azure),
		SearchClient: GetSearchClient(settings.Application.ElasticsearchEndpoint),
	})

	return Application{
		addr:     addr,
		pool:     pool,
		producer: producer,
		handler:  handler,
	}
}

func (app *Application) Start() error {
	defer app.close()
	log.Info().Msg(fmt.Sprintf("Server listening on %s", app.addr))
	return http.ListenAndServe(app.addr, app.handler)
}

func (app *Application) close() {
	app.pool.Close()
	app.producer.Close()
}
