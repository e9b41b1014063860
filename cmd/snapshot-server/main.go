package main

import (
	"github.com/rejdeboer/snapshot-server/internal/application"
	"github.com/rejdeboer/snapshot-server/internal/configuration"
	"github.com/rejdeboer/snapshot-server/internal/logger"
)

func main() {
	log := logger.Get()

	settings := configuration.ReadConfiguration("./configuration")

	app := application.Build(settings)
	if err := app.Start(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
