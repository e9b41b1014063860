package application

import (
	"github.com/elastic/go-elasticsearch/v8"
)

func GetSearchClient(endpoint string) *elasticsearch.TypedClient {
	searchClient, err := elasticsearch.NewTypedClient(elasticsearch.Config{
		Addresses: []string{endpoint},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("error creating elasticsearch client")
	}

	return searchClient
}
