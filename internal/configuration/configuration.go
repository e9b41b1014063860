package configuration

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/kelseyhightower/envconfig"
)

type Settings struct {
	Database    DatabaseSettings    `yaml:"database"`
	Application ApplicationSettings `yaml:"application"`
	Azure       AzureSettings       `yaml:"azure"`
}

type DatabaseSettings struct {
	Username   string `yaml:"username" envconfig:"DB_USERNAME"`
	Password   string `yaml:"password" envconfig:"DB_PASSWORD"`
	Host       string `yaml:"host" envconfig:"DB_HOST"`
	Port       uint16 `yaml:"port" envconfig:"DB_PORT"`
	DbName     string `yaml:"db_name"`
	RequireSsl bool   `yaml:"require_ssl"`
}

type ApplicationSettings struct {
	Port                   uint16 `yaml:"port" envconfig:"APP_PORT"`
	SigningKey             string `yaml:"signing_key" envconfig:"SIGNING_KEY"`
	TokenExpirationSeconds uint16 `yaml:"token_expiration_seconds"`
	KafkaEndpoint          string `yaml:"kafka_endpoint" envconfig:"KAFKA_ENDPOINT"`
	KafkaTopic             string `yaml:"kafka_topic"`
	ElasticsearchEndpoint  string `yaml:"elasticsearch_endpoint" envconfig:"ELASTICSEARCH_ENDPOINT"`
}

type AzureSettings struct {
	BlobConnectionString string `yaml:"blob_connection_string" envconfig:"AZURE_BLOB_CONNECTION_STRING"`
	BlobStorageEndpoint  string `yaml:"blob_storage_endpoint"`
	SnapshotContainer    string `yaml:"snapshot_container"`
}

// ReadConfiguration layers the base yaml file, an environment specific
// yaml file and environment variable overrides, in that order.
func ReadConfiguration(dir string) Settings {
	var settings Settings

	readFile(dir, &settings, "base")

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "local"
	}
	readFile(dir, &settings, environment)

	readEnv(&settings)
	return settings
}

func readFile(dir string, settings *Settings, name string) {
	f, err := os.Open(fmt.Sprintf("%s/%s.yml", dir, name))
	if err != nil {
		panic(err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(settings)
	if err != nil {
		panic(err)
	}
}

func readEnv(settings *Settings) {
	err := envconfig.Process("", settings)
	if err != nil {
		panic(err)
	}
}
