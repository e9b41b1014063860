package configuration

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, dir string, name string, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("error writing config file: %v", err)
	}
}

func TestReadConfiguration(t *testing.T) {
	dir := t.TempDir()

	writeConfigFile(t, dir, "base.yml", `
application:
  port: 8080
  kafka_topic: "document-events"
database:
  port: 5432
  db_name: "snapshots"
`)
	writeConfigFile(t, dir, "local.yml", `
application:
  signing_key: "local-key"
database:
  username: "postgres"
  password: "from-file"
`)

	t.Setenv("ENVIRONMENT", "local")

	t.Run("layers base and environment files", func(t *testing.T) {
		settings := ReadConfiguration(dir)

		if settings.Application.Port != 8080 {
			t.Errorf("expected port 8080 got %d", settings.Application.Port)
		}
		if settings.Application.KafkaTopic != "document-events" {
			t.Errorf("unexpected kafka topic %q", settings.Application.KafkaTopic)
		}
		if settings.Application.SigningKey != "local-key" {
			t.Errorf("unexpected signing key %q", settings.Application.SigningKey)
		}
		if settings.Database.Username != "postgres" {
			t.Errorf("unexpected db username %q", settings.Database.Username)
		}
	})

	t.Run("environment variables win", func(t *testing.T) {
		t.Setenv("DB_PASSWORD", "from-env")

		settings := ReadConfiguration(dir)

		if settings.Database.Password != "from-env" {
			t.Errorf("expected env override, got %q", settings.Database.Password)
		}
	})
}
