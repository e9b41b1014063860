package logger

import (
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var once sync.Once
var log zerolog.Logger

// Get returns the process-wide logger, configured on first use via the
// LOG_LEVEL and ENVIRONMENT variables.
func Get() zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		logLevel, err := strconv.Atoi(os.Getenv("LOG_LEVEL"))
		if err != nil {
			logLevel = int(zerolog.InfoLevel)
		}

		var output io.Writer = os.Stdout
		if os.Getenv("ENVIRONMENT") != "production" {
			output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		}

		log = zerolog.New(output).
			Level(zerolog.Level(logLevel)).
			With().
			Timestamp().
			Logger()
	})

	return log
}
