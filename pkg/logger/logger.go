package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var base = zerolog.New(os.Stdout).With().
	Timestamp().
	Str("service", "swasthyaflow-backend").
	Logger()

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

// New returns a logger tagged with the given component name.
func New(component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}
