package testlog

import (
	"testing"

	"github.com/danmuck/ddeurl/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	log.Info().Str("test", t.Name()).Msg("start")
}

// Logger returns a test-scoped logger tagged with the test name.
func Logger(t *testing.T) zerolog.Logger {
	t.Helper()
	Start(t)
	return log.Logger.With().Str("test", t.Name()).Logger()
}
