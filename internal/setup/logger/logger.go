package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a JSON logger on stderr; stdout carries chat and MCP traffic
func New(level string) zerolog.Logger {
	return newWithWriter(os.Stderr, level)
}

// SetupConsole points the global logger at a human readable stderr writer.
// Commands call it first so stdout stays free for chat output.
func SetupConsole(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = newWithWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, level)
}

func newWithWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}
