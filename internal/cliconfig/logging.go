package cliconfig

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// Logger returns a console logger on stderr. debug lowers the level to debug.
func Logger(debug bool) zerolog.Logger {
	return newLogger(os.Stderr, debug)
}

func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

// SlogHandler routes slog records into log, so library output shares the
// CLI's console format.
func SlogHandler(log zerolog.Logger, debug bool) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slogzerolog.Option{Level: level, Logger: &log}.NewZerologHandler()
}
