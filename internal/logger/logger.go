// Package logger builds the process logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w at the given level. Unknown levels fall
// back to info. Console output is colored unless noColor is set.
func New(w io.Writer, level string, json, noColor bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if !json {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.0000", NoColor: noColor}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Default is New on stderr.
func Default(level string, json bool) zerolog.Logger {
	return New(os.Stderr, level, json, false)
}
