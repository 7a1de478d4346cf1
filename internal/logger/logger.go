package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New returns a logger for the given component writing to stderr. The console format is used when
// APP_ENV is "dev" or stderr is a terminal, JSON lines otherwise.
func New(component string, level string) zerolog.Logger {
	env := strings.ToLower(os.Getenv("APP_ENV"))
	console := env == "dev" || isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return NewWithWriter(os.Stderr, console, component, level)
}

func NewWithWriter(out io.Writer, console bool, component string, level string) zerolog.Logger {
	if console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(ParseLevel(level)).
		With().Timestamp().Str("component", component).
		Logger()
}

// ParseLevel falls back to info for unknown or empty levels
func ParseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}
