// Package logger builds the process zerolog logger. main calls Init once and
// hands the result to every component by value.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	// Level is trace, debug, info, warn or error; anything else means info.
	Level string
	// Pretty writes coloured console lines instead of JSON.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	once     sync.Once
	instance zerolog.Logger
)

// Init builds the process logger on first call and returns it on every call.
// It also sets zerolog's global level.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		zerolog.SetGlobalLevel(ParseLevel(opts.Level))
		instance = New(opts)
	})
	return instance
}

// New returns a logger for opts without touching global state.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Str("service", "capture-moments").
		Logger()
}

func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
