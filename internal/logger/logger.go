package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures a logger built by New.
type Options struct {
	Level  string    // debug|info|warn|error (default: info)
	Pretty bool      // human readable console output instead of JSON
	Name   string    // optional "log_name" field attached to every line
	Out    io.Writer // defaults to os.Stdout
}

// New builds the process logger. It is created once in main and handed to every
// component that logs; nothing in this module reaches for a package-level logger.
func New(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var w io.Writer = os.Stdout
	if opts.Out != nil {
		w = opts.Out
	}
	if opts.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(w).With().Timestamp()
	if opts.Name != "" {
		ctx = ctx.Str("log_name", opts.Name)
	}
	return ctx.Logger().Level(parseLevel(opts.Level))
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
