package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// isTerminal reports whether w is an interactive terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Options selects the logging backend and its output settings.
type Options struct {
	// Backend is "slog" or "zerolog".
	Backend string
	// Level is one of debug, info, warn, error (case-insensitive).
	Level string
	// Format is "json" or "text". zerolog renders "text" with its console
	// writer, colored when Output is a terminal.
	Format string
	// Output defaults to os.Stdout.
	Output io.Writer
}

// New builds a Logger from opts.
func New(opts Options) (Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	switch strings.ToLower(opts.Backend) {
	case "", "slog":
		level, err := slogLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		ho := &slog.HandlerOptions{Level: level}
		var h slog.Handler
		if strings.EqualFold(opts.Format, "text") {
			h = slog.NewTextHandler(out, ho)
		} else {
			h = slog.NewJSONHandler(out, ho)
		}
		return NewSlogLogger(slog.New(h)), nil

	case "zerolog":
		level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if opts.Level == "" {
			level, err = zerolog.InfoLevel, nil
		}
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		if strings.EqualFold(opts.Format, "text") {
			out = zerolog.ConsoleWriter{Out: out, NoColor: !isTerminal(out)}
		}
		zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
		return NewZerologLogger(zl), nil

	default:
		return nil, fmt.Errorf("unknown log backend: %q", opts.Backend)
	}
}

func slogLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}
