package logging

import (
	"io"
	stdlog "log"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the application logger
type Options struct {
	Level string
	// File is the log file path. The TUI owns the terminal, so logs go to a
	// file; an empty File writes to Fallback instead.
	File     string
	Fallback io.Writer
}

// ParseLevel maps a config level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// Setup builds the application logger and redirects the standard library
// logger into it. The returned closer flushes and closes the log file.
func Setup(opts Options) (zerolog.Logger, io.Closer) {
	var out io.Writer
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		out = rotating
		closer = rotating
	} else if opts.Fallback != nil {
		out = opts.Fallback
	} else {
		out = os.Stderr
	}

	logger := zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()

	stdlog.SetFlags(0)
	stdlog.SetOutput(logger)

	return logger, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
