// Package logging builds the daemon's slog logger: a rotating log file plus
// an optional colored console.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// DefaultMaxSizeMB is the default maximum size in megabytes before rotation
	DefaultMaxSizeMB = 5

	// DefaultMaxFiles is the default number of rotated files to retain
	DefaultMaxFiles = 3
)

// Options configures New.
type Options struct {
	Level     string
	File      string // empty disables the log file
	MaxSizeMB int
	MaxFiles  int
	Compress  bool

	// Console receives human-readable output when non-nil. Verbose lowers
	// its threshold to debug.
	Console io.Writer
	Verbose bool
}

// Logger owns the file sink behind a *slog.Logger.
type Logger struct {
	*slog.Logger
	rotator *lumberjack.Logger
	path    string
}

// ParseLevel maps a config level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}

// New creates the logger. With neither a file nor a console, log records are
// discarded.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.MaxSizeMB == 0 {
		opts.MaxSizeMB = DefaultMaxSizeMB
	}

	l := &Logger{path: opts.File}
	var handlers []slog.Handler

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("could not create log directory: %w", err)
		}
		l.rotator = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxFiles,
			Compress:   opts.Compress,
		}
		handlers = append(handlers, slog.NewTextHandler(l.rotator, &slog.HandlerOptions{Level: level}))
	}

	if opts.Console != nil {
		consoleLevel := level
		if opts.Verbose {
			consoleLevel = slog.LevelDebug
		}
		handlers = append(handlers, NewConsoleHandler(opts.Console, consoleLevel))
	}

	switch len(handlers) {
	case 0:
		l.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	case 1:
		l.Logger = slog.New(handlers[0])
	default:
		l.Logger = slog.New(&fanout{handlers: handlers})
	}
	return l, nil
}

// Path returns the log file path, or "" when no file is written.
func (l *Logger) Path() string { return l.path }

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l.rotator == nil {
		return nil
	}
	return l.rotator.Close()
}

// fanout hands every record to each handler that accepts its level.
type fanout struct {
	handlers []slog.Handler
}

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		out[i] = h.WithAttrs(attrs)
	}
	return &fanout{handlers: out}
}

func (f *fanout) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		out[i] = h.WithGroup(name)
	}
	return &fanout{handlers: out}
}
