// Package report surfaces failures to the user: a console line when attached
// to a terminal, a modal dialog otherwise.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Level is the severity of a notification.
type Level int

const (
	LevelWarning Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "warning"
}

// Channel delivers a notification to the user. Implementations may block
// until the user acknowledges it.
type Channel interface {
	Notify(level Level, title, message string)
}

// Console writes one colored line per notification.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a console channel writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Notify(level Level, title, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := color.New(color.FgYellow)
	if level == LevelError {
		prefix = color.New(color.FgRed, color.Bold)
	}
	prefix.Fprintf(c.w, "%s: ", strings.ToUpper(level.String()))
	fmt.Fprintf(c.w, "%s: %s\n", title, message)
}

// Logged mirrors every notification into a structured log before passing it
// on.
type Logged struct {
	next   Channel
	logger *slog.Logger
}

// WithLog wraps next so notifications are also logged.
func WithLog(next Channel, logger *slog.Logger) *Logged {
	return &Logged{next: next, logger: logger}
}

func (l *Logged) Notify(level Level, title, message string) {
	if l.logger != nil {
		lvl := slog.LevelWarn
		if level == LevelError {
			lvl = slog.LevelError
		}
		l.logger.Log(context.Background(), lvl, message, "title", title)
	}
	l.next.Notify(level, title, message)
}

// Modes accepted by Select.
const (
	ModeAuto    = "auto"
	ModeConsole = "console"
	ModeDialog  = "dialog"
)

// Select returns the channel for mode. Auto picks the console when stderr is
// a terminal and a dialog otherwise.
func Select(mode string) (Channel, error) {
	switch mode {
	case ModeConsole:
		return NewConsole(os.Stderr), nil
	case ModeDialog:
		return newDialog(), nil
	case ModeAuto, "":
		if term.IsTerminal(int(os.Stderr.Fd())) {
			return NewConsole(os.Stderr), nil
		}
		return newDialog(), nil
	default:
		return nil, fmt.Errorf("unknown notify mode %q (want %s, %s or %s)", mode, ModeAuto, ModeConsole, ModeDialog)
	}
}
