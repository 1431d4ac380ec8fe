package platform

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/snaptile/internal/hook"
)

// Native is a live window-system connection: the query layer, the event hook
// installer and the message pump that delivers hook events.
type Native interface {
	Backend
	hook.Installer

	// Run pumps window-system messages until ctx is cancelled, a quit
	// message arrives, or the pump fails.
	Run(ctx context.Context) error
	Close() error
}

// DPIAware is implemented by backends that can change the process DPI
// awareness context.
type DPIAware interface {
	SetDPIAwareness(mode string) error
}

// Options configures Open.
type Options struct {
	// SettleDelay is how long a window must stay still before a move is
	// treated as finished, for window systems without a native move-end event.
	SettleDelay time.Duration
	Logger      *slog.Logger
}

// ErrUnsupported is returned by Open on platforms without a backend.
var ErrUnsupported = errors.New("no window-system backend for this platform")

// ErrUnsupportedEvent is returned when a backend cannot deliver an event kind.
var ErrUnsupportedEvent = errors.New("event kind not supported by this backend")

// Posting the quit message is retried a few times; a lost quit leaves Run
// pumping after ctx is done.
var (
	quitRetries    = 5
	quitRetryDelay = 100 * time.Millisecond
)

// quitOnCancel calls post once ctx is done, retrying failures. stop cancels
// the pending call and any retries.
func quitOnCancel(ctx context.Context, logger *slog.Logger, post func() error) (stop func()) {
	done := make(chan struct{})
	var once sync.Once

	unregister := context.AfterFunc(ctx, func() {
		for attempt := 1; ; attempt++ {
			err := post()
			if err == nil {
				return
			}
			if attempt >= quitRetries {
				logger.Error("giving up posting quit to message loop", "attempts", attempt, "error", err)
				return
			}
			logger.Warn("failed to post quit to message loop", "attempt", attempt, "error", err)
			select {
			case <-done:
				return
			case <-time.After(quitRetryDelay):
			}
		}
	})

	return func() {
		unregister()
		once.Do(func() { close(done) })
	}
}
