// Package daemon wires the snap engine to a live window system and runs it
// until cancelled.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/snaptile/internal/hook"
	"github.com/1broseidon/snaptile/internal/platform"
	"github.com/1broseidon/snaptile/internal/report"
	"github.com/1broseidon/snaptile/internal/snap"
)

// ErrSetup marks failures that happen before the message loop starts.
var ErrSetup = errors.New("snaptile setup failed")

// Options configures Run.
type Options struct {
	Threshold       int
	IgnoreMinimized bool
	IgnoreMaximized bool
	DPIAwareness    string
	Logger          *slog.Logger

	// Notify receives per-event failures from the engine and setup errors.
	Notify report.Channel
}

// Run installs the move/resize-end hook, pumps window-system messages until
// ctx is cancelled or the pump stops, then removes the hook.
func Run(ctx context.Context, native platform.Native, opts Options) (snap.Stats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.DPIAwareness != "" && opts.DPIAwareness != "none" {
		if dpi, ok := native.(platform.DPIAware); ok {
			if err := dpi.SetDPIAwareness(opts.DPIAwareness); err != nil {
				// Usually already set by the manifest or a previous call.
				logger.Warn("failed to set dpi awareness", "mode", opts.DPIAwareness, "error", err)
			} else {
				logger.Debug("dpi awareness set", "mode", opts.DPIAwareness)
			}
		}
	}

	engine := snap.New(native, snap.Options{
		Threshold:       opts.Threshold,
		IgnoreMinimized: opts.IgnoreMinimized,
		IgnoreMaximized: opts.IgnoreMaximized,
		Logger:          logger,
		Notify:          opts.Notify,
	})

	manager := hook.NewManager(hook.Process(), native)
	h, err := manager.Subscribe(hook.EventMoveSizeEnd, guard(engine.HandleEvent, logger))
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrSetup, err)
		if opts.Notify != nil {
			report.WithLog(opts.Notify, logger).Notify(report.LevelError, "snaptile", err.Error())
		} else {
			logger.Error("setup failed", "error", err)
		}
		return snap.Stats{}, err
	}

	logger.Info("snaptile running",
		"hook", fmt.Sprintf("%#x", uintptr(h)),
		"threshold", engine.Threshold(),
		"ignore_minimized", opts.IgnoreMinimized,
		"ignore_maximized", opts.IgnoreMaximized)

	runErr := native.Run(ctx)

	if err := manager.Close(); err != nil {
		logger.Warn("failed to remove hook", "error", err)
	}

	stats := engine.Stats()
	logger.Info("snaptile stopped",
		"events", stats.Events,
		"snaps", stats.Snaps,
		"failures", stats.Failures,
		"aborts", stats.Aborts)

	if runErr != nil {
		return stats, fmt.Errorf("message loop: %w", runErr)
	}
	return stats, nil
}

// guard keeps a panicking handler from unwinding into the window system's
// callback.
func guard(next hook.Handler, logger *slog.Logger) hook.Handler {
	return func(ev hook.Event) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("event handler panic recovered", "event", ev.Kind, "window", fmt.Sprintf("%#x", ev.Window), "panic", r)
			}
		}()
		next(ev)
	}
}
