// Package snap aligns a window that just finished moving with the nearest
// edge of another top-level window.
package snap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/1broseidon/snaptile/internal/hook"
	"github.com/1broseidon/snaptile/internal/platform"
	"github.com/1broseidon/snaptile/internal/report"
)

var (
	// ErrMovedWindow wraps a failure to read the frame of the window that
	// moved.
	ErrMovedWindow = errors.New("failed to read moved window frame")

	// ErrEnumerate wraps a failed walk over the top-level windows.
	ErrEnumerate = errors.New("failed to enumerate top-level windows")
)

// State is the engine's processing state.
type State int

const (
	Idle State = iota
	Resolving
)

func (s State) String() string {
	if s == Resolving {
		return "resolving"
	}
	return "idle"
}

// Options configures an Engine.
type Options struct {
	Threshold       int
	IgnoreMinimized bool
	IgnoreMaximized bool
	Logger          *slog.Logger
	Notify          report.Channel
}

// Result describes the outcome of one resolve pass.
type Result struct {
	Snapped  bool
	Peer     platform.WindowID
	Edge     Edge
	Target   platform.Rect
	Failures int
}

// Stats are cumulative engine counters. Failures counts rejected
// repositions; Aborts counts events dropped before or during the peer walk.
type Stats struct {
	Events   int64
	Snaps    int64
	Failures int64
	Aborts   int64
}

// Engine reacts to move/resize-end events. It holds no per-event state, so
// HandleEvent may run concurrently on any thread.
type Engine struct {
	backend         platform.Backend
	threshold       int
	ignoreMinimized bool
	ignoreMaximized bool
	logger          *slog.Logger
	notify          report.Channel

	inFlight atomic.Int32
	events   atomic.Int64
	snaps    atomic.Int64
	failures atomic.Int64
	aborts   atomic.Int64
}

// New creates an engine operating on backend.
func New(backend platform.Backend, opts Options) *Engine {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		backend:         backend,
		threshold:       threshold,
		ignoreMinimized: opts.IgnoreMinimized,
		ignoreMaximized: opts.IgnoreMaximized,
		logger:          logger,
		notify:          opts.Notify,
	}
}

// HandleEvent is the hook handler. Anything other than a move/resize-end on
// the window itself is ignored.
func (e *Engine) HandleEvent(ev hook.Event) {
	if ev.Kind != hook.EventMoveSizeEnd || !ev.TopLevel() {
		return
	}
	e.events.Add(1)

	if _, err := e.Resolve(platform.WindowID(ev.Window)); err != nil {
		e.aborts.Add(1)
		e.report(report.LevelWarning, "snap aborted", err)
	}
}

// Resolve snaps moved onto the first eligible peer with an edge in range.
// The moved frame is read once; peers are visited in window-system order and
// the walk stops after the first successful reposition.
func (e *Engine) Resolve(moved platform.WindowID) (Result, error) {
	e.inFlight.Add(1)
	defer e.inFlight.Add(-1)

	frame, err := e.backend.OuterFrame(moved)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrMovedWindow, err)
	}
	e.logger.Debug("resolving move", "window", hexID(moved), "frame", frame)

	var res Result
	for peer, err := range platform.TopLevel(e.backend) {
		if err != nil {
			return res, fmt.Errorf("%w: %w", ErrEnumerate, err)
		}
		if peer == moved || !e.candidate(peer) {
			continue
		}

		peerFrame, err := e.backend.OuterFrame(peer)
		if err != nil {
			continue
		}

		target, edge := Match(frame, peerFrame, e.threshold)
		if e.logger.Enabled(context.Background(), slog.LevelDebug) {
			e.logger.Debug("peer",
				"window", hexID(peer),
				"title", e.backend.Title(peer),
				"frame", peerFrame,
				"edge", edge)
		}
		if edge == EdgeNone {
			continue
		}

		if err := platform.Reposition(e.backend, moved, target); err != nil {
			res.Failures++
			e.failures.Add(1)
			e.report(report.LevelWarning, "snap failed", fmt.Errorf("failed to snap %s edge of %s: %w", edge, hexID(moved), err))
			continue
		}

		res.Snapped = true
		res.Peer = peer
		res.Edge = edge
		res.Target = target
		e.snaps.Add(1)
		e.logger.Info("snapped window",
			"window", hexID(moved),
			"peer", hexID(peer),
			"edge", edge,
			"frame", target)
		break
	}

	return res, nil
}

// candidate applies the peer filter. Query failures exclude the peer.
func (e *Engine) candidate(peer platform.WindowID) bool {
	if !platform.IsTaskbarEligible(e.backend, peer) {
		return false
	}
	if !e.ignoreMinimized && !e.ignoreMaximized {
		return true
	}

	state, err := e.backend.ShowState(peer)
	if err != nil {
		return false
	}
	if e.ignoreMinimized && state == platform.ShowMinimized {
		return false
	}
	if e.ignoreMaximized && state == platform.ShowMaximized {
		return false
	}
	return true
}

// State reports whether a resolve pass is in progress.
func (e *Engine) State() State {
	if e.inFlight.Load() > 0 {
		return Resolving
	}
	return Idle
}

// Threshold returns the snap distance in pixels.
func (e *Engine) Threshold() int { return e.threshold }

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Events:   e.events.Load(),
		Snaps:    e.snaps.Load(),
		Failures: e.failures.Load(),
		Aborts:   e.aborts.Load(),
	}
}

func (e *Engine) report(level report.Level, msg string, err error) {
	e.logger.Warn(msg, "error", err)
	if e.notify != nil {
		e.notify.Notify(level, "snaptile", err.Error())
	}
}

func hexID(id platform.WindowID) string {
	return fmt.Sprintf("%#x", uintptr(id))
}
