package x11

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDelay = 10 * time.Millisecond

// quiet is long enough for any armed settle timer to have fired.
const quiet = 15 * testDelay

type geometries struct {
	mu    sync.Mutex
	rects map[xproto.Window]Geometry
}

func (g *geometries) set(win xproto.Window, geom Geometry) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rects[win] = geom
}

func (g *geometries) ClientGeometry(win xproto.Window) (Geometry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	geom, ok := g.rects[win]
	if !ok {
		return Geometry{}, errors.New("BadWindow")
	}
	return geom, nil
}

type moves struct {
	mu   sync.Mutex
	wins []xproto.Window
}

func (m *moves) record(win xproto.Window) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wins = append(m.wins, win)
}

func (m *moves) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.wins)
}

func newTestWatcher(t *testing.T, wins ...xproto.Window) (*MoveWatcher, *geometries, *moves) {
	t.Helper()
	g := &geometries{rects: make(map[xproto.Window]Geometry)}
	for _, win := range wins {
		g.set(win, Geometry{X: 10, Y: 10, Width: 200, Height: 100})
	}
	m := &moves{}
	w := newMoveWatcher(nil, g, testDelay, slog.New(slog.NewTextHandler(io.Discard, nil)), m.record)

	w.mu.Lock()
	for _, win := range wins {
		w.trackLocked(win)
	}
	w.mu.Unlock()
	t.Cleanup(w.Stop)
	return w, g, m
}

func TestMoveWatcher_MoveThenSettleFiresOnce(t *testing.T) {
	w, g, m := newTestWatcher(t, 1)

	g.set(1, Geometry{X: 40, Y: 10, Width: 200, Height: 100})
	for range 3 {
		w.configured(1)
	}

	require.Eventually(t, func() bool { return m.count() == 1 }, time.Second, time.Millisecond)
	time.Sleep(quiet)
	assert.Equal(t, []xproto.Window{1}, m.wins)
}

func TestMoveWatcher_UnchangedGeometryIsNotAMove(t *testing.T) {
	w, _, m := newTestWatcher(t, 1)

	// Restacking and property changes also produce ConfigureNotify.
	w.configured(1)
	time.Sleep(quiet)
	assert.Zero(t, m.count())
}

func TestMoveWatcher_SuppressSwallowsOneSettle(t *testing.T) {
	w, g, m := newTestWatcher(t, 1)

	g.set(1, Geometry{X: 0, Y: 10, Width: 210, Height: 100})
	w.Suppress(1)
	time.Sleep(quiet)
	assert.Zero(t, m.count(), "our own move must not be reported")

	g.set(1, Geometry{X: 300, Y: 10, Width: 210, Height: 100})
	w.configured(1)
	require.Eventually(t, func() bool { return m.count() == 1 }, time.Second, time.Millisecond)
}

func TestMoveWatcher_SuppressUntrackedIsNoOp(t *testing.T) {
	w, _, m := newTestWatcher(t, 1)
	w.Suppress(7)
	time.Sleep(quiet)
	assert.Zero(t, m.count())
	assert.Equal(t, 1, w.Tracked())
}

func TestMoveWatcher_StopCancelsPendingSettle(t *testing.T) {
	w, g, m := newTestWatcher(t, 1, 2)

	g.set(1, Geometry{X: 50, Y: 50, Width: 200, Height: 100})
	g.set(2, Geometry{X: 90, Y: 50, Width: 200, Height: 100})
	w.configured(1)
	w.configured(2)
	w.Stop()

	time.Sleep(quiet)
	assert.Zero(t, m.count())
	assert.Zero(t, w.Tracked())

	w.configured(1)
	time.Sleep(quiet)
	assert.Zero(t, m.count(), "events after Stop are ignored")
}

func TestMoveWatcher_VanishedWindowDoesNotFire(t *testing.T) {
	w, g, m := newTestWatcher(t, 1)

	g.mu.Lock()
	delete(g.rects, 1)
	g.mu.Unlock()
	w.configured(1)

	time.Sleep(quiet)
	assert.Zero(t, m.count())
}

func TestMoveWatcher_UnknownInitialGeometryCountsAsMove(t *testing.T) {
	g := &geometries{rects: make(map[xproto.Window]Geometry)}
	m := &moves{}
	w := newMoveWatcher(nil, g, testDelay, nil, m.record)
	t.Cleanup(w.Stop)

	w.mu.Lock()
	w.trackLocked(3)
	w.mu.Unlock()

	g.set(3, Geometry{X: 1, Y: 1, Width: 10, Height: 10})
	w.configured(3)
	require.Eventually(t, func() bool { return m.count() == 1 }, time.Second, time.Millisecond)
}
