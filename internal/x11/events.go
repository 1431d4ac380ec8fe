package x11

import (
	"log/slog"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// DefaultSettleDelay is how long a client must stay put before its move is
// reported as finished.
const DefaultSettleDelay = 250 * time.Millisecond

// MoveWatcher turns the stream of ConfigureNotify events of every managed
// client into one move-end notification per drag. X11 has no equivalent of
// a move/resize-end event, so a move counts as finished once the client has
// not been reconfigured for the settle delay.
type MoveWatcher struct {
	conn   *Connection
	geom   GeometrySource
	delay  time.Duration
	onMove func(xproto.Window)
	logger *slog.Logger

	mu      sync.Mutex
	clients map[xproto.Window]*tracked
	stopped bool

	// emitMu serializes onMove across timers.
	emitMu sync.Mutex
}

type tracked struct {
	timer    *time.Timer
	last     Geometry
	seen     bool
	suppress bool
}

// GeometrySource reads the current rectangle of a client window.
type GeometrySource interface {
	ClientGeometry(win xproto.Window) (Geometry, error)
}

// NewMoveWatcher creates a watcher calling onMove from a timer goroutine.
func NewMoveWatcher(conn *Connection, delay time.Duration, logger *slog.Logger, onMove func(xproto.Window)) *MoveWatcher {
	return newMoveWatcher(conn, conn, delay, logger, onMove)
}

// newMoveWatcher separates the geometry reads from the connection. A nil conn
// leaves out every X subscription.
func newMoveWatcher(conn *Connection, geom GeometrySource, delay time.Duration, logger *slog.Logger, onMove func(xproto.Window)) *MoveWatcher {
	if delay <= 0 {
		delay = DefaultSettleDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MoveWatcher{
		conn:    conn,
		geom:    geom,
		delay:   delay,
		onMove:  onMove,
		logger:  logger,
		clients: make(map[xproto.Window]*tracked),
	}
}

// Start subscribes to client list changes on the root window and to
// structure events of every current client.
func (w *MoveWatcher) Start() error {
	xu := w.conn.XUtil
	if err := xwindow.New(xu, w.conn.Root).Listen(xproto.EventMaskPropertyChange); err != nil {
		return err
	}
	xevent.PropertyNotifyFun(w.handleProperty).Connect(xu, w.conn.Root)

	w.syncClients()
	return nil
}

// Stop detaches every callback and cancels pending timers.
func (w *MoveWatcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true

	wins := make([]xproto.Window, 0, len(w.clients))
	for win, t := range w.clients {
		if t.timer != nil {
			t.timer.Stop()
		}
		wins = append(wins, win)
	}
	w.clients = make(map[xproto.Window]*tracked)
	w.mu.Unlock()

	if w.conn == nil {
		return
	}
	for _, win := range wins {
		xevent.Detach(w.conn.XUtil, win)
	}
	xevent.Detach(w.conn.XUtil, w.conn.Root)
}

// Suppress absorbs the next settle of win without notifying. Used after the
// daemon moves a window itself, so the move does not trigger another snap.
func (w *MoveWatcher) Suppress(win xproto.Window) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.clients[win]
	if !ok || w.stopped {
		return
	}
	t.suppress = true
	// Settle even if the window manager sends no ConfigureNotify.
	w.armLocked(win, t)
}

func (w *MoveWatcher) armLocked(win xproto.Window, t *tracked) {
	if t.timer != nil {
		t.timer.Reset(w.delay)
		return
	}
	t.timer = time.AfterFunc(w.delay, func() { w.settle(win) })
}

// Tracked returns how many clients are watched.
func (w *MoveWatcher) Tracked() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.clients)
}

func (w *MoveWatcher) handleProperty(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
	name, err := xprop.AtomName(xu, ev.Atom)
	if err != nil {
		return
	}
	if name == "_NET_CLIENT_LIST" {
		w.syncClients()
	}
}

// syncClients attaches to new clients and forgets the ones that went away.
func (w *MoveWatcher) syncClients() {
	clients, err := w.conn.ClientList()
	if err != nil {
		w.logger.Warn("failed to read client list", "error", err)
		return
	}

	current := make(map[xproto.Window]struct{}, len(clients))
	for _, c := range clients {
		current[c] = struct{}{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	for win, t := range w.clients {
		if _, ok := current[win]; ok {
			continue
		}
		if t.timer != nil {
			t.timer.Stop()
		}
		xevent.Detach(w.conn.XUtil, win)
		delete(w.clients, win)
	}

	for win := range current {
		if _, ok := w.clients[win]; ok {
			continue
		}
		if err := xwindow.New(w.conn.XUtil, win).Listen(xproto.EventMaskStructureNotify); err != nil {
			w.logger.Debug("failed to watch client", "window", win, "error", err)
			continue
		}
		w.trackLocked(win)
		xevent.ConfigureNotifyFun(w.handleConfigure).Connect(w.conn.XUtil, win)
	}
}

// trackLocked starts watching win from its current geometry. The caller
// holds w.mu.
func (w *MoveWatcher) trackLocked(win xproto.Window) {
	t := &tracked{}
	if geom, err := w.geom.ClientGeometry(win); err == nil {
		t.last, t.seen = geom, true
	}
	w.clients[win] = t
}

func (w *MoveWatcher) handleConfigure(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
	w.configured(ev.Window)
}

// configured restarts the settle timer of win.
func (w *MoveWatcher) configured(win xproto.Window) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.clients[win]
	if !ok || w.stopped {
		return
	}
	w.armLocked(win, t)
}

// settle runs once the client has been still for the settle delay. Only a
// change in geometry since the last settle counts as a move.
func (w *MoveWatcher) settle(win xproto.Window) {
	geom, err := w.geom.ClientGeometry(win)

	w.mu.Lock()
	t, ok := w.clients[win]
	if !ok || w.stopped || err != nil {
		w.mu.Unlock()
		return
	}
	moved := !t.seen || geom != t.last
	suppressed := t.suppress
	t.last, t.seen, t.suppress = geom, true, false
	w.mu.Unlock()

	if !moved || suppressed {
		return
	}

	w.emitMu.Lock()
	defer w.emitMu.Unlock()
	w.onMove(win)
}
