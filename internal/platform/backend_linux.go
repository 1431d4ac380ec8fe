//go:build linux

package platform

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/snaptile/internal/hook"
	"github.com/1broseidon/snaptile/internal/x11"
)

// LinuxBackend maps the Backend primitives onto an EWMH-compliant X11
// window manager. Move-end events are synthesized by an x11.MoveWatcher.
type LinuxBackend struct {
	conn   *x11.Connection
	settle time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	watcher *x11.MoveWatcher
	hooks   map[hook.Handle]hook.EventKind
	next    hook.Handle
}

var _ Native = (*LinuxBackend)(nil)

// Open connects to the X server named by $DISPLAY.
func Open(opts Options) (Native, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn, opts), nil
}

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, opts Options) *LinuxBackend {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &LinuxBackend{
		conn:   conn,
		settle: opts.SettleDelay,
		logger: logger,
		hooks:  make(map[hook.Handle]hook.EventKind),
	}
}

func xwin(id WindowID) xproto.Window { return xproto.Window(id) }

// exists turns a failed property read into an error only when the window
// itself is gone; a missing property is not a failure.
func (b *LinuxBackend) exists(op string, id WindowID) error {
	if _, err := xproto.GetWindowAttributes(b.conn.XUtil.Conn(), xwin(id)).Reply(); err != nil {
		return &OpError{Op: op, Window: id, Err: err}
	}
	return nil
}

func (b *LinuxBackend) Visible(id WindowID) bool {
	return b.conn.IsViewable(xwin(id))
}

func (b *LinuxBackend) ShowState(id WindowID) (ShowState, error) {
	states, err := b.conn.WindowStates(xwin(id))
	if err != nil {
		return 0, &OpError{Op: "_NET_WM_STATE", Window: id, Err: err}
	}
	return showStateFor(states), nil
}

// Cloaked treats windows on another virtual desktop as hidden by the
// compositor.
func (b *LinuxBackend) Cloaked(id WindowID) (bool, error) {
	other, err := b.conn.OnOtherDesktop(xwin(id))
	if err != nil {
		return false, &OpError{Op: "_NET_WM_DESKTOP", Window: id, Err: err}
	}
	return other, nil
}

func (b *LinuxBackend) ExtendedStyle(id WindowID) (ExStyle, error) {
	states, err := b.conn.WindowStates(xwin(id))
	if err != nil {
		return 0, &OpError{Op: "_NET_WM_STATE", Window: id, Err: err}
	}
	types, err := b.conn.WindowTypes(xwin(id))
	if err != nil {
		if err := b.exists("_NET_WM_WINDOW_TYPE", id); err != nil {
			return 0, err
		}
		types = nil
	}
	return exStyleFor(types, states), nil
}

// Style is always a top-level style: every managed client is a child of
// the root window only.
func (b *LinuxBackend) Style(id WindowID) (Style, error) {
	if err := b.exists("GetWindowAttributes", id); err != nil {
		return 0, err
	}
	return 0, nil
}

func (b *LinuxBackend) Owner(id WindowID) WindowID {
	if id == 0 {
		return 0
	}
	return WindowID(b.conn.TransientFor(xwin(id)))
}

func (b *LinuxBackend) Ancestor(id WindowID, rel Relation) WindowID {
	if id == 0 {
		return 0
	}
	switch rel {
	case AncestorParent:
		return 0
	case AncestorRootOwner:
		if owner := b.Owner(id); owner != 0 {
			return b.Ancestor(owner, rel)
		}
	}
	return id
}

func (b *LinuxBackend) TitleBar(id WindowID) (TitleBarState, error) {
	states, err := b.conn.WindowStates(xwin(id))
	if err != nil {
		return 0, &OpError{Op: "_NET_WM_STATE", Window: id, Err: err}
	}
	return titleBarFor(states), nil
}

// OuterFrame is the client rectangle grown by the window manager
// decorations.
func (b *LinuxBackend) OuterFrame(id WindowID) (Rect, error) {
	g, err := b.conn.ClientGeometry(xwin(id))
	if err != nil {
		return Rect{}, &OpError{Op: "GetGeometry", Window: id, Err: err}
	}
	return outerFrameOf(g, b.conn.GetFrameExtents(xwin(id))), nil
}

func (b *LinuxBackend) ClientFrame(id WindowID) (Rect, error) {
	g, err := b.conn.ClientGeometry(xwin(id))
	if err != nil {
		return Rect{}, &OpError{Op: "GetGeometry", Window: id, Err: err}
	}
	return rectOfGeometry(g), nil
}

func (b *LinuxBackend) Title(id WindowID) string {
	return b.conn.WindowTitle(xwin(id))
}

// SetClientBounds moves the client window. Window managers place the frame
// at the requested origin, so the origin is shifted by the decorations.
func (b *LinuxBackend) SetClientBounds(id WindowID, bounds Rect) error {
	if err := b.exists("MoveResizeWindow", id); err != nil {
		return err
	}

	b.mu.Lock()
	if b.watcher != nil {
		b.watcher.Suppress(xwin(id))
	}
	b.mu.Unlock()

	x, y := frameOrigin(bounds, b.conn.GetFrameExtents(xwin(id)))
	if err := b.conn.MoveResizeWindow(xwin(id), x, y, bounds.Width(), bounds.Height()); err != nil {
		return &OpError{Op: "MoveResizeWindow", Window: id, Err: err}
	}
	return nil
}

// EnumerateTopLevel walks managed clients from the top of the stack down.
func (b *LinuxBackend) EnumerateTopLevel(visit func(WindowID) bool) error {
	clients, err := b.conn.StackingOrder()
	if err != nil {
		return fmt.Errorf("_NET_CLIENT_LIST_STACKING: %w", err)
	}
	for _, w := range clients {
		if !visit(WindowID(w)) {
			return nil
		}
	}
	return nil
}

// Install starts the move watcher on first use. Only move-end events can be
// synthesized.
func (b *LinuxBackend) Install(kind hook.EventKind) (hook.Handle, error) {
	if kind != hook.EventMoveSizeEnd {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedEvent, kind)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.watcher == nil {
		w := x11.NewMoveWatcher(b.conn, b.settle, b.logger, b.fire)
		if err := w.Start(); err != nil {
			w.Stop()
			return 0, err
		}
		b.watcher = w
	}

	b.next++
	b.hooks[b.next] = kind
	return b.next, nil
}

func (b *LinuxBackend) Uninstall(h hook.Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.hooks[h]; !ok {
		return fmt.Errorf("hook %#x not installed", uintptr(h))
	}
	delete(b.hooks, h)
	if len(b.hooks) == 0 && b.watcher != nil {
		b.watcher.Stop()
		b.watcher = nil
	}
	return nil
}

// fire delivers a settled move to every installed hook.
func (b *LinuxBackend) fire(win xproto.Window) {
	b.mu.Lock()
	handles := make([]hook.Handle, 0, len(b.hooks))
	for h := range b.hooks {
		handles = append(handles, h)
	}
	b.mu.Unlock()

	ev := hook.Event{
		Kind:   hook.EventMoveSizeEnd,
		Window: uintptr(win),
		Object: hook.ObjectWindow,
		Child:  hook.ChildSelf,
		Time:   uint32(time.Now().UnixMilli()),
	}
	for _, h := range handles {
		hook.Trampoline(h, ev)
	}
}

// Run processes X events until ctx is cancelled.
func (b *LinuxBackend) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, b.conn.Quit)
	defer stop()

	b.conn.EventLoop()
	return nil
}

func (b *LinuxBackend) Close() error {
	b.mu.Lock()
	if b.watcher != nil {
		b.watcher.Stop()
		b.watcher = nil
	}
	b.hooks = make(map[hook.Handle]hook.EventKind)
	b.mu.Unlock()

	b.conn.Close()
	return nil
}

// normalTypes are the window types that would appear on a taskbar.
var normalTypes = map[string]bool{
	"_NET_WM_WINDOW_TYPE_NORMAL": true,
	"_NET_WM_WINDOW_TYPE_DIALOG": true,
}

func hasState(states []string, want string) bool {
	for _, s := range states {
		if s == want {
			return true
		}
	}
	return false
}

// exStyleFor translates EWMH hints into extended style bits. Clients that
// skip the taskbar and non-application window types become tool windows.
// Windows without a type are normal.
func exStyleFor(types, states []string) ExStyle {
	if hasState(states, "_NET_WM_STATE_SKIP_TASKBAR") {
		return ExStyleToolWindow
	}
	if len(types) == 0 {
		return 0
	}
	for _, t := range types {
		if normalTypes[t] {
			return 0
		}
	}
	return ExStyleToolWindow
}

func showStateFor(states []string) ShowState {
	switch {
	case hasState(states, "_NET_WM_STATE_HIDDEN"):
		return ShowMinimized
	case hasState(states, "_NET_WM_STATE_MAXIMIZED_HORZ") && hasState(states, "_NET_WM_STATE_MAXIMIZED_VERT"):
		return ShowMaximized
	default:
		return ShowNormal
	}
}

// titleBarFor reports fullscreen clients as having no visible title bar.
func titleBarFor(states []string) TitleBarState {
	if hasState(states, "_NET_WM_STATE_FULLSCREEN") {
		return TitleBarInvisible
	}
	return 0
}

func rectOfGeometry(g x11.Geometry) Rect {
	return Rect{Left: g.X, Top: g.Y, Right: g.X + g.Width, Bottom: g.Y + g.Height}
}

func outerFrameOf(g x11.Geometry, e x11.Extents) Rect {
	r := rectOfGeometry(g)
	return Rect{
		Left:   r.Left - e.Left,
		Top:    r.Top - e.Top,
		Right:  r.Right + e.Right,
		Bottom: r.Bottom + e.Bottom,
	}
}

func frameOrigin(client Rect, e x11.Extents) (x, y int) {
	return client.Left - e.Left, client.Top - e.Top
}
