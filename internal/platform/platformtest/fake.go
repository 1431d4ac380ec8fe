// Package platformtest provides an in-memory window system for tests.
package platformtest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/1broseidon/snaptile/internal/hook"
	"github.com/1broseidon/snaptile/internal/platform"
)

// ErrGone is returned for queries against unknown windows.
var ErrGone = errors.New("window does not exist")

// Window is one fake top-level window.
type Window struct {
	ID       platform.WindowID
	Title    string
	Visible  bool
	Show     platform.ShowState
	Cloaked  bool
	Ex       platform.ExStyle
	Style    platform.Style
	Owner    platform.WindowID
	Parent   platform.WindowID
	TitleBar platform.TitleBarState

	// Outer is the visual frame. Insets is how far the client frame extends
	// past it on each edge.
	Outer  platform.Rect
	Insets platform.Borders

	// Per-query failures.
	CloakErr    error
	ExStyleErr  error
	StyleErr    error
	TitleBarErr error
	ShowErr     error
	FrameErr    error
	MoveErr     error
}

// NewWindow returns a visible, normal, unowned window with the given frame
// and an 8px invisible border on the left, right and bottom edges.
func NewWindow(id platform.WindowID, outer platform.Rect) *Window {
	return &Window{
		ID:      id,
		Title:   fmt.Sprintf("window %d", id),
		Visible: true,
		Show:    platform.ShowNormal,
		Outer:   outer,
		Insets:  platform.Borders{Left: 8, Right: 8, Bottom: 8},
	}
}

// Move records one SetClientBounds call.
type Move struct {
	Window platform.WindowID
	Client platform.Rect
}

// Backend is a fake platform.Backend. Windows are enumerated in insertion
// order. Every method call is counted by name.
type Backend struct {
	mu      sync.Mutex
	windows map[platform.WindowID]*Window
	order   []platform.WindowID
	calls   map[string]int
	moves   []Move
	visited []platform.WindowID

	// EnumErr is returned by EnumerateTopLevel after it visits every window.
	EnumErr error
}

var _ platform.Backend = (*Backend)(nil)

// New creates a backend holding windows in enumeration order.
func New(windows ...*Window) *Backend {
	b := &Backend{
		windows: make(map[platform.WindowID]*Window),
		calls:   make(map[string]int),
	}
	for _, w := range windows {
		b.Add(w)
	}
	return b
}

// Add appends a window to the enumeration order.
func (b *Backend) Add(w *Window) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.windows[w.ID] = w
	b.order = append(b.order, w.ID)
}

// Remove deletes a window, as if it was closed.
func (b *Backend) Remove(id platform.WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.windows, id)
}

// Window returns the fake window for id.
func (b *Backend) Window(id platform.WindowID) *Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.windows[id]
}

// Calls returns how often the named method ran.
func (b *Backend) Calls(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method]
}

// Moves returns every SetClientBounds call in order.
func (b *Backend) Moves() []Move {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Move(nil), b.moves...)
}

// Visited returns the windows yielded by the last enumerations.
func (b *Backend) Visited() []platform.WindowID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]platform.WindowID(nil), b.visited...)
}

func (b *Backend) lookup(method string, id platform.WindowID) (*Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[method]++
	w, ok := b.windows[id]
	if !ok {
		return nil, &platform.OpError{Op: method, Window: id, Err: ErrGone}
	}
	return w, nil
}

func opErr(method string, id platform.WindowID, err error) error {
	return &platform.OpError{Op: method, Window: id, Err: err}
}

func (b *Backend) Visible(id platform.WindowID) bool {
	w, err := b.lookup("Visible", id)
	return err == nil && w.Visible
}

func (b *Backend) ShowState(id platform.WindowID) (platform.ShowState, error) {
	w, err := b.lookup("ShowState", id)
	if err != nil {
		return 0, err
	}
	if w.ShowErr != nil {
		return 0, opErr("ShowState", id, w.ShowErr)
	}
	return w.Show, nil
}

func (b *Backend) Cloaked(id platform.WindowID) (bool, error) {
	w, err := b.lookup("Cloaked", id)
	if err != nil {
		return false, err
	}
	if w.CloakErr != nil {
		return false, opErr("Cloaked", id, w.CloakErr)
	}
	return w.Cloaked, nil
}

func (b *Backend) ExtendedStyle(id platform.WindowID) (platform.ExStyle, error) {
	w, err := b.lookup("ExtendedStyle", id)
	if err != nil {
		return 0, err
	}
	if w.ExStyleErr != nil {
		return 0, opErr("ExtendedStyle", id, w.ExStyleErr)
	}
	return w.Ex, nil
}

func (b *Backend) Style(id platform.WindowID) (platform.Style, error) {
	w, err := b.lookup("Style", id)
	if err != nil {
		return 0, err
	}
	if w.StyleErr != nil {
		return 0, opErr("Style", id, w.StyleErr)
	}
	return w.Style, nil
}

func (b *Backend) Owner(id platform.WindowID) platform.WindowID {
	if id == 0 {
		return 0
	}
	w, err := b.lookup("Owner", id)
	if err != nil {
		return 0
	}
	return w.Owner
}

func (b *Backend) Ancestor(id platform.WindowID, rel platform.Relation) platform.WindowID {
	if id == 0 {
		return 0
	}
	w, err := b.lookup("Ancestor", id)
	if err != nil {
		return 0
	}
	switch rel {
	case platform.AncestorParent:
		return w.Parent
	case platform.AncestorRootOwner:
		if w.Owner != 0 {
			return w.Owner
		}
	}
	return id
}

func (b *Backend) TitleBar(id platform.WindowID) (platform.TitleBarState, error) {
	w, err := b.lookup("TitleBar", id)
	if err != nil {
		return 0, err
	}
	if w.TitleBarErr != nil {
		return 0, opErr("TitleBar", id, w.TitleBarErr)
	}
	return w.TitleBar, nil
}

func (b *Backend) OuterFrame(id platform.WindowID) (platform.Rect, error) {
	w, err := b.lookup("OuterFrame", id)
	if err != nil {
		return platform.Rect{}, err
	}
	if w.FrameErr != nil {
		return platform.Rect{}, opErr("OuterFrame", id, w.FrameErr)
	}
	return w.Outer, nil
}

func (b *Backend) ClientFrame(id platform.WindowID) (platform.Rect, error) {
	w, err := b.lookup("ClientFrame", id)
	if err != nil {
		return platform.Rect{}, err
	}
	if w.FrameErr != nil {
		return platform.Rect{}, opErr("ClientFrame", id, w.FrameErr)
	}
	return w.Insets.ToClient(w.Outer), nil
}

func (b *Backend) Title(id platform.WindowID) string {
	w, err := b.lookup("Title", id)
	if err != nil {
		return ""
	}
	return w.Title
}

// SetClientBounds applies the move synchronously, keeping the window's insets.
func (b *Backend) SetClientBounds(id platform.WindowID, client platform.Rect) error {
	w, err := b.lookup("SetClientBounds", id)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.moves = append(b.moves, Move{Window: id, Client: client})
	if w.MoveErr != nil {
		return &platform.OpError{Op: "SetClientBounds", Window: id, Err: w.MoveErr}
	}
	w.Outer = platform.Rect{
		Left:   client.Left + w.Insets.Left,
		Top:    client.Top + w.Insets.Top,
		Right:  client.Right - w.Insets.Right,
		Bottom: client.Bottom - w.Insets.Bottom,
	}
	return nil
}

// EnumerateTopLevel yields existing windows in insertion order.
func (b *Backend) EnumerateTopLevel(visit func(platform.WindowID) bool) error {
	b.mu.Lock()
	b.calls["EnumerateTopLevel"]++
	ids := make([]platform.WindowID, 0, len(b.order))
	for _, id := range b.order {
		if _, ok := b.windows[id]; ok {
			ids = append(ids, id)
		}
	}
	b.visited = b.visited[:0]
	b.mu.Unlock()

	for _, id := range ids {
		b.mu.Lock()
		b.visited = append(b.visited, id)
		b.mu.Unlock()
		if !visit(id) {
			return nil
		}
	}
	return b.EnumErr
}

// Native adds an installer and a message pump to Backend. Installed hooks
// deliver through hook.Trampoline when Fire is called.
type Native struct {
	*Backend

	mu         sync.Mutex
	next       hook.Handle
	hooks      map[hook.Handle]hook.EventKind
	InstallErr error
	RunErr     error
	running    chan struct{}
	closed     bool
}

// NewNative wraps b.
func NewNative(b *Backend) *Native {
	return &Native{
		Backend: b,
		next:    0x5000,
		hooks:   make(map[hook.Handle]hook.EventKind),
		running: make(chan struct{}),
	}
}

func (n *Native) Install(kind hook.EventKind) (hook.Handle, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.InstallErr != nil {
		return 0, n.InstallErr
	}
	n.next++
	n.hooks[n.next] = kind
	return n.next, nil
}

func (n *Native) Uninstall(h hook.Handle) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.hooks[h]; !ok {
		return fmt.Errorf("hook %#x not installed", uintptr(h))
	}
	delete(n.hooks, h)
	return nil
}

// Hooks returns the installed handles.
func (n *Native) Hooks() []hook.Handle {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]hook.Handle, 0, len(n.hooks))
	for h := range n.hooks {
		out = append(out, h)
	}
	return out
}

// Fire delivers ev to every installed hook of the matching kind.
func (n *Native) Fire(ev hook.Event) {
	for _, h := range n.Hooks() {
		n.mu.Lock()
		kind := n.hooks[h]
		n.mu.Unlock()
		if kind == ev.Kind {
			hook.Trampoline(h, ev)
		}
	}
}

// Running is closed once Run has started pumping.
func (n *Native) Running() <-chan struct{} { return n.running }

// Run blocks until ctx is cancelled, like a message pump.
func (n *Native) Run(ctx context.Context) error {
	close(n.running)
	if n.RunErr != nil {
		return n.RunErr
	}
	<-ctx.Done()
	return nil
}

func (n *Native) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	return nil
}

// Closed reports whether Close ran.
func (n *Native) Closed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}
