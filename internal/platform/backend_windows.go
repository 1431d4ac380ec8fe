//go:build windows

package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/1broseidon/snaptile/internal/hook"
	"github.com/1broseidon/snaptile/internal/win32"
)

// WindowsBackend talks to user32 and the desktop window manager. Hooks are
// installed out of context, so they are delivered through the message loop
// of the thread that installed them: Open locks the calling goroutine to its
// OS thread and Install and Run must be called from that goroutine.
type WindowsBackend struct {
	thread uint32
	logger *slog.Logger

	mu      sync.Mutex
	hooks   map[hook.Handle]struct{}
	running bool
}

var _ Native = (*WindowsBackend)(nil)
var _ DPIAware = (*WindowsBackend)(nil)

// Open locks the calling goroutine to its OS thread and returns the Win32
// backend bound to that thread.
func Open(opts Options) (Native, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runtime.LockOSThread()
	return &WindowsBackend{
		thread: win32.CurrentThreadID(),
		logger: logger,
		hooks:  make(map[hook.Handle]struct{}),
	}, nil
}

func hwnd(id WindowID) uintptr { return uintptr(id) }

func (b *WindowsBackend) Visible(id WindowID) bool {
	return win32.IsWindowVisible(hwnd(id))
}

func (b *WindowsBackend) ShowState(id WindowID) (ShowState, error) {
	wp, err := win32.GetWindowPlacement(hwnd(id))
	if err != nil {
		return 0, &OpError{Op: "GetWindowPlacement", Window: id, Err: err}
	}
	return ShowState(wp.ShowCmd), nil
}

func (b *WindowsBackend) Cloaked(id WindowID) (bool, error) {
	cloaked, err := win32.DwmCloaked(hwnd(id))
	if err != nil {
		return false, &OpError{Op: "DwmGetWindowAttribute", Window: id, Err: err}
	}
	return cloaked, nil
}

func (b *WindowsBackend) ExtendedStyle(id WindowID) (ExStyle, error) {
	v, err := win32.GetWindowLong(hwnd(id), win32.GWL_EXSTYLE)
	if err != nil {
		return 0, &OpError{Op: "GetWindowLongW", Window: id, Err: err}
	}
	return ExStyle(v), nil
}

func (b *WindowsBackend) Style(id WindowID) (Style, error) {
	v, err := win32.GetWindowLong(hwnd(id), win32.GWL_STYLE)
	if err != nil {
		return 0, &OpError{Op: "GetWindowLongW", Window: id, Err: err}
	}
	return Style(v), nil
}

func (b *WindowsBackend) Owner(id WindowID) WindowID {
	if id == 0 {
		return 0
	}
	return WindowID(win32.GetWindow(hwnd(id), win32.GW_OWNER))
}

func (b *WindowsBackend) Ancestor(id WindowID, rel Relation) WindowID {
	if id == 0 {
		return 0
	}
	return WindowID(win32.GetAncestor(hwnd(id), uint32(rel)))
}

func (b *WindowsBackend) TitleBar(id WindowID) (TitleBarState, error) {
	state, err := win32.TitleBarState(hwnd(id))
	if err != nil {
		return 0, &OpError{Op: "GetTitleBarInfo", Window: id, Err: err}
	}
	return TitleBarState(state), nil
}

func (b *WindowsBackend) OuterFrame(id WindowID) (Rect, error) {
	r, err := win32.DwmExtendedFrameBounds(hwnd(id))
	if err != nil {
		return Rect{}, &OpError{Op: "DwmGetWindowAttribute", Window: id, Err: err}
	}
	return rectOf(r), nil
}

func (b *WindowsBackend) ClientFrame(id WindowID) (Rect, error) {
	r, err := win32.GetWindowRect(hwnd(id))
	if err != nil {
		return Rect{}, &OpError{Op: "GetWindowRect", Window: id, Err: err}
	}
	return rectOf(r), nil
}

func (b *WindowsBackend) Title(id WindowID) string {
	return win32.GetWindowText(hwnd(id))
}

func (b *WindowsBackend) SetClientBounds(id WindowID, bounds Rect) error {
	if err := win32.SetWindowPos(hwnd(id), bounds.Left, bounds.Top, bounds.Width(), bounds.Height()); err != nil {
		return &OpError{Op: "SetWindowPos", Window: id, Err: err}
	}
	return nil
}

func (b *WindowsBackend) EnumerateTopLevel(visit func(WindowID) bool) error {
	if err := win32.EnumWindows(func(h uintptr) bool { return visit(WindowID(h)) }); err != nil {
		return fmt.Errorf("EnumWindows: %w", err)
	}
	return nil
}

// Install subscribes the shared WinEvent stub to kind.
func (b *WindowsBackend) Install(kind hook.EventKind) (hook.Handle, error) {
	h, err := win32.SetWinEventHook(uint32(kind))
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	b.hooks[hook.Handle(h)] = struct{}{}
	b.mu.Unlock()
	return hook.Handle(h), nil
}

func (b *WindowsBackend) Uninstall(h hook.Handle) error {
	b.mu.Lock()
	delete(b.hooks, h)
	b.mu.Unlock()
	return win32.UnhookWinEvent(uintptr(h))
}

// Run pumps the thread's message queue until WM_QUIT, a GetMessage failure
// or ctx cancellation. Hook callbacks run inside DispatchMessage.
func (b *WindowsBackend) Run(ctx context.Context) error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return errors.New("message loop already running")
	}
	b.running = true
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.running = false
		b.mu.Unlock()
	}()

	stop := quitOnCancel(ctx, b.logger, func() error {
		return win32.PostQuit(b.thread)
	})
	defer stop()

	var msg win32.MSG
	for {
		err := win32.GetMessage(&msg)
		if errors.Is(err, win32.ErrQuit) {
			return nil
		}
		if err != nil {
			return err
		}
		win32.TranslateMessage(&msg)
		win32.DispatchMessage(&msg)
	}
}

// Close removes any hooks still installed and releases the OS thread.
func (b *WindowsBackend) Close() error {
	b.mu.Lock()
	handles := make([]hook.Handle, 0, len(b.hooks))
	for h := range b.hooks {
		handles = append(handles, h)
	}
	b.mu.Unlock()

	var errs []error
	for _, h := range handles {
		if err := b.Uninstall(h); err != nil {
			errs = append(errs, err)
		}
	}
	runtime.UnlockOSThread()
	return errors.Join(errs...)
}

// SetDPIAwareness applies one of the dpi_awareness config values. "none"
// leaves the process default alone.
func (b *WindowsBackend) SetDPIAwareness(mode string) error {
	var ctx uintptr
	switch mode {
	case "", "none":
		return nil
	case "unaware":
		ctx = win32.DPI_AWARENESS_CONTEXT_UNAWARE
	case "system":
		ctx = win32.DPI_AWARENESS_CONTEXT_SYSTEM_AWARE
	case "per-monitor":
		ctx = win32.DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE
	case "per-monitor-v2":
		ctx = win32.DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2
	case "unaware-gdi-scaled":
		ctx = win32.DPI_AWARENESS_CONTEXT_UNAWARE_GDISCALED
	default:
		return fmt.Errorf("unknown dpi awareness %q", mode)
	}
	return win32.SetProcessDpiAwarenessContext(ctx)
}

func rectOf(r win32.RECT) Rect {
	return Rect{Left: int(r.Left), Top: int(r.Top), Right: int(r.Right), Bottom: int(r.Bottom)}
}
