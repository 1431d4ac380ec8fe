package platform

import (
	"errors"
	"fmt"
)

// WindowID is a platform-neutral window handle. It is a weak reference: the
// window may be destroyed at any time and every call using it can fail.
type WindowID uintptr

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Width returns the horizontal extent of r.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r Rect) Height() int { return r.Bottom - r.Top }

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", r.Left, r.Top, r.Right, r.Bottom)
}

// Style holds window style bits.
type Style uint32

// ExStyle holds extended window style bits.
type ExStyle uint32

// Bit values follow the Win32 definitions. Other backends translate their
// native window properties into these bits.
const (
	StyleChild Style = 0x40000000

	ExStyleToolWindow ExStyle = 0x00000080
	ExStyleAppWindow  ExStyle = 0x00040000
	ExStyleNoActivate ExStyle = 0x08000000
)

// TitleBarState is the accessibility state of a window's title bar.
type TitleBarState uint32

const TitleBarInvisible TitleBarState = 0x00008000

// ShowState is the placement show command of a window.
type ShowState uint32

const (
	ShowHidden    ShowState = 0
	ShowNormal    ShowState = 1
	ShowMinimized ShowState = 2
	ShowMaximized ShowState = 3
)

func (s ShowState) String() string {
	switch s {
	case ShowHidden:
		return "hidden"
	case ShowNormal:
		return "normal"
	case ShowMinimized:
		return "minimized"
	case ShowMaximized:
		return "maximized"
	default:
		return fmt.Sprintf("showstate(%d)", uint32(s))
	}
}

// Relation selects which ancestor Ancestor walks to.
type Relation uint32

const (
	AncestorParent    Relation = 1
	AncestorRoot      Relation = 2
	AncestorRootOwner Relation = 3
)

// ErrInvalidWindow matches every failed per-window query. The window most
// likely went away between enumeration and the query.
var ErrInvalidWindow = errors.New("invalid window handle")

// OpError records a failed window operation.
type OpError struct {
	Op     string
	Window WindowID
	Err    error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %#x: %v (most likely an invalid handle)", e.Op, uintptr(e.Window), e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func (e *OpError) Is(target error) bool { return target == ErrInvalidWindow }

// Querier exposes the read-only window primitives.
type Querier interface {
	Visible(id WindowID) bool
	ShowState(id WindowID) (ShowState, error)
	Cloaked(id WindowID) (bool, error)
	ExtendedStyle(id WindowID) (ExStyle, error)
	Style(id WindowID) (Style, error)
	Owner(id WindowID) WindowID
	Ancestor(id WindowID, rel Relation) WindowID
	TitleBar(id WindowID) (TitleBarState, error)
	OuterFrame(id WindowID) (Rect, error)
	ClientFrame(id WindowID) (Rect, error)
	Title(id WindowID) string
}

// Enumerator walks top-level windows in the order the window system reports
// them. visit returning false stops the walk.
type Enumerator interface {
	EnumerateTopLevel(visit func(WindowID) bool) error
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Querier
	Enumerator

	// SetClientBounds moves and resizes a window in raw (client frame)
	// coordinates. Callers working in visual space use Reposition.
	SetClientBounds(id WindowID, bounds Rect) error
}

// Minimized reports whether the window is minimized.
func Minimized(q Querier, id WindowID) (bool, error) {
	state, err := q.ShowState(id)
	if err != nil {
		return false, err
	}
	return state == ShowMinimized, nil
}

// Maximized reports whether the window is maximized.
func Maximized(q Querier, id WindowID) (bool, error) {
	state, err := q.ShowState(id)
	if err != nil {
		return false, err
	}
	return state == ShowMaximized, nil
}
