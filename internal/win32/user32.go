//go:build windows

// Package win32 wraps the user32 and dwmapi calls the snapping daemon needs.
package win32

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/1broseidon/snaptile/internal/hook"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	dwmapi   = windows.NewLazySystemDLL("dwmapi.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procIsWindowVisible       = user32.NewProc("IsWindowVisible")
	procGetWindowPlacement    = user32.NewProc("GetWindowPlacement")
	procGetWindowLongW        = user32.NewProc("GetWindowLongW")
	procGetWindow             = user32.NewProc("GetWindow")
	procGetAncestor           = user32.NewProc("GetAncestor")
	procGetTitleBarInfo       = user32.NewProc("GetTitleBarInfo")
	procGetWindowRect         = user32.NewProc("GetWindowRect")
	procSetWindowPos          = user32.NewProc("SetWindowPos")
	procEnumWindows           = user32.NewProc("EnumWindows")
	procGetWindowTextW        = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW  = user32.NewProc("GetWindowTextLengthW")
	procDwmGetWindowAttribute = dwmapi.NewProc("DwmGetWindowAttribute")
	procSetLastError          = kernel32.NewProc("SetLastError")
)

const (
	GWL_STYLE   = -16
	GWL_EXSTYLE = -20

	GW_OWNER = 4

	DWMWA_EXTENDED_FRAME_BOUNDS = 9
	DWMWA_CLOAKED               = 14

	SWP_NOZORDER   = 0x0004
	SWP_NOACTIVATE = 0x0010

	// Index of the title bar itself in TITLEBARINFO.Rgstate.
	titleBarStateIndex = 0
)

const errInvalidWindowHandle = windows.Errno(1400)

type RECT struct {
	Left, Top, Right, Bottom int32
}

type POINT struct {
	X, Y int32
}

type WINDOWPLACEMENT struct {
	Length           uint32
	Flags            uint32
	ShowCmd          uint32
	PtMinPosition    POINT
	PtMaxPosition    POINT
	RcNormalPosition RECT
}

type TITLEBARINFO struct {
	CbSize     uint32
	RcTitleBar RECT
	Rgstate    [6]uint32
}

// callErr turns the last error of a failed call into something non-nil.
func callErr(err error) error {
	if errno, ok := err.(windows.Errno); ok && errno == 0 {
		return errInvalidWindowHandle
	}
	return err
}

func IsWindowVisible(hwnd uintptr) bool {
	r1, _, _ := procIsWindowVisible.Call(hwnd)
	return r1 != 0
}

func GetWindowPlacement(hwnd uintptr) (WINDOWPLACEMENT, error) {
	var wp WINDOWPLACEMENT
	wp.Length = uint32(unsafe.Sizeof(wp))
	r1, _, e1 := procGetWindowPlacement.Call(hwnd, uintptr(unsafe.Pointer(&wp)))
	if r1 == 0 {
		return WINDOWPLACEMENT{}, callErr(e1)
	}
	return wp, nil
}

// GetWindowLong reads a 32-bit window attribute. A zero attribute is valid,
// so the last error is cleared first to tell it apart from a failure.
func GetWindowLong(hwnd uintptr, index int32) (uint32, error) {
	_, _, _ = procSetLastError.Call(0)
	r1, _, e1 := procGetWindowLongW.Call(hwnd, uintptr(index))
	if r1 == 0 {
		if errno, ok := e1.(windows.Errno); ok && errno != 0 {
			return 0, errno
		}
	}
	return uint32(r1), nil
}

func GetWindow(hwnd uintptr, cmd uint32) uintptr {
	r1, _, _ := procGetWindow.Call(hwnd, uintptr(cmd))
	return r1
}

func GetAncestor(hwnd uintptr, flags uint32) uintptr {
	r1, _, _ := procGetAncestor.Call(hwnd, uintptr(flags))
	return r1
}

// TitleBarState returns the accessibility state bits of the title bar.
func TitleBarState(hwnd uintptr) (uint32, error) {
	var ti TITLEBARINFO
	ti.CbSize = uint32(unsafe.Sizeof(ti))
	r1, _, e1 := procGetTitleBarInfo.Call(hwnd, uintptr(unsafe.Pointer(&ti)))
	if r1 == 0 {
		return 0, callErr(e1)
	}
	return ti.Rgstate[titleBarStateIndex], nil
}

func GetWindowRect(hwnd uintptr) (RECT, error) {
	var r RECT
	r1, _, e1 := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
	if r1 == 0 {
		return RECT{}, callErr(e1)
	}
	return r, nil
}

// SetWindowPos moves and resizes hwnd without touching z-order or focus.
func SetWindowPos(hwnd uintptr, x, y, cx, cy int) error {
	r1, _, e1 := procSetWindowPos.Call(
		hwnd,
		0,
		uintptr(x),
		uintptr(y),
		uintptr(cx),
		uintptr(cy),
		SWP_NOZORDER|SWP_NOACTIVATE,
	)
	if r1 == 0 {
		return callErr(e1)
	}
	return nil
}

func GetWindowText(hwnd uintptr) string {
	r1, _, _ := procGetWindowTextLengthW.Call(hwnd)
	n := int(r1)
	if n <= 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	r2, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r2 == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:r2])
}

// DwmCloaked reports whether the compositor hides the window, for example
// because it lives on another virtual desktop.
func DwmCloaked(hwnd uintptr) (bool, error) {
	var cloaked uint32
	if err := dwmGetWindowAttribute(hwnd, DWMWA_CLOAKED, unsafe.Pointer(&cloaked), uint32(unsafe.Sizeof(cloaked))); err != nil {
		return false, err
	}
	return cloaked != 0, nil
}

// DwmExtendedFrameBounds returns the visible frame, excluding the invisible
// resize borders that GetWindowRect includes.
func DwmExtendedFrameBounds(hwnd uintptr) (RECT, error) {
	var r RECT
	if err := dwmGetWindowAttribute(hwnd, DWMWA_EXTENDED_FRAME_BOUNDS, unsafe.Pointer(&r), uint32(unsafe.Sizeof(r))); err != nil {
		return RECT{}, err
	}
	return r, nil
}

func dwmGetWindowAttribute(hwnd uintptr, attr uint32, value unsafe.Pointer, size uint32) error {
	r1, _, _ := procDwmGetWindowAttribute.Call(hwnd, uintptr(attr), uintptr(value), uintptr(size))
	if r1 != 0 {
		return windows.Errno(r1)
	}
	return nil
}

// enumWalks holds the visitor of every EnumWindows call in progress, keyed
// by the lParam passed to the callback. The callback is created once;
// NewCallback slots are never released.
var (
	enumWalks    hook.Table[func(uintptr) bool]
	enumCallback = windows.NewCallback(func(hwnd uintptr, lparam uintptr) uintptr {
		visit, ok := enumWalks.Get(lparam)
		if !ok || !visit(hwnd) {
			return 0
		}
		return 1
	})
)

// EnumWindows calls visit for every top-level window in z-order until visit
// returns false. visit may itself call EnumWindows, for example when a modal
// loop inside it delivers another event.
func EnumWindows(visit func(hwnd uintptr) bool) error {
	stopped := false
	key, release := enumWalks.Put(func(hwnd uintptr) bool {
		if visit(hwnd) {
			return true
		}
		stopped = true
		return false
	})
	defer release()

	r1, _, e1 := procEnumWindows.Call(enumCallback, key)
	if r1 == 0 && !stopped {
		if errno, ok := e1.(windows.Errno); ok && errno == 0 {
			return nil
		}
		return e1
	}
	return nil
}
