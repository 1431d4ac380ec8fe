//go:build windows

package win32

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	procGetMessageW                   = user32.NewProc("GetMessageW")
	procTranslateMessage              = user32.NewProc("TranslateMessage")
	procDispatchMessageW              = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW            = user32.NewProc("PostThreadMessageW")
	procMessageBoxW                   = user32.NewProc("MessageBoxW")
	procSetProcessDpiAwarenessContext = user32.NewProc("SetProcessDpiAwarenessContext")
)

const (
	WM_QUIT = 0x0012

	MB_OK          = 0x00000000
	MB_ICONERROR   = 0x00000010
	MB_ICONWARNING = 0x00000030
)

// DPI awareness context pseudo handles (-1 to -5).
const (
	DPI_AWARENESS_CONTEXT_UNAWARE              = ^uintptr(0)
	DPI_AWARENESS_CONTEXT_SYSTEM_AWARE         = ^uintptr(1)
	DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE    = ^uintptr(2)
	DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 = ^uintptr(3)
	DPI_AWARENESS_CONTEXT_UNAWARE_GDISCALED    = ^uintptr(4)
)

type MSG struct {
	Hwnd     uintptr
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       POINT
	LPrivate uint32
}

// ErrQuit is returned by GetMessage when WM_QUIT was retrieved.
var ErrQuit = errors.New("WM_QUIT received")

// GetMessage blocks for the next message of the calling thread.
func GetMessage(msg *MSG) error {
	r1, _, e1 := procGetMessageW.Call(uintptr(unsafe.Pointer(msg)), 0, 0, 0)
	switch int32(r1) {
	case 0:
		return ErrQuit
	case -1:
		return fmt.Errorf("GetMessageW: %w", callErr(e1))
	}
	return nil
}

func TranslateMessage(msg *MSG) {
	_, _, _ = procTranslateMessage.Call(uintptr(unsafe.Pointer(msg)))
}

func DispatchMessage(msg *MSG) {
	_, _, _ = procDispatchMessageW.Call(uintptr(unsafe.Pointer(msg)))
}

// PostQuit posts WM_QUIT to the message queue of thread.
func PostQuit(thread uint32) error {
	r1, _, e1 := procPostThreadMessageW.Call(uintptr(thread), WM_QUIT, 0, 0)
	if r1 == 0 {
		return callErr(e1)
	}
	return nil
}

func CurrentThreadID() uint32 {
	return windows.GetCurrentThreadId()
}

// MessageBox shows a modal box without an owner window and blocks until it
// is dismissed.
func MessageBox(title, message string, flags uint32) error {
	t, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return err
	}
	m, err := windows.UTF16PtrFromString(message)
	if err != nil {
		return err
	}
	r1, _, e1 := procMessageBoxW.Call(0, uintptr(unsafe.Pointer(m)), uintptr(unsafe.Pointer(t)), uintptr(flags))
	if r1 == 0 {
		return callErr(e1)
	}
	return nil
}

// SetProcessDpiAwarenessContext changes the DPI awareness of the process.
// It fails if the awareness was already set, including by the manifest.
func SetProcessDpiAwarenessContext(ctx uintptr) error {
	if err := procSetProcessDpiAwarenessContext.Find(); err != nil {
		return err
	}
	r1, _, e1 := procSetProcessDpiAwarenessContext.Call(ctx)
	if r1 == 0 {
		return callErr(e1)
	}
	return nil
}
