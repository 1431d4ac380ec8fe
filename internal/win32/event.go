//go:build windows

package win32

import (
	"golang.org/x/sys/windows"

	"github.com/1broseidon/snaptile/internal/hook"
)

var (
	procSetWinEventHook = user32.NewProc("SetWinEventHook")
	procUnhookWinEvent  = user32.NewProc("UnhookWinEvent")
)

const (
	WINEVENT_OUTOFCONTEXT = 0x0000
)

// winEventProc is the one native stub handed to every SetWinEventHook call.
// The hook handle is the only context Windows passes back.
var winEventProc = windows.NewCallback(func(hWinEventHook uintptr, event uint32, hwnd uintptr, idObject int32, idChild int32, thread uint32, eventTime uint32) uintptr {
	hook.Trampoline(hook.Handle(hWinEventHook), hook.Event{
		Kind:   hook.EventKind(event),
		Window: hwnd,
		Object: idObject,
		Child:  idChild,
		Thread: thread,
		Time:   eventTime,
	})
	return 0
})

// SetWinEventHook subscribes to a single event code for all processes and
// threads. Events are delivered on the calling thread's message loop.
func SetWinEventHook(event uint32) (uintptr, error) {
	r1, _, e1 := procSetWinEventHook.Call(
		uintptr(event),
		uintptr(event),
		0,
		winEventProc,
		0,
		0,
		WINEVENT_OUTOFCONTEXT,
	)
	if r1 == 0 {
		return 0, callErr(e1)
	}
	return r1, nil
}

func UnhookWinEvent(h uintptr) error {
	r1, _, e1 := procUnhookWinEvent.Call(h)
	if r1 == 0 {
		return callErr(e1)
	}
	return nil
}
