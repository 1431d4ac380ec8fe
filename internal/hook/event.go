// Package hook bridges window-system event callbacks that carry no user data
// to per-subscription Go handlers.
//
// The native layer registers a single fixed function, Trampoline, with the
// window system. Each invocation looks up the handler stored under the
// subscription handle that fired and calls it synchronously on whatever
// thread the window system delivered the event on.
package hook

// Handle identifies one installed subscription. Native installers use the
// handle returned by the window system.
type Handle uintptr

// EventKind is the window-system event code.
type EventKind uint32

// Event codes follow the Win32 WinEvent values.
const (
	EventMoveSizeStart EventKind = 0x000A
	EventMoveSizeEnd   EventKind = 0x000B
)

func (k EventKind) String() string {
	switch k {
	case EventMoveSizeStart:
		return "move-size-start"
	case EventMoveSizeEnd:
		return "move-size-end"
	default:
		return "unknown"
	}
}

const (
	ObjectWindow int32 = 0
	ChildSelf    int32 = 0
)

// Event is one delivered notification.
type Event struct {
	Kind   EventKind
	Window uintptr
	Object int32
	Child  int32
	Thread uint32
	Time   uint32
}

// TopLevel reports whether the event concerns the window itself rather than
// one of its child objects.
func (e Event) TopLevel() bool { return e.Child == ChildSelf }

// Handler receives events for one subscription.
type Handler func(Event)
