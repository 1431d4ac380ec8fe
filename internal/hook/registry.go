package hook

import "sync"

// Registry maps subscription handles to handlers. Dispatch takes a read lock,
// so concurrent deliveries never block each other; Add and Remove are
// exclusive.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Handle]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Handle]Handler)}
}

var process = NewRegistry()

// Process returns the registry read by Trampoline. Native callbacks cannot
// carry context, so this one registry is shared by the whole process.
func Process() *Registry { return process }

// Trampoline is the only function native callbacks call into.
func Trampoline(h Handle, ev Event) { process.Dispatch(h, ev) }

// Add stores handler under h, replacing any previous entry.
func (r *Registry) Add(h Handle, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h] = handler
}

// Remove deletes the entry for h. Removing a missing handle is a no-op.
func (r *Registry) Remove(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, h)
}

// Lookup returns the handler stored under h.
func (r *Registry) Lookup(h Handle) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[h]
	return handler, ok
}

// Len returns the number of registered subscriptions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// Dispatch calls the handler registered under h and reports whether one was
// found. The handler runs outside the lock, so it may block or re-enter the
// window system without stalling Add and Remove.
func (r *Registry) Dispatch(h Handle, ev Event) bool {
	handler, ok := r.Lookup(h)
	if !ok {
		return false
	}
	handler(ev)
	return true
}
