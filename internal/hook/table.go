package hook

import "sync"

// Table hands out keys for native calls whose callback carries one integer
// of user data, such as the lParam of EnumWindows. Each call gets its own
// entry, so a callback may start a nested call while the outer one is still
// walking. The lock is only held to read or write the map, never while a
// value is in use.
type Table[T any] struct {
	mu      sync.RWMutex
	next    uintptr
	entries map[uintptr]T
}

// Put stores v under a fresh non-zero key. release removes the entry.
func (t *Table[T]) Put(v T) (key uintptr, release func()) {
	t.mu.Lock()
	if t.entries == nil {
		t.entries = make(map[uintptr]T)
	}
	t.next++
	key = t.next
	t.entries[key] = v
	t.mu.Unlock()

	return key, func() {
		t.mu.Lock()
		delete(t.entries, key)
		t.mu.Unlock()
	}
}

// Get returns the value stored under key.
func (t *Table[T]) Get(key uintptr) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.entries[key]
	return v, ok
}

// Len returns the number of live entries.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
