package hook

import (
	"errors"
	"fmt"
	"sync"
)

// Installer wires the native stub to the window system for one event kind and
// returns the handle the window system assigned.
type Installer interface {
	Install(kind EventKind) (Handle, error)
	Uninstall(h Handle) error
}

// Manager owns the subscriptions it installs and their registry entries.
type Manager struct {
	registry  *Registry
	installer Installer

	mu   sync.Mutex
	subs map[Handle]EventKind
}

// NewManager creates a manager writing into registry. Native installers
// deliver through Trampoline, so they must be paired with Process().
func NewManager(registry *Registry, installer Installer) *Manager {
	return &Manager{
		registry:  registry,
		installer: installer,
		subs:      make(map[Handle]EventKind),
	}
}

// Subscribe installs the native stub for kind and registers handler under
// the returned handle. The stub is live before the registry entry exists;
// events delivered in between find no handler and are dropped.
func (m *Manager) Subscribe(kind EventKind, handler Handler) (Handle, error) {
	if handler == nil {
		return 0, errors.New("hook: nil handler")
	}

	h, err := m.installer.Install(kind)
	if err != nil {
		return 0, fmt.Errorf("failed to install %s hook: %w", kind, err)
	}

	m.registry.Add(h, handler)

	m.mu.Lock()
	m.subs[h] = kind
	m.mu.Unlock()

	return h, nil
}

// Unsubscribe removes the native subscription and the registry entry. The
// entry is removed even when the window system rejects the uninstall, so any
// late delivery is a no-op.
func (m *Manager) Unsubscribe(h Handle) error {
	err := m.installer.Uninstall(h)
	m.registry.Remove(h)

	m.mu.Lock()
	delete(m.subs, h)
	m.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to uninstall hook %#x: %w", uintptr(h), err)
	}
	return nil
}

// Active returns the number of live subscriptions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// Close unsubscribes everything the manager installed.
func (m *Manager) Close() error {
	m.mu.Lock()
	handles := make([]Handle, 0, len(m.subs))
	for h := range m.subs {
		handles = append(handles, h)
	}
	m.mu.Unlock()

	var errs []error
	for _, h := range handles {
		if err := m.Unsubscribe(h); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
