//go:build windows

package report

import (
	"sync"

	"github.com/1broseidon/snaptile/internal/win32"
)

// Dialog shows a blocking message box per notification.
type Dialog struct {
	mu sync.Mutex
}

func newDialog() Channel {
	return &Dialog{}
}

func (d *Dialog) Notify(level Level, title, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	icon := uint32(win32.MB_ICONWARNING)
	if level == LevelError {
		icon = win32.MB_ICONERROR
	}
	// Nothing sensible remains to be done if the dialog itself fails.
	_ = win32.MessageBox(title, message, win32.MB_OK|icon)
}
