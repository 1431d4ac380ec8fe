package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// AllDesktops is the _NET_WM_DESKTOP value of sticky windows.
const AllDesktops = -1

// GetCurrentDesktop returns the current virtual desktop number (0-indexed).
// Uses _NET_CURRENT_DESKTOP atom. Returns 0 with an error if detection fails.
func (c *Connection) GetCurrentDesktop() (int, error) {
	desktop, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get current desktop: %w", err)
	}
	return int(desktop), nil
}

// GetWindowDesktop returns the desktop number a window is on.
// Uses _NET_WM_DESKTOP atom. Returns AllDesktops for sticky windows.
func (c *Connection) GetWindowDesktop(windowID xproto.Window) (int, error) {
	desktop, err := ewmh.WmDesktopGet(c.XUtil, windowID)
	if err != nil {
		return 0, fmt.Errorf("failed to get window desktop: %w", err)
	}
	// 0xFFFFFFFF means the window is on all desktops (sticky)
	if desktop == 0xFFFFFFFF {
		return AllDesktops, nil
	}
	return int(desktop), nil
}

// OnOtherDesktop reports whether the window lives on a virtual desktop other
// than the current one. Window managers without desktops report false.
func (c *Connection) OnOtherDesktop(windowID xproto.Window) (bool, error) {
	current, err := c.GetCurrentDesktop()
	if err != nil {
		return false, nil
	}
	desktop, err := c.GetWindowDesktop(windowID)
	if err != nil {
		if _, gerr := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply(); gerr != nil {
			return false, gerr
		}
		return false, nil
	}
	return desktop != AllDesktops && desktop != current, nil
}
