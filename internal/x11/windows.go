package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// Geometry is a window rectangle in root coordinates.
type Geometry struct {
	X, Y          int
	Width, Height int
}

// Extents are the window manager decoration sizes around a client window.
type Extents struct {
	Left, Right, Top, Bottom int
}

// MoveResizeWindow moves and resizes a client window to the specified
// geometry. The request goes to the window manager first and is configured
// directly only when that send fails. A window manager that accepts the
// request and then ignores it is not detected here.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Maximized windows ignore move requests on most window managers. Some
	// windows do not support the state change, which is fine.
	_ = c.unmaximizeWindow(windowID)

	viaWM := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height)
	return moveResult(viaWM, func() error {
		return xproto.ConfigureWindowChecked(
			c.XUtil.Conn(),
			windowID,
			xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
			[]uint32{uint32(int32(x)), uint32(int32(y)), uint32(width), uint32(height)},
		).Check()
	})
}

// moveResult runs direct only when the window manager request failed and
// reports both errors when the fallback fails too.
func moveResult(viaWM error, direct func() error) error {
	if viaWM == nil {
		return nil
	}
	if err := direct(); err != nil {
		return fmt.Errorf("moveresize request failed (%v), direct configure failed: %w", viaWM, err)
	}
	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			if err := ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetFrameExtents returns the window decoration sizes. Windows without
// _NET_FRAME_EXTENTS report zero extents.
func (c *Connection) GetFrameExtents(windowID xproto.Window) Extents {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		return Extents{}
	}
	return Extents{
		Left:   extents.Left,
		Right:  extents.Right,
		Top:    extents.Top,
		Bottom: extents.Bottom,
	}
}

// ClientGeometry returns the client window rectangle, translated to root
// coordinates.
func (c *Connection) ClientGeometry(windowID xproto.Window) (Geometry, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Geometry{}, err
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Geometry{}, err
	}

	return Geometry{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// IsViewable reports whether the window and all its ancestors are mapped
func (c *Connection) IsViewable(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false
	}
	return attrs.MapState == xproto.MapStateViewable
}

// WindowTypes returns the _NET_WM_WINDOW_TYPE atoms of a window
func (c *Connection) WindowTypes(windowID xproto.Window) ([]string, error) {
	return ewmh.WmWindowTypeGet(c.XUtil, windowID)
}

// WindowStates returns the _NET_WM_STATE atoms of a window. A window without
// the property has no states.
func (c *Connection) WindowStates(windowID xproto.Window) ([]string, error) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		if _, gerr := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply(); gerr != nil {
			return nil, gerr
		}
		return nil, nil
	}
	return states, nil
}

// TransientFor returns the window this one is transient for, or 0
func (c *Connection) TransientFor(windowID xproto.Window) xproto.Window {
	owner, err := icccm.WmTransientForGet(c.XUtil, windowID)
	if err != nil {
		return 0
	}
	return owner
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// StackingOrder returns managed clients from top to bottom
func (c *Connection) StackingOrder() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListStackingGet(c.XUtil)
	if err != nil {
		return nil, err
	}

	// _NET_CLIENT_LIST_STACKING is bottom to top.
	out := make([]xproto.Window, len(clients))
	for i, w := range clients {
		out[len(clients)-1-i] = w
	}
	return out, nil
}

// ClientList returns the managed clients in mapping order
func (c *Connection) ClientList() ([]xproto.Window, error) {
	return ewmh.ClientListGet(c.XUtil)
}
