package platform

import "iter"

// Borders is the per-edge distance between a window's client frame and its
// visual frame. Positive values mean the client frame extends past the
// visual frame on that edge.
type Borders struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// BordersOf computes the border offsets from the two frame flavors.
func BordersOf(outer, client Rect) Borders {
	return Borders{
		Left:   outer.Left - client.Left,
		Top:    outer.Top - client.Top,
		Right:  client.Right - outer.Right,
		Bottom: client.Bottom - outer.Bottom,
	}
}

// ToClient converts a visual-space rectangle into the client-space rectangle
// that produces it.
func (b Borders) ToClient(visual Rect) Rect {
	return Rect{
		Left:   visual.Left - b.Left,
		Top:    visual.Top - b.Top,
		Right:  visual.Right + b.Right,
		Bottom: visual.Bottom + b.Bottom,
	}
}

// Reposition moves a window so that its visual frame becomes target.
func Reposition(b Backend, id WindowID, target Rect) error {
	client, err := b.ClientFrame(id)
	if err != nil {
		return err
	}
	outer, err := b.OuterFrame(id)
	if err != nil {
		return err
	}

	return b.SetClientBounds(id, BordersOf(outer, client).ToClient(target))
}

// TopLevel returns the top-level windows as a sequence. Breaking out of the
// range loop stops the underlying walk. A failed walk yields one final pair
// carrying the error.
func TopLevel(e Enumerator) iter.Seq2[WindowID, error] {
	return func(yield func(WindowID, error) bool) {
		stopped := false
		err := e.EnumerateTopLevel(func(id WindowID) bool {
			if !yield(id, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield(0, err)
		}
	}
}
