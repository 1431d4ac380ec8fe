package snap

import "github.com/1broseidon/snaptile/internal/platform"

// DefaultThreshold is the snap distance in pixels.
const DefaultThreshold = 40

// Edge names which side of the peer the moved window snapped to.
type Edge int

const (
	EdgeNone Edge = iota
	// EdgeLeft: the peer sits to the right, the moved window's right edge
	// lands on the peer's left edge.
	EdgeLeft
	// EdgeRight: the moved window's left edge lands on the peer's right edge.
	EdgeRight
	// EdgeTop: the moved window's bottom edge lands on the peer's top edge.
	EdgeTop
	// EdgeBottom: the moved window's top edge lands on the peer's bottom edge.
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	default:
		return "none"
	}
}

// Match compares the moved window's frame against a peer's frame and returns
// the adjusted frame for the first edge within threshold. Left and right are
// tested before top and bottom; only one edge is ever adjusted.
func Match(moved, peer platform.Rect, threshold int) (platform.Rect, Edge) {
	switch {
	case abs(moved.Right-peer.Left) < threshold:
		moved.Right = peer.Left
		return moved, EdgeLeft
	case abs(moved.Left-peer.Right) < threshold:
		moved.Left = peer.Right
		return moved, EdgeRight
	case abs(moved.Bottom-peer.Top) < threshold:
		moved.Bottom = peer.Top
		return moved, EdgeTop
	case abs(moved.Top-peer.Bottom) < threshold:
		moved.Top = peer.Bottom
		return moved, EdgeBottom
	}
	return moved, EdgeNone
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
