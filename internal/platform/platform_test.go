package platform_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/snaptile/internal/platform"
	"github.com/1broseidon/snaptile/internal/platform/platformtest"
)

func rect(l, t, r, b int) platform.Rect {
	return platform.Rect{Left: l, Top: t, Right: r, Bottom: b}
}

func TestIsTaskbarEligible_InvisibleShortCircuits(t *testing.T) {
	w := platformtest.NewWindow(1, rect(0, 0, 10, 10))
	w.Visible = false
	w.Ex = platform.ExStyleAppWindow
	b := platformtest.New(w)

	assert.False(t, platform.IsTaskbarEligible(b, 1))
	assert.Equal(t, 1, b.Calls("Visible"))
	for _, m := range []string{"Cloaked", "ExtendedStyle", "Style", "Owner", "TitleBar"} {
		assert.Zero(t, b.Calls(m), "%s should not be queried", m)
	}
}

func TestIsTaskbarEligible_AppWindowBeatsToolWindow(t *testing.T) {
	w := platformtest.NewWindow(1, rect(0, 0, 10, 10))
	w.Ex = platform.ExStyleAppWindow | platform.ExStyleToolWindow
	w.Owner = 99
	w.Style = platform.StyleChild
	b := platformtest.New(w)

	assert.True(t, platform.IsTaskbarEligible(b, 1))
	assert.Zero(t, b.Calls("Style"))
	assert.Zero(t, b.Calls("Owner"))
	assert.Zero(t, b.Calls("TitleBar"))
}

func TestIsTaskbarEligible_Rules(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name   string
		mutate func(w *platformtest.Window)
		want   bool
	}{
		{"normal window", func(w *platformtest.Window) {}, true},
		{"cloaked", func(w *platformtest.Window) { w.Cloaked = true }, false},
		{"cloak query fails", func(w *platformtest.Window) { w.CloakErr = boom }, false},
		{"tool window", func(w *platformtest.Window) { w.Ex = platform.ExStyleToolWindow }, false},
		{"no activate", func(w *platformtest.Window) { w.Ex = platform.ExStyleNoActivate }, false},
		{"ex style query fails", func(w *platformtest.Window) { w.ExStyleErr = boom }, false},
		{"child", func(w *platformtest.Window) { w.Style = platform.StyleChild }, false},
		{"style query fails", func(w *platformtest.Window) { w.StyleErr = boom }, false},
		{"owned", func(w *platformtest.Window) { w.Owner = 7 }, false},
		{"invisible title bar", func(w *platformtest.Window) { w.TitleBar = platform.TitleBarInvisible }, false},
		{"title bar query fails", func(w *platformtest.Window) { w.TitleBarErr = boom }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := platformtest.NewWindow(1, rect(0, 0, 10, 10))
			tt.mutate(w)
			b := platformtest.New(w)
			assert.Equal(t, tt.want, platform.IsTaskbarEligible(b, 1))
		})
	}
}

func TestIsTaskbarEligible_MissingWindow(t *testing.T) {
	assert.False(t, platform.IsTaskbarEligible(platformtest.New(), 5))
}

func TestReposition_RoundTrip(t *testing.T) {
	w := platformtest.NewWindow(1, rect(100, 100, 300, 300))
	w.Insets = platform.Borders{Left: 7, Top: 1, Right: 7, Bottom: 9}
	b := platformtest.New(w)

	target := rect(120, 80, 305, 290)
	require.NoError(t, platform.Reposition(b, 1, target))

	got, err := b.OuterFrame(1)
	require.NoError(t, err)
	assert.Equal(t, target, got)

	moves := b.Moves()
	require.Len(t, moves, 1)
	assert.Equal(t, rect(113, 79, 312, 299), moves[0].Client)
}

func TestReposition_FailsWhenFramesUnavailable(t *testing.T) {
	w := platformtest.NewWindow(1, rect(0, 0, 10, 10))
	w.FrameErr = errors.New("gone")
	b := platformtest.New(w)

	err := platform.Reposition(b, 1, rect(0, 0, 5, 5))
	require.Error(t, err)
	assert.ErrorIs(t, err, platform.ErrInvalidWindow)
	assert.Empty(t, b.Moves())
}

func TestReposition_MoveRejected(t *testing.T) {
	w := platformtest.NewWindow(1, rect(0, 0, 10, 10))
	w.MoveErr = errors.New("in use")
	b := platformtest.New(w)

	err := platform.Reposition(b, 1, rect(0, 0, 5, 5))
	require.Error(t, err)
	assert.ErrorIs(t, err, w.MoveErr)
	assert.ErrorIs(t, err, platform.ErrInvalidWindow)
}

func TestBordersOf(t *testing.T) {
	outer := rect(10, 10, 110, 110)
	client := rect(3, 10, 117, 118)
	b := platform.BordersOf(outer, client)
	assert.Equal(t, platform.Borders{Left: 7, Top: 0, Right: 7, Bottom: 8}, b)
	assert.Equal(t, client, b.ToClient(outer))
}

func TestTopLevel_StopsEarly(t *testing.T) {
	b := platformtest.New(
		platformtest.NewWindow(1, rect(0, 0, 1, 1)),
		platformtest.NewWindow(2, rect(0, 0, 1, 1)),
		platformtest.NewWindow(3, rect(0, 0, 1, 1)),
	)

	var seen []platform.WindowID
	for id, err := range platform.TopLevel(b) {
		require.NoError(t, err)
		seen = append(seen, id)
		if id == 2 {
			break
		}
	}
	assert.Equal(t, []platform.WindowID{1, 2}, seen)
	assert.Equal(t, []platform.WindowID{1, 2}, b.Visited())
}

func TestTopLevel_VisitsEveryWindowOnce(t *testing.T) {
	b := platformtest.New(
		platformtest.NewWindow(1, rect(0, 0, 1, 1)),
		platformtest.NewWindow(2, rect(0, 0, 1, 1)),
	)
	var seen []platform.WindowID
	for id, err := range platform.TopLevel(b) {
		require.NoError(t, err)
		seen = append(seen, id)
	}
	assert.Equal(t, []platform.WindowID{1, 2}, seen)
}

func TestTopLevel_YieldsWalkError(t *testing.T) {
	b := platformtest.New(platformtest.NewWindow(1, rect(0, 0, 1, 1)))
	b.EnumErr = errors.New("access denied")

	var seen []platform.WindowID
	var walkErr error
	for id, err := range platform.TopLevel(b) {
		if err != nil {
			walkErr = err
			break
		}
		seen = append(seen, id)
	}
	assert.Equal(t, []platform.WindowID{1}, seen)
	assert.EqualError(t, walkErr, "access denied")
}

func TestTopLevel_NoErrorAfterEarlyStop(t *testing.T) {
	b := platformtest.New(
		platformtest.NewWindow(1, rect(0, 0, 1, 1)),
		platformtest.NewWindow(2, rect(0, 0, 1, 1)),
	)
	b.EnumErr = errors.New("access denied")

	calls := 0
	for _, err := range platform.TopLevel(b) {
		calls++
		require.NoError(t, err)
		break
	}
	assert.Equal(t, 1, calls)
}

func TestRelationshipQueriesShortCircuitNullHandle(t *testing.T) {
	b := platformtest.New()
	assert.Zero(t, b.Owner(0))
	assert.Zero(t, b.Ancestor(0, platform.AncestorRoot))
	assert.Zero(t, b.Calls("Owner"))
	assert.Zero(t, b.Calls("Ancestor"))
}

func TestMinimizedMaximized(t *testing.T) {
	w := platformtest.NewWindow(1, rect(0, 0, 1, 1))
	w.Show = platform.ShowMaximized
	b := platformtest.New(w)

	minimized, err := platform.Minimized(b, 1)
	require.NoError(t, err)
	assert.False(t, minimized)

	maximized, err := platform.Maximized(b, 1)
	require.NoError(t, err)
	assert.True(t, maximized)

	_, err = platform.Minimized(b, 2)
	assert.ErrorIs(t, err, platform.ErrInvalidWindow)
}

func TestRectDimensions(t *testing.T) {
	r := rect(10, 20, 110, 70)
	assert.Equal(t, 100, r.Width())
	assert.Equal(t, 50, r.Height())
	assert.Equal(t, "(10,20,110,70)", r.String())
}
