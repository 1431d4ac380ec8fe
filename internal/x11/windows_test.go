package x11

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveResult_WindowManagerAccepted(t *testing.T) {
	called := false
	err := moveResult(nil, func() error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.False(t, called, "direct configure only runs after a failed request")
}

func TestMoveResult_FallbackSucceeds(t *testing.T) {
	err := moveResult(errors.New("no window manager"), func() error { return nil })
	assert.NoError(t, err)
}

func TestMoveResult_BothFail(t *testing.T) {
	rejected := errors.New("BadWindow")

	err := moveResult(errors.New("no window manager"), func() error { return rejected })
	require.Error(t, err)
	assert.ErrorIs(t, err, rejected)
	assert.Contains(t, err.Error(), "no window manager")
}
