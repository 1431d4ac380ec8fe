package platform

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func fastQuitRetries(t *testing.T) {
	t.Helper()
	retries, delay := quitRetries, quitRetryDelay
	quitRetries, quitRetryDelay = 3, time.Millisecond
	t.Cleanup(func() { quitRetries, quitRetryDelay = retries, delay })
}

func TestQuitOnCancel_RetriesAndLogsFailedPost(t *testing.T) {
	fastQuitRetries(t)
	var logs syncBuffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	var calls atomic.Int32
	posted := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	stop := quitOnCancel(ctx, logger, func() error {
		if calls.Add(1) < 3 {
			return errors.New("queue full")
		}
		close(posted)
		return nil
	})
	defer stop()

	cancel()
	select {
	case <-posted:
	case <-time.After(2 * time.Second):
		t.Fatal("quit was never posted")
	}
	assert.Equal(t, int32(3), calls.Load())
	assert.Contains(t, logs.String(), "failed to post quit to message loop")
	assert.Contains(t, logs.String(), "queue full")
}

func TestQuitOnCancel_GivesUpAfterRetries(t *testing.T) {
	fastQuitRetries(t)
	var logs syncBuffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	stop := quitOnCancel(ctx, logger, func() error {
		calls.Add(1)
		return errors.New("invalid thread id")
	})
	defer stop()

	cancel()
	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "giving up posting quit")
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(3), calls.Load())
}

func TestQuitOnCancel_StopBeforeCancelNeverPosts(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	stop := quitOnCancel(ctx, slog.Default(), func() error {
		calls.Add(1)
		return nil
	})
	stop()
	cancel()

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, calls.Load())
}
