package logging_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/snaptile/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for name, want := range tests {
		got, err := logging.ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := logging.ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_WritesFileAndConsole(t *testing.T) {
	color.NoColor = true
	path := filepath.Join(t.TempDir(), "logs", "snaptile.log")
	var console bytes.Buffer

	log, err := logging.New(logging.Options{
		Level:   "info",
		File:    path,
		Console: &console,
	})
	require.NoError(t, err)

	log.Debug("hidden everywhere")
	log.Info("snapped window", "edge", "left")
	log.With("window", "0x10").Warn("snap failed")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=\"snapped window\" edge=left")
	assert.Contains(t, string(data), "level=WARN")
	assert.NotContains(t, string(data), "hidden everywhere")

	lines := strings.Split(strings.TrimSpace(console.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "snapped window edge=left", lines[0])
	assert.Equal(t, "WARNING: snap failed window=0x10", lines[1])
	assert.Equal(t, path, log.Path())
}

func TestNew_VerboseConsoleOnlyLowersConsoleLevel(t *testing.T) {
	color.NoColor = true
	path := filepath.Join(t.TempDir(), "snaptile.log")
	var console bytes.Buffer

	log, err := logging.New(logging.Options{
		Level:   "info",
		File:    path,
		Console: &console,
		Verbose: true,
	})
	require.NoError(t, err)

	log.Debug("peer", "edge", "none")
	require.NoError(t, log.Close())

	assert.Equal(t, "VERBOSE: peer edge=none\n", console.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "peer")
}

func TestNew_NoSinks(t *testing.T) {
	log, err := logging.New(logging.Options{})
	require.NoError(t, err)
	log.Info("dropped")
	assert.Empty(t, log.Path())
	assert.NoError(t, log.Close())
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := logging.New(logging.Options{Level: "chatty"})
	assert.Error(t, err)
}
