package runtimepath

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestStateDir_UsesXDGStateHomeWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_STATE_HOME", td)

	got, err := StateDir()
	if err != nil {
		t.Fatalf("StateDir() error: %v", err)
	}
	want := filepath.Join(td, "snaptile")
	if got != want {
		t.Fatalf("StateDir() = %q, want %q", got, want)
	}
	if info, err := os.Stat(got); err != nil || !info.IsDir() {
		t.Fatalf("StateDir() did not create %q: %v", got, err)
	}
}

func TestStateDir_FallsBackToHome(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses LocalAppData on windows")
	}
	home := t.TempDir()
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", home)

	got, err := StateDir()
	if err != nil {
		t.Fatalf("StateDir() error: %v", err)
	}
	want := filepath.Join(home, ".local", "state", "snaptile")
	if got != want {
		t.Fatalf("StateDir() = %q, want %q", got, want)
	}
}

func TestLogPathAndConfigPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_STATE_HOME", td)
	t.Setenv("XDG_CONFIG_HOME", td)
	t.Setenv("AppData", td)
	t.Setenv("HOME", td)

	logPath, err := LogPath()
	if err != nil {
		t.Fatalf("LogPath() error: %v", err)
	}
	if filepath.Base(logPath) != "snaptile.log" {
		t.Fatalf("LogPath() = %q, missing file name", logPath)
	}

	cfgPath, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath() error: %v", err)
	}
	if filepath.Base(cfgPath) != "config.yaml" || filepath.Base(filepath.Dir(cfgPath)) != "snaptile" {
		t.Fatalf("ConfigPath() = %q, want .../snaptile/config.yaml", cfgPath)
	}
}
