package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Threshold != 40 {
		t.Fatalf("expected threshold 40, got %d", cfg.Threshold)
	}
	if !cfg.IgnoreMinimized || !cfg.IgnoreMaximized {
		t.Fatalf("expected minimized and maximized peers to be ignored by default")
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.File != "" {
		t.Fatalf("expected no file, got %q", res.File)
	}
	if res.Config.Threshold != DefaultThreshold {
		t.Fatalf("expected default threshold, got %d", res.Config.Threshold)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Notify != DefaultNotify {
		t.Fatalf("expected notify %q, got %q", DefaultNotify, res.Config.Notify)
	}
}

func TestLoadFromPath_PartialOverrides(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"threshold: 25",
		"ignore_maximized: false",
		"dpi_awareness: Per-Monitor-V2",
		"logging:",
		"  level: debug",
		"  compress: false",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Threshold != 25 {
		t.Fatalf("expected threshold 25, got %d", cfg.Threshold)
	}
	if cfg.IgnoreMaximized {
		t.Fatalf("expected ignore_maximized false")
	}
	if !cfg.IgnoreMinimized {
		t.Fatalf("expected ignore_minimized to keep its default")
	}
	if cfg.DPIAwareness != "per-monitor-v2" {
		t.Fatalf("expected normalized dpi_awareness, got %q", cfg.DPIAwareness)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Compress {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
	if cfg.Logging.MaxFiles != DefaultLogMaxFiles {
		t.Fatalf("expected max_files default, got %d", cfg.Logging.MaxFiles)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	path := writeConfig(t, "notify: dialog\nthreshold: 0\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Path != "threshold" {
		t.Fatalf("expected path threshold, got %q", verr.Path)
	}
	if verr.Source.Line != 2 {
		t.Fatalf("expected line 2, got %d", verr.Source.Line)
	}
	if !strings.HasPrefix(err.Error(), path+":2:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"threshold too large", func(c *Config) { c.Threshold = MaxThreshold + 1 }, "threshold"},
		{"dpi", func(c *Config) { c.DPIAwareness = "retina" }, "dpi_awareness"},
		{"notify", func(c *Config) { c.Notify = "email" }, "notify"},
		{"settle delay", func(c *Config) { c.SettleDelayMS = 1 }, "settle_delay_ms"},
		{"log level", func(c *Config) { c.Logging.Level = "warning" }, "logging.level"},
		{"log size", func(c *Config) { c.Logging.MaxSizeMB = 0 }, "logging.max_size_mb"},
		{"log files", func(c *Config) { c.Logging.MaxFiles = -1 }, "logging.max_files"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, verr.Path)
			}
		})
	}
}

func TestExplain_ReportsFileAndDefaultSources(t *testing.T) {
	path := writeConfig(t, "threshold: 12\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "threshold")
	if err != nil {
		t.Fatalf("explain threshold: %v", err)
	}
	if val != 12 {
		t.Fatalf("expected 12, got %#v", val)
	}
	if src.Kind != SourceFile || src.Line != 1 {
		t.Fatalf("expected file source on line 1, got %#v", src)
	}

	_, src, err = Explain(res, "notify")
	if err != nil {
		t.Fatalf("explain notify: %v", err)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %#v", src)
	}

	if _, _, err := Explain(res, "hotkey"); err == nil {
		t.Fatalf("expected error for unknown path")
	}
	for _, p := range Paths() {
		if _, _, err := Explain(res, p); err != nil {
			t.Fatalf("Paths() entry %q not explainable: %v", p, err)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Threshold = 17
	cfg.Notify = "console"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Threshold != 17 || res.Config.Notify != "console" {
		t.Fatalf("round trip lost values: %+v", res.Config)
	}
}

func TestGetLoggingConfig_ResolvesFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	cfg := DefaultConfig()

	got := cfg.GetLoggingConfig()
	if filepath.Base(got.File) != "snaptile.log" {
		t.Fatalf("expected snaptile.log, got %q", got.File)
	}

	cfg.Logging.File = "/var/log/custom.log"
	if got := cfg.GetLoggingConfig(); got.File != "/var/log/custom.log" {
		t.Fatalf("expected explicit file to win, got %q", got.File)
	}
}
