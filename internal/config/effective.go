package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies the values present in raw on top of the
// defaults. Enumerated strings are normalized to lower case.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Threshold != nil {
		cfg.Threshold = *raw.Threshold
	}
	if raw.IgnoreMinimized != nil {
		cfg.IgnoreMinimized = *raw.IgnoreMinimized
	}
	if raw.IgnoreMaximized != nil {
		cfg.IgnoreMaximized = *raw.IgnoreMaximized
	}
	if raw.DPIAwareness != nil {
		cfg.DPIAwareness = normalize(*raw.DPIAwareness)
	}
	if raw.Notify != nil {
		cfg.Notify = normalize(*raw.Notify)
	}
	if raw.SettleDelayMS != nil {
		cfg.SettleDelayMS = *raw.SettleDelayMS
	}

	if l := raw.Logging; l != nil {
		if l.Level != nil {
			cfg.Logging.Level = normalize(*l.Level)
		}
		if l.File != nil {
			cfg.Logging.File = strings.TrimSpace(*l.File)
		}
		if l.MaxSizeMB != nil {
			cfg.Logging.MaxSizeMB = *l.MaxSizeMB
		}
		if l.MaxFiles != nil {
			cfg.Logging.MaxFiles = *l.MaxFiles
		}
		if l.Compress != nil {
			cfg.Logging.Compress = *l.Compress
		}
	}

	return cfg
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
