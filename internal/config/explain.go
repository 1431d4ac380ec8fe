package config

import "fmt"

// Explain returns the effective value at the given YAML path and its source.
//
// Supported paths:
//
//	threshold
//	ignore_minimized
//	ignore_maximized
//	dpi_awareness
//	notify
//	settle_delay_ms
//	logging.level
//	logging.file
//	logging.max_size_mb
//	logging.max_files
//	logging.compress
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// Paths lists every path Explain understands, in file order.
func Paths() []string {
	return []string{
		"threshold",
		"ignore_minimized",
		"ignore_maximized",
		"dpi_awareness",
		"notify",
		"settle_delay_ms",
		"logging.level",
		"logging.file",
		"logging.max_size_mb",
		"logging.max_files",
		"logging.compress",
	}
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "threshold":
		return cfg.Threshold, nil
	case "ignore_minimized":
		return cfg.IgnoreMinimized, nil
	case "ignore_maximized":
		return cfg.IgnoreMaximized, nil
	case "dpi_awareness":
		return cfg.DPIAwareness, nil
	case "notify":
		return cfg.Notify, nil
	case "settle_delay_ms":
		return cfg.SettleDelayMS, nil
	case "logging.level":
		return cfg.Logging.Level, nil
	case "logging.file":
		return cfg.Logging.File, nil
	case "logging.max_size_mb":
		return cfg.Logging.MaxSizeMB, nil
	case "logging.max_files":
		return cfg.Logging.MaxFiles, nil
	case "logging.compress":
		return cfg.Logging.Compress, nil
	default:
		return nil, fmt.Errorf("unknown config path %q", path)
	}
}
