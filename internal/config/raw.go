package config

// RawConfig mirrors the YAML file. Pointer fields distinguish "not set" from
// zero values so that defaults survive partial files.
type RawConfig struct {
	Threshold       *int              `yaml:"threshold"`
	IgnoreMinimized *bool             `yaml:"ignore_minimized"`
	IgnoreMaximized *bool             `yaml:"ignore_maximized"`
	DPIAwareness    *string           `yaml:"dpi_awareness"`
	Notify          *string           `yaml:"notify"`
	SettleDelayMS   *int              `yaml:"settle_delay_ms"`
	Logging         *RawLoggingConfig `yaml:"logging"`
}

type RawLoggingConfig struct {
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
	Compress  *bool   `yaml:"compress"`
}
