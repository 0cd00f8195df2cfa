// Package config handles global configuration loading using viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"firestige.xyz/overwatch/internal/core"
)

// GlobalConfig is the static configuration of one overwatch run. Maps to
// the `overwatch:` root key in YAML.
type GlobalConfig struct {
	Capture CaptureConfig `mapstructure:"capture"`
	Decoder DecoderConfig `mapstructure:"decoder"`
	Output  OutputConfig  `mapstructure:"output"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
}

// ─── Capture ───

// CaptureConfig sizes the live capture ring.
type CaptureConfig struct {
	SnapLen      int    `mapstructure:"snap_len"`
	BufferSizeMB int    `mapstructure:"buffer_size_mb"`
	PollTimeout  string `mapstructure:"poll_timeout"` // e.g. "100ms"
	FanoutID     uint16 `mapstructure:"fanout_id"`
	Promiscuous  bool   `mapstructure:"promiscuous"`

	pollTimeout time.Duration
}

// PollTimeoutDuration returns the parsed poll timeout.
func (c CaptureConfig) PollTimeoutDuration() time.Duration { return c.pollTimeout }

// ─── Decoder ───

// DecoderConfig controls encapsulation parsing.
type DecoderConfig struct {
	Geneve     bool   `mapstructure:"geneve"`
	GenevePort uint16 `mapstructure:"geneve_port"`
}

// ─── Output ───

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// OutputConfig controls frame rendering.
type OutputConfig struct {
	Hex   bool   `mapstructure:"hex"`
	Color string `mapstructure:"color"` // auto / always / never
}

// ─── Filter ───

// FilterConfig names filter sources applied on top of the command line flags.
type FilterConfig struct {
	File string `mapstructure:"file"` // YAML filter specification
	BPF  string `mapstructure:"bpf"`  // tcpdump expression for live capture
}

// ─── Metrics ───

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// ─── Log ───

const (
	LogFormatPattern  = "pattern"
	LogFormatPrefixed = "prefixed"
	LogFormatJSON     = "json"
)

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level"`   // trace / debug / info / warn / error
	Format  string           `mapstructure:"format"`  // pattern / prefixed / json
	Pattern string           `mapstructure:"pattern"` // used by the pattern format
	Time    string           `mapstructure:"time"`    // timestamp layout
	File    FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// DefaultLogConfig is the logging used before a configuration is loaded.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:   "info",
		Format:  LogFormatPattern,
		Pattern: "%time [%level] %field %msg%n",
		Time:    "2006-01-02 15:04:05.000",
	}
}

// ─── Loading ───

type configRoot struct {
	Overwatch GlobalConfig `mapstructure:"overwatch"`
}

// Load loads configuration from path. An empty path loads the defaults.
// Environment variables override file values through the key replacer,
// e.g. key "overwatch.log.level" is read from OVERWATCH_LOG_LEVEL.
func Load(path string) (*GlobalConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Overwatch

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets default values for configuration. All keys carry the
// "overwatch." prefix of the YAML root.
func setDefaults(v *viper.Viper) {
	// Capture defaults
	v.SetDefault("overwatch.capture.snap_len", 9000)
	v.SetDefault("overwatch.capture.buffer_size_mb", 8)
	v.SetDefault("overwatch.capture.poll_timeout", "100ms")
	v.SetDefault("overwatch.capture.fanout_id", 0)
	v.SetDefault("overwatch.capture.promiscuous", true)

	// Decoder defaults
	v.SetDefault("overwatch.decoder.geneve", true)
	v.SetDefault("overwatch.decoder.geneve_port", 6081)

	// Output defaults
	v.SetDefault("overwatch.output.hex", false)
	v.SetDefault("overwatch.output.color", ColorAuto)

	// Filter defaults
	v.SetDefault("overwatch.filter.file", "")
	v.SetDefault("overwatch.filter.bpf", "")

	// Metrics defaults
	v.SetDefault("overwatch.metrics.enabled", false)
	v.SetDefault("overwatch.metrics.listen", ":9091")
	v.SetDefault("overwatch.metrics.path", "/metrics")

	// Log defaults
	def := DefaultLogConfig()
	v.SetDefault("overwatch.log.level", def.Level)
	v.SetDefault("overwatch.log.format", def.Format)
	v.SetDefault("overwatch.log.pattern", def.Pattern)
	v.SetDefault("overwatch.log.time", def.Time)
	v.SetDefault("overwatch.log.file.enabled", false)
	v.SetDefault("overwatch.log.file.path", "/var/log/overwatch/overwatch.log")
	v.SetDefault("overwatch.log.file.rotation.max_size_mb", 100)
	v.SetDefault("overwatch.log.file.rotation.max_age_days", 30)
	v.SetDefault("overwatch.log.file.rotation.max_backups", 5)
	v.SetDefault("overwatch.log.file.rotation.compress", true)
}

// ValidateAndApplyDefaults validates configuration and derives runtime values.
func (cfg *GlobalConfig) ValidateAndApplyDefaults() error {
	// ── Log validation ──
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log level %q (must be trace/debug/info/warn/error): %w", cfg.Log.Level, core.ErrConfigInvalid)
	}
	switch cfg.Log.Format {
	case LogFormatPattern, LogFormatPrefixed, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q (must be pattern/prefixed/json): %w", cfg.Log.Format, core.ErrConfigInvalid)
	}
	if cfg.Log.File.Enabled && cfg.Log.File.Path == "" {
		return fmt.Errorf("log.file.path is required when log.file.enabled=true: %w", core.ErrConfigInvalid)
	}

	// ── Capture ──
	if cfg.Capture.SnapLen <= 0 || cfg.Capture.SnapLen > 65535 {
		return fmt.Errorf("capture.snap_len %d out of range: %w", cfg.Capture.SnapLen, core.ErrConfigInvalid)
	}
	if cfg.Capture.BufferSizeMB <= 0 {
		return fmt.Errorf("capture.buffer_size_mb must be positive: %w", core.ErrConfigInvalid)
	}
	d, err := time.ParseDuration(cfg.Capture.PollTimeout)
	if err != nil || d <= 0 {
		return fmt.Errorf("capture.poll_timeout %q: %w", cfg.Capture.PollTimeout, core.ErrConfigInvalid)
	}
	cfg.Capture.pollTimeout = d

	// ── Decoder ──
	if cfg.Decoder.GenevePort == 0 {
		cfg.Decoder.GenevePort = 6081
	}

	// ── Output ──
	switch cfg.Output.Color {
	case "":
		cfg.Output.Color = ColorAuto
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid output.color %q (must be auto/always/never): %w", cfg.Output.Color, core.ErrConfigInvalid)
	}

	// ── Metrics ──
	if cfg.Metrics.Enabled && cfg.Metrics.Listen == "" {
		return fmt.Errorf("metrics.listen is required when metrics.enabled=true: %w", core.ErrConfigInvalid)
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	return nil
}
