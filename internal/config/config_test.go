package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/overwatch/internal/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overwatch.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
overwatch:
  capture:
    snap_len: 1514
    poll_timeout: "250ms"
    promiscuous: false
  decoder:
    geneve: false
  output:
    hex: true
    color: never
  filter:
    file: /etc/overwatch/filter.yml
  metrics:
    enabled: true
    listen: "127.0.0.1:9100"
  log:
    level: debug
    format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1514, cfg.Capture.SnapLen)
	assert.Equal(t, 250*time.Millisecond, cfg.Capture.PollTimeoutDuration())
	assert.False(t, cfg.Capture.Promiscuous)
	assert.False(t, cfg.Decoder.Geneve)
	assert.True(t, cfg.Output.Hex)
	assert.Equal(t, ColorNever, cfg.Output.Color)
	assert.Equal(t, "/etc/overwatch/filter.yml", cfg.Filter.File)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Listen)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, LogFormatJSON, cfg.Log.Format)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Capture.SnapLen)
	assert.Equal(t, 8, cfg.Capture.BufferSizeMB)
	assert.Equal(t, 100*time.Millisecond, cfg.Capture.PollTimeoutDuration())
	assert.True(t, cfg.Capture.Promiscuous)
	assert.True(t, cfg.Decoder.Geneve)
	assert.Equal(t, uint16(6081), cfg.Decoder.GenevePort)
	assert.Equal(t, ColorAuto, cfg.Output.Color)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, LogFormatPattern, cfg.Log.Format)
	assert.False(t, cfg.Log.File.Enabled)
	assert.Equal(t, 100, cfg.Log.File.Rotation.MaxSizeMB)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("OVERWATCH_LOG_LEVEL", "warn")
	t.Setenv("OVERWATCH_DECODER_GENEVE_PORT", "7000")

	cfg, err := Load(writeConfig(t, "overwatch:\n  log:\n    level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, uint16(7000), cfg.Decoder.GenevePort)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"log level", "overwatch:\n  log:\n    level: verbose\n"},
		{"log format", "overwatch:\n  log:\n    format: xml\n"},
		{"log file path", "overwatch:\n  log:\n    file:\n      enabled: true\n      path: \"\"\n"},
		{"snap length", "overwatch:\n  capture:\n    snap_len: 70000\n"},
		{"poll timeout", "overwatch:\n  capture:\n    poll_timeout: soon\n"},
		{"color", "overwatch:\n  output:\n    color: sometimes\n"},
		{"metrics listen", "overwatch:\n  metrics:\n    enabled: true\n    listen: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrConfigInvalid)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
