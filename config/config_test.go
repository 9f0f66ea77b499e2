package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/grovepi/protocol"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "grovepi.yaml", `
adapter: gobot
platform: nanopi
bus: 2
retries: 5
additional_delay: 10ms
max_wait: 2s
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, AdapterGobot, cfg.Adapter)
	assert.Equal(t, "nanopi", cfg.Platform)
	assert.Equal(t, 2, cfg.Bus)
	assert.Equal(t, 5, cfg.Retries)
	assert.Equal(t, 10*time.Millisecond, cfg.AdditionalDelay)
	assert.Equal(t, 2*time.Second, cfg.MaxWait)
	assert.Equal(t, "debug", cfg.LogLevel)
	// untouched fields keep their defaults
	assert.Equal(t, uint8(0x04), cfg.Address)
	assert.Equal(t, 2*time.Millisecond, cfg.InterTransferDelay)
	assert.Equal(t, 3*time.Millisecond, cfg.RecoveryDelay)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "grovepi.toml", `
adapter = "mcp2221"
device_index = 1
address = 0x05
recovery_delay = "5ms"
max_discards = 50
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, AdapterMCP2221, cfg.Adapter)
	assert.Equal(t, 1, cfg.DeviceIndex)
	assert.Equal(t, uint8(0x05), cfg.Address)
	assert.Equal(t, 5*time.Millisecond, cfg.RecoveryDelay)
	assert.Equal(t, 50, cfg.MaxDiscards)
	assert.Equal(t, 10, cfg.Retries)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown extension", "grovepi.json", `{}`},
		{"broken yaml", "grovepi.yaml", "adapter: [periph"},
		{"broken toml", "grovepi.toml", "adapter = "},
		{"invalid values", "grovepi.yaml", "retries: 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"sim adapter", func(c *Config) { c.Adapter = AdapterSim }, true},
		{"unknown adapter", func(c *Config) { c.Adapter = "spi" }, false},
		{"reserved address", func(c *Config) { c.Address = 0x01 }, false},
		{"address out of range", func(c *Config) { c.Address = 0x78 }, false},
		{"no retries", func(c *Config) { c.Retries = 0 }, false},
		{"negative delay", func(c *Config) { c.RecoveryDelay = -time.Millisecond }, false},
		{"negative max wait", func(c *Config) { c.MaxWait = -time.Second }, false},
		{"negative discards", func(c *Config) { c.MaxDiscards = -1 }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestProtocolOptions(t *testing.T) {
	cfg := Default()
	cfg.Address = 0x06
	cfg.Retries = 3
	cfg.AdditionalDelay = time.Millisecond
	cfg.MaxWait = time.Second
	cfg.MaxDiscards = 7

	var opts protocol.Options
	for _, opt := range cfg.ProtocolOptions() {
		opt(&opts)
	}
	assert.Equal(t, protocol.Options{
		Address:            0x06,
		RetryBudget:        3,
		InterTransferDelay: 2 * time.Millisecond,
		AdditionalDelay:    time.Millisecond,
		RecoveryDelay:      3 * time.Millisecond,
		MaxWait:            time.Second,
		MaxDiscards:        7,
	}, opts)
}
