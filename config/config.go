// Package config loads the GrovePi connection settings from YAML or TOML
// files. Fields missing from the file keep their defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	chlog "github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/grovepi"
	"github.com/mklimuk/grovepi/protocol"
)

const (
	AdapterPeriph  = "periph"
	AdapterGobot   = "gobot"
	AdapterMCP2221 = "mcp2221"
	AdapterSim     = "sim"
)

var Adapters = []string{AdapterPeriph, AdapterGobot, AdapterMCP2221, AdapterSim}

type Config struct {
	// Adapter selects the bus implementation.
	Adapter string `yaml:"adapter" toml:"adapter"`
	// Device is the periph bus name, e.g. "/dev/i2c-1" or "1". Empty opens
	// the first bus found.
	Device string `yaml:"device" toml:"device"`
	// Platform is the gobot board: raspi or nanopi.
	Platform string `yaml:"platform" toml:"platform"`
	// Bus is the gobot bus number; negative uses the platform default.
	Bus int `yaml:"bus" toml:"bus"`
	// DeviceIndex picks one of several MCP2221 bridges; negative requires
	// exactly one attached.
	DeviceIndex int `yaml:"device_index" toml:"device_index"`

	Address            uint8         `yaml:"address" toml:"address"`
	Retries            int           `yaml:"retries" toml:"retries"`
	InterTransferDelay time.Duration `yaml:"inter_transfer_delay" toml:"inter_transfer_delay"`
	AdditionalDelay    time.Duration `yaml:"additional_delay" toml:"additional_delay"`
	RecoveryDelay      time.Duration `yaml:"recovery_delay" toml:"recovery_delay"`
	MaxWait            time.Duration `yaml:"max_wait" toml:"max_wait"`
	MaxDiscards        int           `yaml:"max_discards" toml:"max_discards"`

	LogLevel string `yaml:"log_level" toml:"log_level"`
}

func Default() Config {
	return Config{
		Adapter:            AdapterPeriph,
		Platform:           "raspi",
		Bus:                -1,
		DeviceIndex:        -1,
		Address:            grovepi.DefaultAddress,
		Retries:            protocol.DefaultRetryBudget,
		InterTransferDelay: protocol.DefaultInterTransferDelay,
		RecoveryDelay:      protocol.DefaultRecoveryDelay,
		LogLevel:           "info",
	}
}

// Load reads the file at path over the defaults. The format follows the
// extension: .yaml/.yml or .toml.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: decode yaml %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("config: decode toml %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("config: unsupported file type %q", ext)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if !slices.Contains(Adapters, c.Adapter) {
		return fmt.Errorf("config: unknown adapter %q, expected one of %s", c.Adapter, strings.Join(Adapters, ", "))
	}
	if c.Address < 0x03 || c.Address > 0x77 {
		return fmt.Errorf("config: address %#x outside the 7-bit device range", c.Address)
	}
	if c.Retries < 1 {
		return fmt.Errorf("config: retries must be at least 1, got %d", c.Retries)
	}
	for name, d := range map[string]time.Duration{
		"inter_transfer_delay": c.InterTransferDelay,
		"additional_delay":     c.AdditionalDelay,
		"recovery_delay":       c.RecoveryDelay,
		"max_wait":             c.MaxWait,
	} {
		if d < 0 {
			return fmt.Errorf("config: %s must not be negative, got %s", name, d)
		}
	}
	if c.MaxDiscards < 0 {
		return fmt.Errorf("config: max_discards must not be negative, got %d", c.MaxDiscards)
	}
	if _, err := chlog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	return nil
}

// ProtocolOptions maps the transfer settings onto transport options.
func (c Config) ProtocolOptions() []protocol.Option {
	return []protocol.Option{
		protocol.WithAddress(c.Address),
		protocol.WithRetryBudget(c.Retries),
		protocol.WithInterTransferDelay(c.InterTransferDelay),
		protocol.WithAdditionalDelay(c.AdditionalDelay),
		protocol.WithRecoveryDelay(c.RecoveryDelay),
		protocol.WithMaxWait(c.MaxWait),
		protocol.WithMaxDiscards(c.MaxDiscards),
	}
}
