package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/grovepi/config"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML or TOML configuration file",
			EnvVars: []string{"GROVEPI_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "adapter",
			Aliases: []string{"a"},
			Usage:   "bus adapter: periph, gobot, mcp2221 or sim",
			EnvVars: []string{"GROVEPI_ADAPTER"},
		},
		&cli.StringFlag{
			Name:    "device",
			Aliases: []string{"d"},
			Usage:   "periph I2C bus name, e.g. /dev/i2c-1",
		},
		&cli.StringFlag{
			Name:  "platform",
			Usage: "gobot platform: raspi or nanopi",
		},
		&cli.IntFlag{
			Name:  "bus",
			Usage: "gobot I2C bus number",
		},
		&cli.IntFlag{
			Name:  "device-index",
			Usage: "MCP2221 bridge index when several are attached",
		},
		&cli.StringFlag{
			Name:  "address",
			Usage: "GrovePi I2C address",
		},
		&cli.IntFlag{
			Name:  "retries",
			Usage: "consecutive bus failures tolerated per transfer",
		},
		&cli.DurationFlag{
			Name:  "additional-delay",
			Usage: "extra pause after every transfer",
		},
		&cli.DurationFlag{
			Name:  "max-wait",
			Usage: "give up waiting for the board after this long (0 waits forever)",
		},
		&cli.IntFlag{
			Name:  "max-discards",
			Usage: "give up after dropping this many stale answers (0 never)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable verbose logging with transfer dumps",
		},
	}
}

// loadConfig reads the configuration file, if any, and applies the flags
// set on the command line over it.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return cfg, err
		}
	}
	if c.IsSet("adapter") {
		cfg.Adapter = c.String("adapter")
	}
	if c.IsSet("device") {
		cfg.Device = c.String("device")
	}
	if c.IsSet("platform") {
		cfg.Platform = c.String("platform")
	}
	if c.IsSet("bus") {
		cfg.Bus = c.Int("bus")
	}
	if c.IsSet("device-index") {
		cfg.DeviceIndex = c.Int("device-index")
	}
	if c.IsSet("address") {
		addr, err := strconv.ParseUint(c.String("address"), 0, 8)
		if err != nil {
			return cfg, fmt.Errorf("invalid address %q: %w", c.String("address"), err)
		}
		cfg.Address = uint8(addr)
	}
	if c.IsSet("retries") {
		cfg.Retries = c.Int("retries")
	}
	if c.IsSet("additional-delay") {
		cfg.AdditionalDelay = c.Duration("additional-delay")
	}
	if c.IsSet("max-wait") {
		cfg.MaxWait = c.Duration("max-wait")
	}
	if c.IsSet("max-discards") {
		cfg.MaxDiscards = c.Int("max-discards")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	return cfg, cfg.Validate()
}

// byteArg parses the i-th positional argument as a byte, accepting 0x and
// 0b prefixes.
func byteArg(c *cli.Context, i int, name string) (byte, error) {
	v, err := uintArg(c, i, name, 8)
	return byte(v), err
}

func intArg(c *cli.Context, i int, name string) (int, error) {
	if c.NArg() <= i {
		return 0, fmt.Errorf("missing %s argument", name)
	}
	v, err := strconv.ParseInt(c.Args().Get(i), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, c.Args().Get(i), err)
	}
	return int(v), nil
}

func uintArg(c *cli.Context, i int, name string, bits int) (uint64, error) {
	if c.NArg() <= i {
		return 0, fmt.Errorf("missing %s argument", name)
	}
	v, err := strconv.ParseUint(c.Args().Get(i), 0, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, c.Args().Get(i), err)
	}
	return v, nil
}

func boolArg(c *cli.Context, i int, name string) (bool, error) {
	if c.NArg() <= i {
		return false, fmt.Errorf("missing %s argument", name)
	}
	switch c.Args().Get(i) {
	case "on", "1", "true", "high":
		return true, nil
	case "off", "0", "false", "low":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s %q, expected on or off", name, c.Args().Get(i))
	}
}
