package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/grovepi/adapter"
	"github.com/mklimuk/grovepi/busctx"
	"github.com/mklimuk/grovepi/cmd/grovepi/console"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "USB to I2C bridge maintenance",
	Subcommands: cli.Commands{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
	},
}

var mcp2221StatusCmd = cli.Command{
	Name: "status",
	Action: withBridge(func(ctx context.Context, c *cli.Context, a *adapter.MCP2221) error {
		status, err := a.Status(ctx)
		if err != nil {
			return console.Fail("adapter communication error", err)
		}
		return console.YAML(status)
	}),
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel a stuck transfer and free the bus",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask for confirmation"},
	},
	Action: withBridge(func(ctx context.Context, c *cli.Context, a *adapter.MCP2221) error {
		if !c.Bool("yes") {
			answer, err := console.YesOrNo("cancel the pending transfer?")
			if err != nil {
				return console.Fail("prompt error", err)
			}
			if answer != console.Yes {
				return nil
			}
		}
		status, err := a.ReleaseBus(ctx)
		if err != nil {
			return console.Fail("adapter communication error", err)
		}
		return console.YAML(status)
	}),
}

func withBridge(action func(ctx context.Context, c *cli.Context, a *adapter.MCP2221) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return console.Fail("configuration error", err)
		}
		a, err := adapter.OpenMCP2221(adapter.WithDeviceIndex(cfg.DeviceIndex))
		if err != nil {
			return console.Fail("could not open bridge", err)
		}
		defer func() {
			if err := a.Close(); err != nil {
				console.Errorf("error closing bridge: %s", console.Red(err))
			}
		}()
		return action(busctx.SetVerbose(c.Context, c.Bool("verbose")), c, a)
	}
}
