package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/grovepi/cmd/grovepi/console"
	"github.com/mklimuk/grovepi/ir"
)

var irCmd = cli.Command{
	Name:  "ir",
	Usage: "infrared receiver",
	Subcommands: cli.Commands{
		&cli.Command{
			Name:      "pin",
			Usage:     "attach the receiver to a pin",
			ArgsUsage: "<pin>",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				pin, err := byteArg(c, 0, "pin")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := ir.NewReceiver(s.transport).SetPin(ctx, pin); err != nil {
					return console.Fail("ir receiver error", err)
				}
				console.PInfof(console.PictoSignal, "receiver on D%d", pin)
				return nil
			}),
		},
		&cli.Command{
			Name:  "check",
			Usage: "tell whether a signal is waiting",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				ok, err := ir.NewReceiver(s.transport).HasData(ctx)
				if err != nil {
					return console.Fail("ir receiver error", err)
				}
				if ok {
					console.PInfof(console.PictoSignal, "%s", console.Green("signal waiting"))
				} else {
					console.PInfof(console.PictoSignal, "%s", console.Yellow("no signal"))
				}
				return nil
			}),
		},
		&cli.Command{
			Name:  "read",
			Usage: "read the latest decoded signal",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				sig, err := ir.NewReceiver(s.transport).ReadSignal(ctx)
				if err != nil {
					return console.Fail("ir read error", err)
				}
				if sig.Valid == 0 {
					console.PInfof(console.PictoSignal, "%s", console.Yellow("no valid signal"))
					return nil
				}
				console.PInfof(console.PictoSignal, "%s", console.White(sig))
				return nil
			}),
		},
	},
}
