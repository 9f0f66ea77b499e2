package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/grovepi/air"
	"github.com/mklimuk/grovepi/cmd/grovepi/console"
)

var dustCmd = cli.Command{
	Name:  "dust",
	Usage: "dust sensor sampling",
	Subcommands: cli.Commands{
		&cli.Command{
			Name:      "enable",
			ArgsUsage: "[pin]",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				pin := byte(air.DefaultDustPin)
				if c.NArg() > 0 {
					var err error
					if pin, err = byteArg(c, 0, "pin"); err != nil {
						return console.Exit(1, "%s", err)
					}
				}
				if err := air.NewDustSensor(s.transport).Enable(ctx, pin); err != nil {
					return console.Fail("dust sensor error", err)
				}
				console.PInfof(console.PictoDust, "dust sensor on D%d %s", pin, console.Green("enabled"))
				return nil
			}),
		},
		&cli.Command{
			Name: "disable",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				if err := air.NewDustSensor(s.transport).Disable(ctx); err != nil {
					return console.Fail("dust sensor error", err)
				}
				console.PInfof(console.PictoDust, "dust sensor %s", console.Yellow("disabled"))
				return nil
			}),
		},
		&cli.Command{
			Name:  "read",
			Usage: "read the raw low pulse occupancy",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				sample, err := air.NewDustSensor(s.transport).Read(ctx)
				if err != nil {
					return console.Fail("dust read error", err)
				}
				return console.YAML(sample)
			}),
		},
		&cli.Command{
			Name:      "interval",
			Usage:     "print or set the sampling interval",
			ArgsUsage: "[duration]",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				sensor := air.NewDustSensor(s.transport)
				if c.NArg() > 0 {
					d, err := time.ParseDuration(c.Args().First())
					if err != nil {
						return console.Exit(1, "invalid interval: %s", err)
					}
					if err := sensor.SetInterval(ctx, d); err != nil {
						return console.Fail("dust interval error", err)
					}
				}
				d, err := sensor.Interval(ctx)
				if err != nil {
					return console.Fail("dust interval error", err)
				}
				console.PInfof(console.PictoClock, "sampling every %s", console.White(d))
				return nil
			}),
		},
		&cli.Command{
			Name:  "concentration",
			Usage: "wait for a finished interval and print the particle concentration",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "no-wait", Usage: "fail instead of waiting when no new sample is ready"},
				&cli.DurationFlag{Name: "poll", Usage: "poll period while waiting", Value: 50 * time.Millisecond},
			},
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				sensor := air.NewDustSensor(s.transport, air.WithPollInterval(c.Duration("poll")))
				read := sensor.ReadConcentration
				if c.Bool("no-wait") {
					read = sensor.TryConcentration
				}
				conc, err := read(ctx)
				if err != nil {
					return console.Fail("dust concentration error", err)
				}
				return console.YAML(conc)
			}),
		},
	},
}
