package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/grovepi/cmd/grovepi/console"
	"github.com/mklimuk/grovepi/motion"
)

var ultrasonicCmd = cli.Command{
	Name:      "ultrasonic",
	Usage:     "measure distance with the ultrasonic ranger",
	ArgsUsage: "<pin>",
	Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
		pin, err := byteArg(c, 0, "pin")
		if err != nil {
			return console.Exit(1, "%s", err)
		}
		d, err := motion.NewUltrasonic(s.transport, pin).Distance(ctx)
		if err != nil {
			return console.Fail("ultrasonic read error", err)
		}
		console.PInfof(console.PictoRuler, "%scm", console.White(d))
		return nil
	}),
}

var accelCmd = cli.Command{
	Name:    "accelerometer",
	Aliases: []string{"accel"},
	Usage:   "read the 3-axis accelerometer",
	Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
		a, err := motion.NewAccelerometer(s.transport).Read(ctx)
		if err != nil {
			return console.Fail("accelerometer read error", err)
		}
		return console.YAML(a)
	}),
}

var encoderCmd = cli.Command{
	Name:  "encoder",
	Usage: "rotary encoder counting",
	Subcommands: cli.Commands{
		&cli.Command{
			Name: "enable",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				if err := motion.NewEncoder(s.transport).Enable(ctx); err != nil {
					return console.Fail("encoder error", err)
				}
				console.Infof("encoder %s", console.Green("enabled"))
				return nil
			}),
		},
		&cli.Command{
			Name: "disable",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				if err := motion.NewEncoder(s.transport).Disable(ctx); err != nil {
					return console.Fail("encoder error", err)
				}
				console.Infof("encoder %s", console.Yellow("disabled"))
				return nil
			}),
		},
		&cli.Command{
			Name: "read",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				r, err := motion.NewEncoder(s.transport).Read(ctx)
				if err != nil {
					return console.Fail("encoder read error", err)
				}
				return console.YAML(r)
			}),
		},
	},
}

var flowCmd = cli.Command{
	Name:  "flow",
	Usage: "water flow sensor counting",
	Subcommands: cli.Commands{
		&cli.Command{
			Name:      "enable",
			ArgsUsage: "[pin]",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				pin := byte(motion.DefaultFlowPin)
				if c.NArg() > 0 {
					var err error
					if pin, err = byteArg(c, 0, "pin"); err != nil {
						return console.Exit(1, "%s", err)
					}
				}
				if err := motion.NewFlowSensor(s.transport).Enable(ctx, pin); err != nil {
					return console.Fail("flow sensor error", err)
				}
				console.PInfof(console.PictoWave, "flow sensor on D%d %s", pin, console.Green("enabled"))
				return nil
			}),
		},
		&cli.Command{
			Name: "disable",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				if err := motion.NewFlowSensor(s.transport).Disable(ctx); err != nil {
					return console.Fail("flow sensor error", err)
				}
				console.PInfof(console.PictoWave, "flow sensor %s", console.Yellow("disabled"))
				return nil
			}),
		},
		&cli.Command{
			Name: "read",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				r, err := motion.NewFlowSensor(s.transport).Read(ctx)
				if err != nil {
					return console.Fail("flow read error", err)
				}
				return console.YAML(r)
			}),
		},
	},
}
