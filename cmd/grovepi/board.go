package main

import (
	"context"
	"encoding/hex"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/grovepi/board"
	"github.com/mklimuk/grovepi/cmd/grovepi/console"
)

var versionCmd = cli.Command{
	Name:  "version",
	Usage: "print the firmware version",
	Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
		v, err := s.board.Version(ctx)
		if err != nil {
			return console.Fail("could not read firmware version", err)
		}
		console.PInfof(console.PictoChip, "firmware %s", console.White(v))
		return nil
	}),
}

var digitalCmd = cli.Command{
	Name:  "digital",
	Usage: "digital pin I/O",
	Subcommands: cli.Commands{
		&cli.Command{
			Name:      "read",
			ArgsUsage: "<pin>",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				pin, err := byteArg(c, 0, "pin")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				v, err := s.board.DigitalRead(ctx, pin)
				if err != nil {
					return console.Fail("digital read error", err)
				}
				console.PInfof(console.PictoPin, "D%d %s", pin, console.OnOff(v))
				return nil
			}),
		},
		&cli.Command{
			Name:      "write",
			ArgsUsage: "<pin> <0|1>",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				pin, err := byteArg(c, 0, "pin")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				v, err := byteArg(c, 1, "value")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := s.board.DigitalWrite(ctx, pin, v); err != nil {
					return console.Fail("digital write error", err)
				}
				console.PInfof(console.PictoPin, "D%d %s", pin, console.OnOff(v))
				return nil
			}),
		},
	},
}

var analogCmd = cli.Command{
	Name:  "analog",
	Usage: "ADC reads and PWM writes",
	Subcommands: cli.Commands{
		&cli.Command{
			Name:      "read",
			ArgsUsage: "<pin>",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				pin, err := byteArg(c, 0, "pin")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				v, err := s.board.AnalogRead(ctx, pin)
				if err != nil {
					return console.Fail("analog read error", err)
				}
				console.PInfof(console.PictoPin, "A%d %s", pin, console.White(v))
				return nil
			}),
		},
		&cli.Command{
			Name:      "write",
			ArgsUsage: "<pin> <0-255>",
			Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
				pin, err := byteArg(c, 0, "pin")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				v, err := byteArg(c, 1, "duty cycle")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := s.board.AnalogWrite(ctx, pin, v); err != nil {
					return console.Fail("analog write error", err)
				}
				console.PInfof(console.PictoPin, "D%d PWM %s", pin, console.White(v))
				return nil
			}),
		},
	},
}

var modeCmd = cli.Command{
	Name:      "mode",
	Usage:     "set a pin as input or output",
	ArgsUsage: "<pin> <input|output>",
	Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
		pin, err := byteArg(c, 0, "pin")
		if err != nil {
			return console.Exit(1, "%s", err)
		}
		mode, err := board.ParseMode(c.Args().Get(1))
		if err != nil {
			return console.Exit(1, "%s", err)
		}
		if err := s.board.PinMode(ctx, pin, mode); err != nil {
			return console.Fail("pin mode error", err)
		}
		console.PInfof(console.PictoPin, "D%d %s", pin, console.White(mode))
		return nil
	}),
}

var rtcCmd = cli.Command{
	Name:  "rtc",
	Usage: "dump the RTC answer",
	Action: withSession(func(ctx context.Context, c *cli.Context, s *session) error {
		block, err := s.board.RTCTime(ctx)
		if err != nil {
			return console.Fail("rtc read error", err)
		}
		console.PInfof(console.PictoClock, "%s", console.White(hex.EncodeToString(block)))
		return nil
	}),
}
