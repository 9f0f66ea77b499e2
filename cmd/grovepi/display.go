package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/grovepi/cmd/grovepi/console"
	"github.com/mklimuk/grovepi/display"
)

var pinFlag = &cli.UintFlag{
	Name:  "pin",
	Usage: "digital port the module is plugged into",
	Value: 5,
}

func pinOf(c *cli.Context) (byte, error) {
	pin := c.Uint("pin")
	if pin > 255 {
		return 0, fmt.Errorf("invalid pin %d", pin)
	}
	return byte(pin), nil
}

// displayAction resolves the --pin flag before running action.
func displayAction(action func(ctx context.Context, c *cli.Context, s *session, pin byte) error) cli.ActionFunc {
	return withSession(func(ctx context.Context, c *cli.Context, s *session) error {
		pin, err := pinOf(c)
		if err != nil {
			return console.Exit(1, "%s", err)
		}
		return action(ctx, c, s, pin)
	})
}

func parseOrientation(s string) (display.Orientation, error) {
	switch s {
	case "red-to-green", "":
		return display.RedToGreen, nil
	case "green-to-red":
		return display.GreenToRed, nil
	default:
		return 0, fmt.Errorf("unknown orientation %q", s)
	}
}

var testColors = map[string]display.TestColor{
	"black":   display.Black,
	"blue":    display.Blue,
	"green":   display.Green,
	"cyan":    display.Cyan,
	"red":     display.Red,
	"magenta": display.Magenta,
	"yellow":  display.Yellow,
	"white":   display.White,
}

var patterns = map[string]display.Pattern{
	"this":     display.ThisLED,
	"all-but":  display.AllButThis,
	"inwards":  display.ThisAndInwards,
	"outwards": display.ThisAndOutwards,
}

var ledBarCmd = cli.Command{
	Name:  "ledbar",
	Usage: "10 segment LED bar",
	Flags: []cli.Flag{pinFlag},
	Subcommands: cli.Commands{
		&cli.Command{
			Name:      "init",
			ArgsUsage: "[red-to-green|green-to-red]",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				o, err := parseOrientation(c.Args().First())
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := display.NewLEDBar(s.transport, pin).Init(ctx, o); err != nil {
					return console.Fail("led bar error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name:      "orientation",
			ArgsUsage: "<red-to-green|green-to-red>",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				o, err := parseOrientation(c.Args().First())
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := display.NewLEDBar(s.transport, pin).SetOrientation(ctx, o); err != nil {
					return console.Fail("led bar error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name:      "level",
			ArgsUsage: "<0-10>",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				level, err := intArg(c, 0, "level")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := display.NewLEDBar(s.transport, pin).SetLevel(ctx, level); err != nil {
					return console.Fail("led bar error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name:      "set",
			ArgsUsage: "<1-10> <on|off>",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				led, err := intArg(c, 0, "led")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				on, err := boolArg(c, 1, "state")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := display.NewLEDBar(s.transport, pin).SetLED(ctx, led, on); err != nil {
					return console.Fail("led bar error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name:      "toggle",
			ArgsUsage: "<1-10>",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				led, err := intArg(c, 0, "led")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := display.NewLEDBar(s.transport, pin).ToggleLED(ctx, led); err != nil {
					return console.Fail("led bar error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name:      "bits",
			ArgsUsage: "<0-1023>",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				bits, err := uintArg(c, 0, "bits", 16)
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := display.NewLEDBar(s.transport, pin).SetBits(ctx, uint16(bits)); err != nil {
					return console.Fail("led bar error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name: "get",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				bits, err := display.NewLEDBar(s.transport, pin).Bits(ctx)
				if err != nil {
					return console.Fail("led bar error", err)
				}
				console.PInfof(console.PictoBulb, "%s", console.White(fmt.Sprintf("%010b", bits)))
				return nil
			}),
		},
	},
}

var fourDigitCmd = cli.Command{
	Name:  "fourdigit",
	Usage: "4 digit 7 segment display",
	Flags: []cli.Flag{pinFlag},
	Subcommands: cli.Commands{
		&cli.Command{
			Name: "init",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				if err := display.NewFourDigit(s.transport, pin).Init(ctx); err != nil {
					return console.Fail("display error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name:      "number",
			ArgsUsage: "<0-65535>",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "zeros", Usage: "pad with leading zeros"},
			},
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				v, err := uintArg(c, 0, "value", 16)
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := display.NewFourDigit(s.transport, pin).Number(ctx, uint16(v), c.Bool("zeros")); err != nil {
					return console.Fail("display error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name:      "brightness",
			ArgsUsage: "<0-7>",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				level, err := intArg(c, 0, "brightness")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := display.NewFourDigit(s.transport, pin).Brightness(ctx, level); err != nil {
					return console.Fail("display error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name:      "digit",
			ArgsUsage: "<position 0-3> <value 0-15>",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				pos, err := intArg(c, 0, "position")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				v, err := intArg(c, 1, "value")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := display.NewFourDigit(s.transport, pin).Digit(ctx, pos, v); err != nil {
					return console.Fail("display error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name:      "segment",
			ArgsUsage: "<position 0-3> <segments>",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				pos, err := intArg(c, 0, "position")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				leds, err := byteArg(c, 1, "segments")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := display.NewFourDigit(s.transport, pin).Segment(ctx, pos, leds); err != nil {
					return console.Fail("display error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name:      "score",
			ArgsUsage: "<left 0-99> <right 0-99>",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				left, err := byteArg(c, 0, "left")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				right, err := byteArg(c, 1, "right")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := display.NewFourDigit(s.transport, pin).Score(ctx, left, right); err != nil {
					return console.Fail("display error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name:      "monitor",
			Usage:     "show an analog input on the display",
			ArgsUsage: "<analog pin> <duration>",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				analog, err := byteArg(c, 0, "analog pin")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				d, err := time.ParseDuration(c.Args().Get(1))
				if err != nil {
					return console.Exit(1, "invalid duration: %s", err)
				}
				if err := display.NewFourDigit(s.transport, pin).Monitor(ctx, analog, d); err != nil {
					return console.Fail("display error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name: "on",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				if err := display.NewFourDigit(s.transport, pin).On(ctx); err != nil {
					return console.Fail("display error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name: "off",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				if err := display.NewFourDigit(s.transport, pin).Off(ctx); err != nil {
					return console.Fail("display error", err)
				}
				return nil
			}),
		},
	},
}

var rgbCmd = cli.Command{
	Name:  "rgb",
	Usage: "chainable RGB LEDs",
	Flags: []cli.Flag{pinFlag},
	Subcommands: cli.Commands{
		&cli.Command{
			Name:      "color",
			Usage:     "stage a color for the next pattern, modulo or level command",
			ArgsUsage: "<red> <green> <blue>",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				var rgb [3]byte
				for i, name := range []string{"red", "green", "blue"} {
					v, err := byteArg(c, i, name)
					if err != nil {
						return console.Exit(1, "%s", err)
					}
					rgb[i] = v
				}
				if err := display.NewChainableRGB(s.transport, pin).StoreColor(ctx, rgb[0], rgb[1], rgb[2]); err != nil {
					return console.Fail("rgb error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name:      "init",
			ArgsUsage: "<leds>",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				n, err := byteArg(c, 0, "leds")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := display.NewChainableRGB(s.transport, pin).Init(ctx, n); err != nil {
					return console.Fail("rgb error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name:      "test",
			ArgsUsage: "<leds> <color>",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				n, err := byteArg(c, 0, "leds")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				color, ok := testColors[c.Args().Get(1)]
				if !ok {
					return console.Exit(1, "unknown color %q", c.Args().Get(1))
				}
				if err := display.NewChainableRGB(s.transport, pin).Test(ctx, n, color); err != nil {
					return console.Fail("rgb error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name:      "pattern",
			ArgsUsage: "<this|all-but|inwards|outwards> <led>",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				p, ok := patterns[c.Args().First()]
				if !ok {
					return console.Exit(1, "unknown pattern %q", c.Args().First())
				}
				led, err := byteArg(c, 1, "led")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := display.NewChainableRGB(s.transport, pin).SetPattern(ctx, p, led); err != nil {
					return console.Fail("rgb error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name:      "modulo",
			ArgsUsage: "<offset> <divisor>",
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				offset, err := byteArg(c, 0, "offset")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				divisor, err := byteArg(c, 1, "divisor")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := display.NewChainableRGB(s.transport, pin).SetModulo(ctx, offset, divisor); err != nil {
					return console.Fail("rgb error", err)
				}
				return nil
			}),
		},
		&cli.Command{
			Name:      "level",
			ArgsUsage: "<0-10>",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "reverse", Usage: "count from the far end of the chain"},
			},
			Action: displayAction(func(ctx context.Context, c *cli.Context, s *session, pin byte) error {
				level, err := byteArg(c, 0, "level")
				if err != nil {
					return console.Exit(1, "%s", err)
				}
				if err := display.NewChainableRGB(s.transport, pin).SetLevel(ctx, level, c.Bool("reverse")); err != nil {
					return console.Fail("rgb error", err)
				}
				return nil
			}),
		},
	},
}
