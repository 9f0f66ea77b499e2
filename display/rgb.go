package display

import (
	"context"
	"fmt"

	"github.com/mklimuk/grovepi"
)

// TestColor is a 3-bit 0bRGB color used by the chain self test.
type TestColor byte

const (
	Black TestColor = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Yellow
	White
)

// Pattern selects which LEDs SetPattern paints with the stored color.
type Pattern byte

const (
	ThisLED Pattern = iota
	AllButThis
	ThisAndInwards
	ThisAndOutwards
)

// ChainableRGB is a chain of Grove chainable RGB LEDs. Colors are staged
// with StoreColor and applied by the pattern, modulo and level commands.
// LED 0 is the one closest to the board.
type ChainableRGB struct {
	cmd grovepi.Commander
	pin byte
}

func NewChainableRGB(cmd grovepi.Commander, pin byte) *ChainableRGB {
	return &ChainableRGB{cmd: cmd, pin: pin}
}

func (c *ChainableRGB) exec(ctx context.Context, what string, cmd grovepi.Command) error {
	if err := c.cmd.Exec(ctx, cmd); err != nil {
		return fmt.Errorf("rgb chain on pin %d: %s: %w", c.pin, what, err)
	}
	return nil
}

// StoreColor is not bound to a pin; the firmware keeps one stored color.
func (c *ChainableRGB) StoreColor(ctx context.Context, red, green, blue byte) error {
	return c.exec(ctx, "store color", grovepi.Cmd(grovepi.OpStoreColor, red, green, blue))
}

func (c *ChainableRGB) Init(ctx context.Context, leds byte) error {
	return c.exec(ctx, "init", grovepi.Cmd(grovepi.OpRGBInit, c.pin, leds))
}

// Test initializes the chain and lights every LED with color.
func (c *ChainableRGB) Test(ctx context.Context, leds byte, color TestColor) error {
	if err := grovepi.CheckRange("color", int(color), int(Black), int(White)); err != nil {
		return err
	}
	return c.exec(ctx, "test", grovepi.Cmd(grovepi.OpRGBTest, c.pin, leds, byte(color)))
}

func (c *ChainableRGB) SetPattern(ctx context.Context, pattern Pattern, led byte) error {
	if err := grovepi.CheckRange("pattern", int(pattern), int(ThisLED), int(ThisAndOutwards)); err != nil {
		return err
	}
	return c.exec(ctx, "pattern", grovepi.Cmd(grovepi.OpRGBSetPattern, c.pin, byte(pattern), led))
}

// SetModulo paints every divisor-th LED starting at offset.
func (c *ChainableRGB) SetModulo(ctx context.Context, offset, divisor byte) error {
	if divisor == 0 {
		return fmt.Errorf("%w: divisor 0", grovepi.ErrOutOfRange)
	}
	return c.exec(ctx, "modulo", grovepi.Cmd(grovepi.OpRGBSetModulo, c.pin, offset, divisor))
}

// SetLevel paints level LEDs like a bar graph, counted from the board or,
// with reverse, towards it.
func (c *ChainableRGB) SetLevel(ctx context.Context, level byte, reverse bool) error {
	if err := grovepi.CheckRange("level", int(level), 0, 10); err != nil {
		return err
	}
	r := byte(0)
	if reverse {
		r = 1
	}
	return c.exec(ctx, "level", grovepi.Cmd(grovepi.OpRGBSetLevel, c.pin, level, r))
}
