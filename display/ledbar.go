// Package display drives the GrovePi output modules rendered by the
// firmware: the 10-segment LED bar, the 4-digit display and chains of
// RGB LEDs.
package display

import (
	"context"
	"fmt"

	"github.com/mklimuk/grovepi"
)

type Orientation byte

const (
	RedToGreen Orientation = 0
	GreenToRed Orientation = 1
)

const ledBarSize = 10

type LEDBar struct {
	cmd grovepi.Commander
	pin byte
}

func NewLEDBar(cmd grovepi.Commander, pin byte) *LEDBar {
	return &LEDBar{cmd: cmd, pin: pin}
}

func (b *LEDBar) exec(ctx context.Context, what string, op grovepi.Opcode, params ...byte) error {
	if err := b.cmd.Exec(ctx, grovepi.Cmd(op, append([]byte{b.pin}, params...)...)); err != nil {
		return fmt.Errorf("led bar on pin %d: %s: %w", b.pin, what, err)
	}
	return nil
}

func (b *LEDBar) Init(ctx context.Context, o Orientation) error {
	return b.exec(ctx, "init", grovepi.OpLEDBarInit, byte(o))
}

func (b *LEDBar) SetOrientation(ctx context.Context, o Orientation) error {
	return b.exec(ctx, "orientation", grovepi.OpLEDBarOrientation, byte(o))
}

// SetLevel lights the first level LEDs.
func (b *LEDBar) SetLevel(ctx context.Context, level int) error {
	if err := grovepi.CheckRange("level", level, 0, ledBarSize); err != nil {
		return err
	}
	return b.exec(ctx, "level", grovepi.OpLEDBarLevel, byte(level))
}

// SetLED switches a single LED, numbered from 1.
func (b *LEDBar) SetLED(ctx context.Context, led int, on bool) error {
	if err := grovepi.CheckRange("led", led, 1, ledBarSize); err != nil {
		return err
	}
	state := byte(0)
	if on {
		state = 1
	}
	return b.exec(ctx, "set led", grovepi.OpLEDBarSetOne, byte(led), state)
}

func (b *LEDBar) ToggleLED(ctx context.Context, led int) error {
	if err := grovepi.CheckRange("led", led, 1, ledBarSize); err != nil {
		return err
	}
	return b.exec(ctx, "toggle led", grovepi.OpLEDBarToggleOne, byte(led))
}

// SetBits sets all LEDs at once, one bit per LED.
func (b *LEDBar) SetBits(ctx context.Context, bits uint16) error {
	if err := grovepi.CheckRange("bits", int(bits), 0, 1<<ledBarSize-1); err != nil {
		return err
	}
	return b.exec(ctx, "set bits", grovepi.OpLEDBarSetBits, byte(bits), byte(bits>>8))
}

func (b *LEDBar) Bits(ctx context.Context) (uint16, error) {
	payload, err := b.cmd.Query(ctx, grovepi.Cmd(grovepi.OpLEDBarGetBits, b.pin), 2)
	if err != nil {
		return 0, fmt.Errorf("led bar on pin %d: get bits: %w", b.pin, err)
	}
	return uint16(payload[0]) ^ uint16(payload[1])<<8, nil
}
