package display

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mklimuk/grovepi"
)

type FourDigit struct {
	cmd grovepi.Commander
	pin byte
}

func NewFourDigit(cmd grovepi.Commander, pin byte) *FourDigit {
	return &FourDigit{cmd: cmd, pin: pin}
}

func (d *FourDigit) exec(ctx context.Context, what string, op grovepi.Opcode, params ...byte) error {
	if err := d.cmd.Exec(ctx, grovepi.Cmd(op, append([]byte{d.pin}, params...)...)); err != nil {
		return fmt.Errorf("4-digit display on pin %d: %s: %w", d.pin, what, err)
	}
	return nil
}

func (d *FourDigit) Init(ctx context.Context) error {
	return d.exec(ctx, "init", grovepi.OpFourDigitInit)
}

// Number shows value in hexadecimal, 0000-FFFF. With leadingZeros the unused
// positions show 0 instead of staying blank.
func (d *FourDigit) Number(ctx context.Context, value uint16, leadingZeros bool) error {
	op := grovepi.OpFourDigitValue
	if leadingZeros {
		op = grovepi.OpFourDigitValueZeros
	}
	return d.exec(ctx, "number", op, byte(value), byte(value>>8))
}

// Brightness takes effect with the next command sent to the display.
func (d *FourDigit) Brightness(ctx context.Context, level int) error {
	if err := grovepi.CheckRange("brightness", level, 0, 7); err != nil {
		return err
	}
	return d.exec(ctx, "brightness", grovepi.OpFourDigitBrightness, byte(level))
}

// Digit shows a single hex digit at position 0-3.
func (d *FourDigit) Digit(ctx context.Context, position, value int) error {
	if err := grovepi.CheckRange("position", position, 0, 3); err != nil {
		return err
	}
	if err := grovepi.CheckRange("digit", value, 0, 15); err != nil {
		return err
	}
	return d.exec(ctx, "digit", grovepi.OpFourDigitIndividualDigit, byte(position), byte(value))
}

// Segment sets the seven LEDs of a position directly. On position 2 the
// eighth bit drives the colon.
func (d *FourDigit) Segment(ctx context.Context, position int, leds byte) error {
	if err := grovepi.CheckRange("position", position, 0, 3); err != nil {
		return err
	}
	return d.exec(ctx, "segment", grovepi.OpFourDigitIndividualLeds, byte(position), leds)
}

// Score shows two 0-99 values separated by a lit colon.
func (d *FourDigit) Score(ctx context.Context, left, right byte) error {
	return d.exec(ctx, "score", grovepi.OpFourDigitScore, left, right)
}

// Monitor makes the firmware show the readings of an analog pin for the
// given time and blocks until it is over.
func (d *FourDigit) Monitor(ctx context.Context, analogPin byte, duration time.Duration) error {
	seconds := int(math.Ceil(duration.Seconds()))
	if err := grovepi.CheckRange("seconds", seconds, 1, math.MaxUint8); err != nil {
		return err
	}
	if err := d.exec(ctx, "monitor", grovepi.OpFourDigitAnalogRead, analogPin, byte(seconds)); err != nil {
		return err
	}
	timer := time.NewTimer(time.Duration(seconds) * time.Second)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// On lights every segment (88:88).
func (d *FourDigit) On(ctx context.Context) error {
	return d.exec(ctx, "on", grovepi.OpFourDigitAllOn)
}

func (d *FourDigit) Off(ctx context.Context) error {
	return d.exec(ctx, "off", grovepi.OpFourDigitAllOff)
}
