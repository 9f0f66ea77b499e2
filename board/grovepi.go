// Package board exposes the GrovePi's own pins: digital and analog I/O,
// pin modes, PWM, the firmware version and the optional RTC.
package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/mklimuk/grovepi"
)

type Mode byte

const (
	Input  Mode = 0
	Output Mode = 1
)

func (m Mode) String() string {
	switch m {
	case Input:
		return "INPUT"
	case Output:
		return "OUTPUT"
	default:
		return fmt.Sprintf("Mode(%d)", byte(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "input", "in":
		return Input, nil
	case "output", "out":
		return Output, nil
	default:
		return 0, fmt.Errorf("unknown pin mode %q", s)
	}
}

// RTCBlockSize is the length of the untagged RTC answer.
const RTCBlockSize = 10

type Version struct {
	Major byte `yaml:"major"`
	Minor byte `yaml:"minor"`
	Patch byte `yaml:"patch"`
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

type GrovePi struct {
	cmd grovepi.Commander
}

func New(cmd grovepi.Commander) *GrovePi {
	return &GrovePi{cmd: cmd}
}

func (g *GrovePi) DigitalRead(ctx context.Context, pin byte) (byte, error) {
	payload, err := g.cmd.Query(ctx, grovepi.Cmd(grovepi.OpDigitalRead, pin), 1)
	if err != nil {
		return 0, fmt.Errorf("digital read of pin %d: %w", pin, err)
	}
	return payload[0], nil
}

func (g *GrovePi) DigitalWrite(ctx context.Context, pin, value byte) error {
	if err := grovepi.CheckRange("value", int(value), 0, 1); err != nil {
		return err
	}
	if err := g.cmd.Exec(ctx, grovepi.Cmd(grovepi.OpDigitalWrite, pin, value)); err != nil {
		return fmt.Errorf("digital write of pin %d: %w", pin, err)
	}
	return nil
}

func (g *GrovePi) PinMode(ctx context.Context, pin byte, mode Mode) error {
	if mode != Input && mode != Output {
		return fmt.Errorf("%w: pin mode %d", grovepi.ErrOutOfRange, mode)
	}
	if err := g.cmd.Exec(ctx, grovepi.Cmd(grovepi.OpPinMode, pin, byte(mode))); err != nil {
		return fmt.Errorf("set mode of pin %d: %w", pin, err)
	}
	return nil
}

// AnalogRead returns the 10-bit ADC value of pin, sent big-endian.
func (g *GrovePi) AnalogRead(ctx context.Context, pin byte) (int, error) {
	payload, err := g.cmd.Query(ctx, grovepi.Cmd(grovepi.OpAnalogRead, pin), 2)
	if err != nil {
		return 0, fmt.Errorf("analog read of pin %d: %w", pin, err)
	}
	return int(payload[0])*256 + int(payload[1]), nil
}

// AnalogWrite sets the PWM duty cycle of pin.
func (g *GrovePi) AnalogWrite(ctx context.Context, pin, value byte) error {
	if err := g.cmd.Exec(ctx, grovepi.Cmd(grovepi.OpAnalogWrite, pin, value)); err != nil {
		return fmt.Errorf("analog write of pin %d: %w", pin, err)
	}
	return nil
}

func (g *GrovePi) Version(ctx context.Context) (Version, error) {
	payload, err := g.cmd.Query(ctx, grovepi.Cmd(grovepi.OpVersion), 3)
	if err != nil {
		return Version{}, fmt.Errorf("firmware version: %w", err)
	}
	return Version{Major: payload[0], Minor: payload[1], Patch: payload[2]}, nil
}

// RTCTime returns the raw answer of the RTC command. The firmware sends it
// without a tag so it is returned as read.
func (g *GrovePi) RTCTime(ctx context.Context) ([]byte, error) {
	block, err := g.cmd.Fetch(ctx, grovepi.Cmd(grovepi.OpRTCTime), RTCBlockSize)
	if err != nil {
		return nil, fmt.Errorf("rtc time: %w", err)
	}
	return block, nil
}
