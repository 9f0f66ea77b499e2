// Package ir reads the Grove infrared receiver through the GrovePi firmware,
// which decodes NEC style remote control frames.
package ir

import (
	"context"
	"fmt"

	"github.com/mklimuk/grovepi"
)

const signalSize = 7

type Signal struct {
	// Valid is the firmware's decode status flag.
	Valid   byte   `yaml:"valid"`
	Address uint16 `yaml:"address"`
	Code    uint32 `yaml:"code"`
}

func (s Signal) String() string {
	return fmt.Sprintf("address=%#04x code=%#08x", s.Address, s.Code)
}

type Receiver struct {
	cmd grovepi.Commander
}

func NewReceiver(cmd grovepi.Commander) *Receiver {
	return &Receiver{cmd: cmd}
}

// SetPin tells the firmware which digital port the receiver is on.
func (r *Receiver) SetPin(ctx context.Context, pin byte) error {
	if err := r.cmd.Exec(ctx, grovepi.Cmd(grovepi.OpIRPin, pin)); err != nil {
		return fmt.Errorf("ir receiver pin: %w", err)
	}
	return nil
}

// HasData reports whether a frame arrived that has not been read yet.
func (r *Receiver) HasData(ctx context.Context) (bool, error) {
	payload, err := r.cmd.Query(ctx, grovepi.Cmd(grovepi.OpIRIsData), 1)
	if err != nil {
		return false, fmt.Errorf("ir receiver data check: %w", err)
	}
	return payload[0] != 0, nil
}

func (r *Receiver) ReadSignal(ctx context.Context) (Signal, error) {
	payload, err := r.cmd.Query(ctx, grovepi.Cmd(grovepi.OpIRRead), signalSize)
	if err != nil {
		return Signal{}, fmt.Errorf("ir receiver read: %w", err)
	}
	return decodeSignal(payload), nil
}

func decodeSignal(p []byte) Signal {
	return Signal{
		Valid:   p[0],
		Address: uint16(p[1]) | uint16(p[2])<<8,
		Code:    uint32(p[3]) | uint32(p[4])<<8 | uint32(p[5])<<16 | uint32(p[6])<<24,
	}
}
