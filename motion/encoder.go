package motion

import (
	"context"
	"fmt"

	"github.com/mklimuk/grovepi"
)

type EncoderReading struct {
	// New is set when the encoder moved since the previous read.
	New   bool `yaml:"new"`
	Value int  `yaml:"value"`
}

// Encoder is the Grove rotary encoder, counted by the firmware.
type Encoder struct {
	cmd grovepi.Commander
}

func NewEncoder(cmd grovepi.Commander) *Encoder {
	return &Encoder{cmd: cmd}
}

func (e *Encoder) Enable(ctx context.Context) error {
	if err := e.cmd.Exec(ctx, grovepi.Cmd(grovepi.OpEncoderEnable)); err != nil {
		return fmt.Errorf("encoder enable: %w", err)
	}
	return nil
}

func (e *Encoder) Disable(ctx context.Context) error {
	if err := e.cmd.Exec(ctx, grovepi.Cmd(grovepi.OpEncoderDisable)); err != nil {
		return fmt.Errorf("encoder disable: %w", err)
	}
	return nil
}

// Read returns ErrNoData when the encoder is not enabled.
func (e *Encoder) Read(ctx context.Context) (EncoderReading, error) {
	payload, err := e.cmd.Query(ctx, grovepi.Cmd(grovepi.OpEncoderRead), 2)
	if err != nil {
		return EncoderReading{}, fmt.Errorf("encoder read: %w", err)
	}
	if payload[0] == grovepi.TagGlitch {
		return EncoderReading{}, fmt.Errorf("encoder read: %w", grovepi.ErrNoData)
	}
	return EncoderReading{New: payload[0] != 0, Value: int(payload[1])}, nil
}
