package motion

import (
	"context"
	"fmt"

	"github.com/mklimuk/grovepi"
)

// DefaultFlowPin is the digital port used by the firmware's pulse counter.
const DefaultFlowPin = 2

type FlowReading struct {
	New   bool `yaml:"new"`
	Count int  `yaml:"count"`
}

// FlowSensor is the Grove water flow sensor. The firmware counts its pulses
// and answers reads with an untagged 3-byte block.
type FlowSensor struct {
	cmd grovepi.Commander
}

func NewFlowSensor(cmd grovepi.Commander) *FlowSensor {
	return &FlowSensor{cmd: cmd}
}

func (f *FlowSensor) Enable(ctx context.Context, pin byte) error {
	if err := f.cmd.Exec(ctx, grovepi.Cmd(grovepi.OpFlowEnable, pin)); err != nil {
		return fmt.Errorf("flow sensor enable: %w", err)
	}
	return nil
}

func (f *FlowSensor) Disable(ctx context.Context) error {
	if err := f.cmd.Exec(ctx, grovepi.Cmd(grovepi.OpFlowDisable)); err != nil {
		return fmt.Errorf("flow sensor disable: %w", err)
	}
	return nil
}

func (f *FlowSensor) Read(ctx context.Context) (FlowReading, error) {
	block, err := f.cmd.Fetch(ctx, grovepi.Cmd(grovepi.OpFlowRead), 3)
	if err != nil {
		return FlowReading{}, fmt.Errorf("flow sensor read: %w", err)
	}
	return FlowReading{New: block[0] != 0, Count: int(block[2])*256 + int(block[1])}, nil
}
