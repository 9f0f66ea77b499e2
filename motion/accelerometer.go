package motion

import (
	"context"
	"fmt"

	"github.com/mklimuk/grovepi"
)

type Acceleration struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

// Accelerometer is the Grove ±1.5g 3-axis accelerometer.
type Accelerometer struct {
	cmd grovepi.Commander
}

func NewAccelerometer(cmd grovepi.Commander) *Accelerometer {
	return &Accelerometer{cmd: cmd}
}

func (a *Accelerometer) Read(ctx context.Context) (Acceleration, error) {
	payload, err := a.cmd.Query(ctx, grovepi.Cmd(grovepi.OpAccelerometerRead), 3)
	if err != nil {
		return Acceleration{}, fmt.Errorf("accelerometer: %w", err)
	}
	return Acceleration{
		X: decodeAxis(payload[0]),
		Y: decodeAxis(payload[1]),
		Z: decodeAxis(payload[2]),
	}, nil
}

// decodeAxis undoes the firmware's encoding of negative readings as 224-v.
func decodeAxis(v byte) int {
	if v > 32 {
		return -(int(v) - 224)
	}
	return int(v)
}
