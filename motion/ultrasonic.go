// Package motion reads GrovePi sensors that measure movement: the ultrasonic
// ranger, the 3-axis accelerometer, rotary encoders and water flow meters.
package motion

import (
	"context"
	"fmt"

	"github.com/mklimuk/grovepi"
)

// Ultrasonic is the Grove ultrasonic ranger.
type Ultrasonic struct {
	cmd grovepi.Commander
	pin byte
}

func NewUltrasonic(cmd grovepi.Commander, pin byte) *Ultrasonic {
	return &Ultrasonic{cmd: cmd, pin: pin}
}

// Distance returns the distance to the nearest obstacle in centimeters.
func (u *Ultrasonic) Distance(ctx context.Context) (int, error) {
	payload, err := u.cmd.Query(ctx, grovepi.Cmd(grovepi.OpUltrasonicRead, u.pin), 2)
	if err != nil {
		return 0, fmt.Errorf("ultrasonic on pin %d: %w", u.pin, err)
	}
	return int(payload[0])*256 + int(payload[1]), nil
}
