package grovepi

import (
	"errors"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

// ErrNoData is returned by sensors that report "no new sample" with a 0xFF
// marker in their answer.
var ErrNoData = errors.New("grovepi: no new data")

var ErrInvalidReading = errors.New("grovepi: invalid reading")

var ErrOutOfRange = errors.New("grovepi: argument out of range")

// CheckRange returns ErrOutOfRange when v is outside [lo, hi].
func CheckRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s %d not in [%d, %d]", ErrOutOfRange, name, v, lo, hi)
	}
	return nil
}
