package protocol

import "errors"

var (
	// ErrBusUnreachable is returned once the retry budget of consecutive
	// transport failures is spent. It is fatal for the call.
	ErrBusUnreachable = errors.New("grovepi: bus unreachable")

	// ErrDeviceNotReady is returned when a bounded wait (WithMaxWait) expires
	// before the board delivers the expected answer.
	ErrDeviceNotReady = errors.New("grovepi: device not ready")

	// ErrTagMismatch is returned when the discard limit (WithMaxDiscards) is
	// reached without seeing the expected response tag.
	ErrTagMismatch = errors.New("grovepi: response tag mismatch")

	ErrInvalidLength = errors.New("grovepi: invalid block length")
)
