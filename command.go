package grovepi

import (
	"context"
	"fmt"
)

// Opcode identifies a firmware command. A successful response echoes it back
// as the leading byte of the block.
type Opcode byte

const (
	OpDigitalRead       Opcode = 1
	OpDigitalWrite      Opcode = 2
	OpAnalogRead        Opcode = 3
	OpAnalogWrite       Opcode = 4
	OpPinMode           Opcode = 5
	OpDustIntervalRead  Opcode = 6
	OpUltrasonicRead    Opcode = 7
	OpVersion           Opcode = 8
	OpDustInterval      Opcode = 9
	OpDustRead          Opcode = 10
	OpEncoderRead       Opcode = 11
	OpFlowRead          Opcode = 12
	OpFlowDisable       Opcode = 13
	OpDustEnable        Opcode = 14
	OpDustDisable       Opcode = 15
	OpEncoderEnable     Opcode = 16
	OpEncoderDisable    Opcode = 17
	OpFlowEnable        Opcode = 18
	OpAccelerometerRead Opcode = 20
	OpIRRead            Opcode = 21
	OpIRPin             Opcode = 22
	OpIRIsData          Opcode = 24
	OpRTCTime           Opcode = 30
	OpDHTRead           Opcode = 40

	OpLEDBarInit        Opcode = 50
	OpLEDBarOrientation Opcode = 51
	OpLEDBarLevel       Opcode = 52
	OpLEDBarSetOne      Opcode = 53
	OpLEDBarToggleOne   Opcode = 54
	OpLEDBarSetBits     Opcode = 55
	OpLEDBarGetBits     Opcode = 56

	OpFourDigitInit            Opcode = 70
	OpFourDigitBrightness      Opcode = 71
	OpFourDigitValue           Opcode = 72
	OpFourDigitValueZeros      Opcode = 73
	OpFourDigitIndividualDigit Opcode = 74
	OpFourDigitIndividualLeds  Opcode = 75
	OpFourDigitScore           Opcode = 76
	OpFourDigitAnalogRead      Opcode = 77
	OpFourDigitAllOn           Opcode = 78
	OpFourDigitAllOff          Opcode = 79

	OpStoreColor    Opcode = 90
	OpRGBInit       Opcode = 91
	OpRGBTest       Opcode = 92
	OpRGBSetPattern Opcode = 93
	OpRGBSetModulo  Opcode = 94
	OpRGBSetLevel   Opcode = 95
)

// Reserved values of the leading response byte.
const (
	// TagNotAvailable means the firmware received the command but has no
	// result yet.
	TagNotAvailable byte = 23
	// TagGlitch is the all-ones block seen when nothing drove the bus.
	TagGlitch byte = 0xFF
)

// CommandSize is the fixed wire size of every outbound block.
const CommandSize = 4

// Unused fills parameter slots a command does not need.
const Unused byte = 0

// Command is an opcode plus exactly three parameter bytes.
type Command struct {
	Opcode Opcode
	Params [3]byte
}

// NewCommand builds a command from up to three parameters. Missing
// parameters are set to Unused, extra ones are an error.
func NewCommand(op Opcode, params ...byte) (Command, error) {
	if len(params) > 3 {
		return Command{}, fmt.Errorf("command %d: too many parameters: %d", op, len(params))
	}
	cmd := Command{Opcode: op}
	copy(cmd.Params[:], params)
	return cmd, nil
}

// Cmd is NewCommand for call sites with a fixed, known parameter count.
// It panics when given more than three parameters.
func Cmd(op Opcode, params ...byte) Command {
	cmd, err := NewCommand(op, params...)
	if err != nil {
		panic(err)
	}
	return cmd
}

// Encode returns the 4-byte wire block [opcode, p0, p1, p2].
func (c Command) Encode() [CommandSize]byte {
	return [CommandSize]byte{byte(c.Opcode), c.Params[0], c.Params[1], c.Params[2]}
}

func (c Command) String() string {
	return fmt.Sprintf("cmd(%d %d %d %d)", c.Opcode, c.Params[0], c.Params[1], c.Params[2])
}

// Commander runs whole command/response exchanges against the board.
//
// Exec sends the command and consumes the 1-byte acknowledge block.
// Query sends the command and returns the n payload bytes of the response
// tagged with the command's opcode. Fetch sends the command and returns an
// untagged n-byte block.
type Commander interface {
	Exec(ctx context.Context, cmd Command) error
	Query(ctx context.Context, cmd Command, n int) ([]byte, error)
	Fetch(ctx context.Context, cmd Command, n int) ([]byte, error)
}
