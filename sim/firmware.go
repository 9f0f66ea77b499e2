package sim

import (
	"encoding/binary"
	"math"

	"github.com/mklimuk/grovepi"
)

const pinCount = 9

type ledBar struct {
	reversed bool
	bits     uint16
}

type firmwareState struct {
	digital  [pinCount]byte
	analog   [pinCount]uint16
	pwm      [pinCount]byte
	modes    [pinCount]byte
	distance [pinCount]uint16
	ledBars  [pinCount]ledBar

	acceleration [3]byte
	rtc          [9]byte
	temperature  float32
	humidity     float32

	irPin    byte
	irData   []byte
	irLatest bool

	dustEnabled  bool
	dustNew      bool
	dustLPO      uint32
	dustInterval uint16

	encoderEnabled bool
	encoderNew     bool
	encoderValue   byte

	flowEnabled bool
	flowNew     bool
	flowCount   uint16

	color    [3]byte
	display  []grovepi.Command
	rgbChain []grovepi.Command
}

func newFirmwareState() firmwareState {
	return firmwareState{
		dustInterval: 30000,
		temperature:  21.5,
		humidity:     40,
	}
}

func (b *Board) registerFirmware() {
	s := &b.state
	h := b.handlers
	h[grovepi.OpVersion] = func(cmd grovepi.Command) []byte {
		return tagged(cmd.Opcode, b.config.Version[:]...)
	}
	h[grovepi.OpPinMode] = func(cmd grovepi.Command) []byte {
		if pin, ok := pinOf(cmd); ok {
			s.modes[pin] = cmd.Params[1]
		}
		return ack(cmd)
	}
	h[grovepi.OpDigitalRead] = func(cmd grovepi.Command) []byte {
		pin, _ := pinOf(cmd)
		return tagged(cmd.Opcode, s.digital[pin])
	}
	h[grovepi.OpDigitalWrite] = func(cmd grovepi.Command) []byte {
		if pin, ok := pinOf(cmd); ok {
			s.digital[pin] = cmd.Params[1]
		}
		return ack(cmd)
	}
	h[grovepi.OpAnalogRead] = func(cmd grovepi.Command) []byte {
		pin, _ := pinOf(cmd)
		return tagged(cmd.Opcode, byte(s.analog[pin]>>8), byte(s.analog[pin]))
	}
	h[grovepi.OpAnalogWrite] = func(cmd grovepi.Command) []byte {
		if pin, ok := pinOf(cmd); ok {
			s.pwm[pin] = cmd.Params[1]
		}
		return ack(cmd)
	}
	h[grovepi.OpUltrasonicRead] = func(cmd grovepi.Command) []byte {
		pin, _ := pinOf(cmd)
		return tagged(cmd.Opcode, byte(s.distance[pin]>>8), byte(s.distance[pin]))
	}
	h[grovepi.OpAccelerometerRead] = func(cmd grovepi.Command) []byte {
		return tagged(cmd.Opcode, s.acceleration[:]...)
	}
	h[grovepi.OpRTCTime] = func(cmd grovepi.Command) []byte {
		return tagged(cmd.Opcode, s.rtc[:]...)
	}
	h[grovepi.OpDHTRead] = func(cmd grovepi.Command) []byte {
		payload := make([]byte, 8)
		binary.LittleEndian.PutUint32(payload[0:], math.Float32bits(s.temperature))
		binary.LittleEndian.PutUint32(payload[4:], math.Float32bits(s.humidity))
		return tagged(cmd.Opcode, payload...)
	}

	h[grovepi.OpIRPin] = func(cmd grovepi.Command) []byte {
		s.irPin = cmd.Params[0]
		return ack(cmd)
	}
	h[grovepi.OpIRIsData] = func(cmd grovepi.Command) []byte {
		return tagged(cmd.Opcode, boolByte(s.irLatest))
	}
	h[grovepi.OpIRRead] = func(cmd grovepi.Command) []byte {
		payload := make([]byte, 7)
		copy(payload, s.irData)
		s.irLatest = false
		return tagged(cmd.Opcode, payload...)
	}

	h[grovepi.OpDustEnable] = func(cmd grovepi.Command) []byte {
		s.dustEnabled = true
		return ack(cmd)
	}
	h[grovepi.OpDustDisable] = func(cmd grovepi.Command) []byte {
		s.dustEnabled = false
		return ack(cmd)
	}
	h[grovepi.OpDustInterval] = func(cmd grovepi.Command) []byte {
		s.dustInterval = uint16(cmd.Params[0]) | uint16(cmd.Params[1])<<8
		return ack(cmd)
	}
	h[grovepi.OpDustIntervalRead] = func(cmd grovepi.Command) []byte {
		return tagged(cmd.Opcode, byte(s.dustInterval), byte(s.dustInterval>>8))
	}
	h[grovepi.OpDustRead] = func(cmd grovepi.Command) []byte {
		if !s.dustEnabled {
			return tagged(cmd.Opcode, grovepi.TagGlitch, 0, 0, 0)
		}
		flag := boolByte(s.dustNew)
		s.dustNew = false
		return tagged(cmd.Opcode, flag, byte(s.dustLPO), byte(s.dustLPO>>8), byte(s.dustLPO>>16))
	}

	h[grovepi.OpEncoderEnable] = func(cmd grovepi.Command) []byte {
		s.encoderEnabled = true
		return ack(cmd)
	}
	h[grovepi.OpEncoderDisable] = func(cmd grovepi.Command) []byte {
		s.encoderEnabled = false
		return ack(cmd)
	}
	h[grovepi.OpEncoderRead] = func(cmd grovepi.Command) []byte {
		if !s.encoderEnabled {
			return tagged(cmd.Opcode, grovepi.TagGlitch, 0)
		}
		flag := boolByte(s.encoderNew)
		s.encoderNew = false
		return tagged(cmd.Opcode, flag, s.encoderValue)
	}

	h[grovepi.OpFlowEnable] = func(cmd grovepi.Command) []byte {
		s.flowEnabled = true
		return ack(cmd)
	}
	h[grovepi.OpFlowDisable] = func(cmd grovepi.Command) []byte {
		s.flowEnabled = false
		return ack(cmd)
	}
	// the flow answer carries no opcode tag
	h[grovepi.OpFlowRead] = func(cmd grovepi.Command) []byte {
		if !s.flowEnabled {
			return []byte{0, 0, 0}
		}
		flag := boolByte(s.flowNew)
		s.flowNew = false
		return []byte{flag, byte(s.flowCount), byte(s.flowCount >> 8)}
	}

	h[grovepi.OpLEDBarInit] = func(cmd grovepi.Command) []byte {
		if pin, ok := pinOf(cmd); ok {
			s.ledBars[pin] = ledBar{reversed: cmd.Params[1] == 1}
		}
		return ack(cmd)
	}
	h[grovepi.OpLEDBarOrientation] = func(cmd grovepi.Command) []byte {
		if pin, ok := pinOf(cmd); ok {
			s.ledBars[pin].reversed = cmd.Params[1] == 1
		}
		return ack(cmd)
	}
	h[grovepi.OpLEDBarLevel] = func(cmd grovepi.Command) []byte {
		if pin, ok := pinOf(cmd); ok {
			level := min(cmd.Params[1], 10)
			s.ledBars[pin].bits = uint16(1)<<level - 1
		}
		return ack(cmd)
	}
	h[grovepi.OpLEDBarSetOne] = func(cmd grovepi.Command) []byte {
		pin, ok := pinOf(cmd)
		led := cmd.Params[1]
		if ok && led >= 1 && led <= 10 {
			mask := uint16(1) << (led - 1)
			if cmd.Params[2] == 1 {
				s.ledBars[pin].bits |= mask
			} else {
				s.ledBars[pin].bits &^= mask
			}
		}
		return ack(cmd)
	}
	h[grovepi.OpLEDBarToggleOne] = func(cmd grovepi.Command) []byte {
		pin, ok := pinOf(cmd)
		led := cmd.Params[1]
		if ok && led >= 1 && led <= 10 {
			s.ledBars[pin].bits ^= uint16(1) << (led - 1)
		}
		return ack(cmd)
	}
	h[grovepi.OpLEDBarSetBits] = func(cmd grovepi.Command) []byte {
		if pin, ok := pinOf(cmd); ok {
			s.ledBars[pin].bits = (uint16(cmd.Params[1]) | uint16(cmd.Params[2])<<8) & 0x3FF
		}
		return ack(cmd)
	}
	h[grovepi.OpLEDBarGetBits] = func(cmd grovepi.Command) []byte {
		pin, _ := pinOf(cmd)
		bits := s.ledBars[pin].bits
		return tagged(cmd.Opcode, byte(bits), byte(bits>>8))
	}

	for op := grovepi.OpFourDigitInit; op <= grovepi.OpFourDigitAllOff; op++ {
		h[op] = func(cmd grovepi.Command) []byte {
			if cmd.Opcode == grovepi.OpFourDigitInit {
				s.display = nil
			}
			s.display = append(s.display, cmd)
			return ack(cmd)
		}
	}
	h[grovepi.OpStoreColor] = func(cmd grovepi.Command) []byte {
		s.color = cmd.Params
		return ack(cmd)
	}
	for op := grovepi.OpRGBInit; op <= grovepi.OpRGBSetLevel; op++ {
		h[op] = func(cmd grovepi.Command) []byte {
			s.rgbChain = append(s.rgbChain, cmd)
			return ack(cmd)
		}
	}
}

func pinOf(cmd grovepi.Command) (byte, bool) {
	pin := cmd.Params[0]
	if pin >= pinCount {
		return 0, false
	}
	return pin, true
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
