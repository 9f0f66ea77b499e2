package sim

import "github.com/mklimuk/grovepi"

func (b *Board) SetDigital(pin, value byte) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.state.digital[pin%pinCount] = value
}

func (b *Board) SetAnalog(pin byte, value uint16) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.state.analog[pin%pinCount] = value
}

func (b *Board) SetDistance(pin byte, cm uint16) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.state.distance[pin%pinCount] = cm
}

// SetAcceleration stores axis readings in the firmware's wire form, where
// negative values are sent as 224-v.
func (b *Board) SetAcceleration(x, y, z int) {
	b.mx.Lock()
	defer b.mx.Unlock()
	for i, v := range []int{x, y, z} {
		if v < 0 {
			v = 224 - v
		}
		b.state.acceleration[i] = byte(v)
	}
}

func (b *Board) SetRTC(raw ...byte) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.state.rtc = [9]byte{}
	copy(b.state.rtc[:], raw)
}

func (b *Board) SetClimate(temperature, humidity float32) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.state.temperature = temperature
	b.state.humidity = humidity
}

// SetIRSignal makes the next IR read return the given 7-byte frame.
func (b *Board) SetIRSignal(frame ...byte) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.state.irData = append([]byte(nil), frame...)
	b.state.irLatest = true
}

// SetDustSample publishes a new low pulse occupancy sample.
func (b *Board) SetDustSample(lpo uint32) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.state.dustLPO = lpo
	b.state.dustNew = true
}

func (b *Board) SetEncoder(value byte) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.state.encoderValue = value
	b.state.encoderNew = true
}

func (b *Board) SetFlow(count uint16) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.state.flowCount = count
	b.state.flowNew = true
}

func (b *Board) Digital(pin byte) byte {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.state.digital[pin%pinCount]
}

func (b *Board) PWM(pin byte) byte {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.state.pwm[pin%pinCount]
}

func (b *Board) Mode(pin byte) byte {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.state.modes[pin%pinCount]
}

func (b *Board) LEDBarBits(pin byte) uint16 {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.state.ledBars[pin%pinCount].bits
}

func (b *Board) IRPin() byte {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.state.irPin
}

func (b *Board) DustEnabled() bool {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.state.dustEnabled
}

func (b *Board) EncoderEnabled() bool {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.state.encoderEnabled
}

func (b *Board) FlowEnabled() bool {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.state.flowEnabled
}

func (b *Board) Color() [3]byte {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.state.color
}

// Display returns the four-digit commands received since the last init.
func (b *Board) Display() []grovepi.Command {
	b.mx.Lock()
	defer b.mx.Unlock()
	return append([]grovepi.Command(nil), b.state.display...)
}

func (b *Board) RGBChain() []grovepi.Command {
	b.mx.Lock()
	defer b.mx.Unlock()
	return append([]grovepi.Command(nil), b.state.rgbChain...)
}
