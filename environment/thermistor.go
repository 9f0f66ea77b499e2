package environment

import (
	"context"
	"fmt"
	"math"

	"github.com/mklimuk/grovepi"
)

// ThermistorModel is the hardware revision of the Grove temperature sensor.
// Each revision carries a thermistor with a different B constant.
type ThermistorModel string

const (
	ThermistorV10 ThermistorModel = "1.0"
	ThermistorV11 ThermistorModel = "1.1"
	ThermistorV12 ThermistorModel = "1.2"
)

const (
	adcMax          = 1023
	nominalRes      = 10000.0
	nominalKelvin   = 298.15
	kelvinOffset    = 273.15
	bValueTTC3A103  = 3975.0
	bValueNCP18WF10 = 4250.0
)

func ParseThermistorModel(s string) (ThermistorModel, error) {
	switch m := ThermistorModel(s); m {
	case ThermistorV10, ThermistorV11, ThermistorV12:
		return m, nil
	default:
		return "", fmt.Errorf("unknown thermistor model %q", s)
	}
}

func (m ThermistorModel) BValue() float64 {
	switch m {
	case ThermistorV11, ThermistorV12:
		return bValueNCP18WF10
	default:
		return bValueTTC3A103
	}
}

var _ TemperatureSensor = &Thermistor{}

// Thermistor is the analog Grove temperature sensor.
type Thermistor struct {
	reader AnalogReader
	pin    byte
	model  ThermistorModel
}

func NewThermistor(reader AnalogReader, pin byte, model ThermistorModel) *Thermistor {
	return &Thermistor{reader: reader, pin: pin, model: model}
}

func (s *Thermistor) GetTemperature(ctx context.Context) (float32, error) {
	a, err := s.reader.AnalogRead(ctx, s.pin)
	if err != nil {
		return 0, fmt.Errorf("thermistor on pin %d: %w", s.pin, err)
	}
	t, err := ThermistorCelsius(a, s.model.BValue())
	if err != nil {
		return 0, fmt.Errorf("thermistor on pin %d: %w", s.pin, err)
	}
	return float32(t), nil
}

// ThermistorCelsius converts a raw ADC reading of the divider into degrees
// Celsius using the B parameter equation.
func ThermistorCelsius(a int, bValue float64) (float64, error) {
	// both ends of the scale mean an open or shorted thermistor
	if a <= 0 || a >= adcMax {
		return math.NaN(), fmt.Errorf("%w: adc value %d", grovepi.ErrInvalidReading, a)
	}
	resistance := float64(adcMax-a) * nominalRes / float64(a)
	return 1/(math.Log(resistance/nominalRes)/bValue+1/nominalKelvin) - kelvinOffset, nil
}
