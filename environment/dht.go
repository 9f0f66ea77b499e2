package environment

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mklimuk/grovepi"
)

type DHTModel byte

const (
	// DHT11 is the blue module.
	DHT11 DHTModel = 0
	// DHT22 is the white AM2302 module.
	DHT22 DHTModel = 1
)

func ParseDHTModel(s string) (DHTModel, error) {
	switch s {
	case "dht11", "blue", "0":
		return DHT11, nil
	case "dht22", "am2302", "white", "1":
		return DHT22, nil
	default:
		return 0, fmt.Errorf("unknown DHT model %q", s)
	}
}

const dhtPayloadSize = 8

var _ TemperatureAndHumiditySensor = &DHT{}

// DHT is a Grove temperature and humidity sensor read by the board firmware.
type DHT struct {
	cmd   grovepi.Commander
	pin   byte
	model DHTModel
}

func NewDHT(cmd grovepi.Commander, pin byte, model DHTModel) *DHT {
	return &DHT{cmd: cmd, pin: pin, model: model}
}

func (s *DHT) GetTemperature(ctx context.Context) (float32, error) {
	t, _, err := s.GetTempAndHum(ctx)
	return t, err
}

func (s *DHT) GetHumidity(ctx context.Context) (float32, error) {
	_, h, err := s.GetTempAndHum(ctx)
	return h, err
}

// GetTempAndHum returns the temperature in Celsius and relative humidity in
// percent, both rounded to two decimals. A reading outside the sensor's
// physical range yields NaN values and ErrInvalidReading.
func (s *DHT) GetTempAndHum(ctx context.Context) (float32, float32, error) {
	payload, err := s.cmd.Query(ctx, grovepi.Cmd(grovepi.OpDHTRead, s.pin, byte(s.model)), dhtPayloadSize)
	if err != nil {
		return 0, 0, fmt.Errorf("dht on pin %d: %w", s.pin, err)
	}
	return decodeDHT(payload)
}

func decodeDHT(payload []byte) (float32, float32, error) {
	t := round2(math.Float32frombits(binary.LittleEndian.Uint32(payload[0:4])))
	h := round2(math.Float32frombits(binary.LittleEndian.Uint32(payload[4:8])))
	if !(t > -100 && t < 150 && h >= 0 && h <= 100) {
		nan := float32(math.NaN())
		return nan, nan, fmt.Errorf("%w: %.2f°C %.2f%%RH", grovepi.ErrInvalidReading, t, h)
	}
	return t, h, nil
}

func round2(v float32) float32 {
	return float32(math.Round(float64(v)*100) / 100)
}
