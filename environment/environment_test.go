package environment

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/grovepi"
	"github.com/mklimuk/grovepi/board"
	"github.com/mklimuk/grovepi/protocol"
	"github.com/mklimuk/grovepi/sim"
)

func newSim() (*sim.Board, *protocol.Transport) {
	b := sim.NewBoard()
	return b, protocol.New(b, protocol.WithInterTransferDelay(0), protocol.WithRecoveryDelay(time.Millisecond))
}

func TestThermistorCelsius(t *testing.T) {
	tests := []struct {
		name     string
		adc      int
		model    ThermistorModel
		expected float64
	}{
		{"v1.0 mid scale", 512, ThermistorV10, 25.0437},
		{"v1.2 mid scale", 512, ThermistorV12, 25.0409},
		{"v1.0 cold", 300, ThermistorV10, 6.5463},
		{"v1.1 hot", 800, ThermistorV11, 54.3492},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ThermistorCelsius(tt.adc, tt.model.BValue())
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, c, 0.001)
		})
	}
}

func TestThermistorCelsius_InvalidReading(t *testing.T) {
	for _, adc := range []int{0, 1023} {
		c, err := ThermistorCelsius(adc, bValueTTC3A103)
		assert.ErrorIs(t, err, grovepi.ErrInvalidReading)
		assert.True(t, math.IsNaN(c))
	}
}

func TestThermistor_GetTemperature(t *testing.T) {
	b, tr := newSim()
	b.SetAnalog(1, 512)
	sensor := NewThermistor(board.New(tr), 1, ThermistorV10)

	temp, err := sensor.GetTemperature(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 25.04, temp, 0.01)

	b.SetAnalog(1, 0)
	_, err = sensor.GetTemperature(context.Background())
	assert.ErrorIs(t, err, grovepi.ErrInvalidReading)
}

func TestParseThermistorModel(t *testing.T) {
	m, err := ParseThermistorModel("1.1")
	require.NoError(t, err)
	assert.Equal(t, 4250.0, m.BValue())
	_, err = ParseThermistorModel("2.0")
	assert.Error(t, err)
}

func TestDHT_GetTempAndHum(t *testing.T) {
	b, tr := newSim()
	b.SetClimate(23.456, 41.204)
	b.QueueStale(byte(grovepi.OpAnalogRead), 1, 2)
	sensor := NewDHT(tr, 7, DHT22)

	temp, hum, err := sensor.GetTempAndHum(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float32(23.46), temp)
	assert.Equal(t, float32(41.2), hum)
	assert.Equal(t, grovepi.Cmd(grovepi.OpDHTRead, 7, 1), b.Commands()[0])
}

func TestDecodeDHT(t *testing.T) {
	payload := func(temp, hum float32) []byte {
		p := make([]byte, 8)
		binary.LittleEndian.PutUint32(p[0:], math.Float32bits(temp))
		binary.LittleEndian.PutUint32(p[4:], math.Float32bits(hum))
		return p
	}
	tests := []struct {
		name  string
		temp  float32
		hum   float32
		valid bool
	}{
		{"room", 21.5, 40, true},
		{"humidity bounds", -20, 100, true},
		{"dry", 30, 0, true},
		{"too hot", 150, 40, false},
		{"too cold", -100, 40, false},
		{"humidity over", 20, 100.5, false},
		{"negative humidity", 20, -1, false},
		{"nan", float32(math.NaN()), 40, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			temp, hum, err := decodeDHT(payload(tt.temp, tt.hum))
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.temp, temp)
				assert.Equal(t, tt.hum, hum)
				return
			}
			assert.ErrorIs(t, err, grovepi.ErrInvalidReading)
			assert.True(t, math.IsNaN(float64(temp)))
			assert.True(t, math.IsNaN(float64(hum)))
		})
	}
}

func TestFilterOutliers(t *testing.T) {
	values := []float64{20.1, 20.3, 20.2, 35.0, 20.0, 20.4, 19.9, 20.2, 20.3, 20.1}
	assert.Equal(t, []float64{20.1, 20.3, 20.2, 20.0, 20.4, 19.9, 20.2, 20.3, 20.1}, FilterOutliers(values, DefaultOutlierFactor))

	flat := []float64{5, 5, 5}
	assert.Equal(t, flat, FilterOutliers(flat, DefaultOutlierFactor))
	assert.Empty(t, FilterOutliers(nil, DefaultOutlierFactor))
	// with a zero factor nothing is strictly inside the band
	assert.Empty(t, FilterOutliers([]float64{1, 2, 3}, 0))
}

func TestSampleTemperature(t *testing.T) {
	readings := []float32{20.1, 20.3, 20.2, 35.0, 20.0, 20.4, 19.9, 20.2, 20.3, 20.1}
	calls := 0
	sensor := NewMockTemperatureSensor(func(ctx context.Context) (float32, error) {
		r := readings[calls]
		calls++
		return r, nil
	})

	values, err := SampleTemperature(context.Background(), sensor, len(readings), 0, DefaultOutlierFactor)
	require.NoError(t, err)
	assert.Len(t, values, 9)
	assert.NotContains(t, values, 35.0)
	assert.InDelta(t, 20.17, Mean(values), 0.01)
}

func TestSampleTemperature_SkipsInvalidReadings(t *testing.T) {
	calls := 0
	sensor := NewMockTemperatureSensor(func(ctx context.Context) (float32, error) {
		calls++
		if calls%2 == 0 {
			return float32(math.NaN()), grovepi.ErrInvalidReading
		}
		return 21, nil
	})
	values, err := SampleTemperature(context.Background(), sensor, 4, time.Millisecond, DefaultOutlierFactor)
	require.NoError(t, err)
	assert.Equal(t, []float64{21, 21}, values)
}

func TestSampleTemperature_Errors(t *testing.T) {
	failure := errors.New("bus gone")
	sensor := NewMockTemperatureAndHumiditySensor(
		func(ctx context.Context) (float32, error) { return 0, failure },
		func(ctx context.Context) (float32, error) { return 50, nil },
	)
	_, err := SampleTemperature(context.Background(), sensor, 3, 0, DefaultOutlierFactor)
	assert.ErrorIs(t, err, failure)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok := NewMockTemperatureSensor(func(ctx context.Context) (float32, error) { return 20, nil })
	_, err = SampleTemperature(ctx, ok, 2, time.Hour, DefaultOutlierFactor)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockTemperatureAndHumiditySensor(t *testing.T) {
	sensor := NewMockTemperatureAndHumiditySensor(
		func(ctx context.Context) (float32, error) { return 22.5, nil },
		func(ctx context.Context) (float32, error) { return 45.0, nil },
	)
	temp, hum, err := sensor.GetTempAndHum(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float32(22.5), temp)
	assert.Equal(t, float32(45.0), hum)

	h, err := NewMockTemperatureSensor(sensor.GetTemperature).GetHumidity(context.Background())
	require.NoError(t, err)
	assert.Zero(t, h)
	assert.True(t, math.IsNaN(Mean(nil)))
}
