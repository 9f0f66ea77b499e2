// Package environment reads GrovePi temperature and humidity sensors and
// filters noisy series of readings.
package environment

import "context"

type TemperatureSensor interface {
	GetTemperature(ctx context.Context) (float32, error)
}

type TemperatureAndHumiditySensor interface {
	TemperatureSensor
	GetHumidity(ctx context.Context) (float32, error)
	GetTempAndHum(ctx context.Context) (float32, float32, error)
}

// AnalogReader is satisfied by board.GrovePi.
type AnalogReader interface {
	AnalogRead(ctx context.Context, pin byte) (int, error)
}
