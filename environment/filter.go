package environment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/mklimuk/grovepi"
)

// DefaultOutlierFactor is the number of standard deviations a value may be
// away from the mean before FilterOutliers drops it.
const DefaultOutlierFactor = 2.0

// FilterOutliers keeps the values strictly within k population standard
// deviations of the mean. A series without spread is returned as is.
func FilterOutliers(values []float64, k float64) []float64 {
	if len(values) == 0 {
		return []float64{}
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	sd := math.Sqrt(variance)
	if sd == 0 {
		return values
	}
	lo, hi := mean-k*sd, mean+k*sd
	filtered := make([]float64, 0, len(values))
	for _, v := range values {
		if v > lo && v < hi {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// SampleTemperature takes n readings, one every interval, skips the invalid
// ones and returns the rest with outliers removed.
func SampleTemperature(ctx context.Context, sensor TemperatureSensor, n int, interval time.Duration, k float64) ([]float64, error) {
	values := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			timer := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
		t, err := sensor.GetTemperature(ctx)
		if errors.Is(err, grovepi.ErrInvalidReading) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i+1, err)
		}
		values = append(values, float64(t))
	}
	return FilterOutliers(values, k), nil
}

// Mean returns the arithmetic mean of values, NaN for an empty series.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}
