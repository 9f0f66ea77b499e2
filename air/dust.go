// Package air reads the Grove dust sensor through the GrovePi firmware,
// which measures the sensor's low pulse occupancy over a sampling interval.
package air

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/mklimuk/grovepi"
)

// DefaultDustPin is the digital port the firmware samples when none is set.
const DefaultDustPin = 2

// DefaultDustInterval is the firmware's sampling interval after reset.
const DefaultDustInterval = 30 * time.Second

// ParticleSensor reports particle concentration in pcs/0.01cf.
type ParticleSensor interface {
	GetConcentration(ctx context.Context) (float64, error)
}

type DustOpts struct {
	// PollInterval is the pause between reads while waiting for a sample.
	PollInterval time.Duration
}

type DustOpt func(*DustOpts)

func WithPollInterval(interval time.Duration) DustOpt {
	return func(o *DustOpts) {
		o.PollInterval = interval
	}
}

type DustSample struct {
	// New is set when the firmware finished a sampling interval since the
	// previous read.
	New               bool   `yaml:"new"`
	LowPulseOccupancy uint32 `yaml:"low_pulse_occupancy"`
}

type Concentration struct {
	LowPulseOccupancy uint32  `yaml:"low_pulse_occupancy"`
	Ratio             float64 `yaml:"ratio"`
	Concentration     float64 `yaml:"concentration"`
}

var _ ParticleSensor = &DustSensor{}

type DustSensor struct {
	cmd    grovepi.Commander
	config DustOpts
}

func NewDustSensor(cmd grovepi.Commander, opts ...DustOpt) *DustSensor {
	config := DustOpts{PollInterval: 50 * time.Millisecond}
	for _, opt := range opts {
		opt(&config)
	}
	return &DustSensor{cmd: cmd, config: config}
}

// Enable starts sampling the sensor attached to pin.
func (s *DustSensor) Enable(ctx context.Context, pin byte) error {
	if err := s.cmd.Exec(ctx, grovepi.Cmd(grovepi.OpDustEnable, pin)); err != nil {
		return fmt.Errorf("dust sensor enable: %w", err)
	}
	return nil
}

func (s *DustSensor) Disable(ctx context.Context) error {
	if err := s.cmd.Exec(ctx, grovepi.Cmd(grovepi.OpDustDisable)); err != nil {
		return fmt.Errorf("dust sensor disable: %w", err)
	}
	return nil
}

// Read returns the last completed sample. ErrNoData means the sensor is not
// being sampled.
func (s *DustSensor) Read(ctx context.Context) (DustSample, error) {
	payload, err := s.cmd.Query(ctx, grovepi.Cmd(grovepi.OpDustRead), 4)
	if err != nil {
		return DustSample{}, fmt.Errorf("dust sensor read: %w", err)
	}
	if payload[0] == grovepi.TagGlitch {
		return DustSample{}, fmt.Errorf("dust sensor read: %w", grovepi.ErrNoData)
	}
	return DustSample{
		New:               payload[0] != 0,
		LowPulseOccupancy: uint32(payload[1]) | uint32(payload[2])<<8 | uint32(payload[3])<<16,
	}, nil
}

// SetInterval changes the sampling interval; it must fit 1..65535 ms.
func (s *DustSensor) SetInterval(ctx context.Context, interval time.Duration) error {
	ms := interval.Milliseconds()
	if err := grovepi.CheckRange("interval ms", int(ms), 1, math.MaxUint16); err != nil {
		return err
	}
	if err := s.cmd.Exec(ctx, grovepi.Cmd(grovepi.OpDustInterval, byte(ms), byte(ms>>8))); err != nil {
		return fmt.Errorf("dust sensor set interval: %w", err)
	}
	return nil
}

func (s *DustSensor) Interval(ctx context.Context) (time.Duration, error) {
	payload, err := s.cmd.Query(ctx, grovepi.Cmd(grovepi.OpDustIntervalRead), 2)
	if err != nil {
		return 0, fmt.Errorf("dust sensor interval: %w", err)
	}
	ms := int(payload[0]) + int(payload[1])*256
	return time.Duration(ms) * time.Millisecond, nil
}

// ReadConcentration waits for the next completed sample and converts it.
func (s *DustSensor) ReadConcentration(ctx context.Context) (Concentration, error) {
	interval, err := s.Interval(ctx)
	if err != nil {
		return Concentration{}, err
	}
	for {
		sample, err := s.Read(ctx)
		if err == nil && sample.New {
			return DustConcentration(sample.LowPulseOccupancy, interval)
		}
		if err != nil && !errors.Is(err, grovepi.ErrNoData) {
			return Concentration{}, err
		}
		// no point polling faster than the sensor can produce samples
		if s.config.PollInterval < interval {
			if werr := sleep(ctx, s.config.PollInterval); werr != nil {
				return Concentration{}, werr
			}
		} else if cerr := ctx.Err(); cerr != nil {
			return Concentration{}, cerr
		}
	}
}

// TryConcentration converts the last sample if a new one is available and
// returns ErrNoData otherwise.
func (s *DustSensor) TryConcentration(ctx context.Context) (Concentration, error) {
	interval, err := s.Interval(ctx)
	if err != nil {
		return Concentration{}, err
	}
	sample, err := s.Read(ctx)
	if err != nil {
		return Concentration{}, err
	}
	if !sample.New {
		return Concentration{}, fmt.Errorf("dust sensor: %w", grovepi.ErrNoData)
	}
	return DustConcentration(sample.LowPulseOccupancy, interval)
}

func (s *DustSensor) GetConcentration(ctx context.Context) (float64, error) {
	c, err := s.ReadConcentration(ctx)
	return c.Concentration, err
}

// DustConcentration converts low pulse occupancy measured over interval to
// particles per 0.01 cubic foot using the sensor's characteristic curve.
func DustConcentration(lpo uint32, interval time.Duration) (Concentration, error) {
	ms := float64(interval.Milliseconds())
	if ms <= 0 {
		return Concentration{}, fmt.Errorf("%w: sampling interval %s", grovepi.ErrInvalidReading, interval)
	}
	p := float64(lpo) * 100 / ms
	return Concentration{
		LowPulseOccupancy: lpo,
		Ratio:             p,
		Concentration:     1.1*p*p*p - 3.8*p*p + 520*p + 0.62,
	}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
