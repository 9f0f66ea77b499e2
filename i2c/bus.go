// Package i2c holds the bus transports the GrovePi protocol runs on: the
// Linux i2c-dev bus through periph and the board adaptors of gobot.
package i2c

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/mklimuk/grovepi"
)

var _ grovepi.I2CBus = &GenericBus{}

type BusOpts struct {
	Speed  physic.Frequency
	Logger *slog.Logger
}

type BusOpt func(*BusOpts)

// WithSpeed sets the bus clock. Zero keeps the kernel default.
func WithSpeed(speed physic.Frequency) BusOpt {
	return func(o *BusOpts) {
		o.Speed = speed
	}
}

func WithLogger(logger *slog.Logger) BusOpt {
	return func(o *BusOpts) {
		o.Logger = logger
	}
}

// GenericBus is an i2c-dev bus opened through periph. An empty device name
// opens the first bus the host exposes.
type GenericBus struct {
	mx  sync.Mutex
	bus i2c.BusCloser
}

func NewGenericBus(dev string, opts ...BusOpt) (*GenericBus, error) {
	config := BusOpts{Logger: slog.Default()}
	for _, opt := range opts {
		opt(&config)
	}
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		config.Logger.Debug("host driver loaded", "driver", driver.String())
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus %q: %w", dev, err)
	}
	return newGenericBus(bus, config)
}

func newGenericBus(bus i2c.BusCloser, config BusOpts) (*GenericBus, error) {
	if config.Speed > 0 {
		if err := bus.SetSpeed(config.Speed); err != nil {
			_ = bus.Close()
			return nil, fmt.Errorf("could not set i2c bus speed to %s: %w", config.Speed, err)
		}
	}
	return &GenericBus{bus: bus}, nil
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mx.Lock()
	defer b.mx.Unlock()
	err := b.bus.Tx(uint16(address), nil, buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mx.Lock()
	defer b.mx.Unlock()
	err := b.bus.Tx(uint16(address), buffer, nil)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

func (b *GenericBus) String() string {
	return b.bus.String()
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}
