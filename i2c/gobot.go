package i2c

import (
	"context"
	"fmt"
	"sync"

	gobi2c "gobot.io/x/gobot/v2/drivers/i2c"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"gobot.io/x/gobot/v2/platforms/raspi"

	"github.com/mklimuk/grovepi"
)

const (
	PlatformRaspi  = "raspi"
	PlatformNanoPi = "nanopi"
)

var _ grovepi.I2CBus = &GobotBus{}

// Adaptor is a gobot platform adaptor able to hand out I2C connections.
type Adaptor interface {
	gobi2c.Connector
	Connect() error
	Finalize() error
}

// NewAdaptor returns the gobot adaptor for a supported single board computer.
func NewAdaptor(platform string) (Adaptor, error) {
	switch platform {
	case PlatformRaspi, "":
		return raspi.NewAdaptor(), nil
	case PlatformNanoPi:
		return nanopi.NewNeoAdaptor(), nil
	default:
		return nil, fmt.Errorf("unsupported platform %q", platform)
	}
}

type GobotOpts struct {
	// Bus is the I2C bus number; negative selects the adaptor default.
	Bus int
}

type GobotOpt func(*GobotOpts)

func WithBusNumber(bus int) GobotOpt {
	return func(o *GobotOpts) {
		o.Bus = bus
	}
}

// GobotBus runs transfers over connections obtained from a gobot adaptor.
// Connections are opened lazily, one per device address.
type GobotBus struct {
	mx      sync.Mutex
	adaptor Adaptor
	busNr   int
	conns   map[byte]gobi2c.Connection
}

func NewGobotBus(adaptor Adaptor, opts ...GobotOpt) (*GobotBus, error) {
	config := GobotOpts{Bus: -1}
	for _, opt := range opts {
		opt(&config)
	}
	if err := adaptor.Connect(); err != nil {
		return nil, fmt.Errorf("adaptor connect error: %w", err)
	}
	busNr := config.Bus
	if busNr < 0 {
		busNr = adaptor.DefaultI2cBus()
	}
	return &GobotBus{
		adaptor: adaptor,
		busNr:   busNr,
		conns:   make(map[byte]gobi2c.Connection),
	}, nil
}

func (b *GobotBus) connection(address byte) (gobi2c.Connection, error) {
	if conn, ok := b.conns[address]; ok {
		return conn, nil
	}
	conn, err := b.adaptor.GetI2cConnection(int(address), b.busNr)
	if err != nil {
		return nil, fmt.Errorf("could not open connection to %#x on bus %d: %w", address, b.busNr, err)
	}
	b.conns[address] = conn
	return conn, nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mx.Lock()
	defer b.mx.Unlock()
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	n, err := conn.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short write to i2c bus %x: %d of %d bytes", address, n, len(buffer))
	}
	return nil
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mx.Lock()
	defer b.mx.Unlock()
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	n, err := conn.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short read from i2c bus %x: %d of %d bytes", address, n, len(buffer))
	}
	return nil
}

func (b *GobotBus) Release(ctx context.Context) error {
	return nil
}

// Close finalizes the adaptor, which also closes every bus it opened.
func (b *GobotBus) Close() error {
	b.mx.Lock()
	defer b.mx.Unlock()
	clear(b.conns)
	return b.adaptor.Finalize()
}
