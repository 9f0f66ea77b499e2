package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/mklimuk/grovepi"
	"github.com/mklimuk/grovepi/adapter"
	"github.com/mklimuk/grovepi/board"
	"github.com/mklimuk/grovepi/busctx"
	"github.com/mklimuk/grovepi/cmd/grovepi/console"
	"github.com/mklimuk/grovepi/config"
	"github.com/mklimuk/grovepi/i2c"
	"github.com/mklimuk/grovepi/protocol"
	"github.com/mklimuk/grovepi/sim"
)

// session is an open bus with the transport running on it. The shell keeps
// one for its whole lifetime, single commands open their own.
type session struct {
	config    config.Config
	bus       grovepi.I2CBus
	closer    io.Closer
	transport *protocol.Transport
	board     *board.GrovePi
}

type sessionKey struct{}

func openSession(cfg config.Config) (*session, error) {
	log := slog.Default().With("adapter", cfg.Adapter)
	s := &session{config: cfg}
	switch cfg.Adapter {
	case config.AdapterPeriph:
		bus, err := i2c.NewGenericBus(cfg.Device, i2c.WithLogger(log))
		if err != nil {
			return nil, err
		}
		s.bus, s.closer = bus, bus
	case config.AdapterGobot:
		ad, err := i2c.NewAdaptor(cfg.Platform)
		if err != nil {
			return nil, err
		}
		bus, err := i2c.NewGobotBus(ad, i2c.WithBusNumber(cfg.Bus))
		if err != nil {
			return nil, err
		}
		s.bus, s.closer = bus, bus
	case config.AdapterMCP2221:
		bridge, err := adapter.OpenMCP2221(adapter.WithDeviceIndex(cfg.DeviceIndex), adapter.WithLogger(log))
		if err != nil {
			return nil, err
		}
		s.bus, s.closer = bridge, bridge
	case config.AdapterSim:
		s.bus = newDemoBoard(cfg.Address)
	default:
		return nil, fmt.Errorf("unknown adapter %q", cfg.Adapter)
	}
	opts := append(cfg.ProtocolOptions(), protocol.WithLogger(log))
	s.transport = protocol.New(s.bus, opts...)
	s.board = board.New(s.transport)
	log.Debug("session opened", "address", fmt.Sprintf("%#x", cfg.Address))
	return s, nil
}

func (s *session) Close(ctx context.Context) error {
	err := s.bus.Release(ctx)
	if s.closer != nil {
		err = multierr.Append(err, s.closer.Close())
	}
	slog.Debug("session closed", "stats", s.transport.Stats())
	return err
}

// newDemoBoard returns a simulated board with plausible sensor readings.
func newDemoBoard(address byte) *sim.Board {
	b := sim.NewBoard(sim.WithAddress(address))
	for pin := byte(0); pin < 3; pin++ {
		b.SetAnalog(pin, 512)
	}
	for pin := byte(2); pin <= 8; pin++ {
		b.SetDistance(pin, 120)
	}
	b.SetAcceleration(1, -2, 21)
	b.SetRTC(0x30, 0x15, 0x12, 0x03, 0x17, 0x10, 0x26)
	b.SetDustSample(3000)
	b.SetIRSignal(1, 0x00, 0xFF, 0x45, 0xBA, 0x00, 0xFF)
	return b
}

// withSession runs action against the shell's session when there is one and
// against a fresh session otherwise.
func withSession(action func(ctx context.Context, c *cli.Context, s *session) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx := busctx.SetVerbose(c.Context, c.Bool("verbose"))
		if s, ok := c.Context.Value(sessionKey{}).(*session); ok {
			return action(ctx, c, s)
		}
		cfg, err := loadConfig(c)
		if err != nil {
			return console.Fail("configuration error", err)
		}
		s, err := openSession(cfg)
		if err != nil {
			return console.Fail("could not open bus", err)
		}
		defer func() {
			if err := s.Close(ctx); err != nil {
				console.Errorf("error closing bus: %s", console.Red(err))
			}
		}()
		return action(ctx, c, s)
	}
}
