package i2c

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/grovepi"
)

func TestGenericBus_Transfers(t *testing.T) {
	playback := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: grovepi.DefaultAddress, W: []byte{3, 5, 0, 0}},
			{Addr: grovepi.DefaultAddress, R: []byte{3, 0x01, 0x2C}},
		},
	}
	bus, err := newGenericBus(playback, BusOpts{})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.WriteToAddr(ctx, grovepi.DefaultAddress, []byte{3, 5, 0, 0}))
	buf := make([]byte, 3)
	require.NoError(t, bus.ReadFromAddr(ctx, grovepi.DefaultAddress, buf))
	assert.Equal(t, []byte{3, 0x01, 0x2C}, buf)
	assert.NoError(t, bus.Release(ctx))
	assert.NoError(t, bus.Close())
}

func TestGenericBus_CancelledContext(t *testing.T) {
	playback := &i2ctest.Playback{}
	bus, err := newGenericBus(playback, BusOpts{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, bus.WriteToAddr(ctx, grovepi.DefaultAddress, []byte{8, 0, 0, 0}), context.Canceled)
	assert.ErrorIs(t, bus.ReadFromAddr(ctx, grovepi.DefaultAddress, make([]byte, 4)), context.Canceled)
	assert.NoError(t, bus.Close())
}

var errNoAck = errors.New("remote I/O error")

type failingBus struct {
	speed  physic.Frequency
	closed bool
}

func (f *failingBus) String() string {
	return "failing"
}

func (f *failingBus) Tx(addr uint16, w, r []byte) error {
	return errNoAck
}

func (f *failingBus) SetSpeed(speed physic.Frequency) error {
	f.speed = speed
	return nil
}

func (f *failingBus) Close() error {
	f.closed = true
	return nil
}

func TestGenericBus_WrapsTransferErrors(t *testing.T) {
	fb := &failingBus{}
	bus, err := newGenericBus(fb, BusOpts{Speed: 100 * physic.KiloHertz})
	require.NoError(t, err)
	assert.Equal(t, 100*physic.KiloHertz, fb.speed)

	err = bus.WriteToAddr(context.Background(), grovepi.DefaultAddress, []byte{1, 2, 0, 0})
	assert.ErrorIs(t, err, errNoAck)
	assert.Contains(t, err.Error(), "could not write to i2c bus 4")
	err = bus.ReadFromAddr(context.Background(), grovepi.DefaultAddress, make([]byte, 2))
	assert.ErrorIs(t, err, errNoAck)

	require.NoError(t, bus.Close())
	assert.True(t, fb.closed)
}
