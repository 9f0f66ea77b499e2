package air

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/grovepi"
	"github.com/mklimuk/grovepi/protocol"
	"github.com/mklimuk/grovepi/sim"
)

func newDust(opts ...DustOpt) (*DustSensor, *sim.Board) {
	b := sim.NewBoard()
	tr := protocol.New(b, protocol.WithInterTransferDelay(0), protocol.WithRecoveryDelay(time.Millisecond))
	return NewDustSensor(tr, opts...), b
}

func TestDustConcentration(t *testing.T) {
	c, err := DustConcentration(3000, 30*time.Second)
	require.NoError(t, err)
	assert.Equal(t, uint32(3000), c.LowPulseOccupancy)
	assert.InDelta(t, 10.0, c.Ratio, 1e-9)
	assert.InDelta(t, 5920.62, c.Concentration, 1e-6)

	c, err = DustConcentration(0, DefaultDustInterval)
	require.NoError(t, err)
	assert.InDelta(t, 0.62, c.Concentration, 1e-9)

	_, err = DustConcentration(100, 0)
	assert.ErrorIs(t, err, grovepi.ErrInvalidReading)
}

func TestDustSensor_EnableReadDisable(t *testing.T) {
	s, b := newDust()
	ctx := context.Background()

	_, err := s.Read(ctx)
	assert.ErrorIs(t, err, grovepi.ErrNoData)

	require.NoError(t, s.Enable(ctx, DefaultDustPin))
	assert.True(t, b.DustEnabled())

	b.SetDustSample(0x012345)
	sample, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, DustSample{New: true, LowPulseOccupancy: 0x012345}, sample)

	sample, err = s.Read(ctx)
	require.NoError(t, err)
	assert.False(t, sample.New)

	require.NoError(t, s.Disable(ctx))
	assert.False(t, b.DustEnabled())
}

func TestDustSensor_Interval(t *testing.T) {
	s, b := newDust()
	ctx := context.Background()

	interval, err := s.Interval(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultDustInterval, interval)

	require.NoError(t, s.SetInterval(ctx, 5*time.Second))
	assert.Equal(t, grovepi.Cmd(grovepi.OpDustInterval, 0x88, 0x13), b.Commands()[1])
	interval, err = s.Interval(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, interval)

	assert.ErrorIs(t, s.SetInterval(ctx, 0), grovepi.ErrOutOfRange)
	assert.ErrorIs(t, s.SetInterval(ctx, 70*time.Second), grovepi.ErrOutOfRange)
}

func TestDustSensor_ReadConcentrationWaitsForSample(t *testing.T) {
	s, b := newDust(WithPollInterval(time.Millisecond))
	ctx := context.Background()
	require.NoError(t, s.Enable(ctx, DefaultDustPin))

	reads := 0
	b.Handle(grovepi.OpDustRead, func(cmd grovepi.Command) []byte {
		reads++
		if reads < 3 {
			return []byte{byte(cmd.Opcode), 0, 0, 0, 0}
		}
		// 3000 µs occupancy over the default 30 s interval
		return []byte{byte(cmd.Opcode), 1, 0xB8, 0x0B, 0}
	})

	c, err := s.ReadConcentration(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, reads)
	assert.InDelta(t, 5920.62, c.Concentration, 1e-6)
}

func TestDustSensor_ReadConcentrationCancelled(t *testing.T) {
	s, _ := newDust(WithPollInterval(time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.ReadConcentration(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestDustSensor_TryConcentration(t *testing.T) {
	s, b := newDust()
	ctx := context.Background()
	require.NoError(t, s.Enable(ctx, DefaultDustPin))

	_, err := s.TryConcentration(ctx)
	assert.ErrorIs(t, err, grovepi.ErrNoData)

	b.SetDustSample(3000)
	c, err := s.TryConcentration(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, c.Ratio, 1e-9)
}

func TestMockParticleSensor(t *testing.T) {
	var sensor ParticleSensor = NewMockParticleSensor(func(ctx context.Context) (float64, error) { return 750, nil })
	c, err := sensor.GetConcentration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 750.0, c)
}
