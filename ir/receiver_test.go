package ir

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/grovepi"
	"github.com/mklimuk/grovepi/protocol"
	"github.com/mklimuk/grovepi/sim"
)

func TestDecodeSignal(t *testing.T) {
	s := decodeSignal([]byte{1, 0x34, 0x12, 0x78, 0x56, 0x34, 0x12})
	assert.Equal(t, Signal{Valid: 1, Address: 0x1234, Code: 0x12345678}, s)
	assert.Equal(t, "address=0x1234 code=0x12345678", s.String())
}

func TestReceiver(t *testing.T) {
	b := sim.NewBoard()
	tr := protocol.New(b, protocol.WithInterTransferDelay(0), protocol.WithRecoveryDelay(time.Millisecond))
	r := NewReceiver(tr)
	ctx := context.Background()

	require.NoError(t, r.SetPin(ctx, 8))
	assert.Equal(t, byte(8), b.IRPin())

	ok, err := r.HasData(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	b.SetIRSignal(1, 0x00, 0xFF, 0x45, 0xBA, 0x00, 0xFF)
	ok, err = r.HasData(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	s, err := r.ReadSignal(ctx)
	require.NoError(t, err)
	assert.Equal(t, Signal{Valid: 1, Address: 0xFF00, Code: 0xFF00BA45}, s)
	assert.Equal(t, grovepi.Cmd(grovepi.OpIRRead), b.Commands()[3])

	ok, err = r.HasData(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
