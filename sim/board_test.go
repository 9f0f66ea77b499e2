package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/grovepi"
	"github.com/mklimuk/grovepi/protocol"
)

func newTransport(b *Board) *protocol.Transport {
	return protocol.New(b,
		protocol.WithInterTransferDelay(0),
		protocol.WithRecoveryDelay(time.Millisecond),
	)
}

func TestBoard_AnswersTaggedQuery(t *testing.T) {
	b := NewBoard()
	b.SetAnalog(5, 300)
	tr := newTransport(b)

	payload, err := tr.Query(context.Background(), grovepi.Cmd(grovepi.OpAnalogRead, 5), 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x2C}, payload)
	assert.Equal(t, []grovepi.Command{grovepi.Cmd(grovepi.OpAnalogRead, 5)}, b.Commands())
}

func TestBoard_WithoutAnswerReportsNotAvailable(t *testing.T) {
	b := NewBoard()
	buf := make([]byte, 3)
	require.NoError(t, b.ReadFromAddr(context.Background(), grovepi.DefaultAddress, buf))
	assert.Equal(t, []byte{grovepi.TagNotAvailable, 0, 0}, buf)
}

func TestBoard_WrongAddressIsNotAcknowledged(t *testing.T) {
	b := NewBoard()
	err := b.WriteToAddr(context.Background(), 0x05, []byte{8, 0, 0, 0})
	assert.ErrorIs(t, err, ErrNACK)
	err = b.ReadFromAddr(context.Background(), 0x05, make([]byte, 1))
	assert.ErrorIs(t, err, ErrNACK)
}

func TestBoard_MalformedCommand(t *testing.T) {
	b := NewBoard()
	err := b.WriteToAddr(context.Background(), grovepi.DefaultAddress, []byte{8, 0})
	assert.Error(t, err)
	assert.Empty(t, b.Commands())
}

func TestBoard_FaultInjection(t *testing.T) {
	b := NewBoard(WithVersion(1, 4, 0))
	b.FailWrites(2)
	b.FailReads(1)
	b.NotReady(3)
	b.Glitch(2)
	tr := newTransport(b)

	payload, err := tr.Query(context.Background(), grovepi.Cmd(grovepi.OpVersion), 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 4, 0}, payload)

	stats := tr.Stats()
	assert.Equal(t, uint64(3), stats.TransientErrors)
	assert.Equal(t, uint64(3), stats.NotReady)
	assert.Equal(t, uint64(2), stats.Glitches)
}

func TestBoard_StaleBlocksAreDiscarded(t *testing.T) {
	b := NewBoard()
	b.SetDistance(4, 120)
	b.QueueStale(byte(grovepi.OpDigitalWrite))
	b.QueueStale(byte(grovepi.OpAnalogRead), 1, 2)
	tr := newTransport(b)

	payload, err := tr.Query(context.Background(), grovepi.Cmd(grovepi.OpUltrasonicRead, 4), 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 120}, payload)
	assert.Equal(t, uint64(2), tr.Stats().Discarded)
}

func TestBoard_NewCommandOverwritesPendingAnswer(t *testing.T) {
	b := NewBoard()
	ctx := context.Background()
	require.NoError(t, b.WriteToAddr(ctx, grovepi.DefaultAddress, []byte{byte(grovepi.OpVersion), 0, 0, 0}))
	require.NoError(t, b.WriteToAddr(ctx, grovepi.DefaultAddress, []byte{byte(grovepi.OpDigitalWrite), 3, 1, 0}))

	buf := make([]byte, 1)
	require.NoError(t, b.ReadFromAddr(ctx, grovepi.DefaultAddress, buf))
	assert.Equal(t, byte(grovepi.OpDigitalWrite), buf[0])
	assert.Equal(t, byte(1), b.Digital(3))
}

func TestBoard_Handle(t *testing.T) {
	b := NewBoard()
	b.Handle(grovepi.OpVersion, func(cmd grovepi.Command) []byte {
		return []byte{byte(cmd.Opcode), 9, 9, 9}
	})
	payload, err := newTransport(b).Query(context.Background(), grovepi.Cmd(grovepi.OpVersion), 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9, 9}, payload)
}

func TestBoard_LEDBarState(t *testing.T) {
	b := NewBoard()
	tr := newTransport(b)
	ctx := context.Background()

	require.NoError(t, tr.Exec(ctx, grovepi.Cmd(grovepi.OpLEDBarLevel, 6, 3)))
	assert.Equal(t, uint16(0b111), b.LEDBarBits(6))
	require.NoError(t, tr.Exec(ctx, grovepi.Cmd(grovepi.OpLEDBarToggleOne, 6, 10)))
	assert.Equal(t, uint16(0b10_0000_0111), b.LEDBarBits(6))
	require.NoError(t, tr.Exec(ctx, grovepi.Cmd(grovepi.OpLEDBarSetOne, 6, 1, 0)))
	assert.Equal(t, uint16(0b10_0000_0110), b.LEDBarBits(6))

	payload, err := tr.Query(ctx, grovepi.Cmd(grovepi.OpLEDBarGetBits, 6), 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x06, 0x02}, payload)
}
