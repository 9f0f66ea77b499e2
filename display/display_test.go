package display

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

func newSim() (*sim.Board, *protocol.Transport) {
	b := sim.NewBoard()
	return b, protocol.New(b, protocol.WithInterTransferDelay(0), protocol.WithRecoveryDelay(time.Millisecond))
}

func TestLEDBar(t *testing.T) {
	b, tr := newSim()
	bar := NewLEDBar(tr, 5)
	ctx := context.Background()

	require.NoError(t, bar.Init(ctx, GreenToRed))
	require.NoError(t, bar.SetLevel(ctx, 4))
	assert.Equal(t, uint16(0b1111), b.LEDBarBits(5))

	require.NoError(t, bar.SetLED(ctx, 10, true))
	require.NoError(t, bar.ToggleLED(ctx, 1))
	bits, err := bar.Bits(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(0b10_0000_1110), bits)

	require.NoError(t, bar.SetBits(ctx, 0x3FF))
	assert.Equal(t, grovepi.Cmd(grovepi.OpLEDBarSetBits, 5, 0xFF, 0x03), b.Commands()[5])
	bits, err = bar.Bits(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x3FF), bits)

	require.NoError(t, bar.SetOrientation(ctx, RedToGreen))
	assert.Equal(t, grovepi.Cmd(grovepi.OpLEDBarOrientation, 5, 0), b.Commands()[7])
}

func TestLEDBar_Ranges(t *testing.T) {
	b, tr := newSim()
	bar := NewLEDBar(tr, 5)
	ctx := context.Background()

	assert.ErrorIs(t, bar.SetLevel(ctx, 11), grovepi.ErrOutOfRange)
	assert.ErrorIs(t, bar.SetLED(ctx, 0, true), grovepi.ErrOutOfRange)
	assert.ErrorIs(t, bar.ToggleLED(ctx, 11), grovepi.ErrOutOfRange)
	assert.ErrorIs(t, bar.SetBits(ctx, 1024), grovepi.ErrOutOfRange)
	assert.Empty(t, b.Commands())
}

func TestFourDigit(t *testing.T) {
	b, tr := newSim()
	d := NewFourDigit(tr, 6)
	ctx := context.Background()

	require.NoError(t, d.Init(ctx))
	require.NoError(t, d.Brightness(ctx, 7))
	require.NoError(t, d.Number(ctx, 0x1234, false))
	require.NoError(t, d.Number(ctx, 42, true))
	require.NoError(t, d.Digit(ctx, 3, 0xF))
	require.NoError(t, d.Segment(ctx, 2, 0x80))
	require.NoError(t, d.Score(ctx, 12, 34))
	require.NoError(t, d.On(ctx))
	require.NoError(t, d.Off(ctx))

	assert.Equal(t, []grovepi.Command{
		grovepi.Cmd(grovepi.OpFourDigitInit, 6),
		grovepi.Cmd(grovepi.OpFourDigitBrightness, 6, 7),
		grovepi.Cmd(grovepi.OpFourDigitValue, 6, 0x34, 0x12),
		grovepi.Cmd(grovepi.OpFourDigitValueZeros, 6, 42, 0),
		grovepi.Cmd(grovepi.OpFourDigitIndividualDigit, 6, 3, 15),
		grovepi.Cmd(grovepi.OpFourDigitIndividualLeds, 6, 2, 0x80),
		grovepi.Cmd(grovepi.OpFourDigitScore, 6, 12, 34),
		grovepi.Cmd(grovepi.OpFourDigitAllOn, 6),
		grovepi.Cmd(grovepi.OpFourDigitAllOff, 6),
	}, b.Display())
}

func TestFourDigit_Ranges(t *testing.T) {
	_, tr := newSim()
	d := NewFourDigit(tr, 6)
	ctx := context.Background()

	assert.ErrorIs(t, d.Brightness(ctx, 8), grovepi.ErrOutOfRange)
	assert.ErrorIs(t, d.Digit(ctx, 4, 1), grovepi.ErrOutOfRange)
	assert.ErrorIs(t, d.Digit(ctx, 0, 16), grovepi.ErrOutOfRange)
	assert.ErrorIs(t, d.Segment(ctx, -1, 0), grovepi.ErrOutOfRange)
	assert.ErrorIs(t, d.Monitor(ctx, 0, 0), grovepi.ErrOutOfRange)
	assert.ErrorIs(t, d.Monitor(ctx, 0, 5*time.Minute), grovepi.ErrOutOfRange)
}

func TestFourDigit_MonitorBlocks(t *testing.T) {
	b, tr := newSim()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := NewFourDigit(tr, 6).Monitor(ctx, 1, 1500*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []grovepi.Command{grovepi.Cmd(grovepi.OpFourDigitAnalogRead, 6, 1, 2)}, b.Display())
}

func TestChainableRGB(t *testing.T) {
	b, tr := newSim()
	c := NewChainableRGB(tr, 7)
	ctx := context.Background()

	require.NoError(t, c.StoreColor(ctx, 255, 128, 0))
	assert.Equal(t, [3]byte{255, 128, 0}, b.Color())

	require.NoError(t, c.Init(ctx, 3))
	require.NoError(t, c.Test(ctx, 3, Magenta))
	require.NoError(t, c.SetPattern(ctx, AllButThis, 1))
	require.NoError(t, c.SetModulo(ctx, 0, 2))
	require.NoError(t, c.SetLevel(ctx, 2, true))

	assert.Equal(t, []grovepi.Command{
		grovepi.Cmd(grovepi.OpRGBInit, 7, 3),
		grovepi.Cmd(grovepi.OpRGBTest, 7, 3, 5),
		grovepi.Cmd(grovepi.OpRGBSetPattern, 7, 1, 1),
		grovepi.Cmd(grovepi.OpRGBSetModulo, 7, 0, 2),
		grovepi.Cmd(grovepi.OpRGBSetLevel, 7, 2, 1),
	}, b.RGBChain())

	assert.ErrorIs(t, c.Test(ctx, 3, TestColor(8)), grovepi.ErrOutOfRange)
	assert.ErrorIs(t, c.SetPattern(ctx, Pattern(4), 0), grovepi.ErrOutOfRange)
	assert.ErrorIs(t, c.SetModulo(ctx, 0, 0), grovepi.ErrOutOfRange)
	assert.ErrorIs(t, c.SetLevel(ctx, 11, false), grovepi.ErrOutOfRange)
}

func TestDisplay_PropagatesBusErrors(t *testing.T) {
	b := sim.NewBoard()
	tr := protocol.New(b, protocol.WithInterTransferDelay(0), protocol.WithRecoveryDelay(time.Millisecond), protocol.WithRetryBudget(2))
	b.FailWrites(2)
	err := NewLEDBar(tr, 5).SetLevel(context.Background(), 3)
	assert.ErrorIs(t, err, protocol.ErrBusUnreachable)
	assert.ErrorContains(t, err, "led bar on pin 5: level")
}
