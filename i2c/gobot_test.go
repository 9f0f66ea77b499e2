package i2c

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gobi2c "gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/grovepi"
)

type fakeConnection struct {
	gobi2c.Connection
	written [][]byte
	reply   []byte
	short   bool
}

func (c *fakeConnection) Write(data []byte) (int, error) {
	c.written = append(c.written, append([]byte(nil), data...))
	if c.short {
		return len(data) - 1, nil
	}
	return len(data), nil
}

func (c *fakeConnection) Read(data []byte) (int, error) {
	n := copy(data, c.reply)
	return n, nil
}

type fakeAdaptor struct {
	conn       *fakeConnection
	connectErr error
	connected  bool
	finalized  bool
	opened     map[int]int
}

func (a *fakeAdaptor) GetI2cConnection(address int, busNr int) (gobi2c.Connection, error) {
	if a.opened == nil {
		a.opened = make(map[int]int)
	}
	a.opened[address] = busNr
	return a.conn, nil
}

func (a *fakeAdaptor) DefaultI2cBus() int {
	return 1
}

func (a *fakeAdaptor) Connect() error {
	a.connected = true
	return a.connectErr
}

func (a *fakeAdaptor) Finalize() error {
	a.finalized = true
	return nil
}

func TestGobotBus_Transfers(t *testing.T) {
	conn := &fakeConnection{reply: []byte{8, 1, 2, 7}}
	adaptor := &fakeAdaptor{conn: conn}
	bus, err := NewGobotBus(adaptor)
	require.NoError(t, err)
	assert.True(t, adaptor.connected)

	ctx := context.Background()
	require.NoError(t, bus.WriteToAddr(ctx, grovepi.DefaultAddress, []byte{8, 0, 0, 0}))
	buf := make([]byte, 4)
	require.NoError(t, bus.ReadFromAddr(ctx, grovepi.DefaultAddress, buf))

	assert.Equal(t, [][]byte{{8, 0, 0, 0}}, conn.written)
	assert.Equal(t, []byte{8, 1, 2, 7}, buf)
	assert.Equal(t, map[int]int{grovepi.DefaultAddress: 1}, adaptor.opened)

	require.NoError(t, bus.Close())
	assert.True(t, adaptor.finalized)
}

func TestGobotBus_BusNumber(t *testing.T) {
	adaptor := &fakeAdaptor{conn: &fakeConnection{}}
	bus, err := NewGobotBus(adaptor, WithBusNumber(2))
	require.NoError(t, err)
	require.NoError(t, bus.WriteToAddr(context.Background(), 0x05, []byte{1, 2, 3, 4}))
	assert.Equal(t, map[int]int{0x05: 2}, adaptor.opened)
}

func TestGobotBus_ShortTransfers(t *testing.T) {
	conn := &fakeConnection{reply: []byte{3}, short: true}
	bus, err := NewGobotBus(&fakeAdaptor{conn: conn})
	require.NoError(t, err)

	err = bus.WriteToAddr(context.Background(), grovepi.DefaultAddress, []byte{3, 0, 0, 0})
	assert.ErrorContains(t, err, "short write")
	err = bus.ReadFromAddr(context.Background(), grovepi.DefaultAddress, make([]byte, 3))
	assert.ErrorContains(t, err, "short read")
}

func TestGobotBus_ConnectError(t *testing.T) {
	_, err := NewGobotBus(&fakeAdaptor{connectErr: errors.New("no i2c")})
	assert.ErrorContains(t, err, "adaptor connect error")
}

func TestNewAdaptor_UnknownPlatform(t *testing.T) {
	_, err := NewAdaptor("beaglebone")
	assert.Error(t, err)
}
