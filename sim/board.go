// Package sim provides a simulated GrovePi board that speaks the firmware's
// side of the block protocol on an in-memory bus. It keeps pin and sensor
// state, answers commands like the firmware does and can inject the faults
// seen on a real bus: NACKs, "not available" blocks, all-ones glitches and
// stale responses.
//
// Example usage:
//
//	board := sim.NewBoard()
//	board.SetAnalog(0, 512)
//	board.NotReady(2)
//	t := protocol.New(board)
package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mklimuk/grovepi"
)

var _ grovepi.I2CBus = &Board{}

var ErrNACK = errors.New("sim: address not acknowledged")

// Handler computes the full response block (tag included) for a command.
// A nil block leaves the board without an answer.
type Handler func(cmd grovepi.Command) []byte

type BoardOpts struct {
	Address byte
	Version [3]byte
}

type BoardOpt func(*BoardOpts)

func WithAddress(address byte) BoardOpt {
	return func(o *BoardOpts) {
		o.Address = address
	}
}

func WithVersion(major, minor, patch byte) BoardOpt {
	return func(o *BoardOpts) {
		o.Version = [3]byte{major, minor, patch}
	}
}

type Board struct {
	mx     sync.Mutex
	config BoardOpts

	handlers map[grovepi.Opcode]Handler
	state    firmwareState

	commands []grovepi.Command
	queue    [][]byte
	stale    [][]byte

	writeFailures int
	readFailures  int
	notReady      int
	glitches      int
}

func NewBoard(opts ...BoardOpt) *Board {
	config := BoardOpts{
		Address: grovepi.DefaultAddress,
		Version: [3]byte{1, 2, 7},
	}
	for _, opt := range opts {
		opt(&config)
	}
	b := &Board{
		config:   config,
		handlers: make(map[grovepi.Opcode]Handler),
		state:    newFirmwareState(),
	}
	b.registerFirmware()
	return b
}

// Handle replaces the firmware behavior for op.
func (b *Board) Handle(op grovepi.Opcode, h Handler) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.handlers[op] = h
}

// FailWrites makes the next n writes fail with ErrNACK.
func (b *Board) FailWrites(n int) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.writeFailures = n
}

// FailReads makes the next n reads fail with ErrNACK.
func (b *Board) FailReads(n int) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.readFailures = n
}

// NotReady makes the next n reads of a pending answer return the
// "not available" tag first.
func (b *Board) NotReady(n int) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.notReady = n
}

// Glitch makes the next n reads return all ones.
func (b *Board) Glitch(n int) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.glitches = n
}

// QueueStale puts block in front of the answer to the next command, as if a
// previous response had never been collected.
func (b *Board) QueueStale(block ...byte) {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.stale = append(b.stale, append([]byte(nil), block...))
}

// Commands returns every command the board accepted, oldest first.
func (b *Board) Commands() []grovepi.Command {
	b.mx.Lock()
	defer b.mx.Unlock()
	return append([]grovepi.Command(nil), b.commands...)
}

func (b *Board) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mx.Lock()
	defer b.mx.Unlock()
	if address != b.config.Address {
		return fmt.Errorf("write to %#x: %w", address, ErrNACK)
	}
	if b.writeFailures > 0 {
		b.writeFailures--
		return fmt.Errorf("write to %#x: %w", address, ErrNACK)
	}
	if len(buffer) != grovepi.CommandSize {
		return fmt.Errorf("sim: malformed command block of %d bytes", len(buffer))
	}
	cmd := grovepi.Command{Opcode: grovepi.Opcode(buffer[0])}
	copy(cmd.Params[:], buffer[1:])
	b.commands = append(b.commands, cmd)

	// a new command overwrites whatever answer was still waiting
	b.queue = b.stale
	b.stale = nil
	h, ok := b.handlers[cmd.Opcode]
	if !ok {
		h = ack
	}
	if block := h(cmd); block != nil {
		b.queue = append(b.queue, block)
	}
	return nil
}

func (b *Board) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mx.Lock()
	defer b.mx.Unlock()
	if address != b.config.Address {
		return fmt.Errorf("read from %#x: %w", address, ErrNACK)
	}
	if b.readFailures > 0 {
		b.readFailures--
		return fmt.Errorf("read from %#x: %w", address, ErrNACK)
	}
	if b.glitches > 0 {
		b.glitches--
		fill(buffer, []byte{grovepi.TagGlitch}, grovepi.TagGlitch)
		return nil
	}
	if len(b.queue) == 0 || b.notReady > 0 {
		if b.notReady > 0 {
			b.notReady--
		}
		fill(buffer, []byte{grovepi.TagNotAvailable}, 0)
		return nil
	}
	block := b.queue[0]
	b.queue = b.queue[1:]
	fill(buffer, block, 0)
	return nil
}

func (b *Board) Release(ctx context.Context) error {
	return nil
}

func fill(buffer, block []byte, pad byte) {
	n := copy(buffer, block)
	for i := n; i < len(buffer); i++ {
		buffer[i] = pad
	}
}

func ack(cmd grovepi.Command) []byte {
	return []byte{byte(cmd.Opcode)}
}

func tagged(op grovepi.Opcode, payload ...byte) []byte {
	return append([]byte{byte(op)}, payload...)
}
