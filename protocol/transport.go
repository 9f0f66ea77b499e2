// Package protocol implements the GrovePi block transfer protocol: fixed
// 4-byte command blocks written to the board and fixed-length response blocks
// read back, with retries on transient bus errors and polling while the
// board reports that its answer is not ready.
//
// Typical usage:
//
//	t := protocol.New(bus)
//	payload, err := t.Query(ctx, grovepi.Cmd(grovepi.OpAnalogRead, pin), 2)
package protocol

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mklimuk/grovepi"
	"github.com/mklimuk/grovepi/busctx"
)

var _ grovepi.Commander = &Transport{}

// Transport owns the bus handle for one GrovePi board.
//
// Send, ReadRaw and ReadTagged are the bare protocol steps and do not lock.
// Exec, Query and Fetch hold the transport lock for the whole
// command/response pair so that concurrent callers never interleave.
type Transport struct {
	mx     sync.Mutex
	bus    grovepi.I2CBus
	config Options
	stats  counters
}

func New(bus grovepi.I2CBus, opts ...Option) *Transport {
	config := defaultOptions()
	for _, opt := range opts {
		opt(&config)
	}
	if config.RetryBudget < 1 {
		config.RetryBudget = 1
	}
	return &Transport{
		bus:    bus,
		config: config,
	}
}

func (t *Transport) Address() byte {
	return t.config.Address
}

// Exec sends cmd and consumes the 1-byte acknowledge block the firmware
// produces for commands without a result.
func (t *Transport) Exec(ctx context.Context, cmd grovepi.Command) error {
	t.mx.Lock()
	defer t.mx.Unlock()
	if err := t.Send(ctx, cmd); err != nil {
		return err
	}
	if _, err := t.ReadRaw(ctx, 1); err != nil {
		return fmt.Errorf("acknowledge of %s: %w", cmd, err)
	}
	return nil
}

// Query sends cmd and returns the n payload bytes of the response carrying
// cmd's opcode as its tag.
func (t *Transport) Query(ctx context.Context, cmd grovepi.Command, n int) ([]byte, error) {
	t.mx.Lock()
	defer t.mx.Unlock()
	if err := t.Send(ctx, cmd); err != nil {
		return nil, err
	}
	payload, err := t.ReadTagged(ctx, cmd.Opcode, n)
	if err != nil {
		return nil, fmt.Errorf("response to %s: %w", cmd, err)
	}
	return payload, nil
}

// Fetch sends cmd and returns the next n-byte block without tag correlation.
func (t *Transport) Fetch(ctx context.Context, cmd grovepi.Command, n int) ([]byte, error) {
	t.mx.Lock()
	defer t.mx.Unlock()
	if err := t.Send(ctx, cmd); err != nil {
		return nil, err
	}
	block, err := t.ReadRaw(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("response to %s: %w", cmd, err)
	}
	return block, nil
}

func (t *Transport) logger(ctx context.Context) *slog.Logger {
	return busctx.Logger(ctx, t.config.Logger)
}

// settleDelay is the pause after every successful transfer.
func (t *Transport) settleDelay() time.Duration {
	return t.config.InterTransferDelay + t.config.AdditionalDelay
}

func (t *Transport) deadline() time.Time {
	if t.config.MaxWait <= 0 {
		return time.Time{}
	}
	return time.Now().Add(t.config.MaxWait)
}

func expired(deadline time.Time) bool {
	return !deadline.IsZero() && time.Now().After(deadline)
}

// wait pauses for d unless ctx is done first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats is a snapshot of transfer counters since the transport was created.
type Stats struct {
	Writes               uint64 `yaml:"writes"`
	Reads                uint64 `yaml:"reads"`
	TransientErrors      uint64 `yaml:"transient_errors"`
	NotReady             uint64 `yaml:"not_ready"`
	Glitches             uint64 `yaml:"glitches"`
	Discarded            uint64 `yaml:"discarded"`
	MaxConsecutiveErrors int64  `yaml:"max_consecutive_errors"`
}

type counters struct {
	writes          atomic.Uint64
	reads           atomic.Uint64
	transientErrors atomic.Uint64
	notReady        atomic.Uint64
	glitches        atomic.Uint64
	discarded       atomic.Uint64
	maxConsecutive  atomic.Int64
}

func (c *counters) observeConsecutive(n int) {
	for {
		cur := c.maxConsecutive.Load()
		if int64(n) <= cur || c.maxConsecutive.CompareAndSwap(cur, int64(n)) {
			return
		}
	}
}

func (t *Transport) Stats() Stats {
	return Stats{
		Writes:               t.stats.writes.Load(),
		Reads:                t.stats.reads.Load(),
		TransientErrors:      t.stats.transientErrors.Load(),
		NotReady:             t.stats.notReady.Load(),
		Glitches:             t.stats.glitches.Load(),
		Discarded:            t.stats.discarded.Load(),
		MaxConsecutiveErrors: t.stats.maxConsecutive.Load(),
	}
}
