package protocol

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/mklimuk/grovepi"
	"github.com/mklimuk/grovepi/busctx"
)

type blockState int

const (
	blockValid blockState = iota
	blockNotReady
	blockGlitch
)

// classify looks at the leading byte of a received block. A glitch block is
// all ones; only its first byte is inspected, like the not-ready tag.
func classify(block []byte) blockState {
	switch block[0] {
	case grovepi.TagNotAvailable:
		return blockNotReady
	case grovepi.TagGlitch:
		return blockGlitch
	default:
		return blockValid
	}
}

func sentinelBlock(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = grovepi.TagGlitch
	}
	return buf
}

// ReadRaw reads one n-byte block from the board. It keeps polling while the
// board answers "not available" or the bus returns all ones; those polls do
// not count against the retry budget. Only consecutive transport failures do,
// and any successful transfer resets them.
func (t *Transport) ReadRaw(ctx context.Context, n int) ([]byte, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	return t.readBlock(ctx, n, t.deadline())
}

// ReadTagged reads (n+1)-byte blocks until one starts with tag and returns
// its n payload bytes. Blocks carrying any other tag are stale answers to
// earlier commands and are dropped.
func (t *Transport) ReadTagged(ctx context.Context, tag grovepi.Opcode, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	log := t.logger(ctx)
	deadline := t.deadline()
	discarded := 0
	for {
		block, err := t.readBlock(ctx, n+1, deadline)
		if err != nil {
			return nil, err
		}
		if block[0] == byte(tag) {
			return block[1:], nil
		}
		discarded++
		t.stats.discarded.Add(1)
		log.Debug("discarding block", "expected", byte(tag), "got", block[0], "discarded", discarded)
		if t.config.MaxDiscards > 0 && discarded >= t.config.MaxDiscards {
			return nil, fmt.Errorf("%w: expected %d, dropped %d blocks", ErrTagMismatch, tag, discarded)
		}
		if expired(deadline) {
			return nil, fmt.Errorf("%w: no block tagged %d within %s, dropped %d", ErrDeviceNotReady, tag, t.config.MaxWait, discarded)
		}
	}
}

func (t *Transport) readBlock(ctx context.Context, n int, deadline time.Time) ([]byte, error) {
	log := t.logger(ctx)
	block := sentinelBlock(n)
	failures := 0
	var lastErr error
	for classify(block) != blockValid && failures < t.config.RetryBudget {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		buf := sentinelBlock(n)
		t.stats.reads.Add(1)
		err := t.bus.ReadFromAddr(ctx, t.config.Address, buf)
		if err != nil {
			failures++
			lastErr = err
			t.stats.transientErrors.Add(1)
			t.stats.observeConsecutive(failures)
			log.Debug("transient bus error", "op", "read", "length", n, "failures", failures, "error", err)
			if werr := wait(ctx, t.config.RecoveryDelay); werr != nil {
				return nil, werr
			}
			continue
		}
		block = buf
		failures = 0
		if busctx.IsVerbose(ctx) {
			log.Debug("block received", "block", hex.EncodeToString(block))
		}
		if werr := wait(ctx, t.settleDelay()); werr != nil {
			return nil, werr
		}
		switch classify(block) {
		case blockNotReady:
			t.stats.notReady.Add(1)
		case blockGlitch:
			t.stats.glitches.Add(1)
		default:
			continue
		}
		if expired(deadline) {
			return nil, fmt.Errorf("%w: no data within %s", ErrDeviceNotReady, t.config.MaxWait)
		}
	}
	if failures >= t.config.RetryBudget {
		return nil, fmt.Errorf("%w: read of %d bytes failed %d times in a row: %w", ErrBusUnreachable, n, failures, lastErr)
	}
	return block, nil
}
