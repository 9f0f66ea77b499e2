package protocol

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/mklimuk/grovepi"
	"github.com/mklimuk/grovepi/busctx"
)

// Send writes the 4-byte block for cmd, retrying transient bus errors up to
// the retry budget. A nil error means the whole block reached the board.
func (t *Transport) Send(ctx context.Context, cmd grovepi.Command) error {
	block := cmd.Encode()
	log := t.logger(ctx)
	var err error
	for attempt := 1; attempt <= t.config.RetryBudget; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// the bus may keep or modify the slice, every attempt gets its own
		out := make([]byte, grovepi.CommandSize)
		copy(out, block[:])
		t.stats.writes.Add(1)
		err = t.bus.WriteToAddr(ctx, t.config.Address, out)
		if err == nil {
			if busctx.IsVerbose(ctx) {
				log.Debug("block sent", "cmd", cmd, "block", hex.EncodeToString(block[:]))
			}
			return wait(ctx, t.settleDelay())
		}
		t.stats.transientErrors.Add(1)
		t.stats.observeConsecutive(attempt)
		log.Debug("transient bus error", "op", "write", "cmd", cmd, "attempt", attempt, "error", err)
		if werr := wait(ctx, t.config.RecoveryDelay); werr != nil {
			return werr
		}
	}
	return fmt.Errorf("%w: write %s failed %d times: %w", ErrBusUnreachable, cmd, t.config.RetryBudget, err)
}
