package protocol

import (
	"log/slog"
	"time"

	"github.com/mklimuk/grovepi"
)

const (
	DefaultRetryBudget        = 10
	DefaultInterTransferDelay = 2 * time.Millisecond
	DefaultRecoveryDelay      = 3 * time.Millisecond
)

type Options struct {
	Address byte

	// RetryBudget is the number of consecutive transport failures tolerated
	// before a call fails with ErrBusUnreachable.
	RetryBudget int

	// InterTransferDelay is the peer's minimum turnaround after every
	// successful transfer. AdditionalDelay extends it uniformly.
	InterTransferDelay time.Duration
	AdditionalDelay    time.Duration

	// RecoveryDelay is the pause after a failed transfer.
	RecoveryDelay time.Duration

	// MaxWait bounds one call: the not-ready polling of a raw read, or all
	// polling and discarded blocks of a tagged read. Zero waits forever.
	MaxWait time.Duration

	// MaxDiscards bounds the blocks a tagged read may throw away. Zero
	// means no limit.
	MaxDiscards int

	Logger *slog.Logger
}

type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Address:            grovepi.DefaultAddress,
		RetryBudget:        DefaultRetryBudget,
		InterTransferDelay: DefaultInterTransferDelay,
		RecoveryDelay:      DefaultRecoveryDelay,
	}
}

func WithAddress(address byte) Option {
	return func(o *Options) {
		o.Address = address
	}
}

func WithRetryBudget(budget int) Option {
	return func(o *Options) {
		o.RetryBudget = budget
	}
}

func WithInterTransferDelay(delay time.Duration) Option {
	return func(o *Options) {
		o.InterTransferDelay = delay
	}
}

func WithAdditionalDelay(delay time.Duration) Option {
	return func(o *Options) {
		o.AdditionalDelay = delay
	}
}

func WithRecoveryDelay(delay time.Duration) Option {
	return func(o *Options) {
		o.RecoveryDelay = delay
	}
}

func WithMaxWait(limit time.Duration) Option {
	return func(o *Options) {
		o.MaxWait = limit
	}
}

func WithMaxDiscards(limit int) Option {
	return func(o *Options) {
		o.MaxDiscards = limit
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}
