package grovepi

import (
	"context"
)

// DefaultAddress is the 7-bit I2C address the GrovePi firmware listens on.
const DefaultAddress = 0x04

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus performs single raw transfers of a whole block to or from a device
// address. Every call either moves the full buffer or returns an error.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}
