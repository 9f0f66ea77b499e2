package grovepi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckRange(t *testing.T) {
	assert.NoError(t, CheckRange("level", 0, 0, 10))
	assert.NoError(t, CheckRange("level", 10, 0, 10))
	err := CheckRange("level", 11, 0, 10)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.EqualError(t, err, "grovepi: argument out of range: level 11 not in [0, 10]")
	assert.ErrorIs(t, CheckRange("led", -1, 1, 10), ErrOutOfRange)
}
