package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlign8(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 0},
		{1, 8},
		{7, 8},
		{8, 8},
		{9, 16},
		{16, 16},
		{17, 24},
		{1023, 1024},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Align8(tt.in), "Align8(%d)", tt.in)
		assert.True(t, IsAligned(Align8(tt.in)))
		assert.GreaterOrEqual(t, Align8(tt.in), tt.in, "alignment must never shrink a request")
	}
}

func TestPayloadFor(t *testing.T) {
	assert.Equal(t, MinPayload, PayloadFor(0))
	assert.Equal(t, MinPayload, PayloadFor(1))
	assert.Equal(t, MinPayload, PayloadFor(8))
	assert.Equal(t, 16, PayloadFor(9))
	assert.Equal(t, 40, PayloadFor(33))
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{8, 8},
		{9, 16},
		{24, 32},
		{1000, 1024},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextPowerOfTwo(tt.in), "NextPowerOfTwo(%d)", tt.in)
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, 32)
	PutHeader(buf, 8, 4096, FlagInUse|FlagHasPrev, 16)

	size, flags, prev := ReadHeader(buf, 8)
	require.Equal(t, 4096, size)
	assert.Equal(t, FlagInUse|FlagHasPrev, flags)
	assert.Equal(t, 16, prev)

	// neighbouring bytes untouched
	assert.Equal(t, uint32(0), ReadU32(buf, 0))
	assert.Equal(t, uint32(0), ReadU32(buf, 16))
}

func TestHeaderFlagsDoNotLeakIntoSize(t *testing.T) {
	buf := make([]byte, HeaderSize)
	PutHeader(buf, 0, 24, FlagMask, 0)
	size, flags, _ := ReadHeader(buf, 0)
	assert.Equal(t, 24, size)
	assert.Equal(t, FlagMask, flags)
}
