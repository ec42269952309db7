//go:build unix

package backing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObtainMappedUnix(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}
	r, err := Obtain(1<<16, Mapped)
	require.NoError(t, err)
	assert.Equal(t, Mapped, r.Kind())

	data := r.Bytes()
	require.Len(t, data, 1<<16)
	data[0], data[len(data)-1] = 0xde, 0xad
	assert.Equal(t, byte(0xde), r.Bytes()[0])
	assert.Equal(t, byte(0xad), r.Bytes()[len(data)-1])

	require.NoError(t, r.Release())
	assert.ErrorIs(t, r.Release(), ErrReleased)
}
