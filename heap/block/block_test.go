package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/blockheap/internal/format"
)

// collect returns (offset, size, inUse) for every block in address order.
func collect(c *Chain) [][3]int {
	var out [][3]int
	c.Walk(func(b Block) bool {
		used := 0
		if c.InUse(b) {
			used = 1
		}
		out = append(out, [3]int{int(b), c.Size(b), used})
		return true
	})
	return out
}

func TestFormatCreatesSingleFreeRoot(t *testing.T) {
	c := Format(make([]byte, 64))

	root := c.Root()
	assert.Equal(t, Block(0), root)
	assert.Equal(t, 56, c.Size(root))
	assert.False(t, c.InUse(root))
	assert.False(t, c.HasNext(root))
	assert.False(t, c.HasPrev(root))
	assert.Equal(t, 64, c.End(root))

	_, ok := c.Next(root)
	assert.False(t, ok)
	_, ok = c.Prev(root)
	assert.False(t, ok)
}

func TestFormatRejectsBadArena(t *testing.T) {
	assert.Panics(t, func() { Format(make([]byte, 8)) })
	assert.Panics(t, func() { Format(make([]byte, 20)) })
}

func TestSplitCarvesTailAfterBlock(t *testing.T) {
	c := Format(make([]byte, 64))

	tail := c.Split(c.Root(), 16)

	assert.Equal(t, Block(24), tail)
	assert.Equal(t, [][3]int{{0, 16, 1}, {24, 32, 0}}, collect(c))
	assert.Equal(t, 16, c.PrevSize(tail))
	assert.True(t, c.HasPrev(tail))
	assert.False(t, c.HasNext(tail))

	prev, ok := c.Prev(tail)
	require.True(t, ok)
	assert.Equal(t, c.Root(), prev)
	assert.Equal(t, 1, c.Stats().Splits)
}

func TestSplitUpdatesSuccessorPrevSize(t *testing.T) {
	c := Format(make([]byte, 128))
	mid := c.Split(c.Root(), 16) // [0:16 used][24:96 free]
	last := c.Split(mid, 48)     // [24:48 used][80:40 free]
	require.Equal(t, Block(80), last)

	c.SetInUse(mid, false)
	tail := c.Split(mid, 16)

	assert.Equal(t, Block(48), tail)
	assert.Equal(t, [][3]int{{0, 16, 1}, {24, 16, 1}, {48, 24, 0}, {80, 40, 0}}, collect(c))
	assert.Equal(t, 16, c.PrevSize(tail))
	assert.Equal(t, 24, c.PrevSize(last), "successor must point back at the new tail")
	assert.True(t, c.HasNext(tail))

	prev, ok := c.Prev(last)
	require.True(t, ok)
	assert.Equal(t, tail, prev)
}

func TestSplitPanicsOnShortRemainder(t *testing.T) {
	c := Format(make([]byte, 32)) // root payload 24
	assert.Panics(t, func() { c.Split(c.Root(), 16) }, "remainder 8 cannot host header+min payload")
	assert.Panics(t, func() { c.Split(c.Root(), 4) }, "unaligned size")
	assert.NotPanics(t, func() { c.Split(c.Root(), 8) })
}

func TestAbsorbMergesSuccessor(t *testing.T) {
	c := Format(make([]byte, 128))
	second := c.Split(c.Root(), 16)
	third := c.Split(second, 24)
	require.Equal(t, [][3]int{{0, 16, 1}, {24, 24, 1}, {56, 64, 0}}, collect(c))

	c.SetInUse(c.Root(), false)
	c.SetInUse(second, false)
	c.Absorb(c.Root())

	assert.Equal(t, [][3]int{{0, 48, 0}, {56, 64, 0}}, collect(c))
	assert.Equal(t, 48, c.PrevSize(third), "successor of absorbed block must see merged size")

	c.Absorb(c.Root())
	assert.Equal(t, [][3]int{{0, 120, 0}}, collect(c))
	assert.False(t, c.HasNext(c.Root()))
	assert.Equal(t, 2, c.Stats().Merges)
}

func TestAbsorbPanicsOnInvalidMerge(t *testing.T) {
	c := Format(make([]byte, 64))
	assert.Panics(t, func() { c.Absorb(c.Root()) }, "no successor")

	second := c.Split(c.Root(), 16)
	assert.Panics(t, func() { c.Absorb(c.Root()) }, "root still in use")

	c.SetInUse(c.Root(), false)
	c.SetInUse(second, true)
	assert.Panics(t, func() { c.Absorb(c.Root()) }, "successor in use")
}

func TestSetInUseTouchesOnlyFlag(t *testing.T) {
	c := Format(make([]byte, 64))
	second := c.Split(c.Root(), 16)
	before := c.PrevSize(second)

	c.SetInUse(second, true)
	assert.True(t, c.InUse(second))
	assert.Equal(t, 32, c.Size(second))
	assert.Equal(t, before, c.PrevSize(second))
	assert.True(t, c.HasPrev(second))

	c.SetInUse(second, false)
	assert.False(t, c.InUse(second))
	assert.Equal(t, 32, c.Size(second))
}

func TestPrevWalksBackwardsFromEnd(t *testing.T) {
	c := Format(make([]byte, 256))
	b := c.Root()
	for _, sz := range []int{8, 16, 24, 32} {
		b = c.Split(b, sz)
	}

	var back []int
	for cur, ok := b, true; ok; cur, ok = c.Prev(cur) {
		back = append(back, int(cur))
	}
	var fwd []int
	c.Walk(func(x Block) bool {
		fwd = append([]int{int(x)}, fwd...)
		return true
	})
	assert.Equal(t, fwd, back)
}

func TestDataWindow(t *testing.T) {
	c := Format(make([]byte, 64))
	c.Split(c.Root(), 16)

	data := c.Data(c.Root())
	require.Len(t, data, 16)
	assert.Equal(t, 16, cap(data), "payload window must not reach the next header")
	for i := range data {
		data[i] = 0xff
	}
	next, _ := c.Next(c.Root())
	assert.Equal(t, 32, c.Size(next), "writes through Data must not clobber the next header")
}

func TestPayloadMapping(t *testing.T) {
	assert.Equal(t, format.HeaderSize, Block(0).Payload())
	assert.Equal(t, Block(24), FromPayload(32))
	assert.Equal(t, Block(40), FromPayload(Block(40).Payload()))
}

func TestContains(t *testing.T) {
	c := Format(make([]byte, 64))
	assert.True(t, c.Contains(0))
	assert.True(t, c.Contains(48))
	assert.False(t, c.Contains(56), "no room for a minimal block")
	assert.False(t, c.Contains(12))
	assert.False(t, c.Contains(-8))
}
