// Package block turns a flat byte arena into an address-ordered chain of
// variable-sized blocks. Every block starts with a fixed header (see
// internal/format) holding its payload size, its flags and the payload size
// of the block before it, which is all that is needed to step forward and
// backward in O(1) without any list stored outside the arena.
//
// The chain is not safe for concurrent use. Split and Absorb rewrite up to
// three headers in sequence; an observer in between would see a torn chain.
package block

import (
	"fmt"

	"github.com/joshuapare/blockheap/internal/format"
)

// Block is the arena offset of a block header.
type Block int

// None marks the absence of a block.
const None Block = -1

// Payload returns the arena offset of the first payload byte of b.
func (b Block) Payload() int { return int(b) + format.HeaderSize }

// FromPayload maps a payload offset back to its block header.
func FromPayload(off int) Block { return Block(off - format.HeaderSize) }

// Stats counts structural changes made to a chain.
type Stats struct {
	Splits int // blocks carved in two
	Merges int // successors absorbed into a free block
}

// Chain is the walker over one arena.
type Chain struct {
	buf   []byte
	stats Stats
}

// Format writes a single free root block spanning buf and returns the chain
// over it. len(buf) must be a multiple of format.Alignment and at least
// format.MinBlockSize.
func Format(buf []byte) *Chain {
	if len(buf) < format.MinBlockSize || !format.IsAligned(len(buf)) {
		panic(fmt.Sprintf("block: cannot format %d-byte arena", len(buf)))
	}
	format.PutHeader(buf, 0, len(buf)-format.HeaderSize, 0, 0)
	return &Chain{buf: buf}
}

// Attach returns a chain over an arena that already holds headers.
func Attach(buf []byte) *Chain {
	return &Chain{buf: buf}
}

// Root returns the first block of the arena.
func (c *Chain) Root() Block { return 0 }

// Capacity returns the arena size in bytes, headers included.
func (c *Chain) Capacity() int { return len(c.buf) }

// Stats returns the split/merge counters.
func (c *Chain) Stats() Stats { return c.stats }

// Size returns the payload size of b.
func (c *Chain) Size(b Block) int {
	size, _, _ := format.ReadHeader(c.buf, int(b))
	return size
}

// PrevSize returns the payload size recorded for the block preceding b.
func (c *Chain) PrevSize(b Block) int {
	_, _, prev := format.ReadHeader(c.buf, int(b))
	return prev
}

func (c *Chain) flags(b Block) uint32 {
	_, flags, _ := format.ReadHeader(c.buf, int(b))
	return flags
}

// InUse reports whether b is handed out to a caller.
func (c *Chain) InUse(b Block) bool { return c.flags(b)&format.FlagInUse != 0 }

// HasNext reports whether another block follows b. A block without a
// successor ends exactly at the arena end.
func (c *Chain) HasNext(b Block) bool { return c.flags(b)&format.FlagHasNext != 0 }

// HasPrev reports whether a block precedes b.
func (c *Chain) HasPrev(b Block) bool { return c.flags(b)&format.FlagHasPrev != 0 }

// End returns the offset one past the last payload byte of b.
func (c *Chain) End(b Block) int { return b.Payload() + c.Size(b) }

// Next returns the block following b.
func (c *Chain) Next(b Block) (Block, bool) {
	if !c.HasNext(b) {
		return None, false
	}
	return Block(c.End(b)), true
}

// Prev returns the block preceding b, located from the stored preceding size
// rather than by rescanning from the root.
func (c *Chain) Prev(b Block) (Block, bool) {
	if !c.HasPrev(b) {
		return None, false
	}
	return b - Block(c.PrevSize(b)+format.HeaderSize), true
}

// SetInUse flips the occupancy flag of b and nothing else.
func (c *Chain) SetInUse(b Block, inUse bool) {
	size, flags, prev := format.ReadHeader(c.buf, int(b))
	if inUse {
		flags |= format.FlagInUse
	} else {
		flags &^= format.FlagInUse
	}
	format.PutHeader(c.buf, int(b), size, flags, prev)
}

func (c *Chain) setPrevSize(b Block, prev int) {
	size, flags, _ := format.ReadHeader(c.buf, int(b))
	format.PutHeader(c.buf, int(b), size, flags|format.FlagHasPrev, prev)
}

// Data returns the payload bytes of b.
func (c *Chain) Data(b Block) []byte {
	return c.buf[b.Payload():c.End(b):c.End(b)]
}

// Split shrinks b to size payload bytes, marks it in use and turns the rest
// into a new free block directly after it, which is returned. The successor
// of b, if any, has its preceding size moved over to the new block.
//
// The remainder must hold a header plus format.MinPayload; callers check
// this first. Violations panic since they would corrupt the arena.
func (c *Chain) Split(b Block, size int) Block {
	old, flags, prev := format.ReadHeader(c.buf, int(b))
	if size < format.MinPayload || !format.IsAligned(size) {
		panic(fmt.Sprintf("block: split of block %d to unaligned size %d", b, size))
	}
	rem := old - size
	if rem < format.MinBlockSize {
		panic(fmt.Sprintf("block: split of %d-byte block %d to %d leaves %d bytes, need %d",
			old, b, size, rem, format.MinBlockSize))
	}

	tail := Block(b.Payload() + size)
	tailSize := rem - format.HeaderSize
	format.PutHeader(c.buf, int(tail), tailSize, format.FlagHasPrev|flags&format.FlagHasNext, size)
	if flags&format.FlagHasNext != 0 {
		c.setPrevSize(Block(tail.Payload()+tailSize), tailSize)
	}
	format.PutHeader(c.buf, int(b), size, flags|format.FlagInUse|format.FlagHasNext, prev)

	c.stats.Splits++
	return tail
}

// Absorb merges the successor of b into b: b grows by the successor's
// payload plus one header, and the block after the successor, if any, gets
// b's new size as its preceding size. Both blocks must be free.
func (c *Chain) Absorb(b Block) {
	next, ok := c.Next(b)
	if !ok {
		panic(fmt.Sprintf("block: absorb past the last block %d", b))
	}
	size, flags, prev := format.ReadHeader(c.buf, int(b))
	nextSize, nextFlags, _ := format.ReadHeader(c.buf, int(next))
	if flags&format.FlagInUse != 0 || nextFlags&format.FlagInUse != 0 {
		panic(fmt.Sprintf("block: absorb of block %d into %d with a block in use", next, b))
	}

	merged := size + format.HeaderSize + nextSize
	format.PutHeader(c.buf, int(b), merged, flags&^format.FlagHasNext|nextFlags&format.FlagHasNext, prev)
	if nextFlags&format.FlagHasNext != 0 {
		c.setPrevSize(Block(b.Payload()+merged), merged)
	}

	c.stats.Merges++
}

// Walk calls fn for every block in address order until fn returns false.
func (c *Chain) Walk(fn func(Block) bool) {
	for b, ok := c.Root(), true; ok; b, ok = c.Next(b) {
		if !fn(b) {
			return
		}
	}
}

// Contains reports whether off could be the header offset of a block: in
// range and aligned. It says nothing about whether a header really lives there.
func (c *Chain) Contains(b Block) bool {
	return b >= 0 && int(b)+format.MinBlockSize <= len(c.buf) && format.IsAligned(int(b))
}
