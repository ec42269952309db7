// Package search holds the allocation policies a heap can be built with.
//
// A Strategy picks which free block serves an aligned request and hands it
// to a Carver, which decides whether the leftover is split off as a new free
// block. Both are stateless values and may be shared between heaps, including
// from different goroutines, since all mutation happens on the chain passed in.
package search

import (
	"fmt"
	"math"

	"github.com/joshuapare/blockheap/heap/block"
	"github.com/joshuapare/blockheap/internal/format"
)

// Strategy selects a free block of at least size payload bytes, carves it
// and returns it marked in use. ok is false when no free block qualifies;
// that is an ordinary outcome and leaves the chain untouched.
type Strategy interface {
	Allocate(c *block.Chain, size int) (b block.Block, ok bool)
	Name() string
}

// Carver cuts a selected free block down to size and marks it in use.
type Carver interface {
	Carve(c *block.Chain, b block.Block, size int)
	Name() string
}

// SplitAnything splits whenever the remainder can hold a block of its own.
type SplitAnything struct{}

// Carve splits b down to size when the remainder can hold a minimal block.
func (SplitAnything) Carve(c *block.Chain, b block.Block, size int) {
	if c.Size(b)-size >= format.MinBlockSize {
		c.Split(b, size)
		return
	}
	c.SetInUse(b, true)
}

// Name returns "split-any".
func (SplitAnything) Name() string { return "split-any" }

// SplitThreshold splits only when the remainder is at least a header plus
// Fraction of the request, so no sliver smaller than that proportion is left
// behind. The remainder must still be able to hold a minimal block.
type SplitThreshold struct {
	Fraction float64
}

// MinRemainder returns the smallest remainder that triggers a split. A
// fraction too large to represent, or NaN, never splits.
func (s SplitThreshold) MinRemainder(size int) int {
	slack := math.Ceil(s.Fraction * float64(size))
	switch {
	case math.IsNaN(slack) || slack >= float64(math.MaxInt-format.HeaderSize):
		return math.MaxInt
	case slack < format.MinPayload:
		return format.HeaderSize + format.MinPayload
	}
	return format.HeaderSize + int(slack)
}

// Carve splits b when the remainder reaches MinRemainder and otherwise
// hands it over whole.
func (s SplitThreshold) Carve(c *block.Chain, b block.Block, size int) {
	if c.Size(b)-size >= s.MinRemainder(size) {
		c.Split(b, size)
		return
	}
	c.SetInUse(b, true)
}

// Name returns "split-N" with N the fraction in percent.
func (s SplitThreshold) Name() string {
	return fmt.Sprintf("split-%d", int(math.Round(s.Fraction*100)))
}

func carverOrDefault(cv Carver) Carver {
	if cv == nil {
		return SplitAnything{}
	}
	return cv
}

// FirstFit takes the first free block in address order that is large enough.
type FirstFit struct {
	Carver Carver // nil means SplitAnything
}

// Allocate carves the first free block of at least size bytes.
func (s FirstFit) Allocate(c *block.Chain, size int) (block.Block, bool) {
	found := block.None
	c.Walk(func(b block.Block) bool {
		if !c.InUse(b) && c.Size(b) >= size {
			found = b
			return false
		}
		return true
	})
	if found == block.None {
		return block.None, false
	}
	carverOrDefault(s.Carver).Carve(c, found, size)
	return found, true
}

// Name returns "first-fit/" followed by the carver name.
func (s FirstFit) Name() string { return "first-fit/" + carverOrDefault(s.Carver).Name() }

// BestFit scans the whole chain and takes the smallest free block that is
// large enough, the first one on ties.
type BestFit struct {
	Carver Carver // nil means SplitAnything
}

// Allocate carves the smallest free block of at least size bytes.
func (s BestFit) Allocate(c *block.Chain, size int) (block.Block, bool) {
	best, ok := bestFit(c, size, math.MaxInt)
	if !ok {
		return block.None, false
	}
	carverOrDefault(s.Carver).Carve(c, best, size)
	return best, true
}

// Name returns "best-fit/" followed by the carver name.
func (s BestFit) Name() string { return "best-fit/" + carverOrDefault(s.Carver).Name() }

// bestFit returns the smallest free block with size <= payload <= limit.
func bestFit(c *block.Chain, size, limit int) (block.Block, bool) {
	best, bestSize := block.None, 0
	c.Walk(func(b block.Block) bool {
		if c.InUse(b) {
			return true
		}
		sz := c.Size(b)
		if sz >= size && sz <= limit && (best == block.None || sz < bestSize) {
			best, bestSize = b, sz
			if sz == size {
				return false // cannot do better than exact
			}
		}
		return true
	})
	return best, best != block.None
}

// PowerOfTwo rounds every request up to the next power of two and delegates
// to Search, trading internal fragmentation for fewer distinct block sizes.
type PowerOfTwo struct {
	Search Strategy // nil means BestFit{}
}

func (s PowerOfTwo) inner() Strategy {
	if s.Search == nil {
		return BestFit{}
	}
	return s.Search
}

// Allocate rounds size up to a power of two and delegates.
func (s PowerOfTwo) Allocate(c *block.Chain, size int) (block.Block, bool) {
	return s.inner().Allocate(c, format.NextPowerOfTwo(max(size, format.MinPayload)))
}

// Name returns "pow2-" followed by the inner strategy name.
func (s PowerOfTwo) Name() string { return "pow2-" + s.inner().Name() }

// ExactFit reuses the smallest free block whose payload exceeds the request
// by at most Slack bytes, whole and without splitting. Anything else goes to
// Fallback; with no fallback the request fails.
type ExactFit struct {
	Slack    int
	Fallback Strategy
}

// Allocate reuses a near-exact free block whole, or defers to Fallback.
func (s ExactFit) Allocate(c *block.Chain, size int) (block.Block, bool) {
	if b, ok := bestFit(c, size, size+s.Slack); ok {
		c.SetInUse(b, true)
		return b, true
	}
	if s.Fallback == nil {
		return block.None, false
	}
	return s.Fallback.Allocate(c, size)
}

// Name returns "exact-fit", with the slack when it is not DefaultSlack and
// the fallback name after a "+".
func (s ExactFit) Name() string {
	name := "exact-fit"
	if s.Slack != DefaultSlack {
		name = fmt.Sprintf("exact-fit(%d)", s.Slack)
	}
	if s.Fallback != nil {
		name += "+" + s.Fallback.Name()
	}
	return name
}
