// Package verify checks the structural invariants of a block chain by
// decoding every header directly, without trusting the walker.
package verify

import (
	"fmt"

	"github.com/joshuapare/blockheap/heap/block"
	"github.com/joshuapare/blockheap/internal/format"
)

// Rule names the invariant a Violation breaks.
type Rule string

const (
	RulePartition Rule = "partition" // blocks tile the arena with no gap or overlap
	RulePrevSize  Rule = "prev-size" // stored preceding size matches the predecessor
	RuleFlags     Rule = "flags"     // has-next/has-prev agree with position
	RuleMinSize   Rule = "min-size"  // payload >= format.MinPayload
	RuleCapacity  Rule = "capacity"  // arena length is usable at all
)

// Violation describes the first broken invariant found.
type Violation struct {
	Block  block.Block
	Rule   Rule
	Detail string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("verify: block at %d breaks %s: %s", v.Block, v.Rule, v.Detail)
}

// Summary aggregates what a successful check saw.
type Summary struct {
	Blocks      int
	UsedBlocks  int
	UsedBytes   int
	FreeBytes   int
	LargestFree int
}

// HeaderBytes returns the bytes spent on headers.
func (s Summary) HeaderBytes() int { return s.Blocks * format.HeaderSize }

// Check decodes the arena behind c from the root and returns the first
// violation, if any.
func Check(c *block.Chain) error {
	_, err := Scan(c)
	return err
}

// Scan is Check plus the totals gathered along the way.
func Scan(c *block.Chain) (Summary, error) {
	var sum Summary
	capacity := c.Capacity()
	if capacity < format.MinBlockSize || !format.IsAligned(capacity) {
		return sum, &Violation{Block: 0, Rule: RuleCapacity, Detail: fmt.Sprintf("arena of %d bytes", capacity)}
	}

	prevSize := -1
	for off := 0; ; {
		b := block.Block(off)
		if off+format.HeaderSize > capacity {
			return sum, &Violation{b, RulePartition, fmt.Sprintf("header at %d runs past arena end %d", off, capacity)}
		}

		size := c.Size(b)
		if size < format.MinPayload {
			return sum, &Violation{b, RuleMinSize, fmt.Sprintf("payload size %d < %d", size, format.MinPayload)}
		}

		if prevSize < 0 {
			if c.HasPrev(b) {
				return sum, &Violation{b, RuleFlags, "root block claims a predecessor"}
			}
		} else {
			if !c.HasPrev(b) {
				return sum, &Violation{b, RuleFlags, "non-root block has no predecessor flag"}
			}
			if got := c.PrevSize(b); got != prevSize {
				return sum, &Violation{b, RulePrevSize, fmt.Sprintf("stored %d, predecessor has %d", got, prevSize)}
			}
		}

		sum.Blocks++
		if c.InUse(b) {
			sum.UsedBlocks++
			sum.UsedBytes += size
		} else {
			sum.FreeBytes += size
			sum.LargestFree = max(sum.LargestFree, size)
		}

		end := off + format.HeaderSize + size
		switch {
		case end > capacity:
			return sum, &Violation{b, RulePartition, fmt.Sprintf("ends at %d past arena end %d", end, capacity)}
		case end == capacity:
			if c.HasNext(b) {
				return sum, &Violation{b, RuleFlags, "last block claims a successor"}
			}
			return sum, nil
		case !c.HasNext(b):
			return sum, &Violation{b, RulePartition, fmt.Sprintf("chain ends at %d, %d bytes unaccounted", end, capacity-end)}
		}

		prevSize = size
		off = end
	}
}
