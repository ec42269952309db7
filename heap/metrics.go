package heap

import (
	"github.com/joshuapare/blockheap/heap/block"
)

// Kind names the (search, release) policy pair of a heap.
type Kind struct {
	Search  string `json:"search"`
	Release string `json:"release"`
}

func (k Kind) String() string { return k.Search + " + " + k.Release }

// Kind reports the policies this heap was built with.
func (h *Heap) Kind() Kind {
	return Kind{Search: h.search.Name(), Release: h.release.Name()}
}

// Capacity returns the arena size in bytes, headers included.
func (h *Heap) Capacity() int { return h.capacity }

// Census is a point-in-time tally of the arena.
type Census struct {
	Blocks      int `json:"blocks"`
	UsedBlocks  int `json:"used_blocks"`
	UsedBytes   int `json:"used_bytes"`
	FreeBytes   int `json:"free_bytes"`
	LargestFree int `json:"largest_free"`
}

// FreeBlocks returns the number of free blocks.
func (c Census) FreeBlocks() int { return c.Blocks - c.UsedBlocks }

// HeaderBytes returns the bytes spent on headers.
func (c Census) HeaderBytes() int { return c.Blocks * HeaderSize }

// Fragmentation is 1 - largest free block / total free bytes, and 0 when
// nothing is free.
func (c Census) Fragmentation() float64 {
	if c.FreeBytes == 0 {
		return 0
	}
	return 1 - float64(c.LargestFree)/float64(c.FreeBytes)
}

// Census walks the chain once and tallies it. A closed heap reports zeros.
func (h *Heap) Census() Census {
	var c Census
	if h.chain == nil {
		return c
	}
	h.chain.Walk(func(b block.Block) bool {
		size := h.chain.Size(b)
		c.Blocks++
		if h.chain.InUse(b) {
			c.UsedBlocks++
			c.UsedBytes += size
		} else {
			c.FreeBytes += size
			c.LargestFree = max(c.LargestFree, size)
		}
		return true
	})
	return c
}

// UsedBytes returns the payload bytes of all in-use blocks. O(blocks).
func (h *Heap) UsedBytes() int { return h.Census().UsedBytes }

// FreeBytes returns the payload bytes of all free blocks. O(blocks).
func (h *Heap) FreeBytes() int { return h.Census().FreeBytes }

// LargestFree returns the payload size of the largest free block. O(blocks).
func (h *Heap) LargestFree() int { return h.Census().LargestFree }

// BlockCount returns the number of blocks in the chain. O(blocks).
func (h *Heap) BlockCount() int { return h.Census().Blocks }

// Fragmentation returns 1 - largest free block / total free bytes, in [0,1].
func (h *Heap) Fragmentation() float64 { return h.Census().Fragmentation() }

// Stats holds cumulative call counters.
type Stats struct {
	AllocCalls       int   `json:"alloc_calls"`
	NoSpace          int   `json:"no_space"`
	ReleaseCalls     int   `json:"release_calls"`
	RejectedReleases int   `json:"rejected_releases"`
	Splits           int   `json:"splits"`
	Merges           int   `json:"merges"`
	BytesRequested   int64 `json:"bytes_requested"` // sum of sizes passed to successful Allocate calls
	BytesGranted     int64 `json:"bytes_granted"`   // sum of block payloads handed out for them
}

// Stats returns the counters accumulated since construction. Split and merge
// counts are frozen once the heap is closed.
func (h *Heap) Stats() Stats {
	s := Stats{
		AllocCalls:       h.stats.allocCalls,
		NoSpace:          h.stats.noSpace,
		ReleaseCalls:     h.stats.releaseCalls,
		RejectedReleases: h.stats.rejected,
		BytesRequested:   h.stats.bytesRequested,
		BytesGranted:     h.stats.bytesGranted,
	}
	if h.chain != nil {
		cs := h.chain.Stats()
		s.Splits, s.Merges = cs.Splits, cs.Merges
	} else {
		s.Splits, s.Merges = h.stats.lastSplits, h.stats.lastMerges
	}
	return s
}

// BlockInfo describes one block for Walk.
type BlockInfo struct {
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
	InUse  bool   `json:"in_use"`
	Handle Handle `json:"handle"`
}

// Walk calls fn for every block in address order until fn returns false.
func (h *Heap) Walk(fn func(BlockInfo) bool) {
	if h.chain == nil {
		return
	}
	h.chain.Walk(func(b block.Block) bool {
		return fn(BlockInfo{
			Offset: int(b),
			Size:   h.chain.Size(b),
			InUse:  h.chain.InUse(b),
			Handle: Handle(b.Payload()),
		})
	})
}
