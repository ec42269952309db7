package heap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshuapare/blockheap/heap/block"
	"github.com/joshuapare/blockheap/heap/release"
	"github.com/joshuapare/blockheap/heap/search"
	"github.com/joshuapare/blockheap/heap/verify"
	"github.com/joshuapare/blockheap/internal/backing"
	"github.com/joshuapare/blockheap/internal/format"
	"github.com/joshuapare/blockheap/internal/logger"
)

// Alignment is the byte boundary every payload is rounded to.
const Alignment = format.Alignment

// HeaderSize is the per-block overhead inside the arena.
const HeaderSize = format.HeaderSize

// MinCapacity is the smallest arena a heap accepts.
const MinCapacity = format.MinBlockSize

// Handle identifies one live allocation: the arena offset of its payload.
// The zero Handle is never returned by Allocate.
type Handle uint32

// Heap is a fixed-capacity allocator over a single arena.
type Heap struct {
	region   *backing.Region
	chain    *block.Chain
	search   search.Strategy
	release  release.Strategy
	opts     Options
	log      *slog.Logger
	capacity int
	stats    counters
}

// counters holds heap-level call statistics; split/merge counts live on the chain.
type counters struct {
	allocCalls     int
	noSpace        int
	releaseCalls   int
	rejected       int
	bytesRequested int64
	bytesGranted   int64
	lastSplits     int
	lastMerges     int
}

// New creates a heap of capacity bytes with the given policies and default options.
func New(capacity int, s search.Strategy, r release.Strategy) (*Heap, error) {
	return NewWithOptions(capacity, s, r, nil)
}

// NewWithOptions creates a heap of capacity bytes.
//
// Parameters:
//   - capacity: arena size in bytes, headers included; a positive multiple of
//     Alignment, at least MinCapacity
//   - s, r: search and release policies, both required
//   - opts: nil for defaults
//
// Failures wrap ErrInvalidConfiguration, except backing-store errors.
func NewWithOptions(capacity int, s search.Strategy, r release.Strategy, opts *Options) (*Heap, error) {
	if opts == nil {
		opts = &Options{}
	}
	switch {
	case capacity <= 0 || !format.IsAligned(capacity):
		return nil, fmt.Errorf("%w: capacity %d is not a positive multiple of %d",
			ErrInvalidConfiguration, capacity, Alignment)
	case capacity < MinCapacity:
		return nil, fmt.Errorf("%w: capacity %d is below the minimum of %d",
			ErrInvalidConfiguration, capacity, MinCapacity)
	case uint64(capacity) > format.MaxCapacity:
		return nil, fmt.Errorf("%w: capacity %d exceeds the maximum of %d",
			ErrInvalidConfiguration, capacity, uint64(format.MaxCapacity))
	case s == nil:
		return nil, fmt.Errorf("%w: nil search strategy", ErrInvalidConfiguration)
	case r == nil:
		return nil, fmt.Errorf("%w: nil release strategy", ErrInvalidConfiguration)
	}

	region, err := backing.Obtain(capacity, opts.Backing)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = logger.L
	}

	h := &Heap{
		region:   region,
		chain:    block.Format(region.Bytes()),
		search:   s,
		release:  r,
		opts:     *opts,
		log:      log,
		capacity: capacity,
	}
	h.log.Debug("heap created",
		"capacity", capacity,
		"kind", h.Kind().String(),
		"backing", region.Kind().String())
	return h, nil
}

// Allocate reserves at least size bytes and returns their handle. When no
// free block satisfies the search policy it returns ErrNoSpace and leaves the
// heap unchanged.
func (h *Heap) Allocate(size int) (Handle, error) {
	if h.chain == nil {
		return 0, ErrClosed
	}
	if size < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	h.stats.allocCalls++

	if size > h.capacity-HeaderSize {
		return 0, h.noSpace(size, size)
	}
	aligned := format.PayloadFor(size)

	b, ok := h.search.Allocate(h.chain, aligned)
	if !ok {
		return 0, h.noSpace(size, aligned)
	}
	if !h.chain.InUse(b) || h.chain.Size(b) < aligned {
		panic(fmt.Sprintf("heap: %s returned block %d of %d bytes for a %d-byte request",
			h.search.Name(), b, h.chain.Size(b), aligned))
	}

	h.stats.bytesRequested += int64(size)
	h.stats.bytesGranted += int64(h.chain.Size(b))
	return Handle(b.Payload()), nil
}

func (h *Heap) noSpace(size, aligned int) error {
	h.stats.noSpace++
	if !h.log.Enabled(context.Background(), slog.LevelDebug) {
		return ErrNoSpace
	}
	h.log.Debug("allocation failed",
		"kind", h.Kind().String(),
		"requested", size,
		"aligned", aligned,
		"largest_free", h.LargestFree())
	return ErrNoSpace
}

// Release gives the allocation behind hd back to the heap.
func (h *Heap) Release(hd Handle) error {
	if h.chain == nil {
		return ErrClosed
	}
	h.stats.releaseCalls++

	b, err := h.resolve(hd)
	if err != nil {
		h.stats.rejected++
		h.log.Warn("release rejected", "handle", uint32(hd), "error", err)
		return err
	}
	h.release.Release(h.chain, b)
	return nil
}

// Payload returns the writable bytes of a live allocation. The slice is the
// whole block payload, which may exceed the requested size.
func (h *Heap) Payload(hd Handle) ([]byte, error) {
	if h.chain == nil {
		return nil, ErrClosed
	}
	b, err := h.resolve(hd)
	if err != nil {
		return nil, err
	}
	return h.chain.Data(b), nil
}

// resolve maps a handle to its block and, unless disabled, checks that the
// block really is a live allocation: on a header boundary that agrees with
// both neighbours, and in use.
func (h *Heap) resolve(hd Handle) (block.Block, error) {
	b := block.FromPayload(int(hd))
	if !h.chain.Contains(b) {
		return block.None, fmt.Errorf("%w: %d outside arena of %d bytes", ErrInvalidHandle, hd, h.capacity)
	}
	if h.opts.SkipHandleChecks {
		return b, nil
	}

	c := h.chain
	end := b.Payload() + c.Size(b)
	switch {
	case !c.InUse(b):
		return block.None, fmt.Errorf("%w: %d is not in use", ErrInvalidHandle, hd)
	case end > h.capacity:
		return block.None, fmt.Errorf("%w: %d is not a block boundary", ErrInvalidHandle, hd)
	case c.HasNext(b) != (end < h.capacity):
		return block.None, fmt.Errorf("%w: %d is not a block boundary", ErrInvalidHandle, hd)
	case c.HasPrev(b) != (b > 0):
		return block.None, fmt.Errorf("%w: %d is not a block boundary", ErrInvalidHandle, hd)
	}
	if next, ok := c.Next(b); ok {
		if !c.Contains(next) || !c.HasPrev(next) || c.PrevSize(next) != c.Size(b) {
			return block.None, fmt.Errorf("%w: %d is not a block boundary", ErrInvalidHandle, hd)
		}
	}
	if prev, ok := c.Prev(b); ok {
		if !c.Contains(prev) || !c.HasNext(prev) || c.End(prev) != int(b) {
			return block.None, fmt.Errorf("%w: %d is not a block boundary", ErrInvalidHandle, hd)
		}
	}
	return b, nil
}

// Clone returns a new heap with the same capacity, policies and options and
// an empty arena. Live allocations are not copied.
func (h *Heap) Clone() (*Heap, error) {
	return NewWithOptions(h.capacity, h.search, h.release, &h.opts)
}

// Close releases the arena. Every handle becomes invalid and later calls
// return ErrClosed. Closing twice is a no-op.
func (h *Heap) Close() error {
	if h.chain == nil {
		return nil
	}
	cs := h.chain.Stats()
	h.stats.lastSplits, h.stats.lastMerges = cs.Splits, cs.Merges
	h.chain = nil
	h.log.Debug("heap closed", "kind", h.Kind().String())
	return h.region.Release()
}

// Verify walks every header and reports the first broken chain invariant.
func (h *Heap) Verify() error {
	if h.chain == nil {
		return ErrClosed
	}
	return verify.Check(h.chain)
}
