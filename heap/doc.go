// Package heap implements a fixed-capacity allocator whose bookkeeping lives
// entirely inside the arena it manages.
//
// # Overview
//
// A Heap owns one contiguous arena obtained at construction. The arena is
// tiled by blocks, each prefixed by an 8-byte header (see heap/block), so the
// chain of headers is the only free-list there is. Two policies are injected
// at construction and can be varied independently:
//
//   - search.Strategy decides which free block serves a request and whether the
//     leftover is split off (first-fit, best-fit, power-of-two, exact-fit).
//   - release.Strategy decides what happens when a block comes back (simple
//     flag clear, or coalescing with free neighbours).
//
// # Usage Example
//
//	h, err := heap.New(64*1024, search.BestFit{}, release.Coalescing{})
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	hd, err := h.Allocate(100)
//	if errors.Is(err, heap.ErrNoSpace) {
//	    // arena exhausted for this policy pair
//	}
//	buf, _ := h.Payload(hd) // 104 bytes, 8-byte aligned
//	copy(buf, data)
//	_ = h.Release(hd)
//
// # Handles
//
// A Handle is the arena offset of a block's first payload byte. It is handed
// out once by Allocate and consumed once by Release. By default Release checks
// that the handle sits on a live block boundary and reports ErrInvalidHandle
// otherwise, which catches double releases; Options.SkipHandleChecks turns
// that off.
//
// # Alignment
//
// Requests are rounded up to a multiple of 8 bytes and to at least 8 bytes.
// Capacity must be a multiple of 8 and includes every header.
//
// # Thread Safety
//
// Heap instances are not thread-safe. Callers must synchronize access
// externally, e.g. one mutex per Heap. Strategy values carry no state and may
// be shared between heaps freely.
package heap
