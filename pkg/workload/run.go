package workload

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"github.com/joshuapare/blockheap/heap"
	"github.com/joshuapare/blockheap/internal/logger"
)

// ctxCheckInterval is how many steps run between context checks.
const ctxCheckInterval = 1024

type allocation struct {
	handle heap.Handle
	size   int
}

type group struct {
	heap   *heap.Heap
	allocs []allocation
}

// requested sums the sizes asked for by the live allocations.
func (g *group) requested() int64 {
	var n int64
	for _, a := range g.allocs {
		n += int64(a.size)
	}
	return n
}

// Run drives heaps until one is exhausted, MaxSteps is reached or ctx is
// done. Heaps are used, not closed. A cancelled run still returns the report
// gathered so far together with ctx.Err().
func Run(ctx context.Context, cfg Config, heaps []*heap.Heap) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(heaps) == 0 {
		return nil, fmt.Errorf("%w: no heaps to drive", ErrBadConfig)
	}

	groups := make([]*group, len(heaps))
	for i, h := range heaps {
		groups[i] = &group{heap: h}
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	rep := &Report{Config: cfg}

	var runErr error
loop:
	for {
		if cfg.MaxSteps > 0 && rep.Steps >= cfg.MaxSteps {
			break
		}
		if rep.Steps%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				runErr = err
				break
			}
		}
		rep.Steps++

		size := cfg.MinSize + rng.Intn(cfg.MaxSize-cfg.MinSize+1)
		shouldFree := rng.Float64() < cfg.FreeProbability

		for _, g := range groups {
			hd, err := g.heap.Allocate(size)
			if errors.Is(err, heap.ErrNoSpace) {
				rep.Exhausted = g.heap.Kind().String()
				logger.Info("heap exhausted", "kind", rep.Exhausted, "steps", rep.Steps, "size", size)
				break loop
			}
			if err != nil {
				runErr = fmt.Errorf("workload: %s: allocate %d: %w", g.heap.Kind(), size, err)
				break loop
			}
			g.allocs = append(g.allocs, allocation{handle: hd, size: size})

			if shouldFree {
				idx := rng.Intn(len(g.allocs))
				if err := g.heap.Release(g.allocs[idx].handle); err != nil {
					runErr = fmt.Errorf("workload: %s: release: %w", g.heap.Kind(), err)
					break loop
				}
				g.allocs = slices.Delete(g.allocs, idx, idx+1)
			}
		}
	}

	for _, g := range groups {
		rep.Results = append(rep.Results, result(g))
	}
	return rep, runErr
}

func result(g *group) Result {
	c := g.heap.Census()
	res := Result{
		Kind:          g.heap.Kind(),
		Fragmentation: c.Fragmentation(),
		InUse:         float64(c.UsedBytes) / float64(g.heap.Capacity()),
		UsedBytes:     c.UsedBytes,
		Requested:     g.requested(),
		Live:          len(g.allocs),
		Blocks:        c.Blocks,
		Stats:         g.heap.Stats(),
	}
	if c.UsedBytes > 0 {
		res.Efficiency = float64(res.Requested) / float64(c.UsedBytes)
	}
	return res
}
