// Package release holds the policies a heap uses to give blocks back.
package release

import (
	"fmt"
	"strings"

	"github.com/joshuapare/blockheap/heap/block"
)

// Strategy marks an in-use block free and optionally merges it with free
// neighbours. Implementations carry no state and may be shared.
type Strategy interface {
	Release(c *block.Chain, b block.Block)
	Name() string
}

// Simple only clears the in-use flag. Adjacent free blocks stay separate.
type Simple struct{}

func (Simple) Release(c *block.Chain, b block.Block) { c.SetInUse(b, false) }

func (Simple) Name() string { return "simple" }

// Coalescing clears the in-use flag, then merges the block with a free
// successor and finally lets a free predecessor absorb the result. A single
// release collapses at most the three blocks predecessor, self, successor;
// longer free runs only join up over repeated releases.
type Coalescing struct{}

func (Coalescing) Release(c *block.Chain, b block.Block) {
	c.SetInUse(b, false)

	prev, hasPrev := c.Prev(b)
	mergeForward(c, b)
	if hasPrev {
		mergeForward(c, prev)
	}
}

func (Coalescing) Name() string { return "coalescing" }

// mergeForward absorbs the successor of b when both are free.
func mergeForward(c *block.Chain, b block.Block) bool {
	if c.InUse(b) {
		return false
	}
	next, ok := c.Next(b)
	if !ok || c.InUse(next) {
		return false
	}
	c.Absorb(b)
	return true
}

// Catalog returns every release strategy.
func Catalog() []Strategy {
	return []Strategy{Simple{}, Coalescing{}}
}

// Parse returns the release strategy with the given name.
func Parse(name string) (Strategy, error) {
	for _, s := range Catalog() {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("release: unknown strategy %q (known: simple, coalescing)", strings.TrimSpace(name))
}
