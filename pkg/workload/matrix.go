package workload

import (
	"errors"

	"github.com/joshuapare/blockheap/heap"
	"github.com/joshuapare/blockheap/heap/release"
	"github.com/joshuapare/blockheap/heap/search"
)

// Matrix builds one heap per (search, release) combination, search-major.
// On failure every heap built so far is closed.
func Matrix(capacity int, searches []search.Strategy, releases []release.Strategy, opts *heap.Options) ([]*heap.Heap, error) {
	heaps := make([]*heap.Heap, 0, len(searches)*len(releases))
	for _, s := range searches {
		for _, r := range releases {
			h, err := heap.NewWithOptions(capacity, s, r, opts)
			if err != nil {
				return nil, errors.Join(err, CloseAll(heaps))
			}
			heaps = append(heaps, h)
		}
	}
	return heaps, nil
}

// CloseAll closes every heap and joins the errors.
func CloseAll(heaps []*heap.Heap) error {
	var errs []error
	for _, h := range heaps {
		if err := h.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
