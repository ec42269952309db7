package main

import (
	"github.com/joshuapare/blockheap/heap"
	"github.com/joshuapare/blockheap/heap/release"
	"github.com/joshuapare/blockheap/heap/search"
	"github.com/joshuapare/blockheap/internal/backing"
)

// parseSearches resolves --search names; none selects the whole catalog.
func parseSearches(names []string) ([]search.Strategy, error) {
	if len(names) == 0 {
		return search.Catalog(), nil
	}
	out := make([]search.Strategy, 0, len(names))
	for _, name := range names {
		s, err := search.Parse(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// parseReleases resolves --release names; none selects the whole catalog.
func parseReleases(names []string) ([]release.Strategy, error) {
	if len(names) == 0 {
		return release.Catalog(), nil
	}
	out := make([]release.Strategy, 0, len(names))
	for _, name := range names {
		r, err := release.Parse(name)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func heapOptions(backingName string) (*heap.Options, error) {
	kind, err := backing.ParseKind(backingName)
	if err != nil {
		return nil, err
	}
	return &heap.Options{Backing: kind}, nil
}
