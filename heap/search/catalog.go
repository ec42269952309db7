package search

import (
	"fmt"
	"strings"
)

// DefaultThreshold is the split threshold fraction used by the catalog.
const DefaultThreshold = 0.25

// DefaultSlack is the ExactFit slack used when parsing "exact-fit+...".
const DefaultSlack = 8

// Catalog returns one instance of every standard search strategy.
func Catalog() []Strategy {
	threshold := SplitThreshold{Fraction: DefaultThreshold}
	return []Strategy{
		FirstFit{Carver: SplitAnything{}},
		BestFit{Carver: SplitAnything{}},
		FirstFit{Carver: threshold},
		BestFit{Carver: threshold},
		PowerOfTwo{Search: FirstFit{Carver: SplitAnything{}}},
		PowerOfTwo{Search: BestFit{Carver: SplitAnything{}}},
	}
}

// Names returns the names of the catalog strategies.
func Names() []string {
	cat := Catalog()
	names := make([]string, len(cat))
	for i, s := range cat {
		names[i] = s.Name()
	}
	return names
}

// Parse returns the catalog strategy with the given name. A name of the form
// "exact-fit+<name>" wraps that strategy in an ExactFit with DefaultSlack;
// a bare "exact-fit" has no fallback.
func Parse(name string) (Strategy, error) {
	if name == "exact-fit" {
		return ExactFit{Slack: DefaultSlack}, nil
	}
	if rest, ok := strings.CutPrefix(name, "exact-fit+"); ok {
		inner, err := Parse(rest)
		if err != nil {
			return nil, err
		}
		return ExactFit{Slack: DefaultSlack, Fallback: inner}, nil
	}
	for _, s := range Catalog() {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("search: unknown strategy %q (known: %s)", name, strings.Join(Names(), ", "))
}
