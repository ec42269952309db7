// Package backing obtains the contiguous byte region a heap arena lives in
// and gives it back on teardown.
package backing

import (
	"errors"
	"fmt"
)

// Kind selects where arena bytes come from.
type Kind uint8

const (
	// GoHeap allocates the region as an ordinary Go slice.
	GoHeap Kind = iota
	// Mapped asks the operating system for anonymous memory outside the Go
	// heap. Platforms without a mapping primitive fall back to GoHeap.
	Mapped
)

// String returns the flag spelling of k.
func (k Kind) String() string {
	switch k {
	case GoHeap:
		return "go"
	case Mapped:
		return "mmap"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind maps a flag spelling back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "go":
		return GoHeap, nil
	case "mmap":
		return Mapped, nil
	}
	return 0, fmt.Errorf("backing: unknown kind %q (want go or mmap)", s)
}

// ErrReleased is returned by Release on a region that was already given back.
var ErrReleased = errors.New("backing: region already released")

// Region is one contiguous run of bytes owned by a single arena.
type Region struct {
	data    []byte
	kind    Kind
	release func([]byte) error
}

// Obtain returns a zeroed region of exactly n bytes.
func Obtain(n int, kind Kind) (*Region, error) {
	if n <= 0 {
		return nil, fmt.Errorf("backing: size must be positive, got %d", n)
	}
	if kind == Mapped {
		data, err := mapAnon(n)
		if err != nil {
			return nil, fmt.Errorf("backing: map %d bytes: %w", n, err)
		}
		if data != nil {
			return &Region{data: data, kind: Mapped, release: unmapAnon}, nil
		}
	}
	return &Region{
		data:    make([]byte, n),
		kind:    GoHeap,
		release: func([]byte) error { return nil },
	}, nil
}

// Bytes returns the region's bytes, or nil once released.
func (r *Region) Bytes() []byte { return r.data }

// Len returns the region size in bytes.
func (r *Region) Len() int { return len(r.data) }

// Kind reports where the bytes actually came from.
func (r *Region) Kind() Kind { return r.kind }

// Release gives the bytes back. The region must not be used afterwards.
func (r *Region) Release() error {
	if r.data == nil {
		return ErrReleased
	}
	data := r.data
	r.data = nil
	return r.release(data)
}
