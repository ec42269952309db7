package heap

import "errors"

var (
	// ErrInvalidConfiguration indicates a heap could not be constructed with the given parameters.
	ErrInvalidConfiguration = errors.New("heap: invalid configuration")

	// ErrNoSpace indicates that no free block satisfies the active search policy.
	// It is an ordinary outcome of Allocate, not a fault.
	ErrNoSpace = errors.New("heap: no free block large enough")

	// ErrInvalidHandle indicates a handle that does not name a live allocation.
	ErrInvalidHandle = errors.New("heap: invalid handle")

	// ErrInvalidSize indicates a negative allocation size.
	ErrInvalidSize = errors.New("heap: invalid allocation size")

	// ErrClosed indicates use of a heap after Close.
	ErrClosed = errors.New("heap: closed")
)
