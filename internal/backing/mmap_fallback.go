//go:build !unix && !windows

package backing

// mapAnon reports no mapping so Obtain falls back to a Go slice.
func mapAnon(int) ([]byte, error) { return nil, nil }

func unmapAnon([]byte) error { return nil }
