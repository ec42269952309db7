package format

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
//	Align8(16) = 16
func Align8(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// IsAligned reports whether n sits on an Alignment boundary.
func IsAligned(n int) bool {
	return n&AlignmentMask == 0
}

// PayloadFor returns the payload size a request of n bytes occupies: n
// rounded up to the alignment, and never below MinPayload.
func PayloadFor(n int) int {
	if n <= MinPayload {
		return MinPayload
	}
	return Align8(n)
}

// NextPowerOfTwo returns the smallest power of two >= n. Values <= 1 map to 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
