// Package format defines the byte layout of the block header embedded in a
// heap arena. Higher-level packages never touch header bytes directly; they
// go through the accessors here so the encoding lives in one place.
package format

const (
	// HeaderSize is the number of bytes prefixed to every block, free or
	// in use.
	//
	// Layout (little-endian):
	//
	//	0x00  uint32  payload size | flags (low three bits)
	//	0x04  uint32  payload size of the preceding block (0 for the root)
	HeaderSize = 8

	// SizeWordOffset is the offset of the size/flags word within a header.
	SizeWordOffset = 0x00

	// PrevSizeOffset is the offset of the preceding-size word within a header.
	PrevSizeOffset = 0x04

	// Alignment is the boundary every payload size and block offset is
	// rounded to.
	Alignment = 8

	// AlignmentMask is Alignment-1 for bit tricks.
	AlignmentMask = Alignment - 1

	// MinPayload is the smallest payload a block may carry. A payload of this
	// size can itself host a header, so every block can later be split.
	MinPayload = HeaderSize

	// MinBlockSize is the smallest footprint of a block (header + payload).
	MinBlockSize = HeaderSize + MinPayload

	// MaxCapacity is the largest arena the 32-bit size word can describe.
	MaxCapacity = 0xFFFFFFFF &^ AlignmentMask
)

// Flag bits stored in the low bits of the size word. Payload sizes are
// always multiples of Alignment so these bits are otherwise zero.
const (
	FlagInUse   uint32 = 1 << 0
	FlagHasNext uint32 = 1 << 1
	FlagHasPrev uint32 = 1 << 2

	// FlagMask covers every flag bit.
	FlagMask uint32 = AlignmentMask
)
