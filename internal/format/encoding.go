package format

import "encoding/binary"

// PutU32 writes a uint32 value to the buffer at the specified offset in little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// ReadU32 reads a uint32 value from the buffer at the specified offset in little-endian format.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// PutHeader writes a complete header at off.
func PutHeader(b []byte, off int, size int, flags uint32, prevSize int) {
	PutU32(b, off+SizeWordOffset, uint32(size)|(flags&FlagMask))
	PutU32(b, off+PrevSizeOffset, uint32(prevSize))
}

// ReadHeader decodes the header at off into its payload size, flags and
// preceding-size fields.
func ReadHeader(b []byte, off int) (size int, flags uint32, prevSize int) {
	word := ReadU32(b, off+SizeWordOffset)
	return int(word &^ FlagMask), word & FlagMask, int(ReadU32(b, off+PrevSizeOffset))
}
