package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of a 16-lane float32 register (64 bytes).
const Alignment = 64

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	totalSize := size + Alignment
	buf := make([]byte, totalSize)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size)]
}

// AllocAlignedFloat32 allocates a zeroed float32 slice of the given size with
// 64-byte alignment.
func AllocAlignedFloat32(size int) []float32 {
	if size <= 0 {
		return nil
	}

	byteSlice := AllocAligned(size * 4)

	// 64-byte alignment implies the 4-byte alignment float32 needs.
	ptr := unsafe.Pointer(&byteSlice[0])       //nolint:gosec // unsafe is required for memory alignment
	return unsafe.Slice((*float32)(ptr), size) //nolint:gosec // unsafe is required for memory alignment
}

// IsAligned reports whether s starts on an Alignment boundary.
func IsAligned(s []float32) bool {
	if len(s) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&s[0]))&(Alignment-1) == 0 //nolint:gosec // address inspection only
}
