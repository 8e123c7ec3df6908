package conv

import (
	"fmt"
	"math"
	"math/bits"
)

// minStateAmplitudes is the amplitude count of one register block. Smaller
// registers are padded up to it.
const minStateAmplitudes = 16

// IntToUint32 converts int to uint32 safely.
func IntToUint32(v int) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint32 (negative)", v)
	}
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint32 (too large)", v)
	}
	return uint32(v), nil
}

// Uint64ToInt converts uint64 to int safely.
func Uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too large)", v)
	}
	return int(v), nil
}

// Uint32ToInt converts uint32 to int safely.
func Uint32ToInt(v uint32) (int, error) {
	if uint64(v) > uint64(math.MaxInt) {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int (too large)", v)
	}
	return int(v), nil
}

// StateFloats returns the float32 count of a split-layout state on n qubits:
// 2*max(2^n, 16).
func StateFloats(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("invalid qubit count: %d", n)
	}
	// 2^n amplitudes, two floats each, four bytes per float.
	if n+1+2 >= bits.UintSize-1 {
		return 0, fmt.Errorf("integer overflow: state on %d qubits exceeds int", n)
	}
	amps := max(1<<uint(n), minStateAmplitudes)
	return 2 * amps, nil
}

// StateBytes returns the byte size of a split-layout state on n qubits.
func StateBytes(n int) (int64, error) {
	floats, err := StateFloats(n)
	if err != nil {
		return 0, err
	}
	return int64(floats) * 4, nil
}
