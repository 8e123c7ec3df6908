package simd

// Lanes is the number of float32 lanes in one vector register. The state
// layout is built around the 512-bit register width on every platform.
const Lanes = 16

// LaneBits is log2(Lanes): qubits below this index are resolved inside a
// register, qubits at or above it select distinct registers.
const LaneBits = 4

// LaneMask selects the lane bits of an amplitude index.
const LaneMask = Lanes - 1

// Vec is one vector register worth of float32 lanes.
type Vec [Lanes]float32

// Index is a lane permutation: lane j of the result takes lane Index[j] of
// the source.
type Index [Lanes]uint8

// Load copies Lanes floats starting at src[0] into dst.
//
// SAFETY: Assumes len(src) >= Lanes.
func Load(dst *Vec, src []float32) {
	_ = src[Lanes-1]
	copy(dst[:], src[:Lanes])
}

// Store copies v into dst[0:Lanes].
//
// SAFETY: Assumes len(dst) >= Lanes.
func Store(dst []float32, v *Vec) {
	_ = dst[Lanes-1]
	copy(dst[:Lanes], v[:])
}

// Set1 broadcasts x to every lane.
func Set1(dst *Vec, x float32) {
	for i := range dst {
		dst[i] = x
	}
}

// Mul computes dst = a * b.
func Mul(dst, a, b *Vec) {
	for i := range dst {
		dst[i] = a[i] * b[i]
	}
}

// FMAdd computes dst += a * b.
func FMAdd(dst, a, b *Vec) {
	for i := range dst {
		dst[i] += a[i] * b[i]
	}
}

// FNMAdd computes dst -= a * b.
func FNMAdd(dst, a, b *Vec) {
	for i := range dst {
		dst[i] -= a[i] * b[i]
	}
}

// MulScalar computes dst = a * s.
func MulScalar(dst, a *Vec, s float32) {
	for i := range dst {
		dst[i] = a[i] * s
	}
}

// FMAddScalar computes dst += a * s.
func FMAddScalar(dst, a *Vec, s float32) {
	for i := range dst {
		dst[i] += a[i] * s
	}
}

// FNMAddScalar computes dst -= a * s.
func FNMAddScalar(dst, a *Vec, s float32) {
	for i := range dst {
		dst[i] -= a[i] * s
	}
}

// Permute computes dst[j] = a[idx[j]]. dst and a must not alias.
func Permute(dst, a *Vec, idx *Index) {
	for j := range dst {
		dst[j] = a[idx[j]&LaneMask]
	}
}

// Sum returns the horizontal sum of v accumulated in float64.
func Sum(v *Vec) float64 {
	var s float64
	for _, x := range v {
		s += float64(x)
	}
	return s
}

// IdentityIndex returns the permutation that leaves every lane in place.
func IdentityIndex() Index {
	var idx Index
	for j := range idx {
		idx[j] = uint8(j)
	}
	return idx
}
