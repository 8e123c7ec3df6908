// Package simd models the vector registers the gate kernels operate on.
//
// A Vec holds 16 float32 lanes, the width of one AVX-512 register. The
// amplitude state is laid out in blocks of one real and one imaginary Vec, so
// a single aligned load fetches 16 amplitudes worth of one component.
//
// # Operations
//
//   - Memory: Load, Store, Set1
//   - Arithmetic: Mul, FMAdd, FNMAdd and their scalar-broadcast forms
//   - Shuffle: Permute (lane table lookup)
//   - Reduction: Sum
//
// # Platform detection
//
// Runtime CPU feature detection reports the widest ISA available
// (x86-64: AVX-512, AVX2; ARM64: NEON, SVE2). Set QSIMD_SIMD to pin the
// reported ISA, e.g. QSIMD_SIMD=generic.
package simd
