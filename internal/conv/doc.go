// Package conv provides checked integer conversions and state-size
// arithmetic.
//
// Use cases:
//   - Validating untrusted snapshot headers (qubit counts, block sizes)
//   - Sizing amplitude buffers without overflowing int
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices bounded by a validated qubit count), use direct type casts instead.
package conv
