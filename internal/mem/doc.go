// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// State vectors are allocated on 64-byte boundaries so every 16-lane
// register block starts on a cache line.
package mem
