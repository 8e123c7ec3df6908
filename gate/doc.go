// Package gate builds operator matrices in the layout the simulator consumes.
//
// A k-qubit matrix is a []float32 of length 2*4^k: 2^k rows of 2^k complex
// entries, row-major, each entry stored as real then imaginary part. Bit t of
// a row or column index selects the t-th target qubit in ascending order, so
// the least significant bit belongs to the lowest target.
package gate
