// Package bits provides bit-scatter primitives for amplitude addressing.
//
// Deposit and Extract are software renditions of the BMI2 PDEP/PEXT
// instructions. A Depositor compiles a mask into contiguous runs once so that
// the per-index expansion inside the kernels costs one shift-and-mask per run
// instead of one branch per bit.
package bits
