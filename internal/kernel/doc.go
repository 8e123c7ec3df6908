// Package kernel implements the gate application and expectation value
// kernels over the split real/imaginary amplitude layout.
//
// # Layout
//
// Amplitude a lives in block a>>4, lane a&15. A block is 32 floats: 16 real
// parts followed by 16 imaginary parts. Qubits below simd.LaneBits ("low")
// select lanes inside a register; qubits at or above it ("high") select
// registers at distinct offsets.
//
// # Kernels
//
// Every call is classified into a Shape (high/low target counts, high/low
// control counts) and resolved through a dispatch table to one of six kinds:
//
//	H   targets high, no controls          matrix scalars broadcast per FMA
//	L   some targets low, no controls      staged matrix + lane permutations
//	HH  targets high, controls high        OR'd control bits, broadcast scalars
//	HL  targets high, some controls low    staged matrix with identity lanes
//	LH  some targets low, controls high    OR'd control bits, staged matrix
//	LL  some targets low, some ctrls low   staged matrix with identity lanes
//
// A prepared Task exposes one work item per iterated loop value. Work items
// touch disjoint register blocks, so any executor may run them in any order.
package kernel
