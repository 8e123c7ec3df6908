package testutil

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	lanes    = 16
	laneBits = 4
)

// PackedLen returns the float32 length of the split layout for n qubits.
func PackedLen(n int) int {
	size := 1 << uint(n)
	if size < lanes {
		size = lanes
	}
	return 2 * size
}

// Offset returns the float32 offset of the real part of amplitude a in the
// split layout. The imaginary part follows 16 floats later.
func Offset(a uint64) uint64 {
	return 2*lanes*(a>>laneBits) + (a & (lanes - 1))
}

// Pack writes natural-order amplitudes into the split block layout used by
// the kernels.
func Pack(amps []complex128) []float32 {
	n := 0
	for 1<<uint(n) < len(amps) {
		n++
	}
	st := make([]float32, PackedLen(n))
	for a, c := range amps {
		p := Offset(uint64(a))
		st[p] = float32(real(c))
		st[p+lanes] = float32(imag(c))
	}
	return st
}

// Unpack reads the first 2^n amplitudes out of the split layout.
func Unpack(st []float32, n int) []complex128 {
	amps := make([]complex128, 1<<uint(n))
	for a := range amps {
		p := Offset(uint64(a))
		amps[a] = complex(float64(st[p]), float64(st[p+lanes]))
	}
	return amps
}

func deposit(x, mask uint64) uint64 {
	var out uint64
	for bit := uint64(1); mask != 0; bit <<= 1 {
		low := mask & -mask
		if x&bit != 0 {
			out |= low
		}
		mask &^= low
	}
	return out
}

func mask(qs []int) uint64 {
	var m uint64
	for _, q := range qs {
		m |= 1 << uint(q)
	}
	return m
}

// ApplyGate is a scalar complex128 reference: it applies the interleaved
// matrix to targets qs of amps wherever the controls cqs hold cvals.
func ApplyGate(amps []complex128, qs, cqs []int, cvals uint64, matrix []float32) {
	dim := 1 << uint(len(qs))
	qmask := mask(qs)
	cmask := mask(cqs)
	cv := deposit(cvals, cmask)

	in := make([]complex128, dim)
	for base := range amps {
		b := uint64(base)
		if b&qmask != 0 || b&cmask != cv {
			continue
		}
		for j := 0; j < dim; j++ {
			in[j] = amps[b|deposit(uint64(j), qmask)]
		}
		for r := 0; r < dim; r++ {
			var acc complex128
			for c := 0; c < dim; c++ {
				e := 2 * (r*dim + c)
				acc += complex(float64(matrix[e]), float64(matrix[e+1])) * in[c]
			}
			amps[b|deposit(uint64(r), qmask)] = acc
		}
	}
}

// Expectation returns <amps|M|amps> for the matrix on targets qs.
func Expectation(amps []complex128, qs []int, matrix []float32) complex128 {
	applied := make([]complex128, len(amps))
	copy(applied, amps)
	ApplyGate(applied, qs, nil, 0, matrix)

	var acc complex128
	for i := range amps {
		acc += cmplx.Conj(amps[i]) * applied[i]
	}
	return acc
}

// Norm returns the squared norm of amps.
func Norm(amps []complex128) float64 {
	var acc float64
	for _, c := range amps {
		acc += real(c)*real(c) + imag(c)*imag(c)
	}
	return acc
}

// RequireStatesClose fails the test unless every amplitude of got is within
// tol of want.
func RequireStatesClose(t testing.TB, want, got []complex128, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		d := cmplx.Abs(want[i] - got[i])
		if d > tol || math.IsNaN(d) {
			require.Failf(t, "amplitude mismatch", "index %d: want %v, got %v (|diff| %g > %g)", i, want[i], got[i], d, tol)
		}
	}
}
