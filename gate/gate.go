package gate

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
	"math/rand"
)

// Qubits returns the qubit count k of a matrix of length 2*4^k.
func Qubits(m []float32) (int, bool) {
	n := len(m) / 2
	if n == 0 || len(m)%2 != 0 || n&(n-1) != 0 {
		return 0, false
	}
	tz := bits.TrailingZeros(uint(n))
	if tz%2 != 0 {
		return 0, false
	}
	return tz / 2, true
}

func mustDim(m []float32) int {
	k, ok := Qubits(m)
	if !ok {
		panic(fmt.Sprintf("gate: length %d is not a square complex matrix", len(m)))
	}
	return 1 << uint(k)
}

// FromComplex converts a row-major complex matrix to the interleaved layout.
func FromComplex(m []complex128) []float32 {
	out := make([]float32, 2*len(m))
	for i, c := range m {
		out[2*i] = float32(real(c))
		out[2*i+1] = float32(imag(c))
	}
	return out
}

// ToComplex converts an interleaved matrix back to complex entries.
func ToComplex(m []float32) []complex128 {
	out := make([]complex128, len(m)/2)
	for i := range out {
		out[i] = complex(float64(m[2*i]), float64(m[2*i+1]))
	}
	return out
}

// Identity returns the identity on k qubits.
func Identity(k int) []float32 {
	dim := 1 << uint(k)
	out := make([]float32, 2*dim*dim)
	for i := 0; i < dim; i++ {
		out[2*(i*dim+i)] = 1
	}
	return out
}

// Dagger returns the conjugate transpose of m. It panics if m is not a square
// complex matrix.
func Dagger(m []float32) []float32 {
	dim := mustDim(m)
	out := make([]float32, len(m))
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			src := 2 * (c*dim + r)
			dst := 2 * (r*dim + c)
			out[dst] = m[src]
			out[dst+1] = -m[src+1]
		}
	}
	return out
}

// Mul returns the product a*b of two matrices of equal size.
func Mul(a, b []float32) []float32 {
	dim := mustDim(a)
	if len(b) != len(a) {
		panic(fmt.Sprintf("gate: size mismatch %d != %d", len(a), len(b)))
	}
	ca, cb := ToComplex(a), ToComplex(b)
	out := make([]complex128, dim*dim)
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			var acc complex128
			for j := 0; j < dim; j++ {
				acc += ca[r*dim+j] * cb[j*dim+c]
			}
			out[r*dim+c] = acc
		}
	}
	return FromComplex(out)
}

// Kron returns the tensor product hi⊗lo. The qubits of lo take the low bits
// of the result's index, so Kron(X(), H()) applied to targets {q0, q1}
// applies H to q0 and X to q1.
func Kron(hi, lo []float32) []float32 {
	dh, dl := mustDim(hi), mustDim(lo)
	dim := dh * dl
	ch, cl := ToComplex(hi), ToComplex(lo)
	out := make([]complex128, dim*dim)
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			out[r*dim+c] = ch[(r/dl)*dh+c/dl] * cl[(r%dl)*dl+c%dl]
		}
	}
	return FromComplex(out)
}

// I is the single-qubit identity.
func I() []float32 { return Identity(1) }

// X is the Pauli X (NOT) gate.
func X() []float32 {
	return []float32{0, 0, 1, 0, 1, 0, 0, 0}
}

// Y is the Pauli Y gate.
func Y() []float32 {
	return []float32{0, 0, 0, -1, 0, 1, 0, 0}
}

// Z is the Pauli Z gate.
func Z() []float32 {
	return []float32{1, 0, 0, 0, 0, 0, -1, 0}
}

// H is the Hadamard gate.
func H() []float32 {
	h := float32(1 / math.Sqrt2)
	return []float32{h, 0, h, 0, h, 0, -h, 0}
}

// S is the phase gate diag(1, i).
func S() []float32 {
	return []float32{1, 0, 0, 0, 0, 0, 0, 1}
}

// T is the π/8 gate diag(1, e^{iπ/4}).
func T() []float32 {
	return Phase(math.Pi / 4)
}

// Phase returns diag(1, e^{iθ}).
func Phase(theta float64) []float32 {
	return FromComplex([]complex128{1, 0, 0, cmplx.Exp(complex(0, theta))})
}

// RX returns the rotation exp(-iθX/2).
func RX(theta float64) []float32 {
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	return FromComplex([]complex128{c, js, js, c})
}

// RY returns the rotation exp(-iθY/2).
func RY(theta float64) []float32 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return FromComplex([]complex128{c, -s, s, c})
}

// RZ returns the rotation exp(-iθZ/2).
func RZ(theta float64) []float32 {
	phase := cmplx.Exp(complex(0, theta/2))
	return FromComplex([]complex128{cmplx.Conj(phase), 0, 0, phase})
}

// CNOT is the two-qubit controlled NOT. The lower target is the control and
// the higher target is flipped.
func CNOT() []float32 {
	m := make([]complex128, 16)
	m[0*4+0] = 1
	m[1*4+3] = 1
	m[2*4+2] = 1
	m[3*4+1] = 1
	return FromComplex(m)
}

// CZ is the two-qubit controlled Z.
func CZ() []float32 {
	return FromComplex([]complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, -1,
	})
}

// SWAP exchanges two qubits.
func SWAP() []float32 {
	return FromComplex([]complex128{
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 1, 0, 0,
		0, 0, 0, 1,
	})
}

// RandomUnitary returns a random k-qubit unitary: a complex Gaussian matrix
// orthonormalized column by column with modified Gram-Schmidt.
func RandomUnitary(rng *rand.Rand, k int) []float32 {
	dim := 1 << uint(k)
	cols := make([][]complex128, dim)
	for c := range cols {
		col := make([]complex128, dim)
		for {
			for r := range col {
				col[r] = complex(rng.NormFloat64(), rng.NormFloat64())
			}
			for _, prev := range cols[:c] {
				var dot complex128
				for r := range col {
					dot += cmplx.Conj(prev[r]) * col[r]
				}
				for r := range col {
					col[r] -= dot * prev[r]
				}
			}
			var norm float64
			for _, v := range col {
				norm += real(v)*real(v) + imag(v)*imag(v)
			}
			if norm > 1e-12 {
				inv := complex(1/math.Sqrt(norm), 0)
				for r := range col {
					col[r] *= inv
				}
				break
			}
		}
		cols[c] = col
	}

	m := make([]complex128, dim*dim)
	for r := 0; r < dim; r++ {
		for c := 0; c < dim; c++ {
			m[r*dim+c] = cols[c][r]
		}
	}
	return FromComplex(m)
}
