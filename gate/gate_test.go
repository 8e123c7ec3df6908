package gate

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMatrixInDelta(t *testing.T, want, got []float32, delta float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "entry %d", i)
	}
}

func TestQubits(t *testing.T) {
	tests := []struct {
		length int
		k      int
		ok     bool
	}{
		{0, 0, false},
		{2, 0, true},
		{8, 1, true},
		{32, 2, true},
		{16, 0, false},
		{7, 0, false},
		{2 * 4096, 6, true},
	}
	for _, tc := range tests {
		k, ok := Qubits(make([]float32, tc.length))
		assert.Equal(t, tc.ok, ok, "length %d", tc.length)
		if tc.ok {
			assert.Equal(t, tc.k, k)
		}
	}
}

func TestStandardGatesAreUnitary(t *testing.T) {
	gates := map[string][]float32{
		"I": I(), "X": X(), "Y": Y(), "Z": Z(), "H": H(), "S": S(), "T": T(),
		"RX": RX(0.3), "RY": RY(1.1), "RZ": RZ(-0.7), "Phase": Phase(0.5),
		"CNOT": CNOT(), "CZ": CZ(), "SWAP": SWAP(),
	}
	for name, g := range gates {
		t.Run(name, func(t *testing.T) {
			k, ok := Qubits(g)
			require.True(t, ok)
			assertMatrixInDelta(t, Identity(k), Mul(Dagger(g), g), 1e-6)
		})
	}
}

func TestPauliRelations(t *testing.T) {
	// XY = iZ
	iz := FromComplex([]complex128{1i, 0, 0, -1i})
	assertMatrixInDelta(t, iz, Mul(X(), Y()), 1e-7)
	// HZH = X
	assertMatrixInDelta(t, X(), Mul(Mul(H(), Z()), H()), 1e-6)
	// S*S = Z, T*T = S
	assertMatrixInDelta(t, Z(), Mul(S(), S()), 1e-7)
	assertMatrixInDelta(t, S(), Mul(T(), T()), 1e-6)
	// RX(π) = -iX
	assertMatrixInDelta(t, FromComplex([]complex128{0, -1i, -1i, 0}), RX(math.Pi), 1e-6)
}

func TestKron(t *testing.T) {
	// X on the high qubit, I on the low qubit maps |00> to |10> (index 2).
	m := ToComplex(Kron(X(), I()))
	assert.Equal(t, complex128(1), m[2*4+0])
	assert.Equal(t, complex128(1), m[0*4+2])
	assert.Equal(t, complex128(1), m[1*4+3])
	assert.Equal(t, complex128(0), m[0*4+0])

	k, ok := Qubits(Kron(H(), CNOT()))
	require.True(t, ok)
	assert.Equal(t, 3, k)
}

func TestCNOTControlIsLowTarget(t *testing.T) {
	m := ToComplex(CNOT())
	// |b1 b0> = |01> (index 1) becomes |11> (index 3).
	assert.Equal(t, complex128(1), m[3*4+1])
	// |10> (index 2) is unchanged.
	assert.Equal(t, complex128(1), m[2*4+2])
}

func TestRandomUnitary(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for k := 1; k <= 4; k++ {
		u := RandomUnitary(rng, k)
		assertMatrixInDelta(t, Identity(k), Mul(Dagger(u), u), 1e-5)
	}
}

func TestDaggerPanicsOnBadSize(t *testing.T) {
	assert.Panics(t, func() { Dagger(make([]float32, 6)) })
}
