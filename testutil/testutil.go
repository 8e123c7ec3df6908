package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/qsimd/gate"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Qubits returns k distinct qubit indices below n in ascending order.
func (r *RNG) Qubits(n, k int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.qubitsLocked(n, k, nil)
}

// Partition returns k targets and c controls, distinct and each sorted,
// drawn from the qubits below n.
func (r *RNG) Partition(n, k, c int) ([]int, []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	qs := r.qubitsLocked(n, k, nil)
	cqs := r.qubitsLocked(n, c, qs)
	return qs, cqs
}

func (r *RNG) qubitsLocked(n, k int, exclude []int) []int {
	taken := make([]bool, n)
	for _, q := range exclude {
		taken[q] = true
	}
	picked := 0
	for picked < k {
		q := r.rand.Intn(n)
		if taken[q] {
			continue
		}
		taken[q] = true
		picked++
	}
	out := make([]int, 0, k)
	for q := 0; q < n; q++ {
		if taken[q] && !contains(exclude, q) {
			out = append(out, q)
		}
	}
	return out
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// State returns a random normalized state on n qubits in natural order.
func (r *RNG) State(n int) []complex128 {
	r.mu.Lock()
	defer r.mu.Unlock()

	amps := make([]complex128, 1<<uint(n))
	var norm float64
	for i := range amps {
		re, im := r.rand.NormFloat64(), r.rand.NormFloat64()
		amps[i] = complex(re, im)
		norm += re*re + im*im
	}

	inv := complex(1/math.Sqrt(norm), 0)
	for i := range amps {
		amps[i] *= inv
	}
	return amps
}

// Unitary returns a random k-qubit unitary in the interleaved matrix layout.
func (r *RNG) Unitary(k int) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return gate.RandomUnitary(r.rand, k)
}
