package kernel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/qsimd/gate"
	"github.com/hupe1980/qsimd/parallel"
	"github.com/hupe1980/qsimd/testutil"
)

const tol = 2e-5

type call struct {
	n     int
	qs    []int
	cqs   []int
	cvals uint64
}

func (c call) String() string {
	return fmt.Sprintf("n=%d/qs=%v/cqs=%v/cv=%b", c.n, c.qs, c.cqs, c.cvals)
}

// placements covers every kind with low, high and mixed target sets.
var placements = []call{
	{n: 1, qs: []int{0}},
	{n: 3, qs: []int{0, 2}},
	{n: 4, qs: []int{0, 1, 2, 3}},
	{n: 6, qs: []int{4}},
	{n: 7, qs: []int{4, 5, 6}},
	{n: 7, qs: []int{1}},
	{n: 8, qs: []int{0, 3, 5, 7}},
	{n: 10, qs: []int{0, 1, 2, 3, 4, 9}},
	{n: 10, qs: []int{4, 5, 6, 7, 8, 9}},
	{n: 9, qs: []int{5}, cqs: []int{8}, cvals: 1},
	{n: 9, qs: []int{4, 6}, cqs: []int{5, 7}, cvals: 0b01},
	{n: 8, qs: []int{6}, cqs: []int{2}, cvals: 1},
	{n: 8, qs: []int{4, 7}, cqs: []int{0, 3, 5}, cvals: 0b101},
	{n: 8, qs: []int{0}, cqs: []int{6}, cvals: 1},
	{n: 9, qs: []int{1, 2, 8}, cqs: []int{4, 5}, cvals: 0b10},
	{n: 6, qs: []int{2}, cqs: []int{0}, cvals: 1},
	{n: 3, qs: []int{0}, cqs: []int{1, 2}, cvals: 0b11},
	{n: 9, qs: []int{0, 5}, cqs: []int{3, 8}, cvals: 0},
	{n: 10, qs: []int{0, 1, 4, 5, 6, 7}, cqs: []int{2, 9}, cvals: 0b11},
}

func applyTask(t *testing.T, c call, matrix, st []float32, exec parallel.Executor) {
	t.Helper()
	task, err := NewGate(c.n, c.qs, c.cqs, c.cvals, matrix, st)
	require.NoError(t, err)
	defer task.Release()
	task.Run(exec)
}

func TestApplyMatchesReference(t *testing.T) {
	rng := testutil.NewRNG(42)

	for _, c := range placements {
		t.Run(c.String(), func(t *testing.T) {
			amps := rng.State(c.n)
			u := rng.Unitary(len(c.qs))
			st := testutil.Pack(amps)

			applyTask(t, c, u, st, parallel.Sequential{})
			testutil.ApplyGate(amps, c.qs, c.cqs, c.cvals, u)

			testutil.RequireStatesClose(t, amps, testutil.Unpack(st, c.n), tol)
		})
	}
}

func TestApplyRandomShapes(t *testing.T) {
	rng := testutil.NewRNG(7)
	pool := parallel.NewPool(4, parallel.WithMinParallelSize(1))

	for range 150 {
		n := 1 + rng.Intn(11)
		k := 1 + rng.Intn(min(n, MaxTargets))
		nc := rng.Intn(min(n-k, 3) + 1)
		qs, cqs := rng.Partition(n, k, nc)
		c := call{n: n, qs: qs, cqs: cqs, cvals: rng.Uint64() & (1<<uint(nc) - 1)}

		amps := rng.State(n)
		u := rng.Unitary(k)
		st := testutil.Pack(amps)

		applyTask(t, c, u, st, pool)
		testutil.ApplyGate(amps, c.qs, c.cqs, c.cvals, u)

		testutil.RequireStatesClose(t, amps, testutil.Unpack(st, n), tol)
	}
}

func TestIdentityIsExact(t *testing.T) {
	rng := testutil.NewRNG(3)

	for k := 1; k <= MaxTargets; k++ {
		for _, n := range []int{k, k + 2, k + 5} {
			for range 4 {
				nc := rng.Intn(min(n-k, 2) + 1)
				qs, cqs := rng.Partition(n, k, nc)
				c := call{n: n, qs: qs, cqs: cqs, cvals: rng.Uint64() & (1<<uint(nc) - 1)}

				st := testutil.Pack(rng.State(n))
				want := append([]float32(nil), st...)

				applyTask(t, c, gate.Identity(k), st, parallel.Sequential{})

				require.Equal(t, want, st, "%s", c)
			}
		}
	}
}

func TestRoundTripRestoresState(t *testing.T) {
	rng := testutil.NewRNG(5)

	for _, c := range placements {
		amps := rng.State(c.n)
		u := rng.Unitary(len(c.qs))
		st := testutil.Pack(amps)

		applyTask(t, c, u, st, parallel.Sequential{})
		applyTask(t, c, gate.Dagger(u), st, parallel.Sequential{})

		testutil.RequireStatesClose(t, amps, testutil.Unpack(st, c.n), 1e-5)
	}
}

func TestPauliXOnZeroState(t *testing.T) {
	for _, n := range []int{1, 3, 5, 9} {
		for q := 0; q < n; q++ {
			amps := make([]complex128, 1<<uint(n))
			amps[0] = 1
			st := testutil.Pack(amps)

			applyTask(t, call{n: n, qs: []int{q}}, gate.X(), st, parallel.Sequential{})

			got := testutil.Unpack(st, n)
			for a := range got {
				want := complex128(0)
				if a == 1<<uint(q) {
					want = 1
				}
				assert.Equal(t, want, got[a], "n=%d q=%d amplitude %d", n, q, a)
			}
		}
	}
}

func TestUnmatchedControlsLeaveStateUnchanged(t *testing.T) {
	rng := testutil.NewRNG(9)

	// Basis state |0...0>: any control requiring a 1 never fires.
	for _, c := range placements {
		if len(c.cqs) == 0 {
			continue
		}
		amps := make([]complex128, 1<<uint(c.n))
		amps[0] = 1
		st := testutil.Pack(amps)
		want := append([]float32(nil), st...)

		c.cvals = 1
		applyTask(t, c, rng.Unitary(len(c.qs)), st, parallel.Sequential{})

		assert.Equal(t, want, st, "%s", c)
	}
}

func TestPaddingLanesStayZero(t *testing.T) {
	rng := testutil.NewRNG(13)

	for n := 1; n < 4; n++ {
		for k := 1; k <= n; k++ {
			qs := rng.Qubits(n, k)
			st := testutil.Pack(rng.State(n))

			applyTask(t, call{n: n, qs: qs}, rng.Unitary(k), st, parallel.Sequential{})

			for lane := 1 << uint(n); lane < 16; lane++ {
				assert.Zero(t, st[lane], "real lane %d", lane)
				assert.Zero(t, st[lane+16], "imaginary lane %d", lane)
			}
		}
	}
}

func TestSplitRangeMatchesFullRange(t *testing.T) {
	rng := testutil.NewRNG(21)
	c := call{n: 12, qs: []int{1, 6, 9}, cqs: []int{2}, cvals: 1}

	amps := rng.State(c.n)
	u := rng.Unitary(len(c.qs))
	full := testutil.Pack(amps)
	split := testutil.Pack(amps)

	applyTask(t, c, u, full, parallel.Sequential{})

	task, err := NewGate(c.n, c.qs, c.cqs, c.cvals, u, split)
	require.NoError(t, err)
	defer task.Release()

	// Second half first, in descending order.
	size := task.Size()
	for i := size; i > size/2; i-- {
		task.Apply(i - 1)
	}
	for i := uint64(0); i < size/2; i++ {
		task.Apply(i)
	}

	assert.Equal(t, full, split)
}

func TestExpectationMatchesReference(t *testing.T) {
	rng := testutil.NewRNG(17)
	pool := parallel.NewPool(3, parallel.WithMinParallelSize(1))

	for _, c := range placements {
		if len(c.cqs) != 0 {
			continue
		}
		t.Run(c.String(), func(t *testing.T) {
			amps := rng.State(c.n)
			u := rng.Unitary(len(c.qs))
			st := testutil.Pack(amps)
			before := append([]float32(nil), st...)

			task, err := NewExpectation(c.n, c.qs, u, st)
			require.NoError(t, err)
			defer task.Release()

			got, err := task.Reduce(pool)
			require.NoError(t, err)

			want := testutil.Expectation(amps, c.qs, u)
			assert.InDelta(t, real(want), real(got), 1e-4)
			assert.InDelta(t, imag(want), imag(got), 1e-4)
			assert.Equal(t, before, st, "expectation mutated the state")
		})
	}
}

func TestExpectationOfIdentityIsNorm(t *testing.T) {
	rng := testutil.NewRNG(19)

	for k := 1; k <= MaxTargets; k++ {
		n := k + 3
		st := testutil.Pack(rng.State(n))

		task, err := NewExpectation(n, rng.Qubits(n, k), gate.Identity(k), st)
		require.NoError(t, err)

		got, err := task.Reduce(parallel.Sequential{})
		task.Release()
		require.NoError(t, err)
		assert.InDelta(t, 1.0, real(got), 1e-5)
		assert.InDelta(t, 0.0, imag(got), 1e-6)
	}
}

func TestExpectationOfPauliZ(t *testing.T) {
	// |0> -> +1 and |1> -> -1 on each qubit.
	for _, q := range []int{0, 3, 4, 6} {
		n := 7
		amps := make([]complex128, 1<<uint(n))
		amps[1<<uint(q)] = 1
		st := testutil.Pack(amps)

		task, err := NewExpectation(n, []int{q}, gate.Z(), st)
		require.NoError(t, err)
		got, err := task.Reduce(parallel.Sequential{})
		require.NoError(t, err)
		assert.Equal(t, complex(-1, 0), got, "qubit %d", q)
	}
}

func TestTooManyTargets(t *testing.T) {
	st := testutil.Pack(make([]complex128, 1<<8))

	_, err := NewGate(8, []int{0, 1, 2, 3, 4, 5, 6}, nil, 0, gate.Identity(7), st)
	require.ErrorIs(t, err, ErrNoKernel)

	_, err = NewExpectation(8, nil, nil, st)
	require.ErrorIs(t, err, ErrNoKernel)
}

func TestControlledReduceUnsupported(t *testing.T) {
	st := testutil.Pack(make([]complex128, 1<<6))

	task, err := NewGate(6, []int{4}, []int{0}, 1, gate.X(), st)
	require.NoError(t, err)
	defer task.Release()

	assert.Equal(t, KindHL, task.Kind())
	_, err = task.Reduce(parallel.Sequential{})
	require.ErrorIs(t, err, ErrNoKernel)
}

func BenchmarkApply(b *testing.B) {
	rng := testutil.NewRNG(1)
	const n = 16
	st := testutil.Pack(rng.State(n))

	cases := []call{
		{n: n, qs: []int{7}},
		{n: n, qs: []int{1}},
		{n: n, qs: []int{5, 10}},
		{n: n, qs: []int{0, 9}},
		{n: n, qs: []int{2, 6, 12}, cqs: []int{1, 14}, cvals: 0b11},
	}

	for _, c := range cases {
		u := rng.Unitary(len(c.qs))
		b.Run(c.String(), func(b *testing.B) {
			task, err := NewGate(c.n, c.qs, c.cqs, c.cvals, u, st)
			require.NoError(b, err)
			defer task.Release()
			b.ResetTimer()
			for b.Loop() {
				task.Run(parallel.Sequential{})
			}
		})
	}
}
