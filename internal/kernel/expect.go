package kernel

import "github.com/hupe1980/qsimd/internal/simd"

func expectHigh(t *Task, i uint64) complex128 {
	var rs, is [maxRegs]simd.Vec
	var rn, in simd.Vec

	hsize := 1 << uint(t.shape.High)
	p0 := t.imask.Deposit(i) | t.cvalsh

	gatherHigh(t.state, p0, t.offs[:hsize], rs[:hsize], is[:hsize])

	var re, im float64
	for k := 0; k < hsize; k++ {
		rowScalar(&rn, &in, rs[:hsize], is[:hsize], t.matrix[2*k*hsize:])
		dr, di := conjDot(&rs[k], &is[k], &rn, &in)
		re += dr
		im += di
	}

	return complex(re, im)
}

func expectLow(t *Task, i uint64) complex128 {
	var rs, is [maxRegs]simd.Vec
	var rn, in simd.Vec

	hsize := 1 << uint(t.shape.High)
	lsize := 1 << uint(t.shape.Low)
	gsize := hsize * lsize
	p0 := t.imask.Deposit(i) | t.cvalsh

	gatherLow(t.state, p0, t.offs[:hsize], &t.idx, lsize, rs[:gsize], is[:gsize])

	var re, im float64
	for k := 0; k < hsize; k++ {
		rowStaged(&rn, &in, rs[:gsize], is[:gsize], t.w[2*k*gsize:])

		// The unpermuted register holds the original amplitudes of the rows
		// produced in (rn, in).
		m := lsize * k
		dr, di := conjDot(&rs[m], &is[m], &rn, &in)
		re += dr
		im += di
	}

	return complex(re, im)
}

// conjDot returns the lane sum of conj(r + i*s) * (rn + i*in).
func conjDot(r, s, rn, in *simd.Vec) (float64, float64) {
	var vre, vim simd.Vec

	simd.Mul(&vre, r, rn)
	simd.FMAdd(&vre, s, in)

	simd.Mul(&vim, r, in)
	simd.FNMAdd(&vim, s, rn)

	return simd.Sum(&vre), simd.Sum(&vim)
}
