package kernel

import "github.com/hupe1980/qsimd/internal/simd"

// applyHigh handles kinds H and HH: all targets select whole registers, so
// each matrix entry is broadcast from the scalar matrix.
func applyHigh(t *Task, i uint64) {
	var rs, is [maxRegs]simd.Vec
	var rn, in simd.Vec

	hsize := 1 << uint(t.shape.High)
	st := t.state
	p0 := t.imask.Deposit(i) | t.cvalsh

	gatherHigh(st, p0, t.offs[:hsize], rs[:hsize], is[:hsize])

	for k := 0; k < hsize; k++ {
		rowScalar(&rn, &in, rs[:hsize], is[:hsize], t.matrix[2*k*hsize:])

		p := p0 + t.offs[k]
		simd.Store(st[p:], &rn)
		simd.Store(st[p+simd.Lanes:], &in)
	}
}

// applyLow handles kinds L, HL, LH and LL: low targets are gathered by lane
// permutation and every kind reads the staged operator.
func applyLow(t *Task, i uint64) {
	var rs, is [maxRegs]simd.Vec
	var rn, in simd.Vec

	hsize := 1 << uint(t.shape.High)
	lsize := 1 << uint(t.shape.Low)
	gsize := hsize * lsize
	st := t.state
	p0 := t.imask.Deposit(i) | t.cvalsh

	gatherLow(st, p0, t.offs[:hsize], &t.idx, lsize, rs[:gsize], is[:gsize])

	for k := 0; k < hsize; k++ {
		rowStaged(&rn, &in, rs[:gsize], is[:gsize], t.w[2*k*gsize:])

		p := p0 + t.offs[k]
		simd.Store(st[p:], &rn)
		simd.Store(st[p+simd.Lanes:], &in)
	}
}

func gatherHigh(st []float32, p0 uint64, offs []uint64, rs, is []simd.Vec) {
	for k, off := range offs {
		p := p0 + off
		simd.Load(&rs[k], st[p:])
		simd.Load(&is[k], st[p+simd.Lanes:])
	}
}

func gatherLow(st []float32, p0 uint64, offs []uint64, idx *Permutations, lsize int, rs, is []simd.Vec) {
	for k, off := range offs {
		k2 := lsize * k
		p := p0 + off

		simd.Load(&rs[k2], st[p:])
		simd.Load(&is[k2], st[p+simd.Lanes:])

		for l := 1; l < lsize; l++ {
			simd.Permute(&rs[k2+l], &rs[k2], &idx[l-1])
			simd.Permute(&is[k2+l], &is[k2], &idx[l-1])
		}
	}
}

// rowScalar computes one output register: (rn, in) = sum_l v[l] * (rs[l], is[l])
// with v interleaved real/imaginary scalars.
func rowScalar(rn, in *simd.Vec, rs, is []simd.Vec, v []float32) {
	ru, iu := v[0], v[1]
	simd.MulScalar(rn, &rs[0], ru)
	simd.MulScalar(in, &rs[0], iu)
	simd.FNMAddScalar(rn, &is[0], iu)
	simd.FMAddScalar(in, &is[0], ru)

	for l := 1; l < len(rs); l++ {
		ru, iu = v[2*l], v[2*l+1]
		simd.FMAddScalar(rn, &rs[l], ru)
		simd.FMAddScalar(in, &rs[l], iu)
		simd.FNMAddScalar(rn, &is[l], iu)
		simd.FMAddScalar(in, &is[l], ru)
	}
}

// rowStaged is rowScalar with per-lane matrix entries: w[2l] holds the real
// parts and w[2l+1] the imaginary parts for input register l.
func rowStaged(rn, in *simd.Vec, rs, is []simd.Vec, w []simd.Vec) {
	simd.Mul(rn, &rs[0], &w[0])
	simd.Mul(in, &rs[0], &w[1])
	simd.FNMAdd(rn, &is[0], &w[1])
	simd.FMAdd(in, &is[0], &w[0])

	for l := 1; l < len(rs); l++ {
		wr, wi := &w[2*l], &w[2*l+1]
		simd.FMAdd(rn, &rs[l], wr)
		simd.FMAdd(in, &rs[l], wi)
		simd.FNMAdd(rn, &is[l], wi)
		simd.FMAdd(in, &is[l], wr)
	}
}
