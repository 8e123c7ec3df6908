package kernel

import (
	"github.com/hupe1980/qsimd/internal/bits"
	"github.com/hupe1980/qsimd/internal/simd"
)

// StagedLen returns the number of vectors a staged operator with h register
// bits and l lane bits occupies: one real and one imaginary vector for every
// (output register, input register) pair.
func StagedLen(h, l int) int {
	return 1 << uint(1+2*h+l)
}

// StageMatrix expands a 2^(h+l) square matrix for the L kernels.
//
// Output register i holds rows i*2^l + c, where c is the value of the low
// target bits of the lane. Input register j = m*2^l + o is register m
// permuted by pattern o, so its lane with low bits c holds column
// m*2^l + (c+o) mod 2^l. Vector pair s = 2*(i*gsize + j) carries those
// matrix entries lane by lane.
func StageMatrix(h, l int, qmaskl uint64, matrix []float32, w []simd.Vec) {
	gsize := 1 << uint(h+l)
	hsize := 1 << uint(h)
	lsize := 1 << uint(l)

	var lowBits [simd.Lanes]int
	for k := range lowBits {
		lowBits[k] = int(bits.Extract(uint64(k), qmaskl))
	}

	s := 0
	for i := 0; i < hsize; i++ {
		for j := 0; j < gsize; j++ {
			p0 := 2*i*lsize*gsize + 2*lsize*(j/lsize)
			re, im := &w[s], &w[s+1]

			for k := 0; k < simd.Lanes; k++ {
				c := lowBits[k]
				p := p0 + 2*(gsize*c+(j+c)%lsize)
				re[k] = matrix[p]
				im[k] = matrix[p+1]
			}

			s += 2
		}
	}
}

// StageControlledMatrixH expands a 2^h square matrix for targets that are all
// high while some controls are low. Lanes whose low control bits differ from
// cvalsl get identity entries, so the kernel leaves them unchanged.
func StageControlledMatrixH(h int, cvalsl, cmaskl uint64, matrix []float32, w []simd.Vec) {
	hsize := 1 << uint(h)

	s := 0
	for i := 0; i < hsize; i++ {
		for j := 0; j < hsize; j++ {
			p := 2 * (i*hsize + j)
			re, im := &w[s], &w[s+1]

			for k := 0; k < simd.Lanes; k++ {
				if uint64(k)&cmaskl == cvalsl {
					re[k] = matrix[p]
					im[k] = matrix[p+1]
				} else {
					re[k] = identity(i == j)
					im[k] = 0
				}
			}

			s += 2
		}
	}
}

// StageControlledMatrixL is StageMatrix with identity entries in the lanes
// whose low control bits differ from cvalsl.
func StageControlledMatrixL(h, l int, cvalsl, cmaskl, qmaskl uint64, matrix []float32, w []simd.Vec) {
	gsize := 1 << uint(h+l)
	hsize := 1 << uint(h)
	lsize := 1 << uint(l)

	var lowBits [simd.Lanes]int
	for k := range lowBits {
		lowBits[k] = int(bits.Extract(uint64(k), qmaskl))
	}

	s := 0
	for i := 0; i < hsize; i++ {
		for j := 0; j < gsize; j++ {
			p0 := 2*i*lsize*gsize + 2*lsize*(j/lsize)
			re, im := &w[s], &w[s+1]

			for k := 0; k < simd.Lanes; k++ {
				if uint64(k)&cmaskl == cvalsl {
					c := lowBits[k]
					p := p0 + 2*(gsize*c+(j+c)%lsize)
					re[k] = matrix[p]
					im[k] = matrix[p+1]
				} else {
					// Unpermuted input register of the same output register.
					re[k] = identity(j == i*lsize)
					im[k] = 0
				}
			}

			s += 2
		}
	}
}

func identity(diagonal bool) float32 {
	if diagonal {
		return 1
	}
	return 0
}
