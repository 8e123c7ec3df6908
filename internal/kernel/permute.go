package kernel

import (
	"github.com/hupe1980/qsimd/internal/bits"
	"github.com/hupe1980/qsimd/internal/simd"
)

// Permutations holds up to 2^simd.LaneBits - 1 lane patterns.
type Permutations [simd.Lanes - 1]simd.Index

// BuildPermutations fills the first 2^l - 1 patterns for the low target
// mask qmaskl. Pattern i moves into lane j the lane whose low target bits are
// those of j incremented by i+1 modulo 2^l; the other lane bits are kept.
func BuildPermutations(qmaskl uint64, l int) Permutations {
	var idx Permutations
	lsize := uint64(1) << uint(l)

	for i := uint64(0); i+1 < lsize; i++ {
		for j := uint64(0); j < simd.Lanes; j++ {
			idx[i][j] = uint8(bits.MaskedAdd(j, i+1, qmaskl, lsize) | (j &^ qmaskl))
		}
	}

	return idx
}
