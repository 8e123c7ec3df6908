package kernel

import (
	"fmt"

	"github.com/hupe1980/qsimd/internal/bits"
	"github.com/hupe1980/qsimd/internal/simd"
)

// Masks partitions the address bits of one call into iterated, target and
// control bits.
//
// High masks are expressed in float-offset space: bit q of an amplitude index
// (q >= simd.LaneBits) is bit q+1 of the float offset of its block, because
// every block stores two planes. Low masks are expressed in lane space.
type Masks struct {
	IMaskH uint64 // iterated high bits, swept by the loop counter
	QMaskH uint64 // high target bits
	CMaskH uint64 // high control bits
	CValsH uint64 // required values of the high control bits
	QMaskL uint64 // low target bits
	CMaskL uint64 // low control bits
	CValsL uint64 // required values of the low control bits
	Size   uint64 // number of loop values
}

// BuildMasks derives the mask bundle for a gate on qs controlled by cqs.
// Bit i of cvals is the required value of cqs[i].
//
// SAFETY: Assumes qs and cqs are sorted, disjoint and below numQubits.
func BuildMasks(numQubits int, qs, cqs []int, cvals uint64) Masks {
	qmask := bits.Mask(qs)
	cmask := bits.Mask(cqs)
	cv := bits.Deposit(cvals, cmask)

	full := uint64(1)<<uint(numQubits) - 1
	imask := full &^ qmask &^ cmask &^ simd.LaneMask

	return Masks{
		IMaskH: imask << 1,
		QMaskH: (qmask &^ simd.LaneMask) << 1,
		CMaskH: (cmask &^ simd.LaneMask) << 1,
		CValsH: (cv &^ simd.LaneMask) << 1,
		QMaskL: qmask & simd.LaneMask,
		CMaskL: cmask & simd.LaneMask,
		CValsL: cv & simd.LaneMask,
		Size:   uint64(1) << uint(bits.Count(imask)),
	}
}

// Shape returns the high/low classification encoded in the masks.
func (m Masks) Shape() Shape {
	return Shape{
		High:     bits.Count(m.QMaskH),
		Low:      bits.Count(m.QMaskL),
		CtrlHigh: bits.Count(m.CMaskH),
		CtrlLow:  bits.Count(m.CMaskL),
	}
}

// Shape counts targets and controls on each side of the lane threshold.
type Shape struct {
	High     int
	Low      int
	CtrlHigh int
	CtrlLow  int
}

// Targets returns the total number of target qubits.
func (s Shape) Targets() int { return s.High + s.Low }

// Controls returns the total number of control qubits.
func (s Shape) Controls() int { return s.CtrlHigh + s.CtrlLow }

// Kind resolves the shape to its kernel kind.
func (s Shape) Kind() Kind {
	controlled := s.Controls() > 0
	switch {
	case !controlled && s.Low == 0:
		return KindH
	case !controlled:
		return KindL
	case s.Low == 0 && s.CtrlLow == 0:
		return KindHH
	case s.Low == 0:
		return KindHL
	case s.CtrlLow == 0:
		return KindLH
	default:
		return KindLL
	}
}

func (s Shape) String() string {
	return fmt.Sprintf("%s(h=%d,l=%d,ch=%d,cl=%d)", s.Kind(), s.High, s.Low, s.CtrlHigh, s.CtrlLow)
}

// Classify computes the shape of a gate on qs controlled by cqs.
func Classify(qs, cqs []int) Shape {
	var s Shape
	for _, q := range qs {
		if q < simd.LaneBits {
			s.Low++
		} else {
			s.High++
		}
	}
	for _, c := range cqs {
		if c < simd.LaneBits {
			s.CtrlLow++
		} else {
			s.CtrlHigh++
		}
	}
	return s
}
