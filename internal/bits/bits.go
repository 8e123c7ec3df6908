package bits

import "math/bits"

// Deposit scatters the low-order bits of x into the set positions of mask,
// lowest first. Bits of x beyond popcount(mask) are ignored.
func Deposit(x, mask uint64) uint64 {
	var r uint64
	for m := mask; m != 0 && x != 0; m &= m - 1 {
		if x&1 != 0 {
			r |= m & -m
		}
		x >>= 1
	}
	return r
}

// Extract gathers the bits of x selected by mask into the low-order bits of
// the result. It is the inverse of Deposit.
func Extract(x, mask uint64) uint64 {
	var r uint64
	k := uint(0)
	for m := mask; m != 0; m &= m - 1 {
		if x&(m&-m) != 0 {
			r |= 1 << k
		}
		k++
	}
	return r
}

// MaskedAdd adds b to the bits of a selected by mask, modulo size, and
// returns the sum deposited back into the mask positions. Bits of a outside
// mask are dropped.
func MaskedAdd(a, b, mask, size uint64) uint64 {
	c := Extract(a, mask)
	return Deposit((c+b)%size, mask)
}

// Count returns the number of set bits in mask.
func Count(mask uint64) int {
	return bits.OnesCount64(mask)
}

// Mask returns a mask with one bit set per position in qs.
func Mask(qs []int) uint64 {
	var m uint64
	for _, q := range qs {
		m |= uint64(1) << uint(q)
	}
	return m
}

type run struct {
	src   uint8
	dst   uint8
	width uint64
}

// Depositor is a mask compiled into runs of contiguous bits.
// The zero value deposits every x to 0.
type Depositor struct {
	runs [33]run
	n    int
	mask uint64
}

// NewDepositor compiles mask.
func NewDepositor(mask uint64) Depositor {
	d := Depositor{mask: mask}
	src := 0
	m := mask
	for m != 0 {
		dst := bits.TrailingZeros64(m)
		width := bits.TrailingZeros64(^(m >> uint(dst)))
		if width == 64 {
			width = 64 - dst
		}
		d.runs[d.n] = run{src: uint8(src), dst: uint8(dst), width: lowMask(width)}
		d.n++
		src += width
		if dst+width >= 64 {
			break
		}
		m &^= lowMask(width) << uint(dst)
	}
	return d
}

// Deposit is equivalent to Deposit(x, mask) for the compiled mask.
func (d *Depositor) Deposit(x uint64) uint64 {
	var r uint64
	for i := 0; i < d.n; i++ {
		rn := &d.runs[i]
		r |= ((x >> rn.src) & rn.width) << rn.dst
	}
	return r
}

// Mask returns the compiled mask.
func (d *Depositor) Mask() uint64 {
	return d.mask
}

// Runs returns the number of contiguous runs in the mask.
func (d *Depositor) Runs() int {
	return d.n
}

func lowMask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<uint(width) - 1
}
