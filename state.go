package qsimd

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/hupe1980/qsimd/internal/conv"
	"github.com/hupe1980/qsimd/internal/mem"
	"github.com/hupe1980/qsimd/internal/simd"
	"github.com/hupe1980/qsimd/parallel"
	"github.com/hupe1980/qsimd/resource"
)

// blockFloats is the float count of one register block.
const blockFloats = 2 * simd.Lanes

// State is the amplitude vector of an n-qubit register.
//
// Amplitude a is stored in block a>>4, lane a&15: its real part at float
// 32*(a>>4) + (a&15) and its imaginary part 16 floats later. Registers with
// fewer than 4 qubits occupy one block whose unused lanes stay zero.
type State struct {
	numQubits int
	data      []float32
	bytes     int64
	exec      parallel.Executor
	rc        *resource.Controller
	released  atomic.Bool
}

func allocState(n int, exec parallel.Executor, rc *resource.Controller) (*State, int64, error) {
	if n < 0 {
		return nil, 0, &QubitError{Index: n, NumQubits: n, Reason: "negative qubit count"}
	}
	if n > MaxQubits {
		return nil, 0, fmt.Errorf("%w: %d > %d", ErrTooManyQubits, n, MaxQubits)
	}

	floats, err := conv.StateFloats(n)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrTooManyQubits, err)
	}
	bytes := int64(floats) * 4

	if err := rc.AcquireMemory(bytes); err != nil {
		return nil, bytes, err
	}

	return &State{
		numQubits: n,
		data:      mem.AllocAlignedFloat32(floats),
		bytes:     bytes,
		exec:      exec,
		rc:        rc,
	}, bytes, nil
}

// offset returns the float offset of the real part of amplitude a.
func offset(a uint64) uint64 {
	return (a>>simd.LaneBits)*blockFloats + a&simd.LaneMask
}

// NumQubits returns the register size n.
func (st *State) NumQubits() int { return st.numQubits }

// Size returns the number of amplitudes, 2^n.
func (st *State) Size() uint64 { return 1 << uint(st.numQubits) }

// Bytes returns the size of the amplitude buffer.
func (st *State) Bytes() int64 { return st.bytes }

// Data exposes the raw split-layout buffer. It is nil after Release.
func (st *State) Data() []float32 { return st.data }

// Release returns the state's memory to the resource controller. It is
// idempotent; the state must not be used afterwards.
func (st *State) Release() {
	if st == nil || !st.released.CompareAndSwap(false, true) {
		return
	}
	st.rc.ReleaseMemory(st.bytes)
	st.data = nil
}

func (st *State) blocks() uint64 {
	return uint64(len(st.data) / blockFloats)
}

func (st *State) block(i uint64) []float32 {
	return st.data[i*blockFloats : (i+1)*blockFloats]
}

// SetAllZeros sets every amplitude to zero.
func (st *State) SetAllZeros() error {
	if err := validateState(st); err != nil {
		return err
	}
	st.exec.Run(st.blocks(), func(i uint64) {
		clear(st.block(i))
	})
	return nil
}

// SetStateZero sets the state to |0...0>.
func (st *State) SetStateZero() error {
	if err := st.SetAllZeros(); err != nil {
		return err
	}
	st.data[0] = 1
	return nil
}

// SetStateUniform sets every amplitude to 1/sqrt(2^n).
func (st *State) SetStateUniform() error {
	if err := validateState(st); err != nil {
		return err
	}
	size := st.Size()
	val := float32(1 / math.Sqrt(float64(size)))

	st.exec.Run(st.blocks(), func(i uint64) {
		b := st.block(i)
		clear(b)
		for lane := uint64(0); lane < simd.Lanes; lane++ {
			if i*simd.Lanes+lane < size {
				b[lane] = val
			}
		}
	})
	return nil
}

func (st *State) checkIndex(a uint64) error {
	if err := validateState(st); err != nil {
		return err
	}
	if a >= st.Size() {
		return fmt.Errorf("%w: %d >= %d", ErrAmplitudeIndex, a, st.Size())
	}
	return nil
}

// Amplitude returns amplitude a.
func (st *State) Amplitude(a uint64) (complex64, error) {
	if err := st.checkIndex(a); err != nil {
		return 0, err
	}
	p := offset(a)
	return complex(st.data[p], st.data[p+simd.Lanes]), nil
}

// SetAmplitude sets amplitude a to c.
func (st *State) SetAmplitude(a uint64, c complex64) error {
	if err := st.checkIndex(a); err != nil {
		return err
	}
	p := offset(a)
	st.data[p] = real(c)
	st.data[p+simd.Lanes] = imag(c)
	return nil
}

// Norm returns the squared norm sum |a|^2.
func (st *State) Norm() (float64, error) {
	if err := validateState(st); err != nil {
		return 0, err
	}
	sum := st.exec.RunReduce(st.blocks(), func(i uint64) complex128 {
		var acc float64
		for _, x := range st.block(i) {
			acc += float64(x) * float64(x)
		}
		return complex(acc, 0)
	}, parallel.AddComplex)
	return real(sum), nil
}

func (st *State) checkPair(other *State) error {
	if err := validateState(st); err != nil {
		return err
	}
	if err := validateState(other); err != nil {
		return err
	}
	if st.numQubits != other.numQubits {
		return fmt.Errorf("%w: %d vs %d qubits", ErrStateMismatch, st.numQubits, other.numQubits)
	}
	return nil
}

// InnerProduct returns <st|other> = sum conj(st[a]) * other[a].
func (st *State) InnerProduct(other *State) (complex128, error) {
	if err := st.checkPair(other); err != nil {
		return 0, err
	}
	return st.exec.RunReduce(st.blocks(), func(i uint64) complex128 {
		a, b := st.block(i), other.block(i)
		var re, im float64
		for lane := 0; lane < simd.Lanes; lane++ {
			ar, ai := float64(a[lane]), float64(a[lane+simd.Lanes])
			br, bi := float64(b[lane]), float64(b[lane+simd.Lanes])
			re += ar*br + ai*bi
			im += ar*bi - ai*br
		}
		return complex(re, im)
	}, parallel.AddComplex), nil
}

// RealInnerProduct returns the real part of <st|other>.
func (st *State) RealInnerProduct(other *State) (float64, error) {
	if err := st.checkPair(other); err != nil {
		return 0, err
	}
	sum := st.exec.RunReduce(st.blocks(), func(i uint64) complex128 {
		var re float64
		for k, x := range st.block(i) {
			re += float64(x) * float64(other.data[i*blockFloats+uint64(k)])
		}
		return complex(re, 0)
	}, parallel.AddComplex)
	return real(sum), nil
}

// CopyFrom copies the amplitudes of other into st.
func (st *State) CopyFrom(other *State) error {
	if err := st.checkPair(other); err != nil {
		return err
	}
	copy(st.data, other.data)
	return nil
}

// Clone returns a copy of st charged to the same resource controller.
func (st *State) Clone() (*State, error) {
	if err := validateState(st); err != nil {
		return nil, err
	}
	c, _, err := allocState(st.numQubits, st.exec, st.rc)
	if err != nil {
		return nil, err
	}
	copy(c.data, st.data)
	return c, nil
}

// Normalize scales st to unit norm.
func (st *State) Normalize() error {
	norm, err := st.Norm()
	if err != nil {
		return err
	}
	if norm == 0 {
		return ErrZeroNorm
	}
	scale := float32(1 / math.Sqrt(norm))
	st.exec.Run(st.blocks(), func(i uint64) {
		b := st.block(i)
		for k := range b {
			b[k] *= scale
		}
	})
	return nil
}
