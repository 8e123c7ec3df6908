package kernel

import (
	"errors"
	"fmt"

	"github.com/hupe1980/qsimd/internal/bits"
	"github.com/hupe1980/qsimd/internal/pool"
	"github.com/hupe1980/qsimd/internal/simd"
	"github.com/hupe1980/qsimd/parallel"
)

const (
	// MaxTargets is the largest number of target qubits a kernel handles.
	MaxTargets = 6

	// maxRegs bounds the gathered registers of one work item.
	maxRegs = 1 << MaxTargets
)

var (
	// ErrNoKernel is returned when no kernel exists for a call shape.
	ErrNoKernel = errors.New("kernel: no kernel for shape")
)

// Kind identifies a kernel specialization.
type Kind uint8

const (
	KindH Kind = iota
	KindL
	KindHH
	KindHL
	KindLH
	KindLL
	numKinds
)

var kindNames = [numKinds]string{"H", "L", "HH", "HL", "LH", "LL"}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "unknown"
}

// Controlled reports whether the kind carries control qubits.
func (k Kind) Controlled() bool {
	return k >= KindHH && k < numKinds
}

type entry struct {
	stage  func(t *Task, m *Masks, matrix []float32)
	apply  func(t *Task, i uint64)
	expect func(t *Task, i uint64) complex128
}

// dispatch maps each kind to its staging step and per-item routines. The
// routines are parameterized by the task's (High, Low) counts.
var dispatch = [numKinds]entry{
	KindH:  {stage: stageScalar, apply: applyHigh, expect: expectHigh},
	KindL:  {stage: stageLow, apply: applyLow, expect: expectLow},
	KindHH: {stage: stageScalar, apply: applyHigh},
	KindHL: {stage: stageControlledHigh, apply: applyLow},
	KindLH: {stage: stageLow, apply: applyLow},
	KindLL: {stage: stageControlledLow, apply: applyLow},
}

// Task is a gate application or expectation value prepared for one state.
// Work item i touches only the registers derived from loop value i.
type Task struct {
	shape  Shape
	kind   Kind
	size   uint64
	imask  bits.Depositor
	cvalsh uint64
	offs   [maxRegs]uint64
	matrix []float32
	w      []simd.Vec
	idx    Permutations
	state  []float32
	buf    *pool.StageBuffer
	entry  *entry
}

// NewGate prepares the application of matrix to the targets qs of state,
// restricted to amplitudes whose control qubits cqs hold cvals.
//
// SAFETY: Assumes validated input: qs and cqs sorted, distinct, disjoint and
// below numQubits; len(matrix) == 2*4^len(qs); state sized for numQubits.
func NewGate(numQubits int, qs, cqs []int, cvals uint64, matrix, state []float32) (*Task, error) {
	return prepare(numQubits, qs, cqs, cvals, matrix, state)
}

// NewExpectation prepares the expectation value of matrix on the targets qs.
// The state is only read.
func NewExpectation(numQubits int, qs []int, matrix, state []float32) (*Task, error) {
	return prepare(numQubits, qs, nil, 0, matrix, state)
}

func prepare(numQubits int, qs, cqs []int, cvals uint64, matrix, state []float32) (*Task, error) {
	if len(qs) == 0 || len(qs) > MaxTargets {
		return nil, fmt.Errorf("%w: %d targets", ErrNoKernel, len(qs))
	}

	m := BuildMasks(numQubits, qs, cqs, cvals)
	shape := m.Shape()
	kind := shape.Kind()
	t := &Task{
		shape:  shape,
		kind:   kind,
		size:   m.Size,
		imask:  bits.NewDepositor(m.IMaskH),
		cvalsh: m.CValsH,
		state:  state,
		entry:  &dispatch[kind],
	}

	qd := bits.NewDepositor(m.QMaskH)
	for k := 0; k < 1<<uint(shape.High); k++ {
		t.offs[k] = qd.Deposit(uint64(k))
	}

	t.entry.stage(t, &m, matrix)
	return t, nil
}

func stageScalar(t *Task, _ *Masks, matrix []float32) {
	t.matrix = matrix
}

func stageLow(t *Task, m *Masks, matrix []float32) {
	h, l := t.shape.High, t.shape.Low
	t.idx = BuildPermutations(m.QMaskL, l)
	t.buf = pool.Get(StagedLen(h, l))
	t.w = t.buf.Vecs
	StageMatrix(h, l, m.QMaskL, matrix, t.w)
}

func stageControlledHigh(t *Task, m *Masks, matrix []float32) {
	h := t.shape.High
	t.buf = pool.Get(StagedLen(h, 0))
	t.w = t.buf.Vecs
	StageControlledMatrixH(h, m.CValsL, m.CMaskL, matrix, t.w)
}

func stageControlledLow(t *Task, m *Masks, matrix []float32) {
	h, l := t.shape.High, t.shape.Low
	t.idx = BuildPermutations(m.QMaskL, l)
	t.buf = pool.Get(StagedLen(h, l))
	t.w = t.buf.Vecs
	StageControlledMatrixL(h, l, m.CValsL, m.CMaskL, m.QMaskL, matrix, t.w)
}

// Shape returns the classification of the task.
func (t *Task) Shape() Shape { return t.shape }

// Kind returns the kernel kind the task dispatched to.
func (t *Task) Kind() Kind { return t.kind }

// Size returns the number of work items.
func (t *Task) Size() uint64 { return t.size }

// Apply runs work item i of a gate application.
func (t *Task) Apply(i uint64) {
	t.entry.apply(t, i)
}

// Expect runs work item i of an expectation value and returns its partial
// sum.
//
// SAFETY: Only valid for tasks built by NewExpectation.
func (t *Task) Expect(i uint64) complex128 {
	return t.entry.expect(t, i)
}

// Run applies the gate over the whole index range.
func (t *Task) Run(exec parallel.Executor) {
	exec.Run(t.size, t.Apply)
}

// Reduce evaluates the expectation value over the whole index range.
func (t *Task) Reduce(exec parallel.Executor) (complex128, error) {
	if t.entry.expect == nil {
		return 0, fmt.Errorf("%w: expectation for %s", ErrNoKernel, t.shape)
	}
	return exec.RunReduce(t.size, t.Expect, parallel.AddComplex), nil
}

// Release returns the staged operator buffer to the pool. The task must not
// be used afterwards.
func (t *Task) Release() {
	pool.Put(t.buf)
	t.buf = nil
	t.w = nil
}
