package qsimd

import (
	"context"
	"time"

	"github.com/hupe1980/qsimd/internal/kernel"
	"github.com/hupe1980/qsimd/internal/simd"
	"github.com/hupe1980/qsimd/parallel"
	"github.com/hupe1980/qsimd/resource"
)

const (
	// LaneWidth is the number of float32 lanes in one vector register.
	LaneWidth = simd.Lanes

	// MaxGateQubits is the largest number of target qubits of a gate.
	MaxGateQubits = kernel.MaxTargets

	// MaxQubits is the largest register NewState accepts.
	MaxQubits = 40

	// DefaultMaxLoadQubits is the largest register LoadState accepts unless
	// WithMaxLoadQubits raises it (2^30 amplitudes, 8 GiB).
	DefaultMaxLoadQubits = 30
)

// SIMDRegisterSize returns the number of float32 lanes the kernels process
// per register.
func SIMDRegisterSize() int {
	return LaneWidth
}

// Hardware describes the host vector unit. Kernels run the portable lane
// model on every host; Eligible reports whether a LaneWidth register maps
// onto one hardware register.
type Hardware struct {
	ISA             string
	NativeLanes     int
	RegistersPerVec int
	Eligible        bool
	Overridden      bool // QSIMD_SIMD selected the ISA
}

// DetectHardware returns the vector unit detected at startup.
func DetectHardware() Hardware {
	c := simd.Host()
	return Hardware{
		ISA:             c.ISA.String(),
		NativeLanes:     c.ISA.NativeLanes(),
		RegistersPerVec: c.RegistersPerVec(),
		Eligible:        c.Eligible(),
		Overridden:      c.Overridden,
	}
}

// ActiveISA returns the name of the selected instruction set.
func ActiveISA() string {
	return simd.ActiveISA().String()
}

// Simulator applies gates to states and evaluates expectation values.
// It is safe for concurrent use on different states.
type Simulator struct {
	exec    parallel.Executor
	logger  *Logger
	metrics MetricsCollector
	rc      *resource.Controller

	maxLoadQubits int
}

// New creates a Simulator.
func New(optFns ...Option) *Simulator {
	o := applyOptions(optFns)

	hw := DetectHardware()
	o.logger.Debug("simulator created",
		"isa", hw.ISA,
		"native_lanes", hw.NativeLanes,
		"registers_per_vec", hw.RegistersPerVec,
		"eligible", hw.Eligible,
	)

	return &Simulator{
		exec:    o.executor,
		logger:  o.logger,
		metrics: o.metricsCollector,
		rc:      o.resources,

		maxLoadQubits: o.maxLoadQubits,
	}
}

// Executor returns the executor kernels run on.
func (s *Simulator) Executor() parallel.Executor { return s.exec }

// Logger returns the simulator's logger.
func (s *Simulator) Logger() *Logger { return s.logger }

// Resources returns the resource controller, or nil.
func (s *Simulator) Resources() *resource.Controller { return s.rc }

// NewState allocates an n-qubit state initialized to |0...0>. The buffer is
// charged to the resource controller until Release.
func (s *Simulator) NewState(n int) (*State, error) {
	st, bytes, err := allocState(n, s.exec, s.rc)
	s.metrics.RecordStateAlloc(n, bytes, err)
	s.logger.LogAlloc(context.Background(), n, bytes, err)
	if err != nil {
		return nil, err
	}
	st.data[0] = 1
	return st, nil
}

// ApplyGate applies matrix to the targets of st. targets must be strictly
// increasing; matrix has 2*4^len(targets) floats.
func (s *Simulator) ApplyGate(targets []int, matrix []float32, st *State) error {
	return s.ApplyControlledGate(targets, nil, 0, matrix, st)
}

// ApplyControlledGate applies matrix to the targets of st on the amplitudes
// whose control qubits hold cvals; bit i of cvals belongs to controls[i].
// With no controls it behaves as ApplyGate.
func (s *Simulator) ApplyControlledGate(targets, controls []int, cvals uint64, matrix []float32, st *State) error {
	start := time.Now()
	kind, err := s.applyGate(targets, controls, cvals, matrix, st)
	elapsed := time.Since(start)

	s.metrics.RecordGate(kind, len(targets), len(controls), elapsed, err)
	s.logger.LogGate(context.Background(), kind, targets, controls, elapsed, err)
	return err
}

func (s *Simulator) applyGate(targets, controls []int, cvals uint64, matrix []float32, st *State) (string, error) {
	if err := validateState(st); err != nil {
		return "", err
	}
	if err := validateGate(st.numQubits, targets, controls, cvals, matrix); err != nil {
		return "", err
	}

	task, err := kernel.NewGate(st.numQubits, targets, controls, cvals, matrix, st.data)
	if err != nil {
		return "", translateError(err)
	}
	defer task.Release()

	task.Run(s.exec)
	return task.Kind().String(), nil
}

// ExpectationValue returns <st|M|st> for matrix M on the targets of st. The
// state is not modified.
func (s *Simulator) ExpectationValue(targets []int, matrix []float32, st *State) (complex128, error) {
	start := time.Now()
	kind, value, err := s.expectation(targets, matrix, st)
	elapsed := time.Since(start)

	s.metrics.RecordExpectation(kind, len(targets), elapsed, err)
	s.logger.LogExpectation(context.Background(), kind, targets, value, err)
	return value, err
}

func (s *Simulator) expectation(targets []int, matrix []float32, st *State) (string, complex128, error) {
	if err := validateState(st); err != nil {
		return "", 0, err
	}
	if err := validateTargets(st.numQubits, targets, matrix); err != nil {
		return "", 0, err
	}

	task, err := kernel.NewExpectation(st.numQubits, targets, matrix, st.data)
	if err != nil {
		return "", 0, translateError(err)
	}
	defer task.Release()

	value, err := task.Reduce(s.exec)
	if err != nil {
		return "", 0, translateError(err)
	}
	return task.Kind().String(), value, nil
}
