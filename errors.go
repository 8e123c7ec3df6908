package qsimd

import (
	"errors"
	"fmt"

	"github.com/hupe1980/qsimd/internal/blockcodec"
	"github.com/hupe1980/qsimd/internal/kernel"
)

var (
	// ErrInvalidQubits is returned for malformed target or control sets.
	ErrInvalidQubits = errors.New("invalid qubits")

	// ErrUnsupported is returned when no kernel exists for a request.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrInvalidMatrix is returned when a matrix does not fit its targets.
	ErrInvalidMatrix = errors.New("invalid matrix")

	// ErrInvalidControlValues is returned when control value bits are set
	// at or above the number of controls.
	ErrInvalidControlValues = errors.New("control values exceed control qubits")

	// ErrNilState is returned when a nil state is passed.
	ErrNilState = errors.New("nil state")

	// ErrStateReleased is returned when a released state is used.
	ErrStateReleased = errors.New("state released")

	// ErrTooManyQubits is returned when a register exceeds MaxQubits.
	ErrTooManyQubits = errors.New("too many qubits")

	// ErrStateMismatch is returned when two states have different sizes.
	ErrStateMismatch = errors.New("state size mismatch")

	// ErrAmplitudeIndex is returned for an amplitude index outside the state.
	ErrAmplitudeIndex = errors.New("amplitude index out of range")

	// ErrZeroNorm is returned when normalizing the zero vector.
	ErrZeroNorm = errors.New("state has zero norm")

	// ErrCorruptSnapshot is returned for unreadable snapshot data.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// QubitError describes a rejected qubit index.
type QubitError struct {
	Index     int
	NumQubits int
	Reason    string
}

func (e *QubitError) Error() string {
	return fmt.Sprintf("invalid qubit %d for %d-qubit state: %s", e.Index, e.NumQubits, e.Reason)
}

func (e *QubitError) Unwrap() error { return ErrInvalidQubits }

// UnsupportedArityError is returned for gates with more targets than any
// kernel handles.
type UnsupportedArityError struct {
	Targets int
	Max     int
}

func (e *UnsupportedArityError) Error() string {
	return fmt.Sprintf("unsupported gate arity: %d targets (max %d)", e.Targets, e.Max)
}

func (e *UnsupportedArityError) Unwrap() error { return ErrUnsupported }

// MatrixSizeError indicates a matrix whose length does not match 2*4^k.
type MatrixSizeError struct {
	Expected int
	Actual   int
}

func (e *MatrixSizeError) Error() string {
	return fmt.Sprintf("matrix size mismatch: expected %d floats, got %d", e.Expected, e.Actual)
}

func (e *MatrixSizeError) Unwrap() error { return ErrInvalidMatrix }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, kernel.ErrNoKernel) {
		return fmt.Errorf("%w: %w", ErrUnsupported, err)
	}

	if errors.Is(err, blockcodec.ErrCorruptBlock) || errors.Is(err, blockcodec.ErrUnknownCompression) {
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	var cm *blockcodec.ChecksumMismatchError
	if errors.As(err, &cm) {
		return fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	return err
}
