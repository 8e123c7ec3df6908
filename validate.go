package qsimd

import "fmt"

func validateState(st *State) error {
	if st == nil {
		return ErrNilState
	}
	if st.released.Load() {
		return ErrStateReleased
	}
	return nil
}

func validateQubitSet(n int, qs []int, role string) error {
	for i, q := range qs {
		if q < 0 || q >= n {
			return &QubitError{Index: q, NumQubits: n, Reason: role + " out of range"}
		}
		if i > 0 && q <= qs[i-1] {
			return &QubitError{Index: q, NumQubits: n, Reason: role + "s not strictly increasing"}
		}
	}
	return nil
}

func validateTargets(n int, targets []int, matrix []float32) error {
	if len(targets) == 0 {
		return &QubitError{Index: -1, NumQubits: n, Reason: "empty target set"}
	}
	if len(targets) > MaxGateQubits {
		return &UnsupportedArityError{Targets: len(targets), Max: MaxGateQubits}
	}
	if err := validateQubitSet(n, targets, "target"); err != nil {
		return err
	}

	// 2^k x 2^k complex entries, two floats each.
	if want := 2 << uint(2*len(targets)); len(matrix) != want {
		return &MatrixSizeError{Expected: want, Actual: len(matrix)}
	}
	return nil
}

func validateGate(n int, targets, controls []int, cvals uint64, matrix []float32) error {
	if err := validateTargets(n, targets, matrix); err != nil {
		return err
	}
	if err := validateQubitSet(n, controls, "control"); err != nil {
		return err
	}

	// Both sets are sorted: merge to find overlap.
	for i, j := 0, 0; i < len(targets) && j < len(controls); {
		switch {
		case targets[i] == controls[j]:
			return &QubitError{Index: targets[i], NumQubits: n, Reason: "qubit is both target and control"}
		case targets[i] < controls[j]:
			i++
		default:
			j++
		}
	}

	if len(controls) < 64 && cvals>>uint(len(controls)) != 0 {
		return fmt.Errorf("%w: %#x for %d controls", ErrInvalidControlValues, cvals, len(controls))
	}
	return nil
}
