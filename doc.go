// Package qsimd is a lane-vectorized state-vector engine for quantum gates.
//
// A State holds the 2^n complex amplitudes of an n-qubit register as float32
// values in blocks of 16 real parts followed by 16 imaginary parts. Gates are
// dense 2^k×2^k complex matrices on k ∈ [1, 6] target qubits, optionally
// restricted to the amplitudes whose control qubits hold given values.
//
// # Quick Start
//
//	sim := qsimd.New(qsimd.WithThreads(8))
//	st, _ := sim.NewState(20)
//	defer st.Release()
//
//	_ = st.SetStateZero()
//	_ = sim.ApplyGate([]int{0}, gate.H(), st)
//	_ = sim.ApplyControlledGate([]int{1}, []int{0}, 1, gate.X(), st)
//
//	ez, _ := sim.ExpectationValue([]int{1}, gate.Z(), st)
//
// # Matrix Layout
//
// Matrices are row-major with real and imaginary parts interleaved. Bit t of a
// row or column index belongs to targets[t], and targets are ascending, so the
// least significant bit is the lowest target qubit. Bit i of the control
// value mask belongs to controls[i].
//
// # Concurrency
//
// A Simulator may be shared. Distinct states may be used concurrently; a
// single state must not be mutated from more than one goroutine at a time.
//
// # Key Features
//
//   - Dispatch over six kernel kinds by high/low target and control placement
//   - Pluggable parallel executor (sequential or errgroup pool)
//   - Memory budget and snapshot IO throttling via resource.Controller
//   - Compressed, checksummed state snapshots (LZ4/ZSTD)
//   - Structured logging (slog) and metrics hooks (Prometheus in package prom)
package qsimd
