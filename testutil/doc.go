// Package testutil provides testing utilities for qsimd.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded RNG for random states, unitaries and qubit sets, and a
// scalar complex128 reference simulator to check the kernels against.
//
// # Random Inputs
//
//	rng := testutil.NewRNG(seed)
//	amps := rng.State(10)
//	u := rng.Unitary(3)
//	qs, cqs := rng.Partition(10, 3, 2)
//
// # Reference
//
//	testutil.ApplyGate(amps, qs, cqs, cvals, u)
//	st := testutil.Pack(amps)
package testutil
