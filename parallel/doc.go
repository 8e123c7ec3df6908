// Package parallel distributes the iterated index range of a kernel over
// workers.
//
// An Executor calls fn exactly once for every i in [0, size). Work items are
// independent, so any partition of the range is valid. RunReduce folds the
// per-item results with a caller-supplied associative combine function.
package parallel
