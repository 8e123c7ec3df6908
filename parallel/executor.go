package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultMinParallelSize is the smallest range the Pool splits across workers.
const DefaultMinParallelSize = 1 << 10

// Executor runs index-parallel loops.
type Executor interface {
	// Run calls fn(i) once for each i in [0, size).
	Run(size uint64, fn func(i uint64))
	// RunReduce calls fn(i) once for each i in [0, size) and folds the
	// results with combine. It returns 0 for an empty range.
	RunReduce(size uint64, fn func(i uint64) complex128, combine func(a, b complex128) complex128) complex128
}

// AddComplex is the combine function for sums.
func AddComplex(a, b complex128) complex128 { return a + b }

// Sequential runs every item on the calling goroutine in ascending order.
type Sequential struct{}

var _ Executor = Sequential{}

// Run implements Executor.
func (Sequential) Run(size uint64, fn func(i uint64)) {
	for i := uint64(0); i < size; i++ {
		fn(i)
	}
}

// RunReduce implements Executor.
func (Sequential) RunReduce(size uint64, fn func(i uint64) complex128, combine func(a, b complex128) complex128) complex128 {
	var acc complex128
	for i := uint64(0); i < size; i++ {
		acc = combine(acc, fn(i))
	}
	return acc
}

// Pool splits the range into contiguous chunks and runs them on an errgroup
// with bounded concurrency. The zero value is not usable; use NewPool.
type Pool struct {
	threads int
	minSize uint64
}

var _ Executor = (*Pool)(nil)

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithMinParallelSize sets the range size below which the Pool runs
// sequentially.
func WithMinParallelSize(n uint64) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.minSize = n
		}
	}
}

// NewPool creates a Pool with the given worker count. threads <= 0 selects
// runtime.GOMAXPROCS(0).
func NewPool(threads int, opts ...PoolOption) *Pool {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		threads: threads,
		minSize: DefaultMinParallelSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Threads returns the worker count.
func (p *Pool) Threads() int { return p.threads }

// chunks returns the number of chunks for size items.
func (p *Pool) chunks(size uint64) uint64 {
	if p.threads <= 1 || size < p.minSize {
		return 1
	}
	n := uint64(p.threads)
	if n > size {
		n = size
	}
	return n
}

// bounds returns the half-open range of chunk c out of n.
func bounds(size, n, c uint64) (uint64, uint64) {
	q, r := size/n, size%n
	start := c*q + min(c, r)
	end := start + q
	if c < r {
		end++
	}
	return start, end
}

// Run implements Executor.
func (p *Pool) Run(size uint64, fn func(i uint64)) {
	n := p.chunks(size)
	if n <= 1 {
		Sequential{}.Run(size, fn)
		return
	}

	var g errgroup.Group
	g.SetLimit(p.threads)

	for c := uint64(0); c < n; c++ {
		start, end := bounds(size, n, c)
		g.Go(func() error {
			for i := start; i < end; i++ {
				fn(i)
			}
			return nil
		})
	}

	_ = g.Wait()
}

// RunReduce implements Executor. Partial results are folded in chunk order,
// so the result is deterministic for a fixed thread count.
func (p *Pool) RunReduce(size uint64, fn func(i uint64) complex128, combine func(a, b complex128) complex128) complex128 {
	n := p.chunks(size)
	if n <= 1 {
		return Sequential{}.RunReduce(size, fn, combine)
	}

	partials := make([]complex128, n)

	var g errgroup.Group
	g.SetLimit(p.threads)

	for c := uint64(0); c < n; c++ {
		start, end := bounds(size, n, c)
		g.Go(func() error {
			var acc complex128
			for i := start; i < end; i++ {
				acc = combine(acc, fn(i))
			}
			partials[c] = acc
			return nil
		})
	}

	_ = g.Wait()

	var acc complex128
	for _, v := range partials {
		acc = combine(acc, v)
	}
	return acc
}
