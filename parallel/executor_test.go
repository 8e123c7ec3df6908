package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executors() map[string]Executor {
	return map[string]Executor{
		"Sequential":    Sequential{},
		"Pool1":         NewPool(1),
		"Pool4":         NewPool(4, WithMinParallelSize(1)),
		"Pool7":         NewPool(7, WithMinParallelSize(1)),
		"PoolThreshold": NewPool(4, WithMinParallelSize(1<<20)),
	}
}

func TestRunVisitsEachIndexOnce(t *testing.T) {
	sizes := []uint64{0, 1, 3, 16, 1000, 4097}

	for name, exec := range executors() {
		t.Run(name, func(t *testing.T) {
			for _, size := range sizes {
				counts := make([]atomic.Int32, size)
				exec.Run(size, func(i uint64) {
					counts[i].Add(1)
				})
				for i := range counts {
					require.Equal(t, int32(1), counts[i].Load(), "size %d index %d", size, i)
				}
			}
		})
	}
}

func TestRunReduce(t *testing.T) {
	for name, exec := range executors() {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, complex128(0), exec.RunReduce(0, func(uint64) complex128 { return 1 }, AddComplex))

			const size = 5000
			got := exec.RunReduce(size, func(i uint64) complex128 {
				return complex(float64(i), 1)
			}, AddComplex)
			assert.Equal(t, complex(float64(size*(size-1)/2), size), got)
		})
	}
}

func TestBoundsPartition(t *testing.T) {
	for _, size := range []uint64{1, 7, 64, 1001} {
		for n := uint64(1); n <= min(size, 9); n++ {
			next := uint64(0)
			for c := uint64(0); c < n; c++ {
				start, end := bounds(size, n, c)
				assert.Equal(t, next, start)
				assert.LessOrEqual(t, end-start, size/n+1)
				next = end
			}
			assert.Equal(t, size, next)
		}
	}
}

func TestNewPoolDefaults(t *testing.T) {
	p := NewPool(0)
	assert.Positive(t, p.Threads())
	assert.Equal(t, uint64(DefaultMinParallelSize), p.minSize)
	assert.Equal(t, uint64(1), p.chunks(DefaultMinParallelSize-1))
}

func BenchmarkPoolRun(b *testing.B) {
	p := NewPool(0, WithMinParallelSize(1))
	var sink atomic.Uint64
	b.ResetTimer()
	for b.Loop() {
		p.Run(1<<16, func(i uint64) {
			if i == 0 {
				sink.Add(1)
			}
		})
	}
}
