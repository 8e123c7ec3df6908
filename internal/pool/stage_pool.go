// Package pool provides object pools for allocation-free kernel dispatch.
// Uses sync.Pool for automatic reuse of staged operator buffers.
package pool

import (
	"sync"

	"github.com/hupe1980/qsimd/internal/simd"
)

const (
	// DefaultStageVecs is the initial capacity of a stage buffer. It covers
	// every uncontrolled kernel up to five targets.
	DefaultStageVecs = 1 << 12

	// MaxRetainedVecs bounds the buffers kept in the pool. Larger buffers
	// are dropped on Put instead of pinning memory.
	MaxRetainedVecs = 1 << 14
)

// StageBuffer holds an operator matrix expanded into broadcast-ready
// vectors for one kernel invocation.
type StageBuffer struct {
	Vecs []simd.Vec
}

// stagePool is the global pool of StageBuffer objects.
var stagePool = sync.Pool{
	New: func() interface{} {
		return &StageBuffer{
			Vecs: make([]simd.Vec, 0, DefaultStageVecs),
		}
	},
}

// Get retrieves a StageBuffer holding exactly n vectors.
// The contents are not cleared; stagers overwrite every slot they use.
func Get(n int) *StageBuffer {
	sb := stagePool.Get().(*StageBuffer)
	sb.EnsureLen(n)
	return sb
}

// Put returns a StageBuffer to the pool for reuse.
func Put(sb *StageBuffer) {
	if sb == nil {
		return
	}
	if cap(sb.Vecs) > MaxRetainedVecs {
		return
	}
	sb.Vecs = sb.Vecs[:0]
	stagePool.Put(sb)
}

// EnsureLen resizes the buffer to n vectors, growing the backing array if
// needed.
func (sb *StageBuffer) EnsureLen(n int) {
	if cap(sb.Vecs) < n {
		sb.Vecs = make([]simd.Vec, n, max(n, 2*cap(sb.Vecs)))
		return
	}
	sb.Vecs = sb.Vecs[:n]
}

// StageBufferStats returns statistics about a StageBuffer.
type StageBufferStats struct {
	Len   int
	Cap   int
	Bytes int
}

// Stats returns current statistics about this StageBuffer.
func (sb *StageBuffer) Stats() StageBufferStats {
	return StageBufferStats{
		Len:   len(sb.Vecs),
		Cap:   cap(sb.Vecs),
		Bytes: cap(sb.Vecs) * simd.Lanes * 4,
	}
}
