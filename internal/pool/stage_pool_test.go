package pool

import (
	"sync"
	"testing"
)

func TestStageBuffer_Basic(t *testing.T) {
	sb := Get(8)
	defer Put(sb)

	if len(sb.Vecs) != 8 {
		t.Errorf("expected 8 vectors, got %d", len(sb.Vecs))
	}

	sb.Vecs[7][15] = 1
	if sb.Vecs[7][15] != 1 {
		t.Error("buffer should be writable")
	}
}

func TestStageBuffer_Grow(t *testing.T) {
	sb := Get(1)
	defer Put(sb)

	large := DefaultStageVecs * 2
	sb.EnsureLen(large)

	if len(sb.Vecs) != large {
		t.Errorf("expected len %d, got %d", large, len(sb.Vecs))
	}
	if sb.Stats().Cap < large {
		t.Errorf("capacity should be >= %d, got %d", large, sb.Stats().Cap)
	}

	sb.EnsureLen(4)
	if len(sb.Vecs) != 4 {
		t.Errorf("expected len 4 after shrink, got %d", len(sb.Vecs))
	}
}

func TestStageBuffer_Stats(t *testing.T) {
	sb := &StageBuffer{}
	sb.EnsureLen(10)

	stats := sb.Stats()
	if stats.Len != 10 {
		t.Errorf("expected len 10, got %d", stats.Len)
	}
	if stats.Bytes != stats.Cap*64 {
		t.Errorf("expected %d bytes, got %d", stats.Cap*64, stats.Bytes)
	}
}

func TestStageBuffer_PutOversized(t *testing.T) {
	sb := &StageBuffer{}
	sb.EnsureLen(MaxRetainedVecs + 1)

	// Must not panic and must not be retained with a huge backing array.
	Put(sb)
	Put(nil)

	got := Get(1)
	defer Put(got)
	if got.Stats().Cap > MaxRetainedVecs {
		t.Errorf("oversized buffer was retained: cap %d", got.Stats().Cap)
	}
}

func TestStageBuffer_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sb := Get(n + 1)
			for j := range sb.Vecs {
				sb.Vecs[j][0] = float32(n)
			}
			for j := range sb.Vecs {
				if sb.Vecs[j][0] != float32(n) {
					t.Errorf("buffer shared between goroutines")
				}
			}
			Put(sb)
		}(i)
	}
	wg.Wait()
}
