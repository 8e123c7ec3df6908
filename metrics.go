package qsimd

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; package prom
// provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordGate is called after each gate application. kind is the kernel
	// kind ("H", "L", "HH", "HL", "LH", "LL"), empty if validation failed.
	RecordGate(kind string, targets, controls int, duration time.Duration, err error)

	// RecordExpectation is called after each expectation value evaluation.
	RecordExpectation(kind string, targets int, duration time.Duration, err error)

	// RecordStateAlloc is called after each state allocation attempt.
	// bytes is the amplitude buffer size.
	RecordStateAlloc(numQubits int, bytes int64, err error)

	// RecordSnapshot is called after each snapshot save or load. op is
	// "save" or "load", bytes the framed size on the wire.
	RecordSnapshot(op string, bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGate(string, int, int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordExpectation(string, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordStateAlloc(int, int64, error)                  {}
func (NoopMetricsCollector) RecordSnapshot(string, int64, time.Duration, error)  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	GateCount             atomic.Int64
	GateErrors            atomic.Int64
	GateTotalNanos        atomic.Int64
	ControlledGateCount   atomic.Int64
	ExpectationCount      atomic.Int64
	ExpectationErrors     atomic.Int64
	ExpectationTotalNanos atomic.Int64
	StateAllocCount       atomic.Int64
	StateAllocErrors      atomic.Int64
	StateAllocBytes       atomic.Int64
	SnapshotCount         atomic.Int64
	SnapshotErrors        atomic.Int64
	SnapshotBytes         atomic.Int64
}

// RecordGate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGate(kind string, targets, controls int, duration time.Duration, err error) {
	b.GateCount.Add(1)
	b.GateTotalNanos.Add(duration.Nanoseconds())
	if controls > 0 {
		b.ControlledGateCount.Add(1)
	}
	if err != nil {
		b.GateErrors.Add(1)
	}
}

// RecordExpectation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExpectation(kind string, targets int, duration time.Duration, err error) {
	b.ExpectationCount.Add(1)
	b.ExpectationTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ExpectationErrors.Add(1)
	}
}

// RecordStateAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStateAlloc(numQubits int, bytes int64, err error) {
	b.StateAllocCount.Add(1)
	if err != nil {
		b.StateAllocErrors.Add(1)
		return
	}
	b.StateAllocBytes.Add(bytes)
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(op string, bytes int64, duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
		return
	}
	b.SnapshotBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GateCount:           b.GateCount.Load(),
		GateErrors:          b.GateErrors.Load(),
		GateAvgNanos:        avg(b.GateTotalNanos.Load(), b.GateCount.Load()),
		ControlledGateCount: b.ControlledGateCount.Load(),
		ExpectationCount:    b.ExpectationCount.Load(),
		ExpectationErrors:   b.ExpectationErrors.Load(),
		ExpectationAvgNanos: avg(b.ExpectationTotalNanos.Load(), b.ExpectationCount.Load()),
		StateAllocCount:     b.StateAllocCount.Load(),
		StateAllocErrors:    b.StateAllocErrors.Load(),
		StateAllocBytes:     b.StateAllocBytes.Load(),
		SnapshotCount:       b.SnapshotCount.Load(),
		SnapshotErrors:      b.SnapshotErrors.Load(),
		SnapshotBytes:       b.SnapshotBytes.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	GateCount           int64
	GateErrors          int64
	GateAvgNanos        int64
	ControlledGateCount int64
	ExpectationCount    int64
	ExpectationErrors   int64
	ExpectationAvgNanos int64
	StateAllocCount     int64
	StateAllocErrors    int64
	StateAllocBytes     int64
	SnapshotCount       int64
	SnapshotErrors      int64
	SnapshotBytes       int64
}
