package prom

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/qsimd"
	"github.com/hupe1980/qsimd/gate"
)

func TestCollectorRecords(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordGate("HL", 2, 1, time.Millisecond, nil)
	c.RecordGate("", 1, 0, time.Millisecond, errors.New("boom"))
	c.RecordExpectation("L", 1, time.Microsecond, nil)
	c.RecordStateAlloc(4, 128, nil)
	c.RecordStateAlloc(50, 0, errors.New("too big"))
	c.RecordSnapshot("save", 4096, time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.GateTotal.WithLabelValues("HL", "2", "true", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.GateTotal.WithLabelValues("invalid", "1", "false", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ExpectationTotal.WithLabelValues("L", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StateAllocTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.StateAllocTotal.WithLabelValues("error")))
	assert.Equal(t, 128.0, testutil.ToFloat64(c.StateAllocBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SnapshotTotal.WithLabelValues("save", "ok")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.SnapshotSizeBytes))
}

func TestCollectorDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	assert.Panics(t, func() { NewCollector(reg) })
}

func TestCollectorWithSimulator(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	sim := qsimd.New(qsimd.WithMetricsCollector(c))

	st, err := sim.NewState(5)
	require.NoError(t, err)
	defer st.Release()

	require.NoError(t, sim.ApplyGate([]int{0}, gate.H(), st))
	require.NoError(t, sim.ApplyGate([]int{4}, gate.X(), st))
	require.Error(t, sim.ApplyGate([]int{9}, gate.X(), st))

	_, err = sim.ExpectationValue([]int{0}, gate.Z(), st)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sim.SaveState(context.Background(), &buf, st))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.GateTotal.WithLabelValues("L", "1", "false", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.GateTotal.WithLabelValues("H", "1", "false", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.GateTotal.WithLabelValues("invalid", "1", "false", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ExpectationTotal.WithLabelValues("L", "ok")))
	assert.Equal(t, float64(st.Bytes()), testutil.ToFloat64(c.StateAllocBytes))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SnapshotTotal.WithLabelValues("save", "ok")))

	n, err := testutil.GatherAndCount(reg, "qsimd_gate_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
