package prom

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/qsimd"
)

const namespace = "qsimd"

var _ qsimd.MetricsCollector = (*Collector)(nil)

// Collector implements qsimd.MetricsCollector with Prometheus counters and
// histograms.
type Collector struct {
	GateTotal            *prometheus.CounterVec
	GateDurationSeconds  *prometheus.HistogramVec
	ExpectationTotal     *prometheus.CounterVec
	ExpectationSeconds   *prometheus.HistogramVec
	StateAllocTotal      *prometheus.CounterVec
	StateAllocBytes      prometheus.Counter
	SnapshotTotal        *prometheus.CounterVec
	SnapshotSizeBytes    *prometheus.HistogramVec
	SnapshotDurationSecs *prometheus.HistogramVec
}

// NewCollector registers the simulator metrics with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Collector{
		GateTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gate_total",
				Help:      "Total gate applications by kernel kind, target count and status",
			},
			[]string{"kind", "targets", "controlled", "status"},
		),
		// GateDurationSeconds measures a full sweep over the state vector
		GateDurationSeconds: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gate_duration_seconds",
				Help:      "Duration of gate applications",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
			[]string{"kind"},
		),
		ExpectationTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "expectation_total",
				Help:      "Total expectation value evaluations by kernel kind and status",
			},
			[]string{"kind", "status"},
		),
		ExpectationSeconds: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "expectation_duration_seconds",
				Help:      "Duration of expectation value evaluations",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
			[]string{"kind"},
		),
		StateAllocTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "state_alloc_total",
				Help:      "Total state vector allocations by status",
			},
			[]string{"status"},
		),
		StateAllocBytes: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "state_alloc_bytes_total",
				Help:      "Bytes allocated for state vectors",
			},
		),
		SnapshotTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_total",
				Help:      "Total snapshot saves and loads by status",
			},
			[]string{"op", "status"},
		),
		SnapshotSizeBytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "snapshot_size_bytes",
				Help:      "Framed snapshot size",
				Buckets:   prometheus.ExponentialBuckets(1024, 4, 12),
			},
			[]string{"op"},
		),
		SnapshotDurationSecs: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "snapshot_duration_seconds",
				Help:      "Duration of snapshot saves and loads",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func kindLabel(kind string) string {
	if kind == "" {
		return "invalid"
	}
	return kind
}

// RecordGate implements qsimd.MetricsCollector.
func (c *Collector) RecordGate(kind string, targets, controls int, duration time.Duration, err error) {
	kind = kindLabel(kind)
	c.GateTotal.WithLabelValues(kind, strconv.Itoa(targets), strconv.FormatBool(controls > 0), status(err)).Inc()
	if err == nil {
		c.GateDurationSeconds.WithLabelValues(kind).Observe(duration.Seconds())
	}
}

// RecordExpectation implements qsimd.MetricsCollector.
func (c *Collector) RecordExpectation(kind string, targets int, duration time.Duration, err error) {
	kind = kindLabel(kind)
	c.ExpectationTotal.WithLabelValues(kind, status(err)).Inc()
	if err == nil {
		c.ExpectationSeconds.WithLabelValues(kind).Observe(duration.Seconds())
	}
}

// RecordStateAlloc implements qsimd.MetricsCollector.
func (c *Collector) RecordStateAlloc(numQubits int, bytes int64, err error) {
	c.StateAllocTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		c.StateAllocBytes.Add(float64(bytes))
	}
}

// RecordSnapshot implements qsimd.MetricsCollector.
func (c *Collector) RecordSnapshot(op string, bytes int64, duration time.Duration, err error) {
	c.SnapshotTotal.WithLabelValues(op, status(err)).Inc()
	if err != nil {
		return
	}
	c.SnapshotSizeBytes.WithLabelValues(op).Observe(float64(bytes))
	c.SnapshotDurationSecs.WithLabelValues(op).Observe(duration.Seconds())
}
