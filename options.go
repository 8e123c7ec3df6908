package qsimd

import (
	"log/slog"

	"github.com/hupe1980/qsimd/parallel"
	"github.com/hupe1980/qsimd/resource"
)

type options struct {
	executor         parallel.Executor
	threads          int
	minParallelSize  uint64
	metricsCollector MetricsCollector
	logger           *Logger
	resources        *resource.Controller
	maxLoadQubits    int
}

// Option configures a Simulator.
type Option func(*options)

// WithExecutor sets the executor that runs kernel work items. It takes
// precedence over WithThreads.
func WithExecutor(exec parallel.Executor) Option {
	return func(o *options) {
		o.executor = exec
	}
}

// WithThreads runs kernels on a parallel.Pool with the given worker count.
// threads <= 0 selects GOMAXPROCS; 1 runs sequentially.
func WithThreads(threads int) Option {
	return func(o *options) {
		o.threads = threads
	}
}

// WithMinParallelSize sets the loop size below which the pool runs on the
// calling goroutine. Ignored when WithExecutor is set.
func WithMinParallelSize(n uint64) Option {
	return func(o *options) {
		o.minParallelSize = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &qsimd.BasicMetricsCollector{}
//	sim := qsimd.New(qsimd.WithMetricsCollector(metrics))
//	// ... apply gates ...
//	stats := metrics.GetStats()
//	fmt.Printf("Gates: %d, Avg latency: %dns\n", stats.GateCount, stats.GateAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := qsimd.NewJSONLogger(slog.LevelDebug)
//	sim := qsimd.New(qsimd.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController bounds state memory and snapshot IO. A nil
// controller imposes no limits.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithMaxLoadQubits bounds the qubit count LoadState accepts from a snapshot
// header. Values outside [0, MaxQubits] are clamped.
func WithMaxLoadQubits(n int) Option {
	return func(o *options) {
		o.maxLoadQubits = min(max(n, 0), MaxQubits)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		threads:          1,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		maxLoadQubits:    DefaultMaxLoadQubits,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	if o.executor == nil {
		if o.threads == 1 {
			o.executor = parallel.Sequential{}
		} else {
			o.executor = parallel.NewPool(o.threads, parallel.WithMinParallelSize(o.minParallelSize))
		}
	}
	return o
}
