// Command qsimbench applies random k-qubit unitaries to an n-qubit state and
// reports gate throughput.
//
// Settings are read from QSIMD_* environment variables (optionally loaded
// from a .env file) and may be overridden by flags.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/qsimd"
	"github.com/hupe1980/qsimd/config"
	"github.com/hupe1980/qsimd/gate"
	"github.com/hupe1980/qsimd/prom"
)

var (
	envFile     = flag.String("env", ".env", "Environment file to load (ignored if missing)")
	numQubits   = flag.Int("qubits", 20, "Number of qubits in the state")
	gateQubits  = flag.Int("k", 2, "Target qubits per gate (1-6)")
	controls    = flag.Int("controls", 0, "Control qubits per gate")
	numGates    = flag.Int("gates", 100, "Number of gates to apply")
	seed        = flag.Int64("seed", 1, "Random seed")
	threads     = flag.Int("threads", -1, "Worker count (overrides QSIMD_THREADS when >= 0)")
	metricsAddr = flag.String("metrics", "", "Address to serve Prometheus metrics on (disabled if empty)")
	snapshot    = flag.String("snapshot", "", "Write the final state to this file")
	compression = flag.String("compression", "lz4", "Snapshot compression: none, lz4 or zstd")
)

func main() {
	flag.Parse()

	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "qsimbench:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", *envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *threads >= 0 {
		cfg.Threads = *threads
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	opts = append(opts, qsimd.WithMetricsCollector(prom.NewCollector(reg)))

	sim := qsimd.New(opts...)
	logger := sim.Logger()

	if *metricsAddr != "" {
		go serveMetrics(logger.Logger, reg, *metricsAddr)
	}

	b := bench{
		sim:      sim,
		rng:      rand.New(rand.NewSource(*seed)), //nolint:gosec // benchmark workload
		n:        *numQubits,
		k:        *gateQubits,
		controls: *controls,
	}
	if err := b.validate(); err != nil {
		return err
	}

	st, err := sim.NewState(b.n)
	if err != nil {
		return err
	}
	defer st.Release()

	fmt.Printf("Starting benchmark:\n")
	fmt.Printf("  Qubits:      %d\n", b.n)
	fmt.Printf("  Gate qubits: %d\n", b.k)
	fmt.Printf("  Controls:    %d\n", b.controls)
	fmt.Printf("  Gates:       %d\n", *numGates)
	fmt.Printf("  Threads:     %d\n", cfg.Threads)
	hw := qsimd.DetectHardware()
	fmt.Printf("  SIMD:        %d floats per Vec\n", qsimd.SIMDRegisterSize())
	fmt.Printf("  ISA:         %s (%d native lanes, %d registers per Vec, eligible: %v)\n",
		hw.ISA, hw.NativeLanes, hw.RegistersPerVec, hw.Eligible)

	elapsed, err := b.run(st, *numGates)
	if err != nil {
		return err
	}

	norm, err := st.Norm()
	if err != nil {
		return err
	}

	amps := float64(st.Size()) * float64(*numGates)
	fmt.Printf("\nResults:\n")
	fmt.Printf("  Elapsed:     %s\n", elapsed)
	fmt.Printf("  Per gate:    %s\n", elapsed/time.Duration(max(*numGates, 1)))
	fmt.Printf("  Throughput:  %.2f Mamp/s\n", amps/elapsed.Seconds()/1e6)
	fmt.Printf("  Final norm:  %.6f\n", norm)

	if *snapshot != "" {
		if err := writeSnapshot(ctx, sim, st, *snapshot, *compression); err != nil {
			return err
		}
		fmt.Printf("  Snapshot:    %s\n", *snapshot)
	}
	return nil
}

func serveMetrics(logger *slog.Logger, reg *prometheus.Registry, addr string) {
	logger.Info("Starting metrics server", "address", addr)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Failed to start metrics server", "error", err)
	}
}

func writeSnapshot(ctx context.Context, sim *qsimd.Simulator, st *qsimd.State, path, name string) (err error) {
	c, err := qsimd.ParseCompression(name)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return sim.SaveState(ctx, f, st, qsimd.WithCompression(c))
}

type bench struct {
	sim      *qsimd.Simulator
	rng      *rand.Rand
	n        int
	k        int
	controls int
}

func (b *bench) validate() error {
	if b.k < 1 || b.k > qsimd.MaxGateQubits {
		return fmt.Errorf("k must be in [1, %d], got %d", qsimd.MaxGateQubits, b.k)
	}
	if b.controls < 0 || b.k+b.controls > b.n {
		return fmt.Errorf("k + controls must not exceed qubits (%d + %d > %d)", b.k, b.controls, b.n)
	}
	return nil
}

// pick returns sorted targets and controls drawn without overlap.
func (b *bench) pick() (targets, controls []int) {
	perm := b.rng.Perm(b.n)
	targets = sortedCopy(perm[:b.k])
	controls = sortedCopy(perm[b.k : b.k+b.controls])
	return targets, controls
}

func (b *bench) run(st *qsimd.State, gates int) (time.Duration, error) {
	matrices := make([][]float32, 8)
	for i := range matrices {
		matrices[i] = gate.RandomUnitary(b.rng, b.k)
	}

	var total time.Duration
	for i := range gates {
		targets, controls := b.pick()
		cvals := b.rng.Uint64() & (1<<uint(len(controls)) - 1)

		t0 := time.Now()
		if err := b.sim.ApplyControlledGate(targets, controls, cvals, matrices[i%len(matrices)], st); err != nil {
			return total, fmt.Errorf("gate %d: %w", i, err)
		}
		total += time.Since(t0)
	}
	return total, nil
}

func sortedCopy(s []int) []int {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}
