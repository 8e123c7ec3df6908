// Package prom exports simulator metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	sim := qsimd.New(qsimd.WithMetricsCollector(prom.NewCollector(reg)))
package prom
