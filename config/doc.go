// Package config loads simulator settings from the environment.
//
// Variables use the QSIMD_ prefix:
//
//	QSIMD_THREADS                          worker count (0 = GOMAXPROCS, 1 = sequential)
//	QSIMD_MIN_PARALLEL_SIZE                loop size below which work stays on the caller
//	QSIMD_MEMORY_LIMIT_BYTES               state vector memory budget (0 = unlimited)
//	QSIMD_MAX_CONCURRENT_SNAPSHOTS         snapshot saves/loads in flight
//	QSIMD_SNAPSHOT_IO_LIMIT_BYTES_PER_SEC  snapshot IO throttle (0 = unlimited)
//	QSIMD_LOG_LEVEL                        debug, info, warn or error
//	QSIMD_LOG_FORMAT                       json or text
package config
