// Package resource bounds the memory held by state vectors, the number of
// concurrent snapshot transfers, and snapshot IO throughput.
//
// A nil *Controller is valid and imposes no limits.
package resource
