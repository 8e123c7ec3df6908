//go:build amd64

package simd

import "golang.org/x/sys/cpu"

func init() {
	if cpu.X86.HasAVX2 && cpu.X86.HasFMA {
		features |= FeatureAVX2FMA
	}
	if cpu.X86.HasAVX512F {
		features |= FeatureAVX512F
	}
	if cpu.X86.HasAVX512BW {
		features |= FeatureAVX512BW
	}
	initCapabilities()
}
