package simd

import (
	"os"
	"runtime"
	"strings"
)

// ISA identifies the widest vector instruction set the host offers for
// float32 lane arithmetic.
type ISA uint8

const (
	Generic ISA = iota // no usable vector unit
	NEON               // ARM64 ASIMD, 4 lanes
	SVE2               // ARM64 SVE2, 8 lanes at the 256-bit minimum we assume
	AVX2               // x86-64 AVX2 with FMA, 8 lanes
	AVX512             // x86-64 AVX-512 F+BW, 16 lanes
)

var isaNames = [...]string{"generic", "neon", "sve2", "avx2", "avx512"}

func (i ISA) String() string {
	if int(i) < len(isaNames) {
		return isaNames[i]
	}
	return "unknown"
}

// NativeLanes returns the float32 lanes in one hardware register of the ISA.
func (i ISA) NativeLanes() int {
	switch i {
	case NEON:
		return 4
	case SVE2, AVX2:
		return 8
	case AVX512:
		return Lanes
	default:
		return 1
	}
}

// ParseISA parses an ISA name, ignoring case and surrounding space.
func ParseISA(s string) (ISA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range isaNames {
		if s == name {
			return ISA(i), true
		}
	}
	return Generic, false
}

// Feature is a CPU feature bit relevant to the lane kernels.
type Feature uint8

const (
	FeatureASIMD Feature = 1 << iota
	FeatureSVE2
	FeatureAVX2FMA
	FeatureAVX512F
	FeatureAVX512BW
)

// requires lists the features an ISA needs.
var requires = [...]Feature{
	Generic: 0,
	NEON:    FeatureASIMD,
	SVE2:    FeatureSVE2,
	AVX2:    FeatureAVX2FMA,
	AVX512:  FeatureAVX512F | FeatureAVX512BW,
}

// OverrideEnv names the environment variable that pins the reported ISA.
const OverrideEnv = "QSIMD_SIMD"

// Capabilities describes the host vector unit as seen by the kernels.
type Capabilities struct {
	ISA        ISA
	Features   Feature
	Overridden bool
}

// Has reports whether every bit of f is present.
func (c Capabilities) Has(f Feature) bool {
	return c.Features&f == f
}

// Supports reports whether the host offers isa.
func (c Capabilities) Supports(isa ISA) bool {
	return int(isa) < len(requires) && c.Has(requires[isa])
}

// RegistersPerVec returns how many hardware registers one Vec spans.
func (c Capabilities) RegistersPerVec() int {
	n := c.ISA.NativeLanes()
	if n >= Lanes {
		return 1
	}
	return Lanes / n
}

// Eligible reports whether one hardware register holds a whole Vec, the
// shape the 16-lane state layout is tuned for.
func (c Capabilities) Eligible() bool {
	return c.RegistersPerVec() == 1
}

// features is set by the per-arch init before detect runs.
var (
	features Feature
	host     Capabilities
)

func detect(goos, goarch, override string, f Feature) Capabilities {
	c := Capabilities{Features: f}
	if isa, ok := ParseISA(override); ok {
		c.Overridden = true
		if c.Supports(isa) {
			c.ISA = isa
			return c
		}
	}
	c.ISA = best(goos, goarch, c)
	return c
}

func best(goos, goarch string, c Capabilities) ISA {
	switch goarch {
	case "arm64":
		// Apple's SVE2 support is emulated, NEON wins there.
		if goos != "darwin" && c.Supports(SVE2) {
			return SVE2
		}
		if c.Supports(NEON) {
			return NEON
		}
	case "amd64":
		if c.Supports(AVX512) {
			return AVX512
		}
		if c.Supports(AVX2) {
			return AVX2
		}
	}
	return Generic
}

func initCapabilities() {
	host = detect(runtime.GOOS, runtime.GOARCH, os.Getenv(OverrideEnv), features)
}

// Host returns the capabilities detected at startup.
func Host() Capabilities {
	return host
}

// ActiveISA returns the selected ISA.
func ActiveISA() ISA {
	return host.ISA
}

// HasAVX512 reports whether AVX-512 F+BW is available.
func HasAVX512() bool {
	return host.Supports(AVX512)
}
