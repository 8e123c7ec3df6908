package simd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseISA(t *testing.T) {
	tests := []struct {
		in  string
		isa ISA
		ok  bool
	}{
		{"generic", Generic, true},
		{" AVX512 ", AVX512, true},
		{"avx2", AVX2, true},
		{"neon", NEON, true},
		{"sve2", SVE2, true},
		{"mmx", Generic, false},
		{"", Generic, false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			isa, ok := ParseISA(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.isa, isa)
		})
	}
}

func TestISAString(t *testing.T) {
	for _, isa := range []ISA{Generic, NEON, SVE2, AVX2, AVX512} {
		parsed, ok := ParseISA(isa.String())
		assert.True(t, ok)
		assert.Equal(t, isa, parsed)
	}
	assert.Equal(t, "unknown", ISA(200).String())
}

func TestNativeLanes(t *testing.T) {
	assert.Equal(t, Lanes, AVX512.NativeLanes())
	assert.Equal(t, 8, AVX2.NativeLanes())
	assert.Equal(t, 4, NEON.NativeLanes())
	assert.Equal(t, 1, Generic.NativeLanes())
}

func TestDetect(t *testing.T) {
	avx512 := FeatureAVX2FMA | FeatureAVX512F | FeatureAVX512BW

	tests := []struct {
		name       string
		goos       string
		goarch     string
		override   string
		features   Feature
		isa        ISA
		overridden bool
		eligible   bool
		regs       int
	}{
		{"amd64 avx512", "linux", "amd64", "", avx512, AVX512, false, true, 1},
		{"amd64 avx512f only", "linux", "amd64", "", FeatureAVX2FMA | FeatureAVX512F, AVX2, false, false, 2},
		{"amd64 bare", "linux", "amd64", "", 0, Generic, false, false, 16},
		{"amd64 override down", "linux", "amd64", "avx2", avx512, AVX2, true, false, 2},
		{"amd64 override unavailable", "linux", "amd64", "avx512", FeatureAVX2FMA, AVX2, true, false, 2},
		{"amd64 override garbage", "linux", "amd64", "mmx", avx512, AVX512, false, true, 1},
		{"arm64 linux sve2", "linux", "arm64", "", FeatureASIMD | FeatureSVE2, SVE2, false, false, 2},
		{"arm64 darwin", "darwin", "arm64", "", FeatureASIMD | FeatureSVE2, NEON, false, false, 4},
		{"other arch", "linux", "riscv64", "", 0, Generic, false, false, 16},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := detect(tc.goos, tc.goarch, tc.override, tc.features)
			assert.Equal(t, tc.isa, c.ISA)
			assert.Equal(t, tc.overridden, c.Overridden)
			assert.Equal(t, tc.eligible, c.Eligible())
			assert.Equal(t, tc.regs, c.RegistersPerVec())
		})
	}
}

func TestHost(t *testing.T) {
	c := Host()
	assert.True(t, c.Supports(c.ISA))
	assert.Equal(t, c.ISA, ActiveISA())
	assert.Equal(t, c.Supports(AVX512), HasAVX512())
	assert.Equal(t, 0, Lanes%c.RegistersPerVec())
}
