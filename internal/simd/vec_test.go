package simd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(start float32) Vec {
	var v Vec
	for i := range v {
		v[i] = start + float32(i)
	}
	return v
}

func TestLoadStore(t *testing.T) {
	src := make([]float32, 2*Lanes)
	for i := range src {
		src[i] = float32(i)
	}

	var v Vec
	Load(&v, src[Lanes:])
	assert.Equal(t, seq(Lanes), v)

	dst := make([]float32, Lanes+3)
	Store(dst[3:], &v)
	assert.Equal(t, src[Lanes:], dst[3:])
	assert.Equal(t, []float32{0, 0, 0}, dst[:3])
}

func TestArithmetic(t *testing.T) {
	a := seq(1)
	b := seq(2)

	var d Vec
	Mul(&d, &a, &b)
	for i := range d {
		assert.Equal(t, a[i]*b[i], d[i])
	}

	FMAdd(&d, &a, &a)
	for i := range d {
		assert.Equal(t, a[i]*b[i]+a[i]*a[i], d[i])
	}

	FNMAdd(&d, &a, &b)
	for i := range d {
		assert.Equal(t, a[i]*a[i], d[i])
	}
}

func TestScalarArithmetic(t *testing.T) {
	a := seq(0)

	var d Vec
	MulScalar(&d, &a, 2)
	assert.Equal(t, float32(30), d[15])

	FMAddScalar(&d, &a, 1)
	assert.Equal(t, float32(45), d[15])

	FNMAddScalar(&d, &a, 3)
	assert.Equal(t, float32(0), d[15])

	var s Vec
	Set1(&s, 2.5)
	for _, x := range s {
		assert.Equal(t, float32(2.5), x)
	}
}

func TestPermute(t *testing.T) {
	a := seq(100)

	id := IdentityIndex()
	var d Vec
	Permute(&d, &a, &id)
	assert.Equal(t, a, d)

	var rev Index
	for j := range rev {
		rev[j] = uint8(Lanes - 1 - j)
	}
	Permute(&d, &a, &rev)
	for j := range d {
		assert.Equal(t, a[Lanes-1-j], d[j])
	}
}

func TestSum(t *testing.T) {
	a := seq(1)
	assert.Equal(t, float64(136), Sum(&a))

	var z Vec
	assert.Equal(t, float64(0), Sum(&z))
}

func BenchmarkFMAdd(b *testing.B) {
	x := seq(1)
	y := seq(2)
	var d Vec
	b.ResetTimer()
	for b.Loop() {
		FMAdd(&d, &x, &y)
	}
}
