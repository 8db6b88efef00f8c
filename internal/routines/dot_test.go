package routines

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-ml/loom/internal/array"
	"github.com/loom-ml/loom/internal/backend/host"
)

// randArray fills a fresh contiguous array with deterministic noise.
func randArray[E interface{ ~float32 | ~float64 }](t *testing.T, rng *rand.Rand, shape array.Shape, dev array.Device) *array.Array {
	t.Helper()
	data := make([]E, shape.NumElements())
	for i := range data {
		data[i] = E(rng.NormFloat64())
	}
	a, err := array.FromSlice(data, shape, dev)
	require.NoError(t, err)
	return a
}

// refDot is the row-major reference product, reading both operands
// through their strides.
func refDot[E interface{ ~float32 | ~float64 }](a, b *array.Array) []E {
	m, k, n := a.Shape()[0], a.Shape()[1], b.Shape()[1]
	out := make([]E, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum E
			for p := 0; p < k; p++ {
				sum += array.At[E](a, i, p) * array.At[E](b, p, j)
			}
			out[i*n+j] = sum
		}
	}
	return out
}

func assertDotResult[E interface{ ~float32 | ~float64 }](t *testing.T, want []E, out *array.Array, tol float64) {
	t.Helper()
	m, n := out.Shape()[0], out.Shape()[1]
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			assert.InDelta(t, float64(want[i*n+j]), float64(array.At[E](out, i, j)), tol,
				"out[%d,%d]", i, j)
		}
	}
}

func TestDotFloat32(t *testing.T) {
	be := host.New()
	defer be.Release()
	rng := rand.New(rand.NewSource(7))

	a := randArray[float32](t, rng, array.Shape{3, 4}, be.Device())
	b := randArray[float32](t, rng, array.Shape{4, 5}, be.Device())
	out, err := be.Empty(array.Shape{3, 5}, array.Float32)
	require.NoError(t, err)

	require.NoError(t, Dot(be, a, b, out))
	require.NoError(t, be.Synchronize())

	assertDotResult(t, refDot[float32](a, b), out, 1e-4)
}

func TestDotFloat64(t *testing.T) {
	be := host.New()
	defer be.Release()
	rng := rand.New(rand.NewSource(8))

	a := randArray[float64](t, rng, array.Shape{5, 2}, be.Device())
	b := randArray[float64](t, rng, array.Shape{2, 7}, be.Device())
	out, err := be.Empty(array.Shape{5, 7}, array.Float64)
	require.NoError(t, err)

	require.NoError(t, Dot(be, a, b, out))
	require.NoError(t, be.Synchronize())

	assertDotResult(t, refDot[float64](a, b), out, 1e-12)
}

func TestDotTransposedOperands(t *testing.T) {
	be := host.New()
	defer be.Release()
	rng := rand.New(rand.NewSource(9))

	// Transposed views are Fortran contiguous: the configurator must
	// reuse them without copying.
	a := randArray[float64](t, rng, array.Shape{4, 3}, be.Device()).Transpose() // (3, 4)
	b := randArray[float64](t, rng, array.Shape{5, 4}, be.Device()).Transpose() // (4, 5)
	out, err := be.Empty(array.Shape{3, 5}, array.Float64)
	require.NoError(t, err)

	require.NoError(t, Dot(be, a, b, out))
	require.NoError(t, be.Synchronize())

	assertDotResult(t, refDot[float64](a, b), out, 1e-12)
}

func TestDotNonContiguousOperands(t *testing.T) {
	be := host.New()
	defer be.Release()
	rng := rand.New(rand.NewSource(10))

	// Narrowed column ranges are contiguous in neither order, forcing
	// the one-copy path for both operands.
	a := randArray[float32](t, rng, array.Shape{3, 6}, be.Device()).Narrow(1, 1, 4) // (3, 4)
	b := randArray[float32](t, rng, array.Shape{4, 8}, be.Device()).Narrow(1, 2, 5) // (4, 5)
	require.False(t, a.IsContiguous())
	require.False(t, b.IsContiguous())

	out, err := be.Empty(array.Shape{3, 5}, array.Float32)
	require.NoError(t, err)

	require.NoError(t, Dot(be, a, b, out))
	require.NoError(t, be.Synchronize())

	assertDotResult(t, refDot[float32](a, b), out, 1e-4)
}

func TestDotNonContiguousOutput(t *testing.T) {
	be := host.New()
	defer be.Release()
	rng := rand.New(rand.NewSource(11))

	a := randArray[float64](t, rng, array.Shape{3, 4}, be.Device())
	b := randArray[float64](t, rng, array.Shape{4, 5}, be.Device())

	contiguous, err := be.Empty(array.Shape{3, 5}, array.Float64)
	require.NoError(t, err)
	require.NoError(t, Dot(be, a, b, contiguous))

	// A transposed view of a (5, 3) allocation is a non-contiguous
	// (3, 5) destination: the product is staged through a scratch array
	// and copied back.
	base, err := be.Empty(array.Shape{5, 3}, array.Float64)
	require.NoError(t, err)
	strided := base.Transpose()
	require.False(t, strided.IsContiguous())
	require.NoError(t, Dot(be, a, b, strided))

	require.NoError(t, be.Synchronize())

	for i := 0; i < 3; i++ {
		for j := 0; j < 5; j++ {
			assert.Equal(t, array.At[float64](contiguous, i, j), array.At[float64](strided, i, j),
				"strided output diverges at [%d,%d]", i, j)
		}
	}
}

func TestDotDegenerate(t *testing.T) {
	be := host.New()
	defer be.Release()
	rng := rand.New(rand.NewSource(12))

	const k = 9
	a := randArray[float64](t, rng, array.Shape{1, k}, be.Device())
	b := randArray[float64](t, rng, array.Shape{k, 1}, be.Device())
	out, err := be.Empty(array.Shape{1, 1}, array.Float64)
	require.NoError(t, err)

	require.NoError(t, Dot(be, a, b, out))
	require.NoError(t, be.Synchronize())

	var want float64
	for p := 0; p < k; p++ {
		want += array.At[float64](a, 0, p) * array.At[float64](b, p, 0)
	}
	assert.InDelta(t, want, array.At[float64](out, 0, 0), 1e-12)
}

func TestDotDegenerateNonContiguousOperands(t *testing.T) {
	be := host.New()
	defer be.Release()
	rng := rand.New(rand.NewSource(13))

	const k = 4
	a := randArray[float32](t, rng, array.Shape{k, 1}, be.Device()).Transpose() // (1, k) view
	b := randArray[float32](t, rng, array.Shape{1, k}, be.Device()).Transpose() // (k, 1) view
	out, err := be.Empty(array.Shape{1, 1}, array.Float32)
	require.NoError(t, err)

	require.NoError(t, Dot(be, a, b, out))
	require.NoError(t, be.Synchronize())

	var want float32
	for p := 0; p < k; p++ {
		want += array.At[float32](a, 0, p) * array.At[float32](b, p, 0)
	}
	assert.InDelta(t, float64(want), float64(array.At[float32](out, 0, 0)), 1e-5)
}

func TestDotUnsupportedDtype(t *testing.T) {
	be := host.New()
	defer be.Release()

	a, err := array.Empty(array.Shape{2, 3}, array.Int32, be.Device())
	require.NoError(t, err)
	b, err := array.Empty(array.Shape{3, 2}, array.Int32, be.Device())
	require.NoError(t, err)
	out, err := be.Empty(array.Shape{2, 2}, array.Int32)
	require.NoError(t, err)

	err = Dot(be, a, b, out)
	require.ErrorIs(t, err, array.ErrNotImplemented)
	require.NoError(t, be.Synchronize(), "nothing may reach the backend for an unsupported dtype")
}

func TestDotIdempotent(t *testing.T) {
	be := host.New()
	defer be.Release()
	rng := rand.New(rand.NewSource(14))

	a := randArray[float32](t, rng, array.Shape{6, 7}, be.Device())
	b := randArray[float32](t, rng, array.Shape{7, 4}, be.Device())

	out1, err := be.Empty(array.Shape{6, 4}, array.Float32)
	require.NoError(t, err)
	require.NoError(t, Dot(be, a, b, out1))

	out2, err := be.Empty(array.Shape{6, 4}, array.Float32)
	require.NoError(t, err)
	require.NoError(t, Dot(be, a, b, out2))

	require.NoError(t, be.Synchronize())

	// Same inputs on the same device are bitwise reproducible.
	assert.Equal(t, out1.RawData()[:out1.TotalBytes()], out2.RawData()[:out2.TotalBytes()])
}

func TestDotPreconditionPanics(t *testing.T) {
	be := host.New()
	defer be.Release()

	a, _ := array.Empty(array.Shape{2, 3}, array.Float32, be.Device())
	b, _ := array.Empty(array.Shape{3, 2}, array.Float32, be.Device())
	bad, _ := array.Empty(array.Shape{4, 2}, array.Float32, be.Device())
	out, _ := array.Empty(array.Shape{2, 2}, array.Float32, be.Device())
	vec, _ := array.Empty(array.Shape{3}, array.Float32, be.Device())
	wrongOut, _ := array.Empty(array.Shape{3, 3}, array.Float32, be.Device())

	assert.Panics(t, func() { _ = Dot(be, a, bad, out) }, "inner dimension mismatch")
	assert.Panics(t, func() { _ = Dot(be, vec, b, out) }, "rank mismatch")
	assert.Panics(t, func() { _ = Dot(be, a, b, wrongOut) }, "output shape mismatch")

	other, _ := array.Empty(array.Shape{2, 2}, array.Float32, array.Device{Kind: array.WebGPU, Index: 0})
	assert.Panics(t, func() { _ = Dot(be, a, b, other) }, "cross-device operands")
}
