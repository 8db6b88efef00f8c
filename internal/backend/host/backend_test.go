package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-ml/loom/internal/array"
)

func TestBackendIdentity(t *testing.T) {
	b := New()
	defer b.Release()

	assert.Equal(t, "host", b.Name())
	assert.Equal(t, array.Device{Kind: array.CPU, Index: 0}, b.Device())
	assert.NoError(t, b.Activate())
}

func TestStreamOrdering(t *testing.T) {
	s := newStream()
	defer s.Close()

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		s.Submit(func() error {
			got = append(got, i)
			return nil
		})
	}
	require.NoError(t, s.Synchronize())

	require.Len(t, got, 100)
	for i, v := range got {
		require.Equal(t, i, v, "stream executed out of order")
	}
}

func TestStreamErrorSkipsLaterWork(t *testing.T) {
	s := newStream()
	defer s.Close()

	boom := errors.New("boom")
	executed := false
	s.Submit(func() error { return boom })
	s.Submit(func() error {
		executed = true
		return nil
	})

	require.ErrorIs(t, s.Synchronize(), boom)
	assert.False(t, executed, "operation after a failed one must be skipped")
	// The error sticks across synchronizations.
	require.ErrorIs(t, s.Synchronize(), boom)
}

func TestBackendGemm(t *testing.T) {
	b := New()
	defer b.Release()

	// Column-major [[1 2] [3 4]] x [[5 6] [7 8]].
	a, err := array.FromSlice([]float32{1, 3, 2, 4}, array.Shape{2, 2}, b.Device())
	require.NoError(t, err)
	c, err := array.FromSlice([]float32{5, 7, 6, 8}, array.Shape{2, 2}, b.Device())
	require.NoError(t, err)
	out, err := b.Empty(array.Shape{2, 2}, array.Float32)
	require.NoError(t, err)

	require.NoError(t, b.Gemm(array.GemmParams{
		TransA: array.NoTrans, TransB: array.NoTrans,
		M: 2, N: 2, K: 2,
		A: a, LDA: 2, B: c, LDB: 2, C: out, LDC: 2,
	}))
	require.NoError(t, b.Synchronize())

	assert.Equal(t, []float32{19, 43, 22, 50}, out.AsFloat32()[:4])
}

func TestBackendGemmValidation(t *testing.T) {
	b := New()
	defer b.Release()

	a, _ := b.Empty(array.Shape{2, 2}, array.Float32)
	d, _ := b.Empty(array.Shape{2, 2}, array.Float64)
	unbound, _ := array.New(array.Shape{2, 2}, array.Float32, b.Device())

	var backendErr *array.BackendError

	err := b.Gemm(array.GemmParams{M: 0, N: 2, K: 2, A: a, LDA: 2, B: a, LDB: 2, C: a, LDC: 2})
	require.ErrorAs(t, err, &backendErr)

	err = b.Gemm(array.GemmParams{M: 2, N: 2, K: 2, A: a, LDA: 2, B: d, LDB: 2, C: a, LDC: 2})
	require.ErrorAs(t, err, &backendErr)

	err = b.Gemm(array.GemmParams{M: 2, N: 2, K: 2, A: unbound, LDA: 2, B: a, LDB: 2, C: a, LDC: 2})
	require.ErrorAs(t, err, &backendErr)

	err = b.Gemm(array.GemmParams{M: 2, N: 2, K: 2, A: a, LDA: 1, B: a, LDB: 2, C: a, LDC: 2})
	require.ErrorAs(t, err, &backendErr)
}

func TestBackendGemmUnsupportedDtype(t *testing.T) {
	b := New()
	defer b.Release()

	a, _ := b.Empty(array.Shape{2, 2}, array.Int32)
	err := b.Gemm(array.GemmParams{M: 2, N: 2, K: 2, A: a, LDA: 2, B: a, LDB: 2, C: a, LDC: 2})
	require.ErrorIs(t, err, array.ErrNotImplemented)
}

func TestBackendMulAndSum(t *testing.T) {
	b := New()
	defer b.Release()

	x, err := array.FromSlice([]float64{1, 2, 3}, array.Shape{3}, b.Device())
	require.NoError(t, err)
	y, err := array.FromSlice([]float64{4, 5, 6}, array.Shape{3}, b.Device())
	require.NoError(t, err)

	prod, err := b.Mul(x, y)
	require.NoError(t, err)

	scalar, err := b.Empty(array.Shape{}, array.Float64)
	require.NoError(t, err)
	require.NoError(t, b.SumInto(prod, []int{0}, scalar))
	require.NoError(t, b.Synchronize())

	assert.Equal(t, 4.0+10+18, array.At[float64](scalar))
}

func TestBackendDeferredErrorSurfacesOnSynchronize(t *testing.T) {
	b := New()
	defer b.Release()

	// Uint8 multiply passes submission checks and fails during execution.
	x, _ := b.Empty(array.Shape{2}, array.Uint8)
	_, err := b.Mul(x, x)
	require.NoError(t, err)
	require.ErrorIs(t, b.Synchronize(), array.ErrNotImplemented)
}
