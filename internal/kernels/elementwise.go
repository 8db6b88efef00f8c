package kernels

import (
	"fmt"
	"unsafe"

	"github.com/loom-ml/loom/internal/array"
)

// Mul computes out = a * b element-wise. All three arrays must have the
// same shape and dtype; layouts are arbitrary. Supported for the numeric
// dtypes; Uint8 and Bool return ErrNotImplemented.
func Mul(a, b, out *array.Array) error {
	if !a.Shape().Equal(b.Shape()) || !a.Shape().Equal(out.Shape()) {
		return fmt.Errorf("mul: shape mismatch %v, %v, %v", a.Shape(), b.Shape(), out.Shape())
	}
	if a.Dtype() != b.Dtype() || a.Dtype() != out.Dtype() {
		return fmt.Errorf("mul: dtype mismatch %s, %s, %s", a.Dtype(), b.Dtype(), out.Dtype())
	}

	switch a.Dtype() {
	case array.Float32:
		mulTyped[float32](a, b, out)
	case array.Float64:
		mulTyped[float64](a, b, out)
	case array.Int32:
		mulTyped[int32](a, b, out)
	case array.Int64:
		mulTyped[int64](a, b, out)
	default:
		return fmt.Errorf("mul is not implemented for dtype %s: %w", a.Dtype(), array.ErrNotImplemented)
	}
	return nil
}

func mulTyped[E interface {
	~float32 | ~float64 | ~int32 | ~int64
}](a, b, out *array.Array) {
	aBytes := a.Buffer().Bytes()
	bBytes := b.Buffer().Bytes()
	outBytes := out.Buffer().Bytes()
	forEachOffset(a.Shape(), [][]int{a.Strides(), b.Strides(), out.Strides()},
		[]int{a.Offset(), b.Offset(), out.Offset()},
		func(off []int) {
			av := *(*E)(unsafe.Pointer(&aBytes[off[0]]))
			bv := *(*E)(unsafe.Pointer(&bBytes[off[1]]))
			*(*E)(unsafe.Pointer(&outBytes[off[2]])) = av * bv
		})
}
