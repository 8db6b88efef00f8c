package kernels

import (
	"fmt"
	"unsafe"

	"github.com/loom-ml/loom/internal/array"
)

// SumInto reduces x over the given axes into out, whose shape must equal
// x's shape with the reduced axes removed. Accumulation happens in the
// element type itself. Supported for the numeric dtypes; Uint8 and Bool
// return ErrNotImplemented.
func SumInto(x *array.Array, axes []int, out *array.Array) error {
	reduced := make([]bool, x.NDim())
	for _, axis := range axes {
		if axis < 0 || axis >= x.NDim() {
			return fmt.Errorf("sum: axis %d out of range for %d dimensions", axis, x.NDim())
		}
		if reduced[axis] {
			return fmt.Errorf("sum: duplicate axis %d", axis)
		}
		reduced[axis] = true
	}

	kept := make(array.Shape, 0, x.NDim())
	for i, dim := range x.Shape() {
		if !reduced[i] {
			kept = append(kept, dim)
		}
	}
	if !out.Shape().Equal(kept) {
		return fmt.Errorf("sum: output shape %v does not match reduced shape %v", out.Shape(), kept)
	}
	if x.Dtype() != out.Dtype() {
		return fmt.Errorf("sum: dtype mismatch %s vs %s", x.Dtype(), out.Dtype())
	}

	// Per-axis byte strides of the destination, zero along reduced axes,
	// so one odometer walk drives both sides.
	outStrides := make([]int, x.NDim())
	j := 0
	for i := range outStrides {
		if reduced[i] {
			outStrides[i] = 0
		} else {
			outStrides[i] = out.Strides()[j]
			j++
		}
	}

	switch x.Dtype() {
	case array.Float32:
		sumTyped[float32](x, out, outStrides)
	case array.Float64:
		sumTyped[float64](x, out, outStrides)
	case array.Int32:
		sumTyped[int32](x, out, outStrides)
	case array.Int64:
		sumTyped[int64](x, out, outStrides)
	default:
		return fmt.Errorf("sum is not implemented for dtype %s: %w", x.Dtype(), array.ErrNotImplemented)
	}
	return nil
}

func sumTyped[E interface {
	~float32 | ~float64 | ~int32 | ~int64
}](x, out *array.Array, outStrides []int) {
	outBytes := out.Buffer().Bytes()

	// beta = 0 semantics: the destination is overwritten, not accumulated
	// into, so zero it first.
	forEachOffset(out.Shape(), [][]int{out.Strides()}, []int{out.Offset()},
		func(off []int) {
			*(*E)(unsafe.Pointer(&outBytes[off[0]])) = 0
		})

	xBytes := x.Buffer().Bytes()
	forEachOffset(x.Shape(), [][]int{x.Strides(), outStrides}, []int{x.Offset(), out.Offset()},
		func(off []int) {
			v := *(*E)(unsafe.Pointer(&xBytes[off[0]]))
			*(*E)(unsafe.Pointer(&outBytes[off[1]])) += v
		})
}
