package kernels

import (
	"fmt"

	"github.com/loom-ml/loom/internal/array"
)

// CopyStrided copies element-wise from src to dst. The shapes and dtypes
// must match; the layouts of both sides are arbitrary, including
// transposed and narrowed views. Logical element-wise assignment: the
// value at every multi-index of src lands at the same multi-index of
// dst.
func CopyStrided(src, dst *array.Array) error {
	if !src.Shape().Equal(dst.Shape()) {
		return fmt.Errorf("copy: shape mismatch %v vs %v", src.Shape(), dst.Shape())
	}
	if src.Dtype() != dst.Dtype() {
		return fmt.Errorf("copy: dtype mismatch %s vs %s", src.Dtype(), dst.Dtype())
	}
	if src.NumElements() == 0 {
		return nil
	}

	itemSize := src.ItemSize()
	if src.IsContiguous() && dst.IsContiguous() {
		n := src.NumElements() * itemSize
		copy(dst.RawData()[:n], src.RawData()[:n])
		return nil
	}

	srcBytes := src.Buffer().Bytes()
	dstBytes := dst.Buffer().Bytes()
	forEachOffset(src.Shape(), [][]int{src.Strides(), dst.Strides()}, []int{src.Offset(), dst.Offset()},
		func(off []int) {
			copy(dstBytes[off[1]:off[1]+itemSize], srcBytes[off[0]:off[0]+itemSize])
		})
	return nil
}

// forEachOffset walks every multi-index of shape in row-major order,
// maintaining one byte offset per stride set, and calls fn with the
// current offsets. The offsets slice passed to fn is reused between
// calls.
func forEachOffset(shape array.Shape, strides [][]int, offsets []int, fn func(off []int)) {
	if shape.NumElements() == 0 {
		return
	}
	ndim := len(shape)
	idx := make([]int, ndim)
	off := append([]int(nil), offsets...)

	for {
		fn(off)

		axis := ndim - 1
		for ; axis >= 0; axis-- {
			idx[axis]++
			for s := range strides {
				off[s] += strides[s][axis]
			}
			if idx[axis] < shape[axis] {
				break
			}
			idx[axis] = 0
			for s := range strides {
				off[s] -= strides[s][axis] * shape[axis]
			}
		}
		if axis < 0 {
			return
		}
	}
}
