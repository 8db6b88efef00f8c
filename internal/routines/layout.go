// Package routines implements the device-dispatched linear-algebra
// operations over strided arrays. The routines are generic over the
// accelerator Backend: the same dispatch runs on the host stream and on
// a GPU queue.
package routines

import (
	"fmt"

	"github.com/loom-ml/loom/internal/array"
)

// gemmOperand is a rank-2 operand prepared for a Fortran-order GEMM
// call: a usable array (the original, or a fresh contiguous copy), its
// leading dimension in elements, and the transpose operator the backend
// must apply to read the operand's logical row-major values.
type gemmOperand struct {
	arr   *array.Array
	ld    int
	trans array.TransposeOp
}

// configureOperand makes the operand C or Fortran contiguous and derives
// the leading dimension and transposition accordingly.
//
// A Fortran-contiguous operand is reused as stored: column-major with
// leading dimension shape[0], read transposed so the backend sees its
// row-major values. Anything else is forced C contiguous — reused if it
// already is, otherwise materialized through exactly one copy — and read
// untransposed as a Fortran matrix of flipped rows and columns, with
// leading dimension shape[1]. Operands contiguous in both orders (any
// axis of extent 1) take the first case or the copy-free half of the
// second; a copy never happens for them.
//
// The operand's logical values are never mutated. The copy, when one is
// needed, is submitted to the backend's stream like every other
// operation.
func configureOperand(be array.Backend, a *array.Array) (gemmOperand, error) {
	if a.NDim() != 2 {
		panic(fmt.Sprintf("gemm operand must be 2-dimensional, got shape %v", a.Shape()))
	}

	strides := a.Strides()
	shape := a.Shape()

	if strides[0] == a.ItemSize() && strides[0]*shape[0] == strides[1] {
		// Fortran contiguous
		return gemmOperand{arr: a, ld: shape[0], trans: array.Trans}, nil
	}

	// Force C contiguous
	op := gemmOperand{ld: shape[1], trans: array.NoTrans}
	if a.IsContiguous() {
		op.arr = a
		return op, nil
	}
	cp, err := be.EmptyLike(a)
	if err != nil {
		return gemmOperand{}, err
	}
	if err := be.Copy(a, cp); err != nil {
		return gemmOperand{}, err
	}
	op.arr = cp
	return op, nil
}

// asContiguous returns the array itself if it is contiguous, otherwise a
// fresh contiguous copy on the backend's stream.
func asContiguous(be array.Backend, a *array.Array) (*array.Array, error) {
	if a.IsContiguous() {
		return a, nil
	}
	cp, err := be.EmptyLike(a)
	if err != nil {
		return nil, err
	}
	if err := be.Copy(a, cp); err != nil {
		return nil, err
	}
	return cp, nil
}
