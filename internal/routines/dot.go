package routines

import (
	"fmt"

	"github.com/loom-ml/loom/internal/array"
)

// Dot computes the matrix product out = a x b on the given backend,
// where a is (m, k), b is (k, n) and out is (m, n). All three arrays
// must reside on the backend's device. Rank or shape mismatches are
// caller bugs and panic; an unsupported element type returns an error
// wrapping array.ErrNotImplemented before anything is submitted.
//
// The work is submitted to the backend's execution stream and may still
// be in flight when Dot returns; call Synchronize before reading out.
// On failure the contents of out are unspecified.
func Dot(be array.Backend, a, b, out *array.Array) error {
	array.CheckDevicesCompatible(a, b, out)
	if out.Device() != be.Device() {
		panic(fmt.Sprintf("arrays on %s cannot be used with the %s backend on %s", out.Device(), be.Name(), be.Device()))
	}
	if err := be.Activate(); err != nil {
		return err
	}

	if a.NDim() != 2 || b.NDim() != 2 || out.NDim() != 2 {
		panic(fmt.Sprintf("dot requires 2-dimensional arrays, got %dD x %dD -> %dD", a.NDim(), b.NDim(), out.NDim()))
	}

	m := a.Shape()[0]
	k := a.Shape()[1]
	n := b.Shape()[1]
	if b.Shape()[0] != k {
		panic(fmt.Sprintf("dot shape mismatch: %v x %v", a.Shape(), b.Shape()))
	}
	if out.Shape()[0] != m || out.Shape()[1] != n {
		panic(fmt.Sprintf("dot output shape %v does not match (%d, %d)", out.Shape(), m, n))
	}

	if m == 1 && n == 1 {
		// TODO(loom): replace with a dedicated reduction kernel.
		// A full GEMM call has fixed dispatch overhead that a one-element
		// result cannot amortize, so reduce the product directly.
		return dotDegenerate(be, a, b, out, k)
	}

	switch a.Dtype() {
	case array.Float32, array.Float64:
	default:
		return fmt.Errorf("dot is not implemented for dtype %s: %w", a.Dtype(), array.ErrNotImplemented)
	}

	isOutContiguous := out.IsContiguous()
	outContiguous := out
	if !isOutContiguous {
		var err error
		outContiguous, err = be.EmptyLike(out)
		if err != nil {
			return err
		}
	}

	aOp, err := configureOperand(be, a)
	if err != nil {
		return err
	}
	bOp, err := configureOperand(be, b)
	if err != nil {
		return err
	}

	// The backend uses Fortran order. To compute out = a x b, compute
	// out^T = b^T x a^T instead: b goes first with the output dimensions
	// swapped, and the contiguous output read column-major with leading
	// dimension n is exactly out^T.
	if err := be.Gemm(array.GemmParams{
		TransA: bOp.trans,
		TransB: aOp.trans,
		M:      n,
		N:      m,
		K:      k,
		A:      bOp.arr,
		LDA:    bOp.ld,
		B:      aOp.arr,
		LDB:    aOp.ld,
		C:      outContiguous,
		LDC:    n,
	}); err != nil {
		return err
	}

	if !isOutContiguous {
		return be.Copy(outContiguous, out)
	}
	return nil
}

// dotDegenerate handles the 1x1-output product: a scalar dot of two
// length-k vectors. The product is materialized element-wise and reduced
// directly into out, bypassing the GEMM path.
func dotDegenerate(be array.Backend, a, b, out *array.Array, k int) error {
	l, err := asContiguous(be, a)
	if err != nil {
		return err
	}
	r, err := asContiguous(be, b)
	if err != nil {
		return err
	}

	prod, err := be.Mul(l.Reshape(array.Shape{k}), r.Reshape(array.Shape{k}))
	if err != nil {
		return err
	}
	return be.SumInto(prod, []int{0}, out.Reshape(array.Shape{}))
}
