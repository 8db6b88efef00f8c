// Package kernels provides the pure-Go reference kernels used by the
// host backend: a Fortran-order GEMM, a strided element-wise copy, an
// element-wise multiply, and an axis reduction.
package kernels

import (
	"github.com/loom-ml/loom/internal/array"
	"github.com/loom-ml/loom/internal/parallel"
)

// Float constrains GEMM element types to the supported floating-point
// kinds.
type Float interface {
	~float32 | ~float64
}

// gemmCfg splits GEMM column loops across cores. Distinct columns write
// disjoint slices of C, so the result is independent of scheduling.
var gemmCfg = parallel.DefaultConfig()

// Gemm computes C = op(A) x op(B) in Fortran (column-major) order, where
// op(A) is m x k, op(B) is k x n and C is m x n. Leading dimensions are
// in elements. Alpha and beta are fixed at 1 and 0: C is overwritten.
func Gemm[E Float](transA, transB array.TransposeOp, m, n, k int, a []E, lda int, b []E, ldb int, c []E, ldc int) {
	parallel.For(n, func(j int) {
		for i := 0; i < m; i++ {
			var sum E
			for p := 0; p < k; p++ {
				sum += at(transA, a, lda, i, p) * at(transB, b, ldb, p, j)
			}
			c[i+j*ldc] = sum
		}
	}, gemmCfg)
}

// GemmBlocked is Gemm with cache tiling. Worth it on cores with wide
// vector units where the naive loop is memory bound.
func GemmBlocked[E Float](transA, transB array.TransposeOp, m, n, k int, a []E, lda int, b []E, ldb int, c []E, ldc int) {
	const bs = 64

	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			c[i+j*ldc] = 0
		}
	}

	// Column blocks touch disjoint parts of C and can run concurrently;
	// the p and i blocking inside each stays sequential.
	blocks := (n + bs - 1) / bs
	parallel.For(blocks, func(bj int) {
		jj := bj * bs
		jMax := min(jj+bs, n)
		for pp := 0; pp < k; pp += bs {
			pMax := min(pp+bs, k)
			for ii := 0; ii < m; ii += bs {
				iMax := min(ii+bs, m)
				for j := jj; j < jMax; j++ {
					for p := pp; p < pMax; p++ {
						bv := at(transB, b, ldb, p, j)
						for i := ii; i < iMax; i++ {
							c[i+j*ldc] += at(transA, a, lda, i, p) * bv
						}
					}
				}
			}
		}
	}, gemmCfg.WithMinChunk(2))
}

// at reads element (i, j) of a column-major matrix with the given
// leading dimension, applying the transpose operator.
func at[E Float](trans array.TransposeOp, x []E, ld, i, j int) E {
	if trans == array.Trans {
		return x[j+i*ld]
	}
	return x[i+j*ld]
}
