package array

// TransposeOp selects how a GEMM operand is read by the backend.
type TransposeOp int

// Transpose operators for GEMM operands.
const (
	// NoTrans reads the operand as stored, in Fortran (column-major)
	// order with its leading dimension.
	NoTrans TransposeOp = iota
	// Trans reads the transpose of the stored operand.
	Trans
)

// String returns a short name for the transpose operator.
func (t TransposeOp) String() string {
	if t == Trans {
		return "T"
	}
	return "N"
}

// GemmParams describes one general matrix-multiply call in the backend's
// Fortran (column-major) convention: C = op(A) x op(B), where op(A) is
// M x K, op(B) is K x N and C is M x N. Leading dimensions are measured
// in elements. The scaling factors are fixed at the identities (alpha =
// 1, beta = 0); no fused scaling is exposed at this layer.
type GemmParams struct {
	TransA  TransposeOp
	TransB  TransposeOp
	M, N, K int

	A   *Array
	LDA int
	B   *Array
	LDB int
	C   *Array
	LDC int
}

// Backend is the accelerator execution interface consumed by the
// linear-algebra routines. Implementations submit work to one ordered
// execution stream per device context: submission returns immediately
// and stream order serializes successive submissions without explicit
// waits. Synchronize drains the stream and surfaces the first deferred
// execution error.
//
// Backends provide no cross-call locking: callers must not concurrently
// mutate a buffer through one array view while a submitted operation
// reads or writes it through another.
type Backend interface {
	// Name returns the backend name.
	Name() string

	// Device returns the device this backend executes on.
	Device() Device

	// Activate makes the backend's device the active context for
	// subsequent submissions. It must be called before any submission.
	Activate() error

	// Empty allocates a fresh contiguous array on the backend's device.
	Empty(shape Shape, dtype Dtype) (*Array, error)

	// EmptyLike allocates a fresh contiguous array with the same shape
	// and dtype as the template.
	EmptyLike(t *Array) (*Array, error)

	// Copy submits an element-wise copy from src to dst. The shapes must
	// be equal; the layouts of both sides are arbitrary.
	Copy(src, dst *Array) error

	// Mul submits an element-wise multiply of two equal-shape arrays and
	// returns the freshly allocated result.
	Mul(a, b *Array) (*Array, error)

	// SumInto submits a reduction over the given axes of x into out,
	// whose shape must equal x's shape with the reduced axes removed.
	SumInto(x *Array, axes []int, out *Array) error

	// Gemm submits one Fortran-order general matrix multiply.
	Gemm(p GemmParams) error

	// Synchronize blocks until every submitted operation has executed
	// and returns the first deferred execution error, if any.
	Synchronize() error
}
