// Package host implements the CPU accelerator backend. It executes the
// same Fortran-order GEMM contract as the device backends, on an ordered
// asynchronous execution stream, which makes it a drop-in stand-in for a
// real accelerator in tests and on machines without one.
package host

import (
	"fmt"

	"golang.org/x/sys/cpu"

	"github.com/loom-ml/loom/internal/array"
	"github.com/loom-ml/loom/internal/kernels"
)

// Verify that Backend implements array.Backend.
var _ array.Backend = (*Backend)(nil)

// Backend executes kernels on the host CPU through one ordered stream.
type Backend struct {
	device array.Device
	stream *stream

	// blocked selects the cache-tiled GEMM kernel. Decided once at
	// construction from CPU features.
	blocked bool
}

// New creates a host backend for CPU device index 0.
func New() *Backend {
	return NewWithIndex(0)
}

// NewWithIndex creates a host backend bound to the given CPU device
// index. Each backend owns its own execution stream.
func NewWithIndex(index int) *Backend {
	return &Backend{
		device:  array.Device{Kind: array.CPU, Index: index},
		stream:  newStream(),
		blocked: cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD,
	}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "host"
}

// Device returns the CPU device this backend executes on.
func (b *Backend) Device() array.Device {
	return b.device
}

// Activate makes this device the active context. The host context is
// always live, so this never fails.
func (b *Backend) Activate() error {
	return nil
}

// Empty allocates a fresh contiguous array on this backend's device.
func (b *Backend) Empty(shape array.Shape, dtype array.Dtype) (*array.Array, error) {
	return array.Empty(shape, dtype, b.device)
}

// EmptyLike allocates a fresh contiguous array with the same shape and
// dtype as the template.
func (b *Backend) EmptyLike(t *array.Array) (*array.Array, error) {
	return array.Empty(t.Shape(), t.Dtype(), b.device)
}

// Copy submits an element-wise copy from src to dst.
func (b *Backend) Copy(src, dst *array.Array) error {
	if !src.Shape().Equal(dst.Shape()) {
		return &array.BackendError{Op: "copy", Details: fmt.Sprintf("shape mismatch %v vs %v", src.Shape(), dst.Shape())}
	}
	b.stream.Submit(func() error {
		return kernels.CopyStrided(src, dst)
	})
	return nil
}

// Mul submits an element-wise multiply and returns the freshly allocated
// result array. The result is valid to read after Synchronize.
func (b *Backend) Mul(a, c *array.Array) (*array.Array, error) {
	if !a.Shape().Equal(c.Shape()) {
		return nil, &array.BackendError{Op: "mul", Details: fmt.Sprintf("shape mismatch %v vs %v", a.Shape(), c.Shape())}
	}
	out, err := b.EmptyLike(a)
	if err != nil {
		return nil, err
	}
	b.stream.Submit(func() error {
		return kernels.Mul(a, c, out)
	})
	return out, nil
}

// SumInto submits a reduction of x over the given axes into out.
func (b *Backend) SumInto(x *array.Array, axes []int, out *array.Array) error {
	b.stream.Submit(func() error {
		return kernels.SumInto(x, axes, out)
	})
	return nil
}

// Gemm submits one Fortran-order general matrix multiply. Parameter
// problems are reported synchronously; execution happens in stream
// order.
func (b *Backend) Gemm(p array.GemmParams) error {
	if err := validateGemm(p); err != nil {
		return err
	}

	switch p.A.Dtype() {
	case array.Float32:
		b.stream.Submit(func() error {
			kern := kernels.Gemm[float32]
			if b.blocked {
				kern = kernels.GemmBlocked[float32]
			}
			kern(p.TransA, p.TransB, p.M, p.N, p.K,
				p.A.AsFloat32(), p.LDA, p.B.AsFloat32(), p.LDB, p.C.AsFloat32(), p.LDC)
			return nil
		})
	case array.Float64:
		b.stream.Submit(func() error {
			kern := kernels.Gemm[float64]
			if b.blocked {
				kern = kernels.GemmBlocked[float64]
			}
			kern(p.TransA, p.TransB, p.M, p.N, p.K,
				p.A.AsFloat64(), p.LDA, p.B.AsFloat64(), p.LDB, p.C.AsFloat64(), p.LDC)
			return nil
		})
	default:
		return fmt.Errorf("gemm is not implemented for dtype %s on host: %w", p.A.Dtype(), array.ErrNotImplemented)
	}
	return nil
}

// Synchronize drains the stream and returns the first deferred
// execution error.
func (b *Backend) Synchronize() error {
	return b.stream.Synchronize()
}

// Release stops the backend's execution stream.
func (b *Backend) Release() {
	b.stream.Close()
}

func validateGemm(p array.GemmParams) error {
	if p.M <= 0 || p.N <= 0 || p.K <= 0 {
		return &array.BackendError{Op: "gemm", Code: gemmInvalidValue, Details: fmt.Sprintf("invalid dimensions m=%d n=%d k=%d", p.M, p.N, p.K)}
	}
	if p.A.Dtype() != p.B.Dtype() || p.A.Dtype() != p.C.Dtype() {
		return &array.BackendError{Op: "gemm", Code: gemmInvalidValue, Details: fmt.Sprintf("dtype mismatch %s, %s, %s", p.A.Dtype(), p.B.Dtype(), p.C.Dtype())}
	}
	for _, arr := range []*array.Array{p.A, p.B, p.C} {
		if arr.Buffer() == nil {
			return &array.BackendError{Op: "gemm", Code: gemmInvalidValue, Details: "operand has no backing buffer"}
		}
	}
	minLDA := p.M
	if p.TransA == array.Trans {
		minLDA = p.K
	}
	minLDB := p.K
	if p.TransB == array.Trans {
		minLDB = p.N
	}
	if p.LDA < minLDA || p.LDB < minLDB || p.LDC < p.M {
		return &array.BackendError{Op: "gemm", Code: gemmInvalidValue, Details: fmt.Sprintf("invalid leading dimensions lda=%d ldb=%d ldc=%d", p.LDA, p.LDB, p.LDC)}
	}
	return nil
}

// Diagnostic codes carried by BackendError.
const (
	gemmInvalidValue = 7
)
