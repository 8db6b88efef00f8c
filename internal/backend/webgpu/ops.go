package webgpu

import (
	"encoding/binary"
	"fmt"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/loom-ml/loom/internal/array"
	"github.com/loom-ml/loom/internal/kernels"
)

// Empty allocates a fresh contiguous array on this backend's device.
// Array buffers are host-resident; bytes are staged to the GPU around
// each submission.
func (b *Backend) Empty(shape array.Shape, dtype array.Dtype) (*array.Array, error) {
	return array.Empty(shape, dtype, b.dev)
}

// EmptyLike allocates a fresh contiguous array with the same shape and
// dtype as the template.
func (b *Backend) EmptyLike(t *array.Array) (*array.Array, error) {
	return array.Empty(t.Shape(), t.Dtype(), b.dev)
}

// Copy performs an element-wise copy from src to dst. The buffers are
// host-resident, so the strided copy runs on the host without a GPU
// round trip.
func (b *Backend) Copy(src, dst *array.Array) error {
	return kernels.CopyStrided(src, dst)
}

// Gemm executes one Fortran-order general matrix multiply on the GPU.
// Only Float32 is supported: WGSL has no f64.
func (b *Backend) Gemm(p array.GemmParams) error {
	if err := b.Activate(); err != nil {
		return err
	}
	if p.A.Dtype() != array.Float32 || p.B.Dtype() != array.Float32 || p.C.Dtype() != array.Float32 {
		return fmt.Errorf("webgpu gemm: only float32 is supported, got %s: %w", p.A.Dtype(), array.ErrNotImplemented)
	}
	if p.M <= 0 || p.N <= 0 || p.K <= 0 {
		return &array.BackendError{Op: "gemm", Details: fmt.Sprintf("invalid dimensions m=%d n=%d k=%d", p.M, p.N, p.K)}
	}

	// Stored extents in elements: a column-major operand with leading
	// dimension ld and c stored columns spans ld*c elements.
	colsA := p.K
	if p.TransA == array.Trans {
		colsA = p.M
	}
	colsB := p.N
	if p.TransB == array.Trans {
		colsB = p.K
	}
	aBytes := p.A.RawData()[:p.LDA*colsA*4]
	bBytes := p.B.RawData()[:p.LDB*colsB*4]
	cBytes := p.C.RawData()[:p.LDC*p.N*4]

	bufA := b.createStorageBuffer(aBytes)
	defer bufA.Release()
	bufB := b.createStorageBuffer(bBytes)
	defer bufB.Release()
	// Seed the output buffer with the current destination bytes so rows
	// beyond m (when ldc > m) survive the readback.
	bufC := b.createStorageBuffer(cBytes)
	defer bufC.Release()

	params := make([]byte, 32)
	binary.LittleEndian.PutUint32(params[0:4], uint32(p.M))
	binary.LittleEndian.PutUint32(params[4:8], uint32(p.N))
	binary.LittleEndian.PutUint32(params[8:12], uint32(p.K))
	binary.LittleEndian.PutUint32(params[12:16], uint32(p.LDA))
	binary.LittleEndian.PutUint32(params[16:20], uint32(p.LDB))
	binary.LittleEndian.PutUint32(params[20:24], uint32(p.LDC))
	binary.LittleEndian.PutUint32(params[24:28], uint32(p.TransA))
	binary.LittleEndian.PutUint32(params[28:32], uint32(p.TransB))
	bufParams := b.createUniformBuffer(params)
	defer bufParams.Release()

	entries := []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufA, 0, uint64(len(aBytes))),
		wgpu.BufferBindingEntry(1, bufB, 0, uint64(len(bBytes))),
		wgpu.BufferBindingEntry(2, bufC, 0, uint64(len(cBytes))),
		wgpu.BufferBindingEntry(3, bufParams, 0, uint64(len(params))),
	}

	workgroupsX := uint32((p.M + gemmTileSize - 1) / gemmTileSize)
	workgroupsY := uint32((p.N + gemmTileSize - 1) / gemmTileSize)
	b.dispatch("gemm", gemmShader, entries, workgroupsX, workgroupsY)

	return b.readBuffer(bufC, cBytes)
}

// Mul performs an element-wise multiply of two equal-shape arrays on the
// GPU and returns the freshly allocated result.
func (b *Backend) Mul(x, y *array.Array) (*array.Array, error) {
	if err := b.Activate(); err != nil {
		return nil, err
	}
	if !x.Shape().Equal(y.Shape()) {
		return nil, &array.BackendError{Op: "mul", Details: fmt.Sprintf("shape mismatch %v vs %v", x.Shape(), y.Shape())}
	}
	if x.Dtype() != array.Float32 || y.Dtype() != array.Float32 {
		return nil, fmt.Errorf("webgpu mul: only float32 is supported, got %s: %w", x.Dtype(), array.ErrNotImplemented)
	}

	out, err := b.EmptyLike(x)
	if err != nil {
		return nil, err
	}

	xc, err := b.contiguous(x)
	if err != nil {
		return nil, err
	}
	yc, err := b.contiguous(y)
	if err != nil {
		return nil, err
	}

	n := out.NumElements()
	if n == 0 {
		return out, nil
	}
	bufX := b.createStorageBuffer(xc.RawData()[:n*4])
	defer bufX.Release()
	bufY := b.createStorageBuffer(yc.RawData()[:n*4])
	defer bufY.Release()
	bufOut := b.createStorageBuffer(out.RawData()[:n*4])
	defer bufOut.Release()

	params := make([]byte, 4)
	binary.LittleEndian.PutUint32(params, uint32(n))
	bufParams := b.createUniformBuffer(params)
	defer bufParams.Release()

	entries := []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufX, 0, uint64(n*4)),
		wgpu.BufferBindingEntry(1, bufY, 0, uint64(n*4)),
		wgpu.BufferBindingEntry(2, bufOut, 0, uint64(n*4)),
		wgpu.BufferBindingEntry(3, bufParams, 0, uint64(len(params))),
	}
	b.dispatch("mul", mulShader, entries, uint32((n+255)/256), 1)

	if err := b.readBuffer(bufOut, out.RawData()[:n*4]); err != nil {
		return nil, err
	}
	return out, nil
}

// SumInto reduces x over the given axes into out. A reduction over every
// axis runs on the GPU; partial reductions fall back to the host kernel.
func (b *Backend) SumInto(x *array.Array, axes []int, out *array.Array) error {
	if err := b.Activate(); err != nil {
		return err
	}
	if x.Dtype() != array.Float32 {
		return fmt.Errorf("webgpu sum: only float32 is supported, got %s: %w", x.Dtype(), array.ErrNotImplemented)
	}
	if len(axes) != x.NDim() || out.NumElements() != 1 {
		return kernels.SumInto(x, axes, out)
	}

	xc, err := b.contiguous(x)
	if err != nil {
		return err
	}
	n := xc.NumElements()

	if n == 0 {
		array.Set[float32](out.Reshape(array.Shape{}), 0)
		return nil
	}

	bufX := b.createStorageBuffer(xc.RawData()[:n*4])
	defer bufX.Release()
	bufOut := b.createStorageBuffer(make([]byte, 4))
	defer bufOut.Release()

	params := make([]byte, 4)
	binary.LittleEndian.PutUint32(params, uint32(n))
	bufParams := b.createUniformBuffer(params)
	defer bufParams.Release()

	entries := []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufX, 0, uint64(n*4)),
		wgpu.BufferBindingEntry(1, bufOut, 0, 4),
		wgpu.BufferBindingEntry(2, bufParams, 0, uint64(len(params))),
	}
	b.dispatch("sum", sumShader, entries, 1, 1)

	return b.readBuffer(bufOut, out.RawData()[:4])
}

// contiguous returns x itself when it is packed, otherwise a fresh
// host-side contiguous copy ready for upload.
func (b *Backend) contiguous(x *array.Array) (*array.Array, error) {
	if x.IsContiguous() {
		return x, nil
	}
	cp, err := b.EmptyLike(x)
	if err != nil {
		return nil, err
	}
	if err := kernels.CopyStrided(x, cp); err != nil {
		return nil, err
	}
	return cp, nil
}
