// Package webgpu provides the WebGPU accelerator backend for
// GPU-accelerated array operations.
//
// WebGPU is a cross-platform graphics and compute API that works on
// Windows (D3D12), macOS (Metal), Linux (Vulkan) and browsers (wasm).
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//
//	out, _ := gpu.Empty(array.Shape{m, n}, array.Float32)
//	err = routines.Dot(gpu, a, b, out)
package webgpu

import (
	"github.com/loom-ml/loom/internal/array"
	internalwebgpu "github.com/loom-ml/loom/internal/backend/webgpu"
)

// Backend executes kernels on a GPU via WebGPU.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements array.Backend.
var _ array.Backend = (*Backend)(nil)

// New creates a WebGPU backend. Returns an error if WebGPU
// initialization fails (e.g. no compatible GPU). Call Release when done.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks whether WebGPU is available on the current system.
// Useful for graceful fallback to the host backend:
//
//	var be array.Backend = host.New()
//	if webgpu.IsAvailable() {
//	    be, _ = webgpu.New()
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
