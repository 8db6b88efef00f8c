// Package webgpu implements the WebGPU accelerator backend. It executes
// the Fortran-order GEMM contract and the element-wise collaborators on
// a GPU through go-webgpu (github.com/go-webgpu/webgpu), staging array
// buffers to and from device memory around each submission.
//
// WGSL has no 64-bit floating point, so only Float32 arrays are
// accelerated; Float64 submissions report array.ErrNotImplemented and
// callers fall back to the host backend.
package webgpu

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/loom-ml/loom/internal/array"
)

// Verify that Backend implements array.Backend.
var _ array.Backend = (*Backend)(nil)

// Backend executes kernels on a GPU via WebGPU. The wgpu queue is the
// device's ordered execution stream: command buffers submitted to it run
// in submission order.
type Backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// Shader and pipeline caches.
	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline
	mu        sync.RWMutex

	dev array.Device
}

// New creates a WebGPU backend for device index 0. Returns an error if
// WebGPU is not available or initialization fails.
func New() (backend *Backend, err error) {
	// Recover from panic if the wgpu native library is not present.
	defer func() {
		if r := recover(); r != nil {
			backend = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance, instanceErr := wgpu.CreateInstance(nil)
	if instanceErr != nil {
		return nil, fmt.Errorf("webgpu: failed to create instance: %w", instanceErr)
	}
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	return &Backend{
		instance:  instance,
		adapter:   adapter,
		device:    device,
		queue:     queue,
		shaders:   make(map[string]*wgpu.ShaderModule),
		pipelines: make(map[string]*wgpu.ComputePipeline),
		dev:       array.Device{Kind: array.WebGPU, Index: 0},
	}, nil
}

// IsAvailable checks whether a WebGPU adapter can be initialized on this
// system. Useful for graceful fallback to the host backend.
func IsAvailable() bool {
	b, err := New()
	if err != nil {
		return false
	}
	b.Release()
	return true
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "webgpu"
}

// Device returns the WebGPU device this backend executes on.
func (b *Backend) Device() array.Device {
	return b.dev
}

// Activate makes this device the active context for subsequent
// submissions.
func (b *Backend) Activate() error {
	if b.device == nil {
		return &array.BackendError{Op: "activate", Details: "webgpu device has been released"}
	}
	return nil
}

// Synchronize returns once every submitted operation has executed. Each
// submission in this backend completes through a staging readback before
// returning, so there is never deferred work to wait for.
func (b *Backend) Synchronize() error {
	return nil
}

// Release frees the GPU resources held by the backend.
func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.pipelines {
		p.Release()
	}
	for _, s := range b.shaders {
		s.Release()
	}
	b.pipelines = nil
	b.shaders = nil

	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
