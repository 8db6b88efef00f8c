// Package array is the public surface of the Loom strided-array data
// model: shapes, element types, shared backing buffers, array views and
// the accelerator backend contract.
//
// Example:
//
//	a, _ := array.FromSlice([]float32{1, 2, 3, 4, 5, 6}, array.Shape{2, 3}, be.Device())
//	b := a.Transpose() // view, shares the buffer
package array

import internalarray "github.com/loom-ml/loom/internal/array"

// Core types.
type (
	// Array is a strided view over a shared backing buffer.
	Array = internalarray.Array
	// Buffer is a reference-counted backing allocation.
	Buffer = internalarray.Buffer
	// Shape represents the dimensions of an array.
	Shape = internalarray.Shape
	// Dtype represents runtime type information for array elements.
	Dtype = internalarray.Dtype
	// Device identifies the compute device an array resides on.
	Device = internalarray.Device
	// DeviceKind identifies a class of compute device.
	DeviceKind = internalarray.DeviceKind
	// Backend is the accelerator execution interface.
	Backend = internalarray.Backend
	// GemmParams describes one Fortran-order GEMM call.
	GemmParams = internalarray.GemmParams
	// TransposeOp selects how a GEMM operand is read by the backend.
	TransposeOp = internalarray.TransposeOp
	// BackendError carries a non-success diagnostic status from a backend.
	BackendError = internalarray.BackendError
	// Elem constrains the element types that can back an Array.
	Elem = internalarray.Elem
)

// Element types.
const (
	Float32 = internalarray.Float32
	Float64 = internalarray.Float64
	Int32   = internalarray.Int32
	Int64   = internalarray.Int64
	Uint8   = internalarray.Uint8
	Bool    = internalarray.Bool
)

// Device kinds.
const (
	CPU    = internalarray.CPU
	CUDA   = internalarray.CUDA
	Vulkan = internalarray.Vulkan
	Metal  = internalarray.Metal
	WebGPU = internalarray.WebGPU
)

// GEMM transpose operators.
const (
	NoTrans = internalarray.NoTrans
	Trans   = internalarray.Trans
)

// ErrNotImplemented reports an operation that is not implemented for the
// requested element type or device.
var ErrNotImplemented = internalarray.ErrNotImplemented

// New creates an unbound Array from a shape alone.
func New(shape Shape, dtype Dtype, device Device) (*Array, error) {
	return internalarray.New(shape, dtype, device)
}

// Empty creates a bound Array with a freshly allocated contiguous buffer.
func Empty(shape Shape, dtype Dtype, device Device) (*Array, error) {
	return internalarray.Empty(shape, dtype, device)
}

// FromSlice creates a bound contiguous array and copies the slice into
// its buffer.
func FromSlice[E Elem](data []E, shape Shape, device Device) (*Array, error) {
	return internalarray.FromSlice(data, shape, device)
}

// NewBuffer allocates a zeroed reference-counted buffer.
func NewBuffer(size int) *Buffer {
	return internalarray.NewBuffer(size)
}

// BufferFromBytes wraps an existing byte slice without copying.
func BufferFromBytes(data []byte) *Buffer {
	return internalarray.BufferFromBytes(data)
}

// CheckDevicesCompatible panics if the given arrays do not all reside on
// the same device.
func CheckDevicesCompatible(arrays ...*Array) {
	internalarray.CheckDevicesCompatible(arrays...)
}

// At returns the element at the given indices, resolved through the
// view's byte strides and offset.
func At[E Elem](a *Array, indices ...int) E {
	return internalarray.At[E](a, indices...)
}

// Set stores value at the given indices.
func Set[E Elem](a *Array, value E, indices ...int) {
	internalarray.Set(a, value, indices...)
}
