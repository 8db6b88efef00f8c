package array

import (
	"fmt"
	"unsafe"
)

// Array is a strided view over a shared backing buffer, not a container.
// Several views may alias the same buffer; mutation through one view is
// visible through every other by design. The buffer may be absent (nil):
// in that state RawData returns nil and numeric operations are illegal.
//
// Strides and offset are measured in bytes.
type Array struct {
	buffer  *Buffer // shared reference-counted buffer, nil if unbound
	shape   Shape   // dimension extents
	strides []int   // byte distance between consecutive elements per axis
	dtype   Dtype   // element type
	device  Device  // compute device the view resides on
	offset  int     // byte offset of the first logical element
}

// New creates an unbound Array from a shape alone: total size and byte
// strides are computed from shape and dtype, but no buffer is attached
// and the offset is zero.
func New(shape Shape, dtype Dtype, device Device) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &Array{
		buffer:  nil,
		shape:   shape.Clone(),
		strides: shape.ByteStrides(dtype.Size()),
		dtype:   dtype,
		device:  device,
		offset:  0,
	}, nil
}

// Empty creates a bound Array with a freshly allocated contiguous buffer.
// The memory is zeroed.
func Empty(shape Shape, dtype Dtype, device Device) (*Array, error) {
	a, err := New(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	a.buffer = NewBuffer(a.TotalBytes())
	return a, nil
}

// SetContiguousData attaches a backing buffer to the array, resetting it
// to a contiguous C-order view at offset zero. The buffer must be large
// enough to hold every element.
func (a *Array) SetContiguousData(buf *Buffer) error {
	if buf.Len() < a.TotalBytes() {
		return fmt.Errorf("buffer of %d bytes is too small for %d required bytes", buf.Len(), a.TotalBytes())
	}
	if a.buffer != nil {
		a.buffer.release()
	}
	buf.addRef()
	a.buffer = buf
	a.strides = a.shape.ByteStrides(a.dtype.Size())
	a.offset = 0
	return nil
}

// Shape returns the array's shape.
func (a *Array) Shape() Shape {
	return a.shape
}

// Strides returns the array's byte strides.
func (a *Array) Strides() []int {
	return a.strides
}

// Dtype returns the element type.
func (a *Array) Dtype() Dtype {
	return a.dtype
}

// Device returns the compute device the array resides on.
func (a *Array) Device() Device {
	return a.device
}

// Offset returns the byte offset of the first logical element within the
// backing buffer.
func (a *Array) Offset() int {
	return a.offset
}

// Buffer returns the shared backing buffer handle, nil if unbound.
func (a *Array) Buffer() *Buffer {
	return a.buffer
}

// NDim returns the number of dimensions.
func (a *Array) NDim() int {
	return len(a.shape)
}

// ItemSize returns the byte width of one element.
func (a *Array) ItemSize() int {
	return a.dtype.Size()
}

// NumElements returns the total number of elements. An empty shape is a
// scalar with one element.
func (a *Array) NumElements() int {
	return a.shape.NumElements()
}

// TotalBytes returns NumElements() * ItemSize().
func (a *Array) TotalBytes() int {
	return a.NumElements() * a.ItemSize()
}

// RawData returns the backing bytes starting at the array's offset, nil
// if the array is unbound.
func (a *Array) RawData() []byte {
	if a.buffer == nil {
		return nil
	}
	return a.buffer.data[a.offset:]
}

// IsContiguous reports whether the view is packed in C order (row-major):
// the last axis has stride equal to the item size and each stride is the
// product of the faster axes' extents and the item size. Views of rank
// <= 1 are contiguous by definition.
func (a *Array) IsContiguous() bool {
	return IsCContiguous(a.shape, a.strides, a.ItemSize())
}

// IsFortranContiguous reports whether the view is packed in Fortran order
// (column-major, first axis fastest).
func (a *Array) IsFortranContiguous() bool {
	return IsFortranContiguous(a.shape, a.strides, a.ItemSize())
}

// View returns a new Array aliasing the same buffer with identical
// shape, strides and offset.
func (a *Array) View() *Array {
	if a.buffer != nil {
		a.buffer.addRef()
	}
	return &Array{
		buffer:  a.buffer,
		shape:   a.shape.Clone(),
		strides: append([]int(nil), a.strides...),
		dtype:   a.dtype,
		device:  a.device,
		offset:  a.offset,
	}
}

// Release decrements the backing buffer's reference count. Calling any
// numeric operation after the last release is a caller bug.
func (a *Array) Release() {
	if a.buffer != nil {
		a.buffer.release()
		a.buffer = nil
	}
}

// Transpose returns a view with axis order reversed. No data moves; the
// result generally is not contiguous.
func (a *Array) Transpose() *Array {
	v := a.View()
	for i, j := 0, len(v.shape)-1; i < j; i, j = i+1, j-1 {
		v.shape[i], v.shape[j] = v.shape[j], v.shape[i]
		v.strides[i], v.strides[j] = v.strides[j], v.strides[i]
	}
	return v
}

// Reshape returns a view of the same buffer with a new shape and C-order
// strides. The array must be contiguous and the element count must be
// preserved; violations are caller bugs.
func (a *Array) Reshape(shape Shape) *Array {
	if a.NumElements() > 1 && !a.IsContiguous() {
		panic(fmt.Sprintf("cannot reshape non-contiguous array of shape %v", a.shape))
	}
	if shape.NumElements() != a.NumElements() {
		panic(fmt.Sprintf("cannot reshape %d elements to shape %v (%d elements)",
			a.NumElements(), shape, shape.NumElements()))
	}
	v := a.View()
	v.shape = shape.Clone()
	v.strides = shape.ByteStrides(a.ItemSize())
	return v
}

// Narrow returns a sub-view of length extent along the given axis,
// starting at start. The view shares the buffer and shifts the offset.
func (a *Array) Narrow(axis, start, length int) *Array {
	if axis < 0 || axis >= a.NDim() {
		panic(fmt.Sprintf("narrow: axis %d out of range for %d dimensions", axis, a.NDim()))
	}
	if start < 0 || length < 0 || start+length > a.shape[axis] {
		panic(fmt.Sprintf("narrow: range [%d, %d) out of bounds for axis of extent %d",
			start, start+length, a.shape[axis]))
	}
	v := a.View()
	v.offset += start * v.strides[axis]
	v.shape[axis] = length
	return v
}

// String returns a human-readable representation of the array.
func (a *Array) String() string {
	return fmt.Sprintf("Array[%s]%v on %s", a.dtype, a.shape, a.device)
}

// checkBound panics if the array has no backing buffer.
func (a *Array) checkBound() {
	if a.buffer == nil {
		panic("array has no backing buffer")
	}
}

// AsFloat32 returns a typed view of the buffer starting at the array's
// offset. The array must be bound and of dtype Float32; violating either
// is a contract violation, not a recoverable error. For strided views
// the slice spans the rest of the buffer, so stride arithmetic stays in
// bounds.
func (a *Array) AsFloat32() []float32 {
	a.checkBound()
	if a.dtype != Float32 {
		panic(fmt.Sprintf("array dtype is %s, not float32", a.dtype))
	}
	data := a.buffer.data[a.offset:]
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation of the buffer tail
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), len(data)/4)
}

// AsFloat64 returns a typed view of the buffer starting at the array's
// offset. The array must be bound and of dtype Float64.
func (a *Array) AsFloat64() []float64 {
	a.checkBound()
	if a.dtype != Float64 {
		panic(fmt.Sprintf("array dtype is %s, not float64", a.dtype))
	}
	data := a.buffer.data[a.offset:]
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation of the buffer tail
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), len(data)/8)
}

// AsInt32 returns a typed view of the buffer starting at the array's
// offset. The array must be bound and of dtype Int32.
func (a *Array) AsInt32() []int32 {
	a.checkBound()
	if a.dtype != Int32 {
		panic(fmt.Sprintf("array dtype is %s, not int32", a.dtype))
	}
	data := a.buffer.data[a.offset:]
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation of the buffer tail
	return unsafe.Slice((*int32)(unsafe.Pointer(&data[0])), len(data)/4)
}

// AsInt64 returns a typed view of the buffer starting at the array's
// offset. The array must be bound and of dtype Int64.
func (a *Array) AsInt64() []int64 {
	a.checkBound()
	if a.dtype != Int64 {
		panic(fmt.Sprintf("array dtype is %s, not int64", a.dtype))
	}
	data := a.buffer.data[a.offset:]
	if len(data) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation of the buffer tail
	return unsafe.Slice((*int64)(unsafe.Pointer(&data[0])), len(data)/8)
}

// AsUint8 returns a typed view of the buffer starting at the array's
// offset. The array must be bound and of dtype Uint8.
func (a *Array) AsUint8() []uint8 {
	a.checkBound()
	if a.dtype != Uint8 {
		panic(fmt.Sprintf("array dtype is %s, not uint8", a.dtype))
	}
	return a.buffer.data[a.offset:]
}

// At returns the element at the given indices, resolved through the
// view's byte strides and offset.
func At[E Elem](a *Array, indices ...int) E {
	return *elemPtr[E](a, indices)
}

// Set stores value at the given indices, resolved through the view's
// byte strides and offset.
func Set[E Elem](a *Array, value E, indices ...int) {
	*elemPtr[E](a, indices) = value
}

func elemPtr[E Elem](a *Array, indices []int) *E {
	a.checkBound()
	if DtypeOf[E]() != a.dtype {
		panic(fmt.Sprintf("array dtype is %s, not %s", a.dtype, DtypeOf[E]()))
	}
	if len(indices) != a.NDim() {
		panic(fmt.Sprintf("expected %d indices, got %d", a.NDim(), len(indices)))
	}
	byteOff := a.offset
	for i, idx := range indices {
		if idx < 0 || idx >= a.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (extent %d)", idx, i, a.shape[i]))
		}
		byteOff += idx * a.strides[i]
	}
	return (*E)(unsafe.Pointer(&a.buffer.data[byteOff]))
}
