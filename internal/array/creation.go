package array

import (
	"fmt"
	"unsafe"
)

// FromSlice creates a bound contiguous array on the given device and
// copies the slice into its buffer.
func FromSlice[E Elem](data []E, shape Shape, device Device) (*Array, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	a, err := Empty(shape, DtypeOf[E](), device)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		dst := unsafe.Slice((*E)(unsafe.Pointer(&a.buffer.data[0])), len(data))
		copy(dst, data)
	}
	return a, nil
}
