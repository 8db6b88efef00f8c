package array

// IsCContiguous reports whether a layout is packed in C order
// (row-major): the last axis has stride equal to itemSize, and every
// other stride is the next stride times the next extent. Rank <= 1
// layouts are contiguous by definition. Pure predicate, O(ndim).
func IsCContiguous(shape Shape, strides []int, itemSize int) bool {
	ndim := len(shape)
	if ndim <= 1 {
		return true
	}
	if strides[ndim-1] != itemSize {
		return false
	}
	for i := ndim - 2; i >= 0; i-- {
		if strides[i] != strides[i+1]*shape[i+1] {
			return false
		}
	}
	return true
}

// IsFortranContiguous reports whether a layout is packed in Fortran
// order (column-major): the first axis has stride equal to itemSize, and
// every following stride is the previous stride times the previous
// extent. Rank <= 1 layouts are contiguous by definition.
func IsFortranContiguous(shape Shape, strides []int, itemSize int) bool {
	ndim := len(shape)
	if ndim <= 1 {
		return true
	}
	if strides[0] != itemSize {
		return false
	}
	for i := 1; i < ndim; i++ {
		if strides[i] != strides[i-1]*shape[i-1] {
			return false
		}
	}
	return true
}
