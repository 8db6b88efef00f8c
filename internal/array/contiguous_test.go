package array

import "testing"

func TestContiguityClassifier(t *testing.T) {
	tests := []struct {
		name     string
		shape    Shape
		strides  []int
		itemSize int
		c        bool
		f        bool
	}{
		{"scalar", Shape{}, []int{}, 4, true, true},
		{"rank1 packed", Shape{5}, []int{4}, 4, true, true},
		{"rank1 strided degenerates to contiguous", Shape{5}, []int{8}, 4, true, true},
		{"c order", Shape{2, 3}, []int{12, 4}, 4, true, false},
		{"fortran order", Shape{2, 3}, []int{4, 8}, 4, false, true},
		{"1x1", Shape{1, 1}, []int{4, 4}, 4, true, true},
		{"row vector fortran layout", Shape{1, 3}, []int{4, 4}, 4, false, true},
		{"row vector c layout", Shape{1, 3}, []int{12, 4}, 4, true, false},
		{"column vector c layout", Shape{3, 1}, []int{4, 4}, 4, true, false},
		{"sliced columns", Shape{3, 2}, []int{16, 4}, 4, false, false},
		{"transposed 3d", Shape{4, 3, 2}, []int{8, 32, 96}, 8, false, true},
		{"c order 3d", Shape{2, 3, 4}, []int{96, 32, 8}, 8, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCContiguous(tt.shape, tt.strides, tt.itemSize); got != tt.c {
				t.Errorf("IsCContiguous(%v, %v, %d) = %v, want %v", tt.shape, tt.strides, tt.itemSize, got, tt.c)
			}
			if got := IsFortranContiguous(tt.shape, tt.strides, tt.itemSize); got != tt.f {
				t.Errorf("IsFortranContiguous(%v, %v, %d) = %v, want %v", tt.shape, tt.strides, tt.itemSize, got, tt.f)
			}
		})
	}
}
