// Package routines exposes the device-dispatched linear-algebra
// operations of the Loom runtime.
package routines

import (
	"github.com/loom-ml/loom/internal/array"
	internalroutines "github.com/loom-ml/loom/internal/routines"
)

// Dot computes the matrix product out = a x b on the given backend,
// where a is (m, k), b is (k, n) and out is (m, n). The work is
// submitted to the backend's execution stream; call Synchronize before
// reading out.
func Dot(be array.Backend, a, b, out *array.Array) error {
	return internalroutines.Dot(be, a, b, out)
}
