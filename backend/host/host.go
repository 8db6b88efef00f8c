// Package host provides the CPU accelerator backend: the same execution
// contract as the GPU backends, on an ordered host-side stream. It needs
// no hardware or native libraries, which also makes it the reference
// backend for tests.
package host

import (
	"github.com/loom-ml/loom/internal/array"
	internalhost "github.com/loom-ml/loom/internal/backend/host"
)

// Backend executes kernels on the host CPU through one ordered stream.
type Backend = internalhost.Backend

// Compile-time check that Backend implements array.Backend.
var _ array.Backend = (*Backend)(nil)

// New creates a host backend for CPU device index 0.
func New() *Backend {
	return internalhost.New()
}

// NewWithIndex creates a host backend bound to the given CPU device
// index.
func NewWithIndex(index int) *Backend {
	return internalhost.NewWithIndex(index)
}
