package array

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrNotImplemented reports an operation that is not implemented for
	// the requested element type or device. It is recoverable: callers
	// may catch it and fall back to a different code path.
	ErrNotImplemented = errors.New("not implemented")
)

// BackendError carries a non-success diagnostic status from a compute
// backend. It is never silently ignored: every backend routine that can
// fail surfaces one.
type BackendError struct {
	Op      string // backend routine that failed (e.g. "gemm", "copy")
	Code    int    // backend-specific diagnostic code, 0 if none
	Details string
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("backend %s failed (code %d): %s", e.Op, e.Code, e.Details)
	}
	return fmt.Sprintf("backend %s failed: %s", e.Op, e.Details)
}
