// Package array provides the strided N-dimensional array model for the
// Loom runtime: shapes, element types, shared backing buffers, and the
// accelerator backend contract.
package array

// Elem is a constraint for element types that can back an Array.
type Elem interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8 | ~bool
}

// Dtype represents runtime type information for array elements.
type Dtype int

// Supported element types. Float32 and Float64 are the compute types;
// the remaining kinds are storage-only and are rejected by the
// linear-algebra routines.
const (
	Float32 Dtype = iota
	Float64
	Int32
	Int64
	Uint8
	Bool
)

// Size returns the byte width of one element of the data type.
func (dt Dtype) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Uint8, Bool:
		return 1
	default:
		panic("unknown dtype")
	}
}

// String returns a human-readable name for the data type.
func (dt Dtype) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// DtypeOf infers the Dtype for a generic element type E.
func DtypeOf[E Elem]() Dtype {
	var dummy E
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case bool:
		return Bool
	default:
		panic("unsupported element type")
	}
}
