// Package tensor provides the array collaborator for the Flint autograd core:
// reference-counted multi-dimensional buffers with read-only and writable
// views, in-place assignment and accumulation, and the elementwise kernels
// the engine's operations are built on.
package tensor

// DataType represents runtime type information for arrays.
type DataType int

// Supported data types. Gradient arithmetic is defined for floating point
// only, so the array layer carries just the two float widths.
const (
	Float32 DataType = iota
	Float64
)

// Size returns the byte size of one element of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}
