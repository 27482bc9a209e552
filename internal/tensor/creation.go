package tensor

import "fmt"

// FromFloat32 creates a Float32 array holding a copy of data.
func FromFloat32(data []float32, shape Shape) (*Array, error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	a, err := New(shape, Float32)
	if err != nil {
		return nil, err
	}
	copy(a.AsFloat32(), data)
	return a, nil
}

// FromFloat64 creates a Float64 array holding a copy of data.
func FromFloat64(data []float64, shape Shape) (*Array, error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	a, err := New(shape, Float64)
	if err != nil {
		return nil, err
	}
	copy(a.AsFloat64(), data)
	return a, nil
}

// Zeros creates an array filled with zeros.
func Zeros(shape Shape, dtype DataType) *Array {
	a, err := New(shape, dtype)
	if err != nil {
		panic(err)
	}
	return a
}

// Ones creates an array filled with ones.
func Ones(shape Shape, dtype DataType) *Array {
	return Full(shape, dtype, 1)
}

// Full creates an array filled with the given value.
func Full(shape Shape, dtype DataType, value float64) *Array {
	a := Zeros(shape, dtype)
	switch dtype {
	case Float32:
		data := a.AsFloat32()
		v := float32(value)
		for i := range data {
			data[i] = v
		}
	case Float64:
		data := a.AsFloat64()
		for i := range data {
			data[i] = value
		}
	}
	return a
}

// OnesLike creates a ones-filled array with the same shape and dtype as a.
// This is the implicit seed gradient for a backward head.
func OnesLike(a *Array) *Array {
	return Ones(a.Shape(), a.DType())
}

// ZerosLike creates a zero-filled array with the same shape and dtype as a.
func ZerosLike(a *Array) *Array {
	return Zeros(a.Shape(), a.DType())
}
