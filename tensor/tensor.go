// Copyright 2026 Flint ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for arrays in the Flint ML framework.
//
// Arrays are dense multi-dimensional buffers of float32 or float64 values.
// The operations in this package execute eagerly; while gradient recording is
// on (see the autograd package) each application is also captured for a later
// backward pass.
//
// Example:
//
//	x, _ := tensor.FromFloat32([]float32{1, 2, 3}, tensor.Shape{3})
//	y := tensor.Mul(x, x)
//	s := tensor.Sum(y)
package tensor

import (
	"github.com/flint-ml/flint/internal/engine"
	"github.com/flint-ml/flint/internal/tensor"
)

// DataType represents the element type of an array.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Shape represents the dimensions of an array.
// Example: Shape{2, 3, 4} represents a 3D array with dimensions 2×3×4.
type Shape = tensor.Shape

// Array is a dense multi-dimensional buffer. The underlying data is
// reference-counted and shared between views.
type Array = tensor.Array

// Handle identifies an array's underlying buffer. Two arrays viewing the same
// buffer have equal handles.
type Handle = tensor.Handle

// Creation functions

// FromFloat32 creates a float32 array from data, which must have exactly
// shape.NumElements() entries. The data is copied.
func FromFloat32(data []float32, shape Shape) (*Array, error) {
	return tensor.FromFloat32(data, shape)
}

// FromFloat64 creates a float64 array from data, which must have exactly
// shape.NumElements() entries. The data is copied.
func FromFloat64(data []float64, shape Shape) (*Array, error) {
	return tensor.FromFloat64(data, shape)
}

// Zeros creates an array filled with zeros.
//
// Example:
//
//	x := tensor.Zeros(tensor.Shape{2, 3}, tensor.Float32)
func Zeros(shape Shape, dtype DataType) *Array {
	return tensor.Zeros(shape, dtype)
}

// Ones creates an array filled with ones.
func Ones(shape Shape, dtype DataType) *Array {
	return tensor.Ones(shape, dtype)
}

// Full creates an array filled with a specific value.
//
// Example:
//
//	x := tensor.Full(tensor.Shape{2, 3}, tensor.Float32, 3.14)
func Full(shape Shape, dtype DataType, value float64) *Array {
	return tensor.Full(shape, dtype, value)
}

// OnesLike creates an all-ones array with the shape and dtype of a.
func OnesLike(a *Array) *Array {
	return tensor.OnesLike(a)
}

// ZerosLike creates an all-zeros array with the shape and dtype of a.
func ZerosLike(a *Array) *Array {
	return tensor.ZerosLike(a)
}

// Operations. Each executes eagerly on the process-global engine and is
// recorded for differentiation while recording is on.

// Add returns the element-wise sum a + b.
func Add(a, b *Array) *Array {
	return engine.Default().Add(a, b)
}

// Sub returns the element-wise difference a - b.
func Sub(a, b *Array) *Array {
	return engine.Default().Sub(a, b)
}

// Mul returns the element-wise product a * b.
func Mul(a, b *Array) *Array {
	return engine.Default().Mul(a, b)
}

// MatMul returns the matrix product of two 2D arrays.
func MatMul(a, b *Array) *Array {
	return engine.Default().MatMul(a, b)
}

// Exp returns the element-wise exponential e^x.
func Exp(x *Array) *Array {
	return engine.Default().Exp(x)
}

// Sigmoid returns the element-wise logistic function 1/(1+e^-x).
func Sigmoid(x *Array) *Array {
	return engine.Default().Sigmoid(x)
}

// Sum reduces an array to its scalar sum, shaped Shape{1}.
func Sum(x *Array) *Array {
	return engine.Default().Sum(x)
}
