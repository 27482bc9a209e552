// Package ops defines the differentiable operation records the engine's
// gradient tape is built from.
//
// Each operation captures its input and output arrays during the forward
// pass and computes input gradients from the output gradient during the
// backward traversal:
//   - AddOp: element-wise addition (d(a+b)/da = 1, d(a+b)/db = 1)
//   - SubOp: element-wise subtraction
//   - MulOp: element-wise multiplication (d(a*b)/da = b, d(a*b)/db = a)
//   - MatMulOp: matrix multiplication (d(A@B)/dA = grad@B^T, d(A@B)/dB = A^T@grad)
//   - ExpOp: element-wise exponential
//   - SigmoidOp: logistic activation
//   - SumOp: total-sum reduction
package ops

import "github.com/flint-ml/flint/internal/tensor"

// Operation represents one recorded node of the computation graph.
type Operation interface {
	// Name identifies the operation kind in recorded-graph dumps.
	Name() string

	// Backward computes gradients for the inputs given the output gradient.
	// Returns one gradient per input, in input order; a nil entry means no
	// gradient flows to that input.
	Backward(outputGrad *tensor.Array) []*tensor.Array

	// Inputs returns the input arrays of this operation.
	Inputs() []*tensor.Array

	// Output returns the output array produced by this operation.
	Output() *tensor.Array
}
