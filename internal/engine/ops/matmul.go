package ops

import "github.com/flint-ml/flint/internal/tensor"

// MatMulOp represents 2D matrix multiplication: output = a @ b.
//
// Backward pass:
//   - d(A@B)/dA = outputGrad @ B^T
//   - d(A@B)/dB = A^T @ outputGrad
type MatMulOp struct {
	inputs []*tensor.Array // [a, b]
	output *tensor.Array   // a @ b
}

// NewMatMulOp creates a new MatMulOp.
func NewMatMulOp(a, b, output *tensor.Array) *MatMulOp {
	return &MatMulOp{
		inputs: []*tensor.Array{a, b},
		output: output,
	}
}

// Name returns "MatMul".
func (op *MatMulOp) Name() string { return "MatMul" }

// Backward computes input gradients for matrix multiplication.
func (op *MatMulOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.Array{
		tensor.MatMul(outputGrad, tensor.Transpose2D(b)),
		tensor.MatMul(tensor.Transpose2D(a), outputGrad),
	}
}

// Inputs returns the input arrays [a, b].
func (op *MatMulOp) Inputs() []*tensor.Array {
	return op.inputs
}

// Output returns the output array a @ b.
func (op *MatMulOp) Output() *tensor.Array {
	return op.output
}
