package ops

import "github.com/flint-ml/flint/internal/tensor"

// MulOp represents element-wise multiplication: output = a * b.
//
// Backward pass:
//   - d(a*b)/da = b, so grad_a = outputGrad * b
//   - d(a*b)/db = a, so grad_b = outputGrad * a
type MulOp struct {
	inputs []*tensor.Array // [a, b]
	output *tensor.Array   // a * b
}

// NewMulOp creates a new MulOp.
func NewMulOp(a, b, output *tensor.Array) *MulOp {
	return &MulOp{
		inputs: []*tensor.Array{a, b},
		output: output,
	}
}

// Name returns "Mul".
func (op *MulOp) Name() string { return "Mul" }

// Backward computes input gradients for multiplication.
func (op *MulOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.Array{
		tensor.Mul(outputGrad, b),
		tensor.Mul(outputGrad, a),
	}
}

// Inputs returns the input arrays [a, b].
func (op *MulOp) Inputs() []*tensor.Array {
	return op.inputs
}

// Output returns the output array a * b.
func (op *MulOp) Output() *tensor.Array {
	return op.output
}
