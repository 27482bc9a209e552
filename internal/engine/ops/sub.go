package ops

import "github.com/flint-ml/flint/internal/tensor"

// SubOp represents element-wise subtraction: output = a - b.
//
// Backward pass:
//   - d(a-b)/da = 1, so grad_a = outputGrad
//   - d(a-b)/db = -1, so grad_b = -outputGrad
type SubOp struct {
	inputs []*tensor.Array // [a, b]
	output *tensor.Array   // a - b
}

// NewSubOp creates a new SubOp.
func NewSubOp(a, b, output *tensor.Array) *SubOp {
	return &SubOp{
		inputs: []*tensor.Array{a, b},
		output: output,
	}
}

// Name returns "Sub".
func (op *SubOp) Name() string { return "Sub" }

// Backward computes input gradients for subtraction.
func (op *SubOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	return []*tensor.Array{outputGrad, tensor.Neg(outputGrad)}
}

// Inputs returns the input arrays [a, b].
func (op *SubOp) Inputs() []*tensor.Array {
	return op.inputs
}

// Output returns the output array a - b.
func (op *SubOp) Output() *tensor.Array {
	return op.output
}
