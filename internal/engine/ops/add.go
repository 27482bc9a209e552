package ops

import "github.com/flint-ml/flint/internal/tensor"

// AddOp represents element-wise addition: output = a + b.
//
// Backward pass:
//   - d(a+b)/da = 1, so grad_a = outputGrad
//   - d(a+b)/db = 1, so grad_b = outputGrad
type AddOp struct {
	inputs []*tensor.Array // [a, b]
	output *tensor.Array   // a + b
}

// NewAddOp creates a new AddOp.
func NewAddOp(a, b, output *tensor.Array) *AddOp {
	return &AddOp{
		inputs: []*tensor.Array{a, b},
		output: output,
	}
}

// Name returns "Add".
func (op *AddOp) Name() string { return "Add" }

// Backward computes input gradients for addition. The gradient flows
// unchanged to both inputs.
func (op *AddOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	return []*tensor.Array{outputGrad, outputGrad}
}

// Inputs returns the input arrays [a, b].
func (op *AddOp) Inputs() []*tensor.Array {
	return op.inputs
}

// Output returns the output array a + b.
func (op *AddOp) Output() *tensor.Array {
	return op.output
}
