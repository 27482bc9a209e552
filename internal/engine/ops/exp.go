package ops

import "github.com/flint-ml/flint/internal/tensor"

// ExpOp represents element-wise exponential: output = e^x.
//
// Backward pass reuses the forward output:
//
//	d(e^x)/dx = e^x, so grad_x = outputGrad * output
type ExpOp struct {
	input  *tensor.Array
	output *tensor.Array
}

// NewExpOp creates a new ExpOp.
func NewExpOp(x, output *tensor.Array) *ExpOp {
	return &ExpOp{input: x, output: output}
}

// Name returns "Exp".
func (op *ExpOp) Name() string { return "Exp" }

// Backward computes the input gradient for the exponential.
func (op *ExpOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	return []*tensor.Array{tensor.Mul(outputGrad, op.output)}
}

// Inputs returns the input array [x].
func (op *ExpOp) Inputs() []*tensor.Array {
	return []*tensor.Array{op.input}
}

// Output returns the output array e^x.
func (op *ExpOp) Output() *tensor.Array {
	return op.output
}
