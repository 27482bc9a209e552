package ops

import "github.com/flint-ml/flint/internal/tensor"

// SigmoidOp represents the logistic activation: output = 1 / (1 + e^-x).
//
// Backward pass reuses the forward output:
//
//	dσ/dx = σ(x) * (1 - σ(x)), so grad_x = outputGrad * output * (1 - output)
type SigmoidOp struct {
	input  *tensor.Array
	output *tensor.Array
}

// NewSigmoidOp creates a new SigmoidOp.
func NewSigmoidOp(x, output *tensor.Array) *SigmoidOp {
	return &SigmoidOp{input: x, output: output}
}

// Name returns "Sigmoid".
func (op *SigmoidOp) Name() string { return "Sigmoid" }

// Backward computes the input gradient for the sigmoid.
func (op *SigmoidOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	y := op.output
	oneMinusY := tensor.Sub(tensor.OnesLike(y), y)
	return []*tensor.Array{tensor.Mul(outputGrad, tensor.Mul(y, oneMinusY))}
}

// Inputs returns the input array [x].
func (op *SigmoidOp) Inputs() []*tensor.Array {
	return []*tensor.Array{op.input}
}

// Output returns the output array σ(x).
func (op *SigmoidOp) Output() *tensor.Array {
	return op.output
}
