package ops

import "github.com/flint-ml/flint/internal/tensor"

// SumOp represents the total-sum reduction: output = Σ x_i (single element).
//
// Backward pass broadcasts the scalar output gradient back over the input:
//
//	d(Σx)/dx_i = 1, so grad_x = outputGrad broadcast to the input shape
type SumOp struct {
	input  *tensor.Array
	output *tensor.Array
}

// NewSumOp creates a new SumOp.
func NewSumOp(x, output *tensor.Array) *SumOp {
	return &SumOp{input: x, output: output}
}

// Name returns "Sum".
func (op *SumOp) Name() string { return "Sum" }

// Backward broadcasts the scalar gradient over the input shape.
func (op *SumOp) Backward(outputGrad *tensor.Array) []*tensor.Array {
	var seed float64
	switch outputGrad.DType() {
	case tensor.Float32:
		seed = float64(outputGrad.AsFloat32()[0])
	case tensor.Float64:
		seed = outputGrad.AsFloat64()[0]
	}
	return []*tensor.Array{tensor.Full(op.input.Shape(), op.input.DType(), seed)}
}

// Inputs returns the input array [x].
func (op *SumOp) Inputs() []*tensor.Array {
	return []*tensor.Array{op.input}
}

// Output returns the single-element sum array.
func (op *SumOp) Output() *tensor.Array {
	return op.output
}
