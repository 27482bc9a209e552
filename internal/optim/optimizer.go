// Package optim implements gradient-descent update rules over variables
// whose gradients are produced by the autograd backward pass.
//
// A Variable pairs a parameter array with the gradient array bound to it by
// variable marking. The training loop records a forward pass, runs backward,
// then calls Step to fold the captured gradients into the parameters:
//
//	opt := optim.NewSGD(vars, optim.SGDConfig{LR: 0.01})
//	for epoch := 0; epoch < epochs; epoch++ {
//	    loss := trainStep(batch)
//	    autograd.BackwardHead(loss, nil)
//	    opt.Step()
//	    opt.ZeroGrad()
//	}
package optim

import (
	"github.com/pkg/errors"

	"github.com/flint-ml/flint/internal/tensor"
)

// Variable pairs a parameter with the gradient array backward deposits into.
// Both arrays must be writable: Step updates Value in place and ZeroGrad
// clears Grad in place.
type Variable struct {
	Value *tensor.Array
	Grad  *tensor.Array
}

// Optimizer is the base interface for all update rules.
type Optimizer interface {
	// Step folds each variable's current gradient into its value.
	Step() error

	// ZeroGrad clears every gradient array. Call it between iterations when
	// variables are marked with the accumulating policy.
	ZeroGrad() error

	// LearningRate returns the current learning rate.
	LearningRate() float64
}

// validate rejects variable bundles an optimizer cannot step.
func validate(vars []Variable) error {
	if len(vars) == 0 {
		return errors.New("optim: no variables to optimize")
	}
	for i, v := range vars {
		if v.Value == nil || v.Grad == nil {
			return errors.Errorf("optim: variable %d is missing its value or gradient array", i)
		}
		if !v.Value.Shape().Equal(v.Grad.Shape()) {
			return errors.Errorf("optim: variable %d value shape %v does not match gradient shape %v",
				i, v.Value.Shape(), v.Grad.Shape())
		}
	}
	return nil
}

// zeroGrads clears the gradient arrays of vars in place.
func zeroGrads(vars []Variable) error {
	for i, v := range vars {
		if err := v.Grad.AssignFrom(tensor.ZerosLike(v.Grad)); err != nil {
			return errors.Wrapf(err, "optim: clearing gradient of variable %d", i)
		}
	}
	return nil
}
