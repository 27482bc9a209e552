// Copyright 2026 Flint ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient-descent optimizers for the Flint ML
// framework.
//
// Optimizers consume the gradients the autograd backward pass deposits into
// marked variables and fold them into the parameter arrays in place.
//
// Example:
//
//	w, _ := tensor.FromFloat32([]float32{0}, tensor.Shape{1})
//	gw := tensor.ZerosLike(w)
//	autograd.MarkVariable(w, gw, autograd.GradWrite)
//
//	opt, _ := optim.NewSGD([]optim.Variable{{Value: w, Grad: gw}}, optim.SGDConfig{LR: 0.01})
//	for epoch := 0; epoch < epochs; epoch++ {
//	    loss := trainStep(w)
//	    autograd.BackwardHead(loss, nil)
//	    opt.Step()
//	}
package optim

import (
	"github.com/flint-ml/flint/internal/optim"
)

// Variable pairs a parameter array with its bound gradient array.
type Variable = optim.Variable

// Optimizer is the base interface for all update rules.
type Optimizer = optim.Optimizer

// SGD is stochastic gradient descent with optional momentum.
type SGD = optim.SGD

// SGDConfig holds the SGD hyperparameters.
type SGDConfig = optim.SGDConfig

// NewSGD creates an SGD optimizer over vars.
func NewSGD(vars []Variable, config SGDConfig) (*SGD, error) {
	return optim.NewSGD(vars, config)
}

// Adam is the adaptive moment estimation optimizer.
type Adam = optim.Adam

// AdamConfig holds the Adam hyperparameters.
type AdamConfig = optim.AdamConfig

// NewAdam creates an Adam optimizer over vars.
func NewAdam(vars []Variable, config AdamConfig) (*Adam, error) {
	return optim.NewAdam(vars, config)
}
