package optim

import (
	"github.com/pkg/errors"

	"github.com/flint-ml/flint/internal/tensor"
)

// SGD implements stochastic gradient descent with optional momentum.
//
// Update rule without momentum:
//
//	value = value - lr * grad
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + grad
//	value = value - lr * velocity
type SGD struct {
	vars       []Variable
	lr         float64
	momentum   float64
	velocities []*tensor.Array
}

// SGDConfig holds the SGD hyperparameters.
type SGDConfig struct {
	LR       float64 // learning rate, default 0.01
	Momentum float64 // momentum factor in [0, 1), default 0
}

// NewSGD creates an SGD optimizer over vars.
func NewSGD(vars []Variable, config SGDConfig) (*SGD, error) {
	if err := validate(vars); err != nil {
		return nil, err
	}
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.Momentum < 0 || config.Momentum >= 1 {
		return nil, errors.Errorf("optim: momentum %v out of range [0, 1)", config.Momentum)
	}
	return &SGD{
		vars:       vars,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make([]*tensor.Array, len(vars)),
	}, nil
}

// Step applies one descent update to every variable.
func (s *SGD) Step() error {
	for i, v := range s.vars {
		g := v.Grad
		if s.momentum != 0 {
			if s.velocities[i] == nil {
				s.velocities[i] = tensor.ZerosLike(v.Value)
			}
			s.velocities[i] = tensor.Add(tensor.Scale(s.velocities[i], s.momentum), g)
			g = s.velocities[i]
		}
		updated := tensor.Sub(v.Value, tensor.Scale(g, s.lr))
		if err := v.Value.AssignFrom(updated); err != nil {
			return errors.Wrapf(err, "optim: updating variable %d", i)
		}
	}
	return nil
}

// ZeroGrad clears every gradient array.
func (s *SGD) ZeroGrad() error {
	return zeroGrads(s.vars)
}

// LearningRate returns the current learning rate.
func (s *SGD) LearningRate() float64 {
	return s.lr
}

// SetLearningRate updates the learning rate, for schedules.
func (s *SGD) SetLearningRate(lr float64) {
	s.lr = lr
}
