package optim

import (
	"math"

	"github.com/pkg/errors"

	"github.com/flint-ml/flint/internal/tensor"
)

// Adam implements adaptive moment estimation (Kingma & Ba, 2015).
//
// Per variable it keeps exponential moving averages of the gradient (first
// moment) and of its square (second moment), corrects both for startup bias,
// and scales the update by the inverse root of the second moment:
//
//	m = beta1*m + (1-beta1)*grad
//	v = beta2*v + (1-beta2)*grad^2
//	value = value - lr * mhat / (sqrt(vhat) + eps)
type Adam struct {
	vars  []Variable
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64

	step    int
	moments []*tensor.Array
	scales  []*tensor.Array
}

// AdamConfig holds the Adam hyperparameters. Zero values take the usual
// defaults: LR 0.001, Beta1 0.9, Beta2 0.999, Eps 1e-8.
type AdamConfig struct {
	LR    float64
	Beta1 float64
	Beta2 float64
	Eps   float64
}

// NewAdam creates an Adam optimizer over vars.
func NewAdam(vars []Variable, config AdamConfig) (*Adam, error) {
	if err := validate(vars); err != nil {
		return nil, err
	}
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Beta1 == 0 {
		config.Beta1 = 0.9
	}
	if config.Beta2 == 0 {
		config.Beta2 = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	if config.Beta1 < 0 || config.Beta1 >= 1 || config.Beta2 < 0 || config.Beta2 >= 1 {
		return nil, errors.Errorf("optim: betas (%v, %v) out of range [0, 1)", config.Beta1, config.Beta2)
	}
	return &Adam{
		vars:    vars,
		lr:      config.LR,
		beta1:   config.Beta1,
		beta2:   config.Beta2,
		eps:     config.Eps,
		moments: make([]*tensor.Array, len(vars)),
		scales:  make([]*tensor.Array, len(vars)),
	}, nil
}

// Step applies one Adam update to every variable.
func (a *Adam) Step() error {
	a.step++
	c1 := 1 / (1 - math.Pow(a.beta1, float64(a.step)))
	c2 := 1 / (1 - math.Pow(a.beta2, float64(a.step)))

	for i, v := range a.vars {
		g := v.Grad
		if a.moments[i] == nil {
			a.moments[i] = tensor.ZerosLike(v.Value)
			a.scales[i] = tensor.ZerosLike(v.Value)
		}

		a.moments[i] = tensor.Add(
			tensor.Scale(a.moments[i], a.beta1),
			tensor.Scale(g, 1-a.beta1))
		a.scales[i] = tensor.Add(
			tensor.Scale(a.scales[i], a.beta2),
			tensor.Scale(tensor.Mul(g, g), 1-a.beta2))

		mhat := tensor.Scale(a.moments[i], c1)
		vhat := tensor.Scale(a.scales[i], c2)
		update := tensor.Div(mhat, tensor.AddScalar(tensor.Sqrt(vhat), a.eps))

		updated := tensor.Sub(v.Value, tensor.Scale(update, a.lr))
		if err := v.Value.AssignFrom(updated); err != nil {
			return errors.Wrapf(err, "optim: updating variable %d", i)
		}
	}
	return nil
}

// ZeroGrad clears every gradient array.
func (a *Adam) ZeroGrad() error {
	return zeroGrads(a.vars)
}

// LearningRate returns the current learning rate.
func (a *Adam) LearningRate() float64 {
	return a.lr
}

// SetLearningRate updates the learning rate, for schedules.
func (a *Adam) SetLearningRate(lr float64) {
	a.lr = lr
}
