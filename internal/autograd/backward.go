package autograd

import (
	"github.com/flint-ml/flint/internal/tensor"
)

// backwardConfig collects the optional knobs of a backward invocation.
// Train mode defaults to true: gradients are usually wanted for training.
type backwardConfig struct {
	retainGraph bool
	trainMode   bool
}

// BackwardOption configures a Backward call.
type BackwardOption func(*backwardConfig)

// WithRetainGraph keeps the recorded graph alive after the traversal so it
// can be replayed by a subsequent Backward call. Without it the engine may
// free the graph once the traversal completes.
func WithRetainGraph() BackwardOption {
	return func(cfg *backwardConfig) { cfg.retainGraph = true }
}

// WithPredictMode runs the backward-pass operators in predict mode. Use it
// when the forward pass was recorded in predict mode.
func WithPredictMode() BackwardOption {
	return func(cfg *backwardConfig) { cfg.trainMode = false }
}

// Backward computes the gradients of heads with respect to previously marked
// variables. It has no return value: the effect is accumulation into the
// gradient arrays bound by MarkVariables.
//
// headGrads seeds the traversal. nil means every head gets the implicit
// all-ones seed gradient shaped like the head. When provided it must have
// exactly one entry per head; a nil entry keeps the implicit ones seed for
// that head only.
func Backward(heads, headGrads []*tensor.Array, opts ...BackwardOption) error {
	if len(heads) == 0 {
		return argumentErrorf("backward needs at least one head")
	}
	if headGrads != nil && len(headGrads) != len(heads) {
		return argumentErrorf("heads and head gradients must have the same length, got %d and %d",
			len(heads), len(headGrads))
	}

	cfg := backwardConfig{trainMode: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := active.Backward(heads, headGrads, cfg.retainGraph, cfg.trainMode); err != nil {
		return engineFault(err)
	}
	return nil
}

// BackwardHead is Backward for a single head. headGrad may be nil for the
// implicit ones seed.
func BackwardHead(head, headGrad *tensor.Array, opts ...BackwardOption) error {
	var headGrads []*tensor.Array
	if headGrad != nil {
		headGrads = []*tensor.Array{headGrad}
	}
	return Backward([]*tensor.Array{head}, headGrads, opts...)
}
