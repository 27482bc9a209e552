// Copyright 2026 Flint ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autograd provides reverse-mode automatic differentiation for the
// Flint ML framework.
//
// Operations executed inside a recording scope are captured on a gradient
// tape; Backward replays the tape in reverse and deposits gradients into the
// arrays bound by MarkVariables.
//
// Example:
//
//	import (
//	    "github.com/flint-ml/flint/autograd"
//	    "github.com/flint-ml/flint/tensor"
//	)
//
//	func main() {
//	    x, _ := tensor.FromFloat32([]float32{2, 3}, tensor.Shape{2})
//	    gx := tensor.ZerosLike(x)
//	    autograd.MarkVariable(x, gx, autograd.GradWrite)
//
//	    var y *tensor.Array
//	    func() {
//	        defer autograd.Record(true)()
//	        y = tensor.Add(tensor.Mul(x, x), x) // y = x^2 + x
//	    }()
//
//	    autograd.BackwardHead(y, nil) // gx now holds 2x + 1
//	}
//
// User-defined operators with hand-written gradients participate through
// Function and the Differentiable interface.
package autograd

import (
	"github.com/flint-ml/flint/internal/autograd"
	"github.com/flint-ml/flint/internal/engine"
	"github.com/flint-ml/flint/internal/tensor"
)

// GradReq selects how a marked variable's gradient is merged into its bound
// gradient array during a backward pass.
type GradReq = engine.GradReq

// Gradient request policies.
const (
	// GradNull marks the variable but never touches its gradient array.
	GradNull GradReq = engine.GradNull
	// GradWrite overwrites the gradient array on each backward pass.
	GradWrite GradReq = engine.GradWrite
	// GradAdd accumulates into the gradient array across backward passes.
	GradAdd GradReq = engine.GradAdd
)

// ParseGradReq converts a policy name ("null", "write", "add") to its GradReq.
func ParseGradReq(name string) (GradReq, error) {
	return engine.ParseGradReq(name)
}

// Error categories, testable with errors.Is.
var (
	// ErrArgument reports a malformed request, rejected before any state
	// changed.
	ErrArgument = autograd.ErrArgument
	// ErrUsage reports API misuse, such as applying a Function twice.
	ErrUsage = autograd.ErrUsage
	// ErrCallback reports a fault inside user-supplied forward or backward
	// logic.
	ErrCallback = autograd.ErrCallback
	// ErrEngine reports a failure from the graph engine.
	ErrEngine = autograd.ErrEngine
)

// Recording and training state

// SetRecording sets the recording state and returns the previous state.
// While recording, every operation is captured for a later backward pass.
func SetRecording(recording bool) bool {
	return autograd.SetRecording(recording)
}

// SetTraining sets the training state and returns the previous state.
func SetTraining(training bool) bool {
	return autograd.SetTraining(training)
}

// IsRecording returns the current recording state.
func IsRecording() bool {
	return autograd.IsRecording()
}

// IsTraining returns the current training state.
func IsTraining() bool {
	return autograd.IsTraining()
}

// Record begins a recording scope and returns the function restoring the
// previous state. Defer it immediately:
//
//	defer autograd.Record(true)()
//	y := model(x)
//
// trainMode selects whether the forward pass runs in training or predicting
// mode.
func Record(trainMode bool) func() {
	return autograd.Record(trainMode)
}

// Pause suspends recording for code that does not need gradients, restoring
// it on exit.
//
//	defer autograd.Pause(false)()
func Pause(trainMode bool) func() {
	return autograd.Pause(trainMode)
}

// TrainMode forces training-mode operator behavior for the scope without
// changing the recording state.
func TrainMode() func() {
	return autograd.TrainMode()
}

// PredictMode forces predict-mode operator behavior for the scope without
// changing the recording state.
func PredictMode() func() {
	return autograd.PredictMode()
}

// Variables and backward

// MarkVariables marks arrays as gradient-capture variables. After a later
// Backward call each variable's gradient lands in the parallel gradient
// array per the request policy. reqs may be omitted (GradWrite for all),
// a single policy (repeated), or one per variable.
func MarkVariables(variables, gradients []*tensor.Array, reqs ...GradReq) error {
	return autograd.MarkVariables(variables, gradients, reqs...)
}

// MarkVariable marks a single variable/gradient pair.
func MarkVariable(variable, gradient *tensor.Array, req GradReq) error {
	return autograd.MarkVariable(variable, gradient, req)
}

// MarkVariablesByName is MarkVariables with named request policies
// ("null", "write", "add").
func MarkVariablesByName(variables, gradients []*tensor.Array, reqNames ...string) error {
	return autograd.MarkVariablesByName(variables, gradients, reqNames...)
}

// BackwardOption configures a Backward call.
type BackwardOption = autograd.BackwardOption

// WithRetainGraph keeps the recorded graph alive after the traversal so it
// can be replayed by a subsequent Backward call.
func WithRetainGraph() BackwardOption {
	return autograd.WithRetainGraph()
}

// WithPredictMode runs the backward-pass operators in predict mode. Use it
// when the forward pass was recorded in predict mode.
func WithPredictMode() BackwardOption {
	return autograd.WithPredictMode()
}

// Backward computes the gradients of heads with respect to previously marked
// variables. headGrads seeds the traversal; nil means an implicit all-ones
// seed per head.
func Backward(heads, headGrads []*tensor.Array, opts ...BackwardOption) error {
	return autograd.Backward(heads, headGrads, opts...)
}

// BackwardHead is Backward for a single head. headGrad may be nil for the
// implicit ones seed.
func BackwardHead(head, headGrad *tensor.Array, opts ...BackwardOption) error {
	return autograd.BackwardHead(head, headGrad, opts...)
}

// Custom differentiable functions

// Differentiable is a user-defined forward/backward pair. See the Function
// documentation for the contract.
type Differentiable = autograd.Differentiable

// Function is one invocation of a Differentiable as a single opaque graph
// node. Each instance is single-use.
//
// Example:
//
//	fn := autograd.NewFunction(mySigmoid{})
//	outs, err := fn.Apply(x)
type Function = autograd.Function

// NewFunction wraps a Differentiable for a single application.
func NewFunction(impl Differentiable) *Function {
	return autograd.NewFunction(impl)
}

// Graph introspection

// Graph is an opaque description of recorded computation history.
type Graph = engine.Graph

// GraphNode describes one recorded operation.
type GraphNode = engine.GraphNode

// GetGraph retrieves the recorded computation history behind output.
func GetGraph(output *tensor.Array) (*Graph, error) {
	return autograd.GetGraph(output)
}
