// Package autograd implements the recording and differentiation protocol of
// the Flint engine: scoped toggling of the process-wide recording/training
// flags, marking of gradient-capture variables, backward invocation over the
// recorded graph, and the bridge that lets user-defined forward/backward
// pairs participate in the graph as opaque nodes.
//
// The package does not compute gradients itself; it normalizes and validates
// requests and delegates to the graph engine, which records operator
// applications while recording is on and replays them backward on demand.
package autograd

import (
	"github.com/flint-ml/flint/internal/engine"
	"github.com/flint-ml/flint/internal/tensor"
)

// Engine is the contract the autograd core consumes from the graph engine.
// The in-process implementation is internal/engine; tests may install a mock.
type Engine interface {
	SetIsRecording(recording bool) bool
	SetIsTraining(training bool) bool
	IsRecording() bool
	IsTraining() bool
	MarkVariables(variables []*tensor.Array, reqs []engine.GradReq, gradients []*tensor.Array) error
	Backward(outputs, outputGrads []*tensor.Array, retainGraph, trainMode bool) error
	RegisterCustomNode(inputs, outputs []*tensor.Array, callbacks engine.NodeCallbacks) error
	GetRecordedGraph(output *tensor.Array) (*engine.Graph, error)
}

// active is the engine the package-level functions talk to. It defaults to
// the process-global engine.
var active Engine = engine.Default()

// Use installs a different engine and returns the previous one. It is meant
// for startup wiring and tests; it is not safe to call concurrently with
// other autograd operations.
func Use(e Engine) Engine {
	prev := active
	active = e
	return prev
}

// SetRecording sets the recording state and returns the previous state.
// While recording, the engine constructs a graph from every subsequent
// operator application, for later gradient computation.
func SetRecording(recording bool) bool {
	return active.SetIsRecording(recording)
}

// SetTraining sets the training state and returns the previous state.
// Training mode affects mode-dependent operators (e.g. dropout-like
// behavior) without affecting graph construction.
func SetTraining(training bool) bool {
	return active.SetIsTraining(training)
}

// IsRecording returns the current recording state.
func IsRecording() bool {
	return active.IsRecording()
}

// IsTraining returns the current training state.
func IsTraining() bool {
	return active.IsTraining()
}

// GetGraph retrieves the recorded computation history behind output as an
// opaque graph description.
func GetGraph(output *tensor.Array) (*engine.Graph, error) {
	g, err := active.GetRecordedGraph(output)
	if err != nil {
		return nil, engineFault(err)
	}
	return g, nil
}
