package engine

import (
	"github.com/pkg/errors"

	"github.com/flint-ml/flint/internal/tensor"
)

// NodeCallbacks bundles the entry points a custom differentiable node exposes
// to the engine. The engine invokes Backward during traversal and Delete when
// the node is no longer reachable from any retained graph. Both report
// success as a boolean; a false return aborts the traversal (Backward) or is
// ignored (Delete). Faults must never propagate out of the callbacks.
type NodeCallbacks struct {
	// Backward receives the gradients of the node outputs and, parallel to
	// the node inputs, writable destination buffers plus the per-input
	// gradient request policy. trainMode reflects the traversal's mode.
	Backward func(outputGrads, inputGrads []*tensor.Array, reqs []GradReq, trainMode bool) bool

	// Delete releases whatever state the node captured.
	Delete func() bool
}

// customNode is the tape record for one user-defined differentiable node.
// The engine treats it opaquely: inputs and outputs joined by a callback
// bundle. Its gradient flow is driven by the traversal in backward.go, not
// by the Operation.Backward contract, which it implements only to sit on the
// tape alongside builtin operations.
type customNode struct {
	inputs    []*tensor.Array
	outputs   []*tensor.Array
	callbacks NodeCallbacks
}

// Name returns "Custom".
func (n *customNode) Name() string { return "Custom" }

// Backward is never used; the traversal dispatches custom nodes through
// their callback bundle. See Engine.backwardCustom.
func (n *customNode) Backward(outputGrad *tensor.Array) []*tensor.Array {
	return nil
}

// Inputs returns the node's input arrays.
func (n *customNode) Inputs() []*tensor.Array {
	return n.inputs
}

// Output returns the node's first output array.
func (n *customNode) Output() *tensor.Array {
	return n.outputs[0]
}

// RegisterCustomNode joins inputs and outputs with one opaque differentiable
// node identified by the callback bundle. It is an error to register a node
// while recording is off: there is no graph for it to join.
func (e *Engine) RegisterCustomNode(inputs, outputs []*tensor.Array, callbacks NodeCallbacks) error {
	if len(outputs) == 0 {
		return errors.New("engine: custom node needs at least one output")
	}
	if callbacks.Backward == nil || callbacks.Delete == nil {
		return errors.New("engine: custom node callback bundle is incomplete")
	}
	if !e.recording.Load() {
		return errors.New("engine: cannot register a custom node while recording is off")
	}
	e.mu.Lock()
	e.tape = append(e.tape, &customNode{
		inputs:    inputs,
		outputs:   outputs,
		callbacks: callbacks,
	})
	e.mu.Unlock()
	return nil
}
