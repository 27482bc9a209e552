package autograd

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/flint-ml/flint/internal/engine"
	"github.com/flint-ml/flint/internal/tensor"
)

// Differentiable is a user-defined forward/backward pair. During gradient
// computation the user's Backward replaces the default chain rule for the
// node.
//
// Backward takes as many gradients as Forward returned outputs, and must
// return exactly one array per Forward input. Intermediate state needed by
// Backward is stashed on the Function with SaveForBackward.
//
// A numerically stable sigmoid, for example:
//
//	type sigmoid struct{}
//
//	func (sigmoid) Forward(fn *autograd.Function, inputs ...*tensor.Array) []*tensor.Array {
//		y := tensor.Sigmoid(inputs[0])
//		fn.SaveForBackward(y)
//		return []*tensor.Array{y}
//	}
//
//	func (sigmoid) Backward(fn *autograd.Function, outputGrads ...*tensor.Array) []*tensor.Array {
//		y := fn.SavedTensors()[0]
//		dy := outputGrads[0]
//		return []*tensor.Array{tensor.Mul(dy, tensor.Mul(y, tensor.Sub(tensor.OnesLike(y), y)))}
//	}
type Differentiable interface {
	Forward(fn *Function, inputs ...*tensor.Array) []*tensor.Array
	Backward(fn *Function, outputGrads ...*tensor.Array) []*tensor.Array
}

// Function is one invocation of a Differentiable as a single opaque graph
// node. Each instance is single-use: Apply consumes it, and a second Apply
// is a usage error. Create a fresh Function per invocation.
type Function struct {
	impl  Differentiable
	used  bool
	saved []*tensor.Array
	key   uint64
}

// NewFunction wraps a Differentiable for a single application.
func NewFunction(impl Differentiable) *Function {
	return &Function{impl: impl}
}

// SaveForBackward retains arrays computed during Forward for use by
// Backward. The saved arrays live as long as the graph node does.
func (f *Function) SaveForBackward(arrays ...*tensor.Array) {
	f.saved = arrays
}

// SavedTensors returns the arrays stashed by SaveForBackward.
func (f *Function) SavedTensors() []*tensor.Array {
	return f.saved
}

// Key returns the registry key of the node created by Apply. It is only
// meaningful after Apply ran while recording was on.
func (f *Function) Key() uint64 {
	return f.key
}

// Apply runs the user's Forward eagerly and, if recording is on, registers
// the invocation as one opaque differentiable node joining the inputs to the
// outputs.
//
// Forward always executes with recording suspended, so the function's
// internal operations are not separately recorded; the previous recording
// state is restored on every path, including a panicking Forward. When
// recording was off on entry the raw outputs are returned with no backward
// obligation.
func (f *Function) Apply(inputs ...*tensor.Array) ([]*tensor.Array, error) {
	if f.used {
		return nil, errors.Wrap(ErrUsage, "each Function instance can only be applied once; create another instance")
	}
	f.used = true

	prevRecording := SetRecording(false)
	var outputs []*tensor.Array
	exc := exceptions.Try(func() {
		outputs = f.impl.Forward(f, inputs...)
	})
	SetRecording(prevRecording)
	if exc != nil {
		klog.Errorf("error in Function.Forward: %+v", exc)
		return nil, errors.Wrapf(ErrCallback, "user forward failed: %v", exc)
	}
	if len(outputs) == 0 {
		return nil, errors.Wrap(ErrUsage, "Forward must return at least one output array")
	}

	if !prevRecording {
		return outputs, nil
	}

	key := funcRegistry.inc()
	f.key = key
	callbacks := engine.NodeCallbacks{
		Backward: f.backwardEntry,
		Delete: func() bool {
			return deleteEntry(key)
		},
	}

	if err := active.RegisterCustomNode(inputs, outputs, callbacks); err != nil {
		return nil, engineFault(err)
	}
	funcRegistry.insert(key, callbacks)
	return outputs, nil
}

// backwardEntry is the engine-facing backward trampoline. It rebuilds array
// views over the raw buffers, relays into the user's Backward, and merges the
// returned gradients into the destination buffers per the request policy.
// Every fault (a panicking user Backward, wrong return arity, a nil return,
// a destination write failure) is contained here, logged with its trace, and
// reported to the engine as a boolean failure. Nothing may propagate into the
// engine's traversal loop.
// The traversal's train mode is already live on the engine when this runs;
// user Backward logic reads it through IsTraining.
func (f *Function) backwardEntry(outputGrads, inputGrads []*tensor.Array, reqs []engine.GradReq, _ bool) bool {
	exc := exceptions.Try(func() {
		gradViews := make([]*tensor.Array, len(outputGrads))
		for i, g := range outputGrads {
			gradViews[i] = g.View(false)
			defer gradViews[i].Release()
		}

		rets := f.impl.Backward(f, gradViews...)

		// Validate the whole return before touching any destination, so a
		// contract violation leaves every buffer unmodified.
		if len(rets) != len(inputGrads) {
			exceptions.Panicf("Function.Backward must return exactly one array per Forward input: expecting %d, got %d",
				len(inputGrads), len(rets))
		}
		for i, ret := range rets {
			if ret == nil {
				exceptions.Panicf("Function.Backward returned nil for input gradient %d", i)
			}
		}

		for i, ret := range rets {
			switch reqs[i] {
			case engine.GradNull:
				continue
			case engine.GradWrite:
				dst := inputGrads[i].View(true)
				err := dst.AssignFrom(ret)
				dst.Release()
				if err != nil {
					exceptions.Panicf("writing input gradient %d: %v", i, err)
				}
			case engine.GradAdd:
				dst := inputGrads[i].View(true)
				err := dst.AccumulateFrom(ret)
				dst.Release()
				if err != nil {
					exceptions.Panicf("accumulating input gradient %d: %v", i, err)
				}
			}
		}
	})
	if exc != nil {
		klog.Errorf("error in Function.Backward: %+v", exc)
		return false
	}
	return true
}

// deleteEntry is the engine-facing deletion trampoline: it releases the
// registry anchor for key. Removing an already-removed key is reported as a
// caught failure, not a fault; the engine may race its own deletions.
func deleteEntry(key uint64) bool {
	if !funcRegistry.remove(key) {
		klog.Errorf("error in Function delete callback: registry entry %d already removed", key)
		return false
	}
	return true
}
