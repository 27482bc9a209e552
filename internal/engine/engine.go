// Package engine implements the process-global graph engine behind the
// autograd core: it owns the recording and training flags, records operator
// applications on arrays into a gradient tape while recording is on, keeps
// the variable bindings registered by MarkVariables, and replays the tape
// backward to deposit gradients.
//
// The autograd core consumes this package through a narrow interface; user
// code normally reaches it through the public tensor and autograd packages.
package engine

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/flint-ml/flint/internal/engine/ops"
	"github.com/flint-ml/flint/internal/tensor"
)

// binding associates a marked variable with its caller-owned gradient
// destination and accumulation policy. Arrays are held by handle semantics:
// the engine never copies them, later backward calls write into whatever the
// gradient array currently references.
type binding struct {
	variable *tensor.Array
	grad     *tensor.Array
	req      GradReq
}

// Engine records operator applications and replays them backward.
//
// The two mode flags are independent: recording controls graph construction,
// training controls mode-dependent kernels. Both are atomic swap-and-return-
// previous so scope guards can capture and restore without races.
type Engine struct {
	recording atomic.Bool
	training  atomic.Bool

	mu       sync.Mutex
	tape     []ops.Operation
	bindings map[tensor.Handle]*binding
}

// New creates an empty engine with recording and training off.
func New() *Engine {
	return &Engine{
		tape:     make([]ops.Operation, 0, 64),
		bindings: make(map[tensor.Handle]*binding),
	}
}

var defaultEngine = New()

// Default returns the process-global engine.
func Default() *Engine {
	return defaultEngine
}

// SetIsRecording sets the recording flag and returns the previous value.
// While recording, every operator application is captured on the tape.
func (e *Engine) SetIsRecording(recording bool) bool {
	return e.recording.Swap(recording)
}

// SetIsTraining sets the training flag and returns the previous value.
// Training affects mode-dependent kernels without affecting recording.
func (e *Engine) SetIsTraining(training bool) bool {
	return e.training.Swap(training)
}

// IsRecording returns the current recording state.
func (e *Engine) IsRecording() bool {
	return e.recording.Load()
}

// IsTraining returns the current training state.
func (e *Engine) IsTraining() bool {
	return e.training.Load()
}

// record appends an operation to the tape if recording is on.
func (e *Engine) record(op ops.Operation) {
	if !e.recording.Load() {
		return
	}
	e.mu.Lock()
	e.tape = append(e.tape, op)
	e.mu.Unlock()
}

// NumRecorded returns the number of operations currently on the tape.
func (e *Engine) NumRecorded() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.tape)
}

// MarkVariables registers each variable as a gradient-capture leaf with its
// gradient destination and accumulation policy. The three slices must have
// equal length; earlier marks for the same storage are replaced.
func (e *Engine) MarkVariables(variables []*tensor.Array, reqs []GradReq, gradients []*tensor.Array) error {
	if len(variables) != len(gradients) || len(variables) != len(reqs) {
		return errors.Errorf("engine: MarkVariables length mismatch: %d variables, %d reqs, %d gradients",
			len(variables), len(reqs), len(gradients))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, v := range variables {
		e.bindings[v.Handle()] = &binding{
			variable: v,
			grad:     gradients[i],
			req:      reqs[i],
		}
	}
	return nil
}

// Eager operator entry points. Each computes the result via the kernels and
// captures the application on the tape when recording is on.

// Add performs element-wise addition and records the operation.
func (e *Engine) Add(a, b *tensor.Array) *tensor.Array {
	out := tensor.Add(a, b)
	e.record(ops.NewAddOp(a, b, out))
	return out
}

// Sub performs element-wise subtraction and records the operation.
func (e *Engine) Sub(a, b *tensor.Array) *tensor.Array {
	out := tensor.Sub(a, b)
	e.record(ops.NewSubOp(a, b, out))
	return out
}

// Mul performs element-wise multiplication and records the operation.
func (e *Engine) Mul(a, b *tensor.Array) *tensor.Array {
	out := tensor.Mul(a, b)
	e.record(ops.NewMulOp(a, b, out))
	return out
}

// MatMul performs 2D matrix multiplication and records the operation.
func (e *Engine) MatMul(a, b *tensor.Array) *tensor.Array {
	out := tensor.MatMul(a, b)
	e.record(ops.NewMatMulOp(a, b, out))
	return out
}

// Exp computes the element-wise exponential and records the operation.
func (e *Engine) Exp(x *tensor.Array) *tensor.Array {
	out := tensor.Exp(x)
	e.record(ops.NewExpOp(x, out))
	return out
}

// Sigmoid computes the logistic activation and records the operation.
func (e *Engine) Sigmoid(x *tensor.Array) *tensor.Array {
	out := tensor.Sigmoid(x)
	e.record(ops.NewSigmoidOp(x, out))
	return out
}

// Sum reduces to the total sum and records the operation.
func (e *Engine) Sum(x *tensor.Array) *tensor.Array {
	out := tensor.Sum(x)
	e.record(ops.NewSumOp(x, out))
	return out
}
