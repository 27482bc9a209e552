package engine

import (
	"github.com/pkg/errors"

	"github.com/flint-ml/flint/internal/engine/ops"
	"github.com/flint-ml/flint/internal/tensor"
)

// Backward computes gradients of the outputs with respect to previously
// marked variables and deposits them into the bound gradient arrays.
//
// outputGrads seeds the traversal: nil means every head is seeded with an
// implicit ones gradient; otherwise it must parallel outputs, with nil
// entries standing for the implicit ones seed. retainGraph keeps the
// recorded tape alive for another traversal; when false the tape is freed
// and every custom node on it is released. trainMode selects the kernel
// variant mode-dependent operators use during the traversal.
//
// The traversal walks the tape in reverse dependency order, so a node's
// backward runs only after all of its consumers' gradients are available.
func (e *Engine) Backward(outputs, outputGrads []*tensor.Array, retainGraph, trainMode bool) error {
	if len(outputs) == 0 {
		return errors.New("engine: backward needs at least one output")
	}
	if outputGrads != nil && len(outputGrads) != len(outputs) {
		return errors.Errorf("engine: backward got %d outputs but %d output gradients",
			len(outputs), len(outputGrads))
	}

	// Snapshot under lock; the traversal itself runs unlocked so user
	// backward callbacks may reenter the engine.
	e.mu.Lock()
	tape := make([]ops.Operation, len(e.tape))
	copy(tape, e.tape)
	bindings := make(map[tensor.Handle]*binding, len(e.bindings))
	for h, b := range e.bindings {
		bindings[h] = b
	}
	e.mu.Unlock()

	produced := make(map[*tensor.Array]bool)
	for _, op := range tape {
		if node, isCustom := op.(*customNode); isCustom {
			for _, out := range node.outputs {
				produced[out] = true
			}
			continue
		}
		produced[op.Output()] = true
	}

	// Seed head gradients.
	grads := make(map[*tensor.Array]*tensor.Array)
	for i, head := range outputs {
		if !produced[head] {
			return errors.New("engine: output is not part of the recorded graph")
		}
		var seed *tensor.Array
		if outputGrads != nil && outputGrads[i] != nil {
			seed = outputGrads[i]
			if !seed.Shape().Equal(head.Shape()) {
				return errors.Errorf("engine: output gradient shape %v does not match output shape %v",
					seed.Shape(), head.Shape())
			}
		} else {
			seed = tensor.OnesLike(head)
		}
		grads[head] = seed
	}

	// Gradient arithmetic must not be recorded, and mode-dependent kernels
	// follow the requested train mode for the duration of the traversal.
	prevRecording := e.recording.Swap(false)
	prevTraining := e.training.Swap(trainMode)
	defer func() {
		e.recording.Store(prevRecording)
		e.training.Store(prevTraining)
	}()

	for i := len(tape) - 1; i >= 0; i-- {
		var err error
		if node, isCustom := tape[i].(*customNode); isCustom {
			err = e.backwardCustom(node, grads, bindings, produced, trainMode)
		} else {
			err = e.backwardBuiltin(tape[i], grads)
		}
		if err != nil {
			return err
		}
	}

	if err := deposit(grads, bindings); err != nil {
		return err
	}

	if !retainGraph {
		e.freeGraph()
	}
	return nil
}

// backwardBuiltin applies the chain rule for one recorded builtin operation.
func (e *Engine) backwardBuiltin(op ops.Operation, grads map[*tensor.Array]*tensor.Array) error {
	outputGrad, ok := grads[op.Output()]
	if !ok {
		return nil // No gradient flows through this operation.
	}
	inputGrads := op.Backward(outputGrad)
	inputs := op.Inputs()
	if len(inputGrads) != len(inputs) {
		return errors.Errorf("engine: %s backward returned %d gradients for %d inputs",
			op.Name(), len(inputGrads), len(inputs))
	}
	for j, input := range inputs {
		if inputGrads[j] != nil {
			accumulate(grads, input, inputGrads[j])
		}
	}
	return nil
}

// backwardCustom drives one custom node through its callback bundle.
//
// Every participating input (a marked variable or an intermediate produced by
// another recorded operation) receives a fresh write buffer that is folded
// back into the accumulation map afterwards, so contributions from custom and
// builtin consumers of the same array merge there and deposit remains the
// only writer of bound gradient arrays. A variable marked with a null policy
// and an input outside the graph get a null request with a placeholder buffer
// that must stay untouched.
func (e *Engine) backwardCustom(
	node *customNode,
	grads map[*tensor.Array]*tensor.Array,
	bindings map[tensor.Handle]*binding,
	produced map[*tensor.Array]bool,
	trainMode bool,
) error {
	outputGrads := make([]*tensor.Array, len(node.outputs))
	hasAnyGrad := false
	for j, out := range node.outputs {
		if g, ok := grads[out]; ok {
			outputGrads[j] = g
			hasAnyGrad = true
		}
	}
	if !hasAnyGrad {
		return nil
	}
	for j, out := range node.outputs {
		if outputGrads[j] == nil {
			outputGrads[j] = tensor.ZerosLike(out)
		}
	}

	inputGrads := make([]*tensor.Array, len(node.inputs))
	reqs := make([]GradReq, len(node.inputs))
	fold := make([]bool, len(node.inputs))
	for j, in := range node.inputs {
		b, marked := bindings[in.Handle()]
		inputGrads[j] = tensor.ZerosLike(in)
		switch {
		case marked && b.req == GradNull:
			reqs[j] = GradNull
		case marked || produced[in]:
			reqs[j] = GradWrite
			fold[j] = true
		default:
			reqs[j] = GradNull
		}
	}

	if ok := node.callbacks.Backward(outputGrads, inputGrads, reqs, trainMode); !ok {
		return errors.New("engine: custom node backward reported failure")
	}

	for j, in := range node.inputs {
		if fold[j] {
			accumulate(grads, in, inputGrads[j])
		}
	}
	return nil
}

// accumulate merges a newly computed gradient into the running map.
func accumulate(grads map[*tensor.Array]*tensor.Array, arr, g *tensor.Array) {
	if existing, ok := grads[arr]; ok {
		grads[arr] = tensor.Add(existing, g)
		return
	}
	grads[arr] = g
}

// deposit writes accumulated gradients into the marked variables' bound
// gradient arrays according to their request policy. All contributions,
// builtin and custom alike, arrive through the map, so this is the only
// place bound arrays are touched.
func deposit(grads map[*tensor.Array]*tensor.Array, bindings map[tensor.Handle]*binding) error {
	for _, b := range bindings {
		g, ok := grads[b.variable]
		if !ok || b.req == GradNull {
			continue
		}
		var err error
		switch b.req {
		case GradWrite:
			err = b.grad.AssignFrom(g)
		case GradAdd:
			err = b.grad.AccumulateFrom(g)
		}
		if err != nil {
			return errors.Wrap(err, "engine: depositing gradient into marked variable")
		}
	}
	return nil
}

// freeGraph drops the recorded tape and releases every custom node on it.
// Delete failures are reported by the node side; the engine does not retry.
func (e *Engine) freeGraph() {
	e.mu.Lock()
	freed := e.tape
	e.tape = make([]ops.Operation, 0, 64)
	e.mu.Unlock()

	for _, op := range freed {
		if node, isCustom := op.(*customNode); isCustom {
			node.callbacks.Delete()
		}
	}
}
