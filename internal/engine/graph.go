package engine

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/flint-ml/flint/internal/tensor"
)

// GraphNode describes one recorded operation in a graph dump.
type GraphNode struct {
	Op        string
	NumInputs int
	OutShape  tensor.Shape
}

// Graph is an opaque description of the recorded computation history behind
// one output array: the operations backward-reachable from it, in recording
// order.
type Graph struct {
	Nodes []GraphNode
}

// String renders the graph one node per line, oldest first.
func (g *Graph) String() string {
	var sb strings.Builder
	for i, n := range g.Nodes {
		fmt.Fprintf(&sb, "%3d  %-8s inputs=%d out=%v\n", i, n.Op, n.NumInputs, n.OutShape)
	}
	return sb.String()
}

// GetRecordedGraph retrieves the computation history behind output as an
// opaque Graph. It is an error if output was not produced by any recorded
// operation.
func (e *Engine) GetRecordedGraph(output *tensor.Array) (*Graph, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	wanted := map[*tensor.Array]bool{output: true}
	keep := make([]bool, len(e.tape))
	found := false
	for i := len(e.tape) - 1; i >= 0; i-- {
		op := e.tape[i]
		outs := []*tensor.Array{op.Output()}
		if node, isCustom := op.(*customNode); isCustom {
			outs = node.outputs
		}
		reachable := false
		for _, out := range outs {
			if wanted[out] {
				reachable = true
				break
			}
		}
		if !reachable {
			continue
		}
		keep[i] = true
		found = true
		for _, in := range op.Inputs() {
			wanted[in] = true
		}
	}
	if !found {
		return nil, errors.New("engine: array has no recorded computation history")
	}

	g := &Graph{}
	for i, op := range e.tape {
		if !keep[i] {
			continue
		}
		// A custom node may produce several arrays; dump one entry per
		// output so none of the shapes go missing.
		if node, isCustom := op.(*customNode); isCustom {
			for _, out := range node.outputs {
				g.Nodes = append(g.Nodes, GraphNode{
					Op:        op.Name(),
					NumInputs: len(op.Inputs()),
					OutShape:  out.Shape().Clone(),
				})
			}
			continue
		}
		g.Nodes = append(g.Nodes, GraphNode{
			Op:        op.Name(),
			NumInputs: len(op.Inputs()),
			OutShape:  op.Output().Shape().Clone(),
		})
	}
	return g, nil
}
