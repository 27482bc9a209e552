package autograd

import (
	"github.com/flint-ml/flint/internal/engine"
	"github.com/flint-ml/flint/internal/tensor"
)

// MarkVariables marks arrays as gradient-capture variables: after a later
// Backward call, each variable's gradient is merged into the parallel
// gradient array according to the request policy.
//
// reqs is variadic: omitted means GradWrite for every variable, a single
// value is repeated for all, and otherwise one policy per variable is
// required. Both arrays of each pair stay owned by the caller; the engine
// records them by handle, so backward writes into whatever the gradient
// array references at that time.
func MarkVariables(variables, gradients []*tensor.Array, reqs ...engine.GradReq) error {
	if len(variables) != len(gradients) {
		return argumentErrorf("variables and gradients must have the same length, got %d and %d",
			len(variables), len(gradients))
	}

	var expanded []engine.GradReq
	switch len(reqs) {
	case 0:
		expanded = repeatReq(engine.GradWrite, len(variables))
	case 1:
		expanded = repeatReq(reqs[0], len(variables))
	case len(variables):
		expanded = reqs
	default:
		return argumentErrorf("got %d request policies for %d variables (want none, one, or one per variable)",
			len(reqs), len(variables))
	}

	if err := active.MarkVariables(variables, expanded, gradients); err != nil {
		return engineFault(err)
	}
	return nil
}

// MarkVariable marks a single variable/gradient pair.
func MarkVariable(variable, gradient *tensor.Array, req engine.GradReq) error {
	return MarkVariables([]*tensor.Array{variable}, []*tensor.Array{gradient}, req)
}

// MarkVariablesByName is MarkVariables with named request policies
// ("null", "write", "add"). An unrecognized name is an argument error and no
// engine call is made.
func MarkVariablesByName(variables, gradients []*tensor.Array, reqNames ...string) error {
	reqs := make([]engine.GradReq, len(reqNames))
	for i, name := range reqNames {
		req, err := engine.ParseGradReq(name)
		if err != nil {
			return argumentErrorf("%v", err)
		}
		reqs[i] = req
	}
	return MarkVariables(variables, gradients, reqs...)
}

func repeatReq(req engine.GradReq, n int) []engine.GradReq {
	out := make([]engine.GradReq, n)
	for i := range out {
		out[i] = req
	}
	return out
}
