package autograd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flint-ml/flint/internal/engine"
	"github.com/flint-ml/flint/internal/tensor"
)

// mockEngine records every call it receives so tests can assert on what the
// core actually asked the engine to do, without involving real kernels.
type mockEngine struct {
	recording bool
	training  bool

	setRecordingCalls int
	setTrainingCalls  int

	markCalls int
	lastVars  []*tensor.Array
	lastReqs  []engine.GradReq
	lastGrads []*tensor.Array
	markErr   error

	backwardCalls int
	lastHeads     []*tensor.Array
	lastHeadGrads []*tensor.Array
	lastRetain    bool
	lastTrain     bool
	backwardErr   error

	registerCalls int
	lastInputs    []*tensor.Array
	lastOutputs   []*tensor.Array
	lastCallbacks engine.NodeCallbacks
	registerErr   error
}

func (m *mockEngine) SetIsRecording(recording bool) bool {
	m.setRecordingCalls++
	prev := m.recording
	m.recording = recording
	return prev
}

func (m *mockEngine) SetIsTraining(training bool) bool {
	m.setTrainingCalls++
	prev := m.training
	m.training = training
	return prev
}

func (m *mockEngine) IsRecording() bool { return m.recording }
func (m *mockEngine) IsTraining() bool  { return m.training }

func (m *mockEngine) MarkVariables(variables []*tensor.Array, reqs []engine.GradReq, gradients []*tensor.Array) error {
	m.markCalls++
	m.lastVars = variables
	m.lastReqs = reqs
	m.lastGrads = gradients
	return m.markErr
}

func (m *mockEngine) Backward(outputs, outputGrads []*tensor.Array, retainGraph, trainMode bool) error {
	m.backwardCalls++
	m.lastHeads = outputs
	m.lastHeadGrads = outputGrads
	m.lastRetain = retainGraph
	m.lastTrain = trainMode
	return m.backwardErr
}

func (m *mockEngine) RegisterCustomNode(inputs, outputs []*tensor.Array, callbacks engine.NodeCallbacks) error {
	m.registerCalls++
	m.lastInputs = inputs
	m.lastOutputs = outputs
	m.lastCallbacks = callbacks
	return m.registerErr
}

func (m *mockEngine) GetRecordedGraph(output *tensor.Array) (*engine.Graph, error) {
	return &engine.Graph{}, nil
}

// installMock swaps the active engine for a fresh mock and restores the
// previous engine when the test finishes.
func installMock(t *testing.T) *mockEngine {
	t.Helper()
	m := &mockEngine{}
	prev := Use(m)
	t.Cleanup(func() { Use(prev) })
	return m
}

func fromF32(t *testing.T, data []float32, shape tensor.Shape) *tensor.Array {
	t.Helper()
	a, err := tensor.FromFloat32(data, shape)
	require.NoError(t, err)
	return a
}
