package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flint-ml/flint/internal/engine"
	"github.com/flint-ml/flint/internal/tensor"
)

func fromF32(t *testing.T, data []float32, shape tensor.Shape) *tensor.Array {
	t.Helper()
	a, err := tensor.FromFloat32(data, shape)
	require.NoError(t, err)
	return a
}

func TestEngine_SetIsRecording_ReturnsPrevious(t *testing.T) {
	e := engine.New()

	assert.False(t, e.IsRecording())
	assert.False(t, e.SetIsRecording(true), "previous state was off")
	assert.True(t, e.IsRecording())
	assert.True(t, e.SetIsRecording(true), "previous state was on")
	assert.True(t, e.SetIsRecording(false))
	assert.False(t, e.IsRecording())
}

func TestEngine_SetIsTraining_IndependentOfRecording(t *testing.T) {
	e := engine.New()

	assert.False(t, e.SetIsTraining(true))
	assert.True(t, e.IsTraining())
	assert.False(t, e.IsRecording(), "training flag must not affect recording")

	e.SetIsRecording(true)
	assert.True(t, e.SetIsTraining(false))
	assert.True(t, e.IsRecording(), "recording flag must not be affected by training")
}

func TestEngine_RecordsOnlyWhileRecording(t *testing.T) {
	e := engine.New()
	x := fromF32(t, []float32{1, 2}, tensor.Shape{2})

	e.Add(x, x)
	assert.Equal(t, 0, e.NumRecorded(), "no recording while the flag is off")

	e.SetIsRecording(true)
	e.Add(x, x)
	e.Mul(x, x)
	assert.Equal(t, 2, e.NumRecorded())

	e.SetIsRecording(false)
	e.Add(x, x)
	assert.Equal(t, 2, e.NumRecorded())
}

func TestEngine_MarkVariables_LengthMismatch(t *testing.T) {
	e := engine.New()
	x := fromF32(t, []float32{1}, tensor.Shape{1})

	err := e.MarkVariables(
		[]*tensor.Array{x},
		[]engine.GradReq{engine.GradWrite, engine.GradWrite},
		[]*tensor.Array{tensor.ZerosLike(x)},
	)
	assert.Error(t, err)
}

func TestEngine_Backward_SimpleChain(t *testing.T) {
	// y = x*x + x  =>  dy/dx = 2x + 1
	e := engine.New()
	x := fromF32(t, []float32{2, 3}, tensor.Shape{2})
	gx := tensor.ZerosLike(x)
	require.NoError(t, e.MarkVariables(
		[]*tensor.Array{x}, []engine.GradReq{engine.GradWrite}, []*tensor.Array{gx}))

	e.SetIsRecording(true)
	y := e.Add(e.Mul(x, x), x)
	e.SetIsRecording(false)

	require.NoError(t, e.Backward([]*tensor.Array{y}, nil, false, true))
	assert.Equal(t, []float32{5, 7}, gx.AsFloat32())

	// The graph was freed: a second traversal has nothing to walk.
	assert.Equal(t, 0, e.NumRecorded())
	assert.Error(t, e.Backward([]*tensor.Array{y}, nil, false, true))
}

func TestEngine_Backward_RetainGraphAccumulates(t *testing.T) {
	e := engine.New()
	x := fromF32(t, []float32{4}, tensor.Shape{1})
	gx := tensor.ZerosLike(x)
	require.NoError(t, e.MarkVariables(
		[]*tensor.Array{x}, []engine.GradReq{engine.GradAdd}, []*tensor.Array{gx}))

	e.SetIsRecording(true)
	y := e.Mul(x, x) // dy/dx = 2x = 8
	e.SetIsRecording(false)

	require.NoError(t, e.Backward([]*tensor.Array{y}, nil, true, true))
	assert.Equal(t, []float32{8}, gx.AsFloat32())

	require.NoError(t, e.Backward([]*tensor.Array{y}, nil, false, true))
	assert.Equal(t, []float32{16}, gx.AsFloat32(), "GradAdd accumulates across traversals")
	assert.Equal(t, 0, e.NumRecorded(), "final traversal freed the graph")
}

func TestEngine_Backward_WriteOverwrites(t *testing.T) {
	e := engine.New()
	x := fromF32(t, []float32{3}, tensor.Shape{1})
	gx := fromF32(t, []float32{100}, tensor.Shape{1}) // Stale content to overwrite.
	require.NoError(t, e.MarkVariables(
		[]*tensor.Array{x}, []engine.GradReq{engine.GradWrite}, []*tensor.Array{gx}))

	e.SetIsRecording(true)
	y := e.Mul(x, x)
	e.SetIsRecording(false)

	require.NoError(t, e.Backward([]*tensor.Array{y}, nil, false, true))
	assert.Equal(t, []float32{6}, gx.AsFloat32())
}

func TestEngine_Backward_NullReqLeavesDestinationUntouched(t *testing.T) {
	e := engine.New()
	x := fromF32(t, []float32{3}, tensor.Shape{1})
	gx := fromF32(t, []float32{7}, tensor.Shape{1})
	require.NoError(t, e.MarkVariables(
		[]*tensor.Array{x}, []engine.GradReq{engine.GradNull}, []*tensor.Array{gx}))

	e.SetIsRecording(true)
	y := e.Mul(x, x)
	e.SetIsRecording(false)

	require.NoError(t, e.Backward([]*tensor.Array{y}, nil, false, true))
	assert.Equal(t, []float32{7}, gx.AsFloat32())
}

func TestEngine_Backward_ExplicitSeed(t *testing.T) {
	e := engine.New()
	x := fromF32(t, []float32{5}, tensor.Shape{1})
	gx := tensor.ZerosLike(x)
	require.NoError(t, e.MarkVariables(
		[]*tensor.Array{x}, []engine.GradReq{engine.GradWrite}, []*tensor.Array{gx}))

	e.SetIsRecording(true)
	y := e.Mul(x, x)
	e.SetIsRecording(false)

	seed := fromF32(t, []float32{0.5}, tensor.Shape{1})
	require.NoError(t, e.Backward([]*tensor.Array{y}, []*tensor.Array{seed}, false, true))
	assert.Equal(t, []float32{5}, gx.AsFloat32(), "dy/dx scaled by the seed: 2*5*0.5")
}

func TestEngine_Backward_NilSeedEntryMeansOnes(t *testing.T) {
	e := engine.New()
	x := fromF32(t, []float32{2}, tensor.Shape{1})
	gx := tensor.ZerosLike(x)
	require.NoError(t, e.MarkVariables(
		[]*tensor.Array{x}, []engine.GradReq{engine.GradWrite}, []*tensor.Array{gx}))

	e.SetIsRecording(true)
	y1 := e.Mul(x, x) // d/dx = 2x = 4
	y2 := e.Add(x, x) // d/dx = 2
	e.SetIsRecording(false)

	seed2 := fromF32(t, []float32{3}, tensor.Shape{1})
	require.NoError(t, e.Backward(
		[]*tensor.Array{y1, y2},
		[]*tensor.Array{nil, seed2}, // y1 seeded with implicit ones
		false, true))
	assert.Equal(t, []float32{4 + 2*3}, gx.AsFloat32())
}

func TestEngine_Backward_RequestValidation(t *testing.T) {
	e := engine.New()
	x := fromF32(t, []float32{1}, tensor.Shape{1})

	e.SetIsRecording(true)
	y := e.Add(x, x)
	e.SetIsRecording(false)

	// No outputs.
	assert.Error(t, e.Backward(nil, nil, false, true))

	// Count mismatch between outputs and seeds.
	assert.Error(t, e.Backward([]*tensor.Array{y}, []*tensor.Array{nil, nil}, false, true))

	// Seed shape mismatch.
	bad := tensor.Zeros(tensor.Shape{2}, tensor.Float32)
	assert.Error(t, e.Backward([]*tensor.Array{y}, []*tensor.Array{bad}, false, true))

	// Head outside the recorded graph.
	stranger := tensor.Zeros(tensor.Shape{1}, tensor.Float32)
	assert.Error(t, e.Backward([]*tensor.Array{stranger}, nil, false, true))
}

func TestEngine_Backward_ModesDuringTraversal(t *testing.T) {
	e := engine.New()
	x := fromF32(t, []float32{1}, tensor.Shape{1})
	gx := tensor.ZerosLike(x)
	require.NoError(t, e.MarkVariables(
		[]*tensor.Array{x}, []engine.GradReq{engine.GradWrite}, []*tensor.Array{gx}))

	var sawTraining, sawRecording bool
	callbacks := engine.NodeCallbacks{
		Backward: func(_, inputGrads []*tensor.Array, reqs []engine.GradReq, trainMode bool) bool {
			sawTraining = e.IsTraining()
			sawRecording = e.IsRecording()
			return trainMode == sawTraining
		},
		Delete: func() bool { return true },
	}

	e.SetIsRecording(true)
	out := tensor.ZerosLike(x)
	require.NoError(t, e.RegisterCustomNode([]*tensor.Array{x}, []*tensor.Array{out}, callbacks))

	require.NoError(t, e.Backward([]*tensor.Array{out}, nil, false, true))
	assert.True(t, sawTraining, "traversal must run with the requested train mode")
	assert.False(t, sawRecording, "gradient arithmetic must not be recorded")

	assert.True(t, e.IsRecording(), "recording restored after traversal")
	assert.False(t, e.IsTraining(), "training restored after traversal")
	e.SetIsRecording(false)
}

func TestEngine_RegisterCustomNode_RequiresRecording(t *testing.T) {
	e := engine.New()
	x := fromF32(t, []float32{1}, tensor.Shape{1})
	out := tensor.ZerosLike(x)
	callbacks := engine.NodeCallbacks{
		Backward: func(_, _ []*tensor.Array, _ []engine.GradReq, _ bool) bool { return true },
		Delete:   func() bool { return true },
	}

	assert.Error(t, e.RegisterCustomNode([]*tensor.Array{x}, []*tensor.Array{out}, callbacks))

	e.SetIsRecording(true)
	require.NoError(t, e.RegisterCustomNode([]*tensor.Array{x}, []*tensor.Array{out}, callbacks))
	assert.Equal(t, 1, e.NumRecorded())
}

func TestEngine_RegisterCustomNode_IncompleteBundle(t *testing.T) {
	e := engine.New()
	e.SetIsRecording(true)
	x := fromF32(t, []float32{1}, tensor.Shape{1})
	out := tensor.ZerosLike(x)

	assert.Error(t, e.RegisterCustomNode([]*tensor.Array{x}, []*tensor.Array{out},
		engine.NodeCallbacks{Delete: func() bool { return true }}))
	assert.Error(t, e.RegisterCustomNode([]*tensor.Array{x}, nil,
		engine.NodeCallbacks{
			Backward: func(_, _ []*tensor.Array, _ []engine.GradReq, _ bool) bool { return true },
			Delete:   func() bool { return true },
		}))
}
