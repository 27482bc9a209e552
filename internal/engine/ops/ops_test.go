package ops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flint-ml/flint/internal/engine/ops"
	"github.com/flint-ml/flint/internal/tensor"
)

func fromF32(t *testing.T, data []float32, shape tensor.Shape) *tensor.Array {
	t.Helper()
	a, err := tensor.FromFloat32(data, shape)
	require.NoError(t, err)
	return a
}

func TestAddOp_Backward(t *testing.T) {
	a := fromF32(t, []float32{1, 2}, tensor.Shape{2})
	b := fromF32(t, []float32{3, 4}, tensor.Shape{2})
	out := tensor.Add(a, b)
	g := fromF32(t, []float32{5, 6}, tensor.Shape{2})

	op := ops.NewAddOp(a, b, out)
	grads := op.Backward(g)
	require.Len(t, grads, 2)
	assert.Equal(t, g.AsFloat32(), grads[0].AsFloat32())
	assert.Equal(t, g.AsFloat32(), grads[1].AsFloat32())
	assert.Equal(t, "Add", op.Name())
	assert.Same(t, out, op.Output())
	assert.Len(t, op.Inputs(), 2)
}

func TestSubOp_Backward(t *testing.T) {
	a := fromF32(t, []float32{1, 2}, tensor.Shape{2})
	b := fromF32(t, []float32{3, 4}, tensor.Shape{2})
	g := fromF32(t, []float32{5, 6}, tensor.Shape{2})

	grads := ops.NewSubOp(a, b, tensor.Sub(a, b)).Backward(g)
	assert.Equal(t, []float32{5, 6}, grads[0].AsFloat32())
	assert.Equal(t, []float32{-5, -6}, grads[1].AsFloat32())
}

func TestMulOp_Backward(t *testing.T) {
	a := fromF32(t, []float32{2, 3}, tensor.Shape{2})
	b := fromF32(t, []float32{4, 5}, tensor.Shape{2})
	g := fromF32(t, []float32{1, 1}, tensor.Shape{2})

	grads := ops.NewMulOp(a, b, tensor.Mul(a, b)).Backward(g)
	assert.Equal(t, b.AsFloat32(), grads[0].AsFloat32())
	assert.Equal(t, a.AsFloat32(), grads[1].AsFloat32())
}

func TestMatMulOp_Backward(t *testing.T) {
	// C = A @ B with A: (1,2), B: (2,1). dC/dA = g @ B^T, dC/dB = A^T @ g.
	a := fromF32(t, []float32{1, 2}, tensor.Shape{1, 2})
	b := fromF32(t, []float32{3, 4}, tensor.Shape{2, 1})
	g := fromF32(t, []float32{1}, tensor.Shape{1, 1})

	grads := ops.NewMatMulOp(a, b, tensor.MatMul(a, b)).Backward(g)
	assert.Equal(t, []float32{3, 4}, grads[0].AsFloat32())
	assert.Equal(t, []float32{1, 2}, grads[1].AsFloat32())
	assert.True(t, grads[0].Shape().Equal(a.Shape()))
	assert.True(t, grads[1].Shape().Equal(b.Shape()))
}

func TestExpOp_Backward(t *testing.T) {
	x := fromF32(t, []float32{0, 1}, tensor.Shape{2})
	out := tensor.Exp(x)
	g := fromF32(t, []float32{1, 1}, tensor.Shape{2})

	grads := ops.NewExpOp(x, out).Backward(g)
	assert.Equal(t, out.AsFloat32(), grads[0].AsFloat32(), "d(e^x)/dx = e^x")
}

func TestSigmoidOp_Backward(t *testing.T) {
	x := fromF32(t, []float32{0}, tensor.Shape{1})
	out := tensor.Sigmoid(x) // 0.5
	g := fromF32(t, []float32{1}, tensor.Shape{1})

	grads := ops.NewSigmoidOp(x, out).Backward(g)
	assert.InDelta(t, 0.25, float64(grads[0].AsFloat32()[0]), 1e-6, "σ'(0) = 0.25")
}

func TestSumOp_Backward(t *testing.T) {
	x := fromF32(t, []float32{1, 2, 3}, tensor.Shape{3})
	out := tensor.Sum(x)
	g := fromF32(t, []float32{2}, tensor.Shape{1})

	grads := ops.NewSumOp(x, out).Backward(g)
	assert.Equal(t, []float32{2, 2, 2}, grads[0].AsFloat32(), "scalar seed broadcast over input")
}
