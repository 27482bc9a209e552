package tensor

import (
	"fmt"
	"math"

	"github.com/flint-ml/flint/internal/parallel"
)

// Elementwise and reduction kernels used by the engine's forward and backward
// computations. Kernels never mutate their operands; results are fresh
// writable arrays. Shape or dtype misuse is a programming error and panics.

// Add computes a + b element-wise.
func Add(a, b *Array) *Array {
	return binaryOp("Add", a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub computes a - b element-wise.
func Sub(a, b *Array) *Array {
	return binaryOp("Sub", a, b,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul computes a * b element-wise.
func Mul(a, b *Array) *Array {
	return binaryOp("Mul", a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// Div computes a / b element-wise.
func Div(a, b *Array) *Array {
	return binaryOp("Div", a, b,
		func(x, y float32) float32 { return x / y },
		func(x, y float64) float64 { return x / y })
}

// Exp computes e^x element-wise.
func Exp(a *Array) *Array {
	return unaryOp(a,
		func(x float32) float32 { return float32(math.Exp(float64(x))) },
		math.Exp)
}

// Neg computes -x element-wise.
func Neg(a *Array) *Array {
	return unaryOp(a,
		func(x float32) float32 { return -x },
		func(x float64) float64 { return -x })
}

// Sigmoid computes 1/(1+e^-x) element-wise.
func Sigmoid(a *Array) *Array {
	return unaryOp(a,
		func(x float32) float32 { return float32(1 / (1 + math.Exp(float64(-x)))) },
		func(x float64) float64 { return 1 / (1 + math.Exp(-x)) })
}

// Sqrt computes the element-wise square root.
func Sqrt(a *Array) *Array {
	return unaryOp(a,
		func(x float32) float32 { return float32(math.Sqrt(float64(x))) },
		math.Sqrt)
}

// AddScalar computes x + s element-wise for a scalar s.
func AddScalar(a *Array, s float64) *Array {
	return unaryOp(a,
		func(x float32) float32 { return x + float32(s) },
		func(x float64) float64 { return x + s })
}

// Scale computes s*x element-wise for a scalar s.
func Scale(a *Array, s float64) *Array {
	return unaryOp(a,
		func(x float32) float32 { return x * float32(s) },
		func(x float64) float64 { return x * s })
}

// Sum reduces the array to a single-element array holding the total sum.
func Sum(a *Array) *Array {
	out := Zeros(Shape{1}, a.DType())
	switch a.DType() {
	case Float32:
		var total float32
		for _, v := range a.AsFloat32() {
			total += v
		}
		out.AsFloat32()[0] = total
	case Float64:
		var total float64
		for _, v := range a.AsFloat64() {
			total += v
		}
		out.AsFloat64()[0] = total
	}
	return out
}

// MatMul computes the 2D matrix product a @ b: (M, K) @ (K, N) -> (M, N).
func MatMul(a, b *Array) *Array {
	as, bs := a.Shape(), b.Shape()
	if len(as) != 2 || len(bs) != 2 {
		panic("MatMul only supports 2D arrays")
	}
	if as[1] != bs[0] {
		panic(fmt.Sprintf("incompatible shapes for MatMul: %v @ %v", as, bs))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("MatMul dtype mismatch: %s vs %s", a.DType(), b.DType()))
	}
	m, k, n := as[0], as[1], bs[1]
	out := Zeros(Shape{m, n}, a.DType())

	cfg := parallel.DefaultConfig()
	switch a.DType() {
	case Float32:
		av, bv, ov := a.AsFloat32(), b.AsFloat32(), out.AsFloat32()
		parallel.For(m, func(i int) {
			for p := 0; p < k; p++ {
				aip := av[i*k+p]
				for j := 0; j < n; j++ {
					ov[i*n+j] += aip * bv[p*n+j]
				}
			}
		}, cfg)
	case Float64:
		av, bv, ov := a.AsFloat64(), b.AsFloat64(), out.AsFloat64()
		parallel.For(m, func(i int) {
			for p := 0; p < k; p++ {
				aip := av[i*k+p]
				for j := 0; j < n; j++ {
					ov[i*n+j] += aip * bv[p*n+j]
				}
			}
		}, cfg)
	}
	return out
}

// Transpose2D computes the transpose of a 2D array.
func Transpose2D(a *Array) *Array {
	as := a.Shape()
	if len(as) != 2 {
		panic("Transpose2D only supports 2D arrays")
	}
	m, n := as[0], as[1]
	out := Zeros(Shape{n, m}, a.DType())
	switch a.DType() {
	case Float32:
		av, ov := a.AsFloat32(), out.AsFloat32()
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				ov[j*m+i] = av[i*n+j]
			}
		}
	case Float64:
		av, ov := a.AsFloat64(), out.AsFloat64()
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				ov[j*m+i] = av[i*n+j]
			}
		}
	}
	return out
}

// binaryOp applies f element-wise over same-shaped, same-typed operands.
func binaryOp(name string, a, b *Array, f32 func(x, y float32) float32, f64 func(x, y float64) float64) *Array {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("%s shape mismatch: %v vs %v", name, a.Shape(), b.Shape()))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s dtype mismatch: %s vs %s", name, a.DType(), b.DType()))
	}
	out := Zeros(a.Shape(), a.DType())
	cfg := parallel.DefaultConfig()
	switch a.DType() {
	case Float32:
		av, bv, ov := a.AsFloat32(), b.AsFloat32(), out.AsFloat32()
		parallel.For(len(ov), func(i int) { ov[i] = f32(av[i], bv[i]) }, cfg)
	case Float64:
		av, bv, ov := a.AsFloat64(), b.AsFloat64(), out.AsFloat64()
		parallel.For(len(ov), func(i int) { ov[i] = f64(av[i], bv[i]) }, cfg)
	}
	return out
}

// unaryOp applies f element-wise.
func unaryOp(a *Array, f32 func(x float32) float32, f64 func(x float64) float64) *Array {
	out := Zeros(a.Shape(), a.DType())
	cfg := parallel.DefaultConfig()
	switch a.DType() {
	case Float32:
		av, ov := a.AsFloat32(), out.AsFloat32()
		parallel.For(len(ov), func(i int) { ov[i] = f32(av[i]) }, cfg)
	case Float64:
		av, ov := a.AsFloat64(), out.AsFloat64()
		parallel.For(len(ov), func(i int) { ov[i] = f64(av[i]) }, cfg)
	}
	return out
}
