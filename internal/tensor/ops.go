package tensor

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Add returns a + b. Shapes must match exactly.
func Add(a, b *Array) (*Array, error) {
	if err := SameShape("add", a.Shape(), b.Shape()); err != nil {
		return nil, err
	}
	var d mat.Dense
	d.Add(a.m, b.m)
	return &Array{m: &d}, nil
}

// Sub returns a - b. Shapes must match exactly.
func Sub(a, b *Array) (*Array, error) {
	if err := SameShape("sub", a.Shape(), b.Shape()); err != nil {
		return nil, err
	}
	var d mat.Dense
	d.Sub(a.m, b.m)
	return &Array{m: &d}, nil
}

// MulElem returns the elementwise (Hadamard) product a ∘ b.
func MulElem(a, b *Array) (*Array, error) {
	if err := SameShape("mul", a.Shape(), b.Shape()); err != nil {
		return nil, err
	}
	var d mat.Dense
	d.MulElem(a.m, b.m)
	return &Array{m: &d}, nil
}

// MatMul returns the matrix product a·b.
func MatMul(a, b *Array) (*Array, error) {
	if _, err := MatMulShape(a.Shape(), b.Shape()); err != nil {
		return nil, err
	}
	var d mat.Dense
	d.Mul(a.m, b.m)
	return &Array{m: &d}, nil
}

// Transpose returns a fresh copy of aᵗ.
func Transpose(a *Array) *Array {
	return &Array{m: mat.DenseCopyOf(a.m.T())}
}

// Map applies fn to every cell and returns the result as a new array.
func Map(a *Array, fn func(float64) float64) *Array {
	var d mat.Dense
	d.Apply(func(_, _ int, v float64) float64 { return fn(v) }, a.m)
	return &Array{m: &d}
}

// Scale returns f * a.
func Scale(a *Array, f float64) *Array {
	var d mat.Dense
	d.Scale(f, a.m)
	return &Array{m: &d}
}

// Sum returns the sum of all cells.
func Sum(a *Array) float64 {
	return mat.Sum(a.m)
}

// Max returns the largest cell. NaN cells are ignored; an all-NaN array
// yields -Inf.
func Max(a *Array) float64 {
	best := math.Inf(-1)
	rows, _ := a.m.Dims()
	for i := 0; i < rows; i++ {
		for _, v := range a.m.RawRowView(i) {
			if v > best {
				best = v
			}
		}
	}
	return best
}
