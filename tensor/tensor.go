// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"math/rand"

	"github.com/born-ml/gradflow/internal/tensor"
)

// Type aliases for public API

// Array is a dense row-major rows×cols float64 array.
type Array = tensor.Array

// Shape is the two-dimensional extent of an Array.
type Shape = tensor.Shape

// Common errors.
var (
	ErrShapeMismatch    = tensor.ErrShapeMismatch
	ErrInvalidShape     = tensor.ErrInvalidShape
	ErrUnsupportedValue = tensor.ErrUnsupportedValue
	ErrNotScalar        = tensor.ErrNotScalar
)

// Constructors

// From converts a float64, float32, int, []float64, [][]float64, *Array or
// gonum mat.Matrix into an Array.
func From(v any) (*Array, error) {
	return tensor.From(v)
}

// New creates a rows×cols array from row-major data.
func New(rows, cols int, data []float64) (*Array, error) {
	return tensor.New(rows, cols, data)
}

// Scalar creates a 1×1 array.
func Scalar(v float64) *Array {
	return tensor.Scalar(v)
}

// Column creates an n×1 column array.
func Column(values []float64) (*Array, error) {
	return tensor.Column(values)
}

// FromRows creates an array from equally long rows.
func FromRows(rows [][]float64) (*Array, error) {
	return tensor.FromRows(rows)
}

// Zeros creates an array filled with zeros.
func Zeros(shape Shape) *Array {
	return tensor.Zeros(shape)
}

// Ones creates an array filled with ones.
func Ones(shape Shape) *Array {
	return tensor.Ones(shape)
}

// Full creates an array filled with value.
func Full(shape Shape, value float64) *Array {
	return tensor.Full(shape, value)
}

// Randn creates an array of normally distributed values.
func Randn(shape Shape, std float64, rng *rand.Rand) *Array {
	return tensor.Randn(shape, std, rng)
}

// Uniform creates an array of values drawn uniformly from [lo, hi).
func Uniform(shape Shape, lo, hi float64, rng *rand.Rand) *Array {
	return tensor.Uniform(shape, lo, hi, rng)
}

// Operations

// Add returns a + b.
func Add(a, b *Array) (*Array, error) {
	return tensor.Add(a, b)
}

// Sub returns a - b.
func Sub(a, b *Array) (*Array, error) {
	return tensor.Sub(a, b)
}

// MulElem returns the elementwise product a ∘ b.
func MulElem(a, b *Array) (*Array, error) {
	return tensor.MulElem(a, b)
}

// MatMul returns the matrix product a·b.
func MatMul(a, b *Array) (*Array, error) {
	return tensor.MatMul(a, b)
}

// Transpose returns aᵗ.
func Transpose(a *Array) *Array {
	return tensor.Transpose(a)
}
