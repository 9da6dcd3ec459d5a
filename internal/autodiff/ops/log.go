package ops

import (
	"math"

	"github.com/born-ml/gradflow/internal/tensor"
)

// logForward computes the natural logarithm cell by cell.
// Non-positive cells produce NaN or -Inf, as math.Log does.
func logForward(a *tensor.Array) *tensor.Array {
	return tensor.Map(a, math.Log)
}

// logBackward: d(ln x)/dx = 1/x, so grad_input = outputGrad ∘ (1 ⊘ x).
func logBackward(outputGrad, a *tensor.Array) ([]*tensor.Array, error) {
	reciprocal := tensor.Map(a, func(v float64) float64 { return 1 / v })
	return unary(tensor.MulElem(outputGrad, reciprocal))
}
