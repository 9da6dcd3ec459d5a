package ops

import (
	"math"

	"github.com/born-ml/gradflow/internal/tensor"
)

// sigmoidForward computes σ(x) = 1 / (1 + e^(-x)).
func sigmoidForward(a *tensor.Array) *tensor.Array {
	return tensor.Map(a, sigmoid)
}

// sigmoidBackward computes input gradient for sigmoid.
//
// dσ(x)/dx = σ(x) ∘ (1 - σ(x)).
func sigmoidBackward(outputGrad, a *tensor.Array) ([]*tensor.Array, error) {
	local := tensor.Map(a, func(v float64) float64 {
		s := sigmoid(v)
		return s * (1 - s)
	})
	return unary(tensor.MulElem(outputGrad, local))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
