package ops

import (
	"math"

	"github.com/born-ml/gradflow/internal/tensor"
)

func sinForward(a *tensor.Array) *tensor.Array {
	return tensor.Map(a, math.Sin)
}

// sinBackward computes input gradient for sin.
//
// Since d(sin(x))/dx = cos(x):
// grad_input = grad_output ∘ cos(input).
func sinBackward(outputGrad, a *tensor.Array) ([]*tensor.Array, error) {
	return unary(tensor.MulElem(outputGrad, tensor.Map(a, math.Cos)))
}
