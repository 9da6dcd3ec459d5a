package ops

import (
	"math"

	"github.com/born-ml/gradflow/internal/tensor"
)

func cosForward(a *tensor.Array) *tensor.Array {
	return tensor.Map(a, math.Cos)
}

// cosBackward computes input gradient for cos.
//
// Since d(cos(x))/dx = -sin(x):
// grad_input = grad_output ∘ (-sin(input)).
func cosBackward(outputGrad, a *tensor.Array) ([]*tensor.Array, error) {
	negSin := tensor.Map(a, func(v float64) float64 { return -math.Sin(v) })
	return unary(tensor.MulElem(outputGrad, negSin))
}
