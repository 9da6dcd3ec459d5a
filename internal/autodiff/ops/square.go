package ops

import "github.com/born-ml/gradflow/internal/tensor"

func squareForward(a *tensor.Array) *tensor.Array {
	return tensor.Map(a, func(v float64) float64 { return v * v })
}

// squareBackward: d(x²)/dx = 2x.
func squareBackward(outputGrad, a *tensor.Array) ([]*tensor.Array, error) {
	return unary(tensor.MulElem(outputGrad, tensor.Scale(a, 2)))
}
