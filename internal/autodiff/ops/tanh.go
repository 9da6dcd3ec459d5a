package ops

import (
	"math"

	"github.com/born-ml/gradflow/internal/tensor"
)

func tanhForward(a *tensor.Array) *tensor.Array {
	return tensor.Map(a, math.Tanh)
}

// tanhBackward computes input gradient for tanh.
//
// d(tanh(x))/dx = 1 - tanh²(x).
func tanhBackward(outputGrad, a *tensor.Array) ([]*tensor.Array, error) {
	local := tensor.Map(a, func(v float64) float64 {
		t := math.Tanh(v)
		return 1 - t*t
	})
	return unary(tensor.MulElem(outputGrad, local))
}
