package ops

import "github.com/born-ml/gradflow/internal/tensor"

// reluForward computes max(x, 0) cell by cell.
func reluForward(a *tensor.Array) *tensor.Array {
	return tensor.Map(a, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// reluBackward computes input gradient for ReLU.
//
// d(ReLU(x))/dx = 1 if x > 0, else 0, so the output gradient is multiplied
// by a binary mask of the input. The derivative at exactly 0 is taken as 0.
func reluBackward(outputGrad, a *tensor.Array) ([]*tensor.Array, error) {
	return unary(tensor.MulElem(outputGrad, createReLUMask(a)))
}

// createReLUMask creates a binary mask where input > 0.
func createReLUMask(a *tensor.Array) *tensor.Array {
	return tensor.Map(a, func(v float64) float64 {
		if v > 0 {
			return 1
		}
		return 0
	})
}
