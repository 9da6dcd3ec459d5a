package ops

import "github.com/born-ml/gradflow/internal/tensor"

// subBackward computes input gradients for a - b.
//
//   - d(a-b)/da = 1, so grad_a = outputGrad
//   - d(a-b)/db = -1, so grad_b = -outputGrad
func subBackward(outputGrad *tensor.Array) []*tensor.Array {
	return []*tensor.Array{outputGrad.Clone(), tensor.Scale(outputGrad, -1)}
}
