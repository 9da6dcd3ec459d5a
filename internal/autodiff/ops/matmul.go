package ops

import "github.com/born-ml/gradflow/internal/tensor"

// matmulBackward computes input gradients for the matrix product a·b, where
// a is m×k and b is k×n.
//
//   - grad_a = outputGrad · bᵗ (m×k)
//   - grad_b = aᵗ · outputGrad (k×n)
func matmulBackward(outputGrad, a, b *tensor.Array) ([]*tensor.Array, error) {
	gradA, err := tensor.MatMul(outputGrad, tensor.Transpose(b))
	if err != nil {
		return nil, err
	}
	gradB, err := tensor.MatMul(tensor.Transpose(a), outputGrad)
	if err != nil {
		return nil, err
	}
	return []*tensor.Array{gradA, gradB}, nil
}
