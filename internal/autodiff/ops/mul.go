package ops

import "github.com/born-ml/gradflow/internal/tensor"

// mulBackward computes input gradients for the elementwise product a ∘ b.
//
//   - d(a∘b)/da = b, so grad_a = outputGrad ∘ b
//   - d(a∘b)/db = a, so grad_b = outputGrad ∘ a
func mulBackward(outputGrad, a, b *tensor.Array) ([]*tensor.Array, error) {
	gradA, err := tensor.MulElem(outputGrad, b)
	if err != nil {
		return nil, err
	}
	gradB, err := tensor.MulElem(outputGrad, a)
	if err != nil {
		return nil, err
	}
	return []*tensor.Array{gradA, gradB}, nil
}
