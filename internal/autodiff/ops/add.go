package ops

import "github.com/born-ml/gradflow/internal/tensor"

// addBackward computes input gradients for a + b.
//
// Since d(a+b)/da = d(a+b)/db = 1, the gradient flows unchanged to both
// inputs. Each input gets its own copy so that accumulating into one of them
// never touches the other.
func addBackward(outputGrad *tensor.Array) []*tensor.Array {
	return []*tensor.Array{outputGrad.Clone(), outputGrad.Clone()}
}
