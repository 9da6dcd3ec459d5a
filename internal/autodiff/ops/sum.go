package ops

import "github.com/born-ml/gradflow/internal/tensor"

// sumForward reduces every cell of a to a single 1×1 value.
func sumForward(a *tensor.Array) *tensor.Array {
	return tensor.Scalar(tensor.Sum(a))
}

// sumBackward broadcasts the 1×1 output gradient to the input's shape:
// d(Σa)/da_ij = 1 for every cell.
func sumBackward(outputGrad, a *tensor.Array) []*tensor.Array {
	return []*tensor.Array{tensor.Full(a.Shape(), outputGrad.At(0, 0))}
}
