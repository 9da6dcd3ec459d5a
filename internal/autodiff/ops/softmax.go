package ops

import (
	"math"

	"github.com/born-ml/gradflow/internal/tensor"
	"gonum.org/v1/gonum/mat"
)

// softmaxForward normalizes the whole array, flattened, into a probability
// distribution:
//
//	softmax(x)_i = exp(x_i - max(x)) / Σ_j exp(x_j - max(x))
//
// The max-shifting leaves the result unchanged and prevents overflow.
func softmaxForward(a *tensor.Array) *tensor.Array {
	shift := tensor.Max(a)
	if math.IsInf(shift, 0) {
		shift = 0
	}
	exps := tensor.Map(a, func(v float64) float64 { return math.Exp(v - shift) })
	return tensor.Scale(exps, 1/tensor.Sum(exps))
}

// softmaxBackward applies the full Jacobian of the flattened softmax.
//
// With y = softmax(x) over n cells, the Jacobian is
//
//	J[i,k] = ∂y_i/∂x_k = y_i * (δ_ik - y_k)
//
// and the input gradient is Jᵗ · g, reshaped back to the input's shape.
func softmaxBackward(outputGrad, a *tensor.Array) ([]*tensor.Array, error) {
	ys := softmaxForward(a).Data()
	n := len(ys)

	jacobian := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			if i == k {
				jacobian.Set(i, k, ys[i]*(1-ys[i]))
			} else {
				jacobian.Set(i, k, -ys[i]*ys[k])
			}
		}
	}

	g := mat.NewVecDense(n, outputGrad.Data())
	var flat mat.VecDense
	flat.MulVec(jacobian.T(), g)

	shape := a.Shape()
	return unary(tensor.New(shape.Rows, shape.Cols, flat.RawVector().Data))
}
