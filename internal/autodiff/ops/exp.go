package ops

import (
	"math"

	"github.com/born-ml/gradflow/internal/tensor"
)

func expForward(a *tensor.Array) *tensor.Array {
	return tensor.Map(a, math.Exp)
}

// expBackward: d(eˣ)/dx = eˣ.
func expBackward(outputGrad, a *tensor.Array) ([]*tensor.Array, error) {
	return unary(tensor.MulElem(outputGrad, expForward(a)))
}
