package tensor

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// From converts a scalar, a flat sequence or a 2-D value into an Array.
//
// Accepted values:
//   - float64, float32, int: 1×1
//   - []float64: n×1 column
//   - [][]float64: rows×cols
//   - *Array: returned as is
//   - mat.Matrix: copied
//
// Any other type yields ErrUnsupportedValue.
func From(v any) (*Array, error) {
	switch x := v.(type) {
	case float64:
		return Scalar(x), nil
	case float32:
		return Scalar(float64(x)), nil
	case int:
		return Scalar(float64(x)), nil
	case []float64:
		return Column(x)
	case [][]float64:
		return FromRows(x)
	case *Array:
		if x == nil {
			return nil, errors.Wrap(ErrUnsupportedValue, "nil *Array")
		}
		return x, nil
	case mat.Matrix:
		return FromMatrix(x)
	default:
		return nil, errors.Wrapf(ErrUnsupportedValue, "%T", v)
	}
}

// IsScalarLiteral reports whether v is a raw numeric scalar that From would
// turn into a 1×1 array. Such literals may be promoted to another operand's
// shape by binary elementwise operators.
func IsScalarLiteral(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

// Randn creates an array with values drawn from a normal distribution with
// mean 0 and the given standard deviation.
// Note: uses math/rand, which is appropriate for initialization and tests.
func Randn(shape Shape, std float64, rng *rand.Rand) *Array {
	a := Zeros(shape)
	for i := 0; i < shape.Rows; i++ {
		for j := 0; j < shape.Cols; j++ {
			a.m.Set(i, j, rng.NormFloat64()*std)
		}
	}
	return a
}

// Uniform creates an array with values drawn uniformly from [lo, hi).
func Uniform(shape Shape, lo, hi float64, rng *rand.Rand) *Array {
	a := Zeros(shape)
	for i := 0; i < shape.Rows; i++ {
		for j := 0; j < shape.Cols; j++ {
			a.m.Set(i, j, lo+rng.Float64()*(hi-lo))
		}
	}
	return a
}
