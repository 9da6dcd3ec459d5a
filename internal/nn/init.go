package nn

import (
	"math"
	"math/rand"

	"github.com/born-ml/gradflow/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// This initialization helps maintain variance of activations across layers.
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) *tensor.Array {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return tensor.Uniform(shape, -bound, bound, rng)
}

// Normal draws weights from N(0, std²).
func Normal(shape tensor.Shape, std float64, rng *rand.Rand) *tensor.Array {
	return tensor.Randn(shape, std, rng)
}
