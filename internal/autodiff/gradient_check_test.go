package autodiff_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/born-ml/gradflow/internal/autodiff"
	"github.com/born-ml/gradflow/internal/autodiff/ops"
	"github.com/born-ml/gradflow/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// awayFromZero keeps random inputs clear of ReLU's kink.
func awayFromZero(a *tensor.Array) *tensor.Array {
	return tensor.Map(a, func(v float64) float64 {
		if math.Abs(v) < 0.1 {
			return v + math.Copysign(0.2, v)
		}
		return v
	})
}

// inputsFor returns random operands of valid shapes for the operator.
func inputsFor(k ops.Kind, rng *rand.Rand) []*tensor.Array {
	shape := tensor.Shape{Rows: 3, Cols: 2}
	switch k {
	case ops.MatMul:
		return []*tensor.Array{
			tensor.Randn(tensor.Shape{Rows: 2, Cols: 3}, 1, rng),
			tensor.Randn(tensor.Shape{Rows: 3, Cols: 4}, 1, rng),
		}
	case ops.Log:
		return []*tensor.Array{tensor.Uniform(shape, 0.5, 2, rng)}
	case ops.ReLU:
		return []*tensor.Array{awayFromZero(tensor.Randn(shape, 1, rng))}
	}
	if k.Arity() == 2 {
		return []*tensor.Array{tensor.Randn(shape, 1, rng), tensor.Randn(shape, 1, rng)}
	}
	return []*tensor.Array{tensor.Randn(shape, 1, rng)}
}

// weightedSum builds sum(op(inputs) ∘ w) with a fixed random weight w, so
// every output cell receives a different upstream gradient.
func weightedSum(k ops.Kind, w *tensor.Array) autodiff.BuildFunc {
	return func(g *autodiff.Graph, in []autodiff.NodeID) (autodiff.NodeID, error) {
		operands := make([]autodiff.Operand, len(in))
		for i, id := range in {
			operands[i] = id
		}
		out, err := g.Apply(k, operands...)
		if err != nil {
			return autodiff.InvalidNode, err
		}
		weighted, err := g.Mul(out, w)
		if err != nil {
			return autodiff.InvalidNode, err
		}
		return g.Sum(weighted)
	}
}

func TestGradientCheck_AllOperators(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, k := range ops.Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			for trial := 0; trial < 3; trial++ {
				inputs := inputsFor(k, rng)
				shapes := make([]tensor.Shape, len(inputs))
				for i, in := range inputs {
					shapes[i] = in.Shape()
				}
				outShape, err := ops.OutputShape(k, shapes...)
				require.NoError(t, err)
				w := tensor.Randn(outShape, 1, rng)

				result, err := autodiff.CheckGradient(weightedSum(k, w), inputs, autodiff.DefaultGradCheckConfig())
				require.NoError(t, err)

				for i := range inputs {
					assert.Equal(t, inputs[i].Shape(), result.Analytic[i].Shape(), "analytic grad %d shape", i)
				}
				assert.True(t, result.OK, "max |analytic - numeric| = %g", result.MaxAbsDiff)
			}
		})
	}
}

func TestGradientCheck_Composite(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	// A small two-layer network: sum(softmax(W2 · tanh(W1 · x + b1)))·target.
	w1 := tensor.Randn(tensor.Shape{Rows: 4, Cols: 3}, 0.5, rng)
	b1 := tensor.Randn(tensor.Shape{Rows: 4, Cols: 1}, 0.5, rng)
	w2 := tensor.Randn(tensor.Shape{Rows: 3, Cols: 4}, 0.5, rng)
	x := tensor.Randn(tensor.Shape{Rows: 3, Cols: 1}, 1, rng)
	target, err := tensor.Column([]float64{0, 1, 0})
	require.NoError(t, err)

	build := func(g *autodiff.Graph, in []autodiff.NodeID) (autodiff.NodeID, error) {
		h, err := g.MatMul(in[0], in[3])
		if err != nil {
			return autodiff.InvalidNode, err
		}
		if h, err = g.Add(h, in[1]); err != nil {
			return autodiff.InvalidNode, err
		}
		if h, err = g.Tanh(h); err != nil {
			return autodiff.InvalidNode, err
		}
		logits, err := g.MatMul(in[2], h)
		if err != nil {
			return autodiff.InvalidNode, err
		}
		probs, err := g.Softmax(logits)
		if err != nil {
			return autodiff.InvalidNode, err
		}
		logProbs, err := g.Log(probs)
		if err != nil {
			return autodiff.InvalidNode, err
		}
		picked, err := g.Mul(logProbs, target)
		if err != nil {
			return autodiff.InvalidNode, err
		}
		nll, err := g.Sum(picked)
		if err != nil {
			return autodiff.InvalidNode, err
		}
		return g.Mul(nll, -1.0)
	}

	result, err := autodiff.CheckGradient(build, []*tensor.Array{w1, b1, w2, x}, autodiff.GradCheckConfig{})
	require.NoError(t, err)
	assert.True(t, result.OK, "max |analytic - numeric| = %g", result.MaxAbsDiff)
}

func TestGradientCheck_NonScalarOutputIsSummed(t *testing.T) {
	x, err := tensor.Column([]float64{0.1, 0.2, 0.3})
	require.NoError(t, err)

	build := func(g *autodiff.Graph, in []autodiff.NodeID) (autodiff.NodeID, error) {
		return g.Sin(in[0])
	}

	result, err := autodiff.CheckGradient(build, []*tensor.Array{x}, autodiff.DefaultGradCheckConfig())
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.InDeltaSlice(t,
		[]float64{math.Cos(0.1), math.Cos(0.2), math.Cos(0.3)},
		result.Analytic[0].Data(), 1e-12)
}

func TestGradientCheck_UnreachableInput(t *testing.T) {
	build := func(g *autodiff.Graph, in []autodiff.NodeID) (autodiff.NodeID, error) {
		return g.Square(in[0])
	}

	result, err := autodiff.CheckGradient(build,
		[]*tensor.Array{tensor.Scalar(3), tensor.Scalar(5)}, autodiff.DefaultGradCheckConfig())
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, []float64{0}, result.Analytic[1].Data())
	assert.InDeltaSlice(t, []float64{6}, result.Analytic[0].Data(), 1e-12)
}

func TestGradientCheck_DetectsWrongGradient(t *testing.T) {
	// A frozen intermediate hides the true gradient from Backward, while
	// finite differences still see it.
	build := func(g *autodiff.Graph, in []autodiff.NodeID) (autodiff.NodeID, error) {
		sq, err := g.Square(in[0])
		if err != nil {
			return autodiff.InvalidNode, err
		}
		frozen, err := g.NewNode(g.Values(sq), autodiff.NodeConfig{
			NoGrad:  true,
			Parents: []autodiff.NodeID{sq},
		})
		if err != nil {
			return autodiff.InvalidNode, err
		}
		return g.Add(frozen, in[0])
	}

	result, err := autodiff.CheckGradient(build, []*tensor.Array{tensor.Scalar(2)}, autodiff.DefaultGradCheckConfig())
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.InDelta(t, 4.0, result.MaxAbsDiff, 1e-4)
}
