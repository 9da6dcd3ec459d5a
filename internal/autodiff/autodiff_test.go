package autodiff_test

import (
	"math"
	"testing"

	"github.com/born-ml/gradflow/internal/autodiff"
	"github.com/born-ml/gradflow/internal/autodiff/ops"
	"github.com/born-ml/gradflow/internal/tensor"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradData returns the accumulated gradient of id as a flat slice.
func gradData(t *testing.T, g *autodiff.Graph, id autodiff.NodeID) []float64 {
	t.Helper()
	grad, ok := g.Grad(id)
	require.True(t, ok, "node %q has no gradient", g.Label(id))
	return grad.Data()
}

// TestScenario_SumOfAdd: z = sum(x + y) gives ones for both inputs.
func TestScenario_SumOfAdd(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf([]float64{1, 2, 3}, "x")
	require.NoError(t, err)
	y, err := g.Leaf([]float64{4, 5, 6}, "y")
	require.NoError(t, err)

	xy, err := g.Add(x, y)
	require.NoError(t, err)
	z, err := g.Sum(xy)
	require.NoError(t, err)

	value, err := g.Item(z)
	require.NoError(t, err)
	assert.InDelta(t, 21.0, value, 1e-12)

	require.NoError(t, g.Backward(z, nil))

	assert.Equal(t, []float64{1, 1, 1}, gradData(t, g, x))
	assert.Equal(t, []float64{1, 1, 1}, gradData(t, g, y))
	assert.Equal(t, tensor.Shape{Rows: 3, Cols: 1}, g.Values(x).Shape())
}

// TestScenario_SinChain: z = sin(2x + 0.5) at x = 3.5 gives 2·cos(7.5).
func TestScenario_SinChain(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf(3.5, "x")
	require.NoError(t, err)

	twoX, err := g.Mul(2.0, x)
	require.NoError(t, err)
	arg, err := g.Add(twoX, 0.5)
	require.NoError(t, err)
	z, err := g.Sin(arg)
	require.NoError(t, err)

	require.NoError(t, g.Backward(z, tensor.Scalar(1)))

	grad := gradData(t, g, x)
	require.Len(t, grad, 1)
	assert.InDelta(t, 2*math.Cos(7.5), grad[0], 1e-9)
	assert.InDelta(t, 0.6933, grad[0], 1e-4)
}

// TestScenario_MatMulSum: z = sum(A·x) with A 3×1 and x 1×1.
func TestScenario_MatMulSum(t *testing.T) {
	g := autodiff.NewGraph()
	a, err := g.Leaf([]float64{0.5, -1.5, 2}, "A")
	require.NoError(t, err)
	x, err := g.Leaf(4.0, "x")
	require.NoError(t, err)

	ax, err := g.MatMul(a, x)
	require.NoError(t, err)
	z, err := g.Sum(ax)
	require.NoError(t, err)

	require.NoError(t, g.BackwardScalar(z))

	assert.Equal(t, []float64{4, 4, 4}, gradData(t, g, a))
	assert.InDeltaSlice(t, []float64{0.5 - 1.5 + 2}, gradData(t, g, x), 1e-12)
}

func TestBackward_FanOut(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf(0.7, "x")
	require.NoError(t, err)

	// y = sin(x) + x², x feeds two branches.
	s, err := g.Sin(x)
	require.NoError(t, err)
	sq, err := g.Square(x)
	require.NoError(t, err)
	y, err := g.Add(s, sq)
	require.NoError(t, err)

	require.NoError(t, g.Backward(y, nil))

	want := math.Cos(0.7) + 2*0.7
	assert.InDeltaSlice(t, []float64{want}, gradData(t, g, x), 1e-12)
}

func TestBackward_SameNodeTwice(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf([]float64{1, 2}, "x")
	require.NoError(t, err)

	// x + x: both operands are the same node.
	y, err := g.Add(x, x)
	require.NoError(t, err)
	z, err := g.Mul(y, x) // 2x², gradient 4x
	require.NoError(t, err)
	loss, err := g.Sum(z)
	require.NoError(t, err)

	require.NoError(t, g.Backward(loss, nil))

	assert.InDeltaSlice(t, []float64{4, 8}, gradData(t, g, x), 1e-12)
}

func TestBackward_IntermediateFanOut(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf(1.5, "x")
	require.NoError(t, err)

	// h = exp(x) is shared by both branches of y = h·h + h.
	h, err := g.Exp(x)
	require.NoError(t, err)
	hh, err := g.Mul(h, h)
	require.NoError(t, err)
	y, err := g.Add(hh, h)
	require.NoError(t, err)

	require.NoError(t, g.Backward(y, nil))

	e := math.Exp(1.5)
	assert.InDeltaSlice(t, []float64{2*e + 1}, gradData(t, g, h), 1e-9)
	assert.InDeltaSlice(t, []float64{(2*e + 1) * e}, gradData(t, g, x), 1e-9)
}

func TestBackward_AccumulatesAcrossCalls(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf([]float64{1, 2, 3}, "x")
	require.NoError(t, err)
	sq, err := g.Square(x)
	require.NoError(t, err)
	z, err := g.Sum(sq)
	require.NoError(t, err)

	require.NoError(t, g.Backward(z, nil))
	require.NoError(t, g.Backward(z, nil))

	assert.InDeltaSlice(t, []float64{4, 8, 12}, gradData(t, g, x), 1e-12)
}

func TestBackward_Seed(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf([]float64{1, 2}, "x")
	require.NoError(t, err)
	y, err := g.Mul(x, 3.0)
	require.NoError(t, err)

	seed, err := tensor.Column([]float64{10, -1})
	require.NoError(t, err)

	require.NoError(t, g.Backward(y, seed))
	require.NoError(t, g.Backward(y, seed))

	assert.InDeltaSlice(t, []float64{60, -6}, gradData(t, g, x), 1e-12)
	assert.Equal(t, []float64{10, -1}, seed.Data(), "caller's seed must not be modified")
}

func TestBackward_SeedShapeMismatch(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf([]float64{1, 2}, "x")
	require.NoError(t, err)

	err = g.Backward(x, tensor.Scalar(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))

	_, ok := g.Grad(x)
	assert.False(t, ok)
}

func TestBackward_UnknownNode(t *testing.T) {
	g := autodiff.NewGraph()

	err := g.Backward(autodiff.NodeID(7), nil)
	assert.True(t, errors.Is(err, autodiff.ErrUnknownNode))
}

func TestBackward_NoGradShortCircuit(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf([]float64{1, 2}, "x")
	require.NoError(t, err)
	y, err := g.Leaf([]float64{3, 4}, "y")
	require.NoError(t, err)

	// A frozen node with parents and a producing operator.
	frozen, err := g.NewNode([]float64{4, 6}, autodiff.NodeConfig{
		Name:    "frozen",
		NoGrad:  true,
		Parents: []autodiff.NodeID{x, y},
		Op:      ops.Add,
	})
	require.NoError(t, err)

	require.NoError(t, g.Backward(frozen, nil))

	_, ok := g.Grad(frozen)
	assert.False(t, ok, "frozen node must not accumulate")
	_, ok = g.Grad(x)
	assert.False(t, ok, "parents of a frozen node must not be visited")
	_, ok = g.Grad(y)
	assert.False(t, ok)

	// Downstream of the frozen node, gradients still reach other branches.
	w, err := g.Leaf([]float64{1, 1}, "w")
	require.NoError(t, err)
	sum, err := g.Add(frozen, w)
	require.NoError(t, err)
	loss, err := g.Sum(sum)
	require.NoError(t, err)
	require.NoError(t, g.Backward(loss, nil))

	assert.Equal(t, []float64{1, 1}, gradData(t, g, w))
	_, ok = g.Grad(frozen)
	assert.False(t, ok)
	_, ok = g.Grad(x)
	assert.False(t, ok)
}

func TestRequiresGrad_Propagation(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf(2.0, "x")
	require.NoError(t, err)
	c, err := g.Const(5.0)
	require.NoError(t, err)

	assert.True(t, g.RequiresGrad(x))
	assert.False(t, g.RequiresGrad(c))

	mixed, err := g.Mul(x, c)
	require.NoError(t, err)
	assert.True(t, g.RequiresGrad(mixed), "one trainable parent is enough")

	constOnly, err := g.Add(c, 1.0)
	require.NoError(t, err)
	assert.False(t, g.RequiresGrad(constOnly), "constants only produce constants")

	require.NoError(t, g.Backward(mixed, nil))
	assert.Equal(t, []float64{5}, gradData(t, g, x))
	_, ok := g.Grad(c)
	assert.False(t, ok)
}

func TestZeroGrad(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf([]float64{1, 2, 3}, "x")
	require.NoError(t, err)

	// Without a gradient, ZeroGrad creates one.
	require.NoError(t, g.ZeroGrad(x))
	assert.Equal(t, []float64{0, 0, 0}, gradData(t, g, x))

	// Twice in a row stays at zero.
	require.NoError(t, g.ZeroGrad(x))
	assert.Equal(t, []float64{0, 0, 0}, gradData(t, g, x))

	sq, err := g.Square(x)
	require.NoError(t, err)
	z, err := g.Sum(sq)
	require.NoError(t, err)
	require.NoError(t, g.Backward(z, nil))
	assert.InDeltaSlice(t, []float64{2, 4, 6}, gradData(t, g, x), 1e-12)

	before, _ := g.Grad(x)

	// After backward, resets strictly to zero, in place.
	require.NoError(t, g.ZeroGrad(x))
	after, _ := g.Grad(x)
	assert.Same(t, before, after)
	assert.Equal(t, []float64{0, 0, 0}, gradData(t, g, x))

	require.NoError(t, g.Backward(z, nil))
	assert.InDeltaSlice(t, []float64{2, 4, 6}, gradData(t, g, x), 1e-12)
}

func TestSetValues(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf([]float64{1, 2}, "x")
	require.NoError(t, err)
	require.NoError(t, g.ZeroGrad(x))

	require.NoError(t, g.SetValues(x, []float64{7, 8}))
	assert.Equal(t, []float64{7, 8}, g.Values(x).Data())
	assert.Equal(t, []float64{0, 0}, gradData(t, g, x), "gradient untouched")

	err = g.SetValues(x, 1.0)
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))
	assert.Equal(t, []float64{7, 8}, g.Values(x).Data())

	err = g.SetValues(autodiff.NodeID(42), 1.0)
	assert.True(t, errors.Is(err, autodiff.ErrUnknownNode))
}

func TestSetValues_CopiesArray(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf(1.0, "x")
	require.NoError(t, err)

	v := tensor.Scalar(3)
	require.NoError(t, g.SetValues(x, v))
	v.Fill(100)

	assert.Equal(t, []float64{3}, g.Values(x).Data())
}

func TestApply_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name string
		op   ops.Kind
		a, b any
	}{
		{"add", ops.Add, []float64{1, 2, 3}, []float64{1, 2}},
		{"sub", ops.Sub, [][]float64{{1, 2}}, []float64{1, 2}},
		{"mul", ops.Mul, []float64{1, 2}, [][]float64{{1, 2}, {3, 4}}},
		{"matmul", ops.MatMul, []float64{1, 2}, []float64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := autodiff.NewGraph()
			a, err := g.Leaf(tt.a, "a")
			require.NoError(t, err)
			b, err := g.Leaf(tt.b, "b")
			require.NoError(t, err)
			before := g.Len()

			id, err := g.Apply(tt.op, a, b)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tensor.ErrShapeMismatch), "got %v", err)
			assert.Equal(t, autodiff.InvalidNode, id)
			assert.Equal(t, before, g.Len(), "failed apply must not add nodes")
		})
	}
}

func TestApply_Arity(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf(1.0, "x")
	require.NoError(t, err)

	_, err = g.Apply(ops.Add, x)
	assert.True(t, errors.Is(err, ops.ErrArity))

	_, err = g.Apply(ops.None, x)
	assert.True(t, errors.Is(err, ops.ErrArity))
}

func TestApply_UnsupportedOperand(t *testing.T) {
	g := autodiff.NewGraph()

	_, err := g.Sin("not a number")
	assert.True(t, errors.Is(err, tensor.ErrUnsupportedValue))
	assert.Equal(t, 0, g.Len())
}

func TestApply_ScalarPromotion(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf([]float64{1, 2, 3}, "x")
	require.NoError(t, err)

	y, err := g.Mul(2.0, x)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 6}, g.Values(y).Data())

	parents := g.Parents(y)
	require.Len(t, parents, 2)
	assert.Equal(t, x, parents[1])
	assert.Equal(t, tensor.Shape{Rows: 3, Cols: 1}, g.Values(parents[0]).Shape())
	assert.False(t, g.RequiresGrad(parents[0]))

	// Two existing nodes are never broadcast, even if one is 1×1.
	s, err := g.Leaf(2.0, "s")
	require.NoError(t, err)
	_, err = g.Mul(s, x)
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))

	// Literal scalars are not promoted for matmul: 1×1 · 3×1 is invalid.
	_, err = g.MatMul(2.0, x)
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))
}

func TestApply_ParentsOpAndLabels(t *testing.T) {
	g := autodiff.NewGraph()
	a, err := g.Leaf(1.0, "a")
	require.NoError(t, err)
	b, err := g.Leaf(2.0, "b")
	require.NoError(t, err)

	s1, err := g.Sub(b, a)
	require.NoError(t, err)
	s2, err := g.Sub(a, b)
	require.NoError(t, err)
	add, err := g.Add(s1, s2)
	require.NoError(t, err)

	assert.Equal(t, []autodiff.NodeID{b, a}, g.Parents(s1))
	assert.Equal(t, ops.Sub, g.Op(s1))
	assert.Equal(t, ops.None, g.Op(a))
	assert.Equal(t, "sub:0", g.Label(s1))
	assert.Equal(t, "sub:1", g.Label(s2))
	assert.Equal(t, "add:0", g.Label(add))
	assert.Equal(t, "add:0 = add(sub:0, sub:1) 1×1", g.Describe(add))
	assert.Equal(t, "a 1×1", g.Describe(a))
	assert.Equal(t, []float64{1}, g.Values(a).Data(), "inputs are not mutated")
}

func TestNewNode_Validation(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf([]float64{1, 2}, "x")
	require.NoError(t, err)

	_, err = g.NewNode(1.0, autodiff.NodeConfig{Parents: []autodiff.NodeID{5}})
	assert.True(t, errors.Is(err, autodiff.ErrUnknownNode))

	_, err = g.NewNode(1.0, autodiff.NodeConfig{Parents: []autodiff.NodeID{x}, Op: ops.Sin})
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch), "sin of 2×1 cannot be 1×1")

	_, err = g.NewNode(1.0, autodiff.NodeConfig{Parents: []autodiff.NodeID{x}, Op: ops.Add})
	assert.True(t, errors.Is(err, ops.ErrArity))

	_, err = g.NewNode([][]float64{{1, 2}, {3}}, autodiff.NodeConfig{})
	assert.True(t, errors.Is(err, tensor.ErrInvalidShape))

	sum, err := g.NewNode(3.0, autodiff.NodeConfig{Parents: []autodiff.NodeID{x}, Op: ops.Sum})
	require.NoError(t, err)
	require.NoError(t, g.Backward(sum, nil))
	assert.Equal(t, []float64{1, 1}, gradData(t, g, x))
}

func TestRequireScalar(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf([]float64{1, 2}, "x")
	require.NoError(t, err)

	err = g.RequireScalar(x)
	assert.True(t, errors.Is(err, autodiff.ErrNotScalar))
	assert.True(t, errors.Is(g.BackwardScalar(x), autodiff.ErrNotScalar))

	_, ok := g.Grad(x)
	assert.False(t, ok)

	s, err := g.Sum(x)
	require.NoError(t, err)
	assert.NoError(t, g.RequireScalar(s))
}

func TestMarkRelease(t *testing.T) {
	g := autodiff.NewGraph()
	w, err := g.Leaf([]float64{1, 2}, "w")
	require.NoError(t, err)
	mark := g.Mark()

	for step := 0; step < 3; step++ {
		require.NoError(t, g.ZeroGrad(w))
		sq, err := g.Square(w)
		require.NoError(t, err)
		loss, err := g.Sum(sq)
		require.NoError(t, err)
		require.NoError(t, g.Backward(loss, nil))

		assert.InDeltaSlice(t, []float64{2, 4}, gradData(t, g, w), 1e-12)
		g.Release(mark)
		assert.Equal(t, 1, g.Len())
	}

	assert.Nil(t, g.Values(autodiff.NodeID(1)))
	_, ok := g.Grad(w)
	assert.True(t, ok, "surviving nodes keep their gradients")
}

func TestReset(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf(1.0, "x")
	require.NoError(t, err)
	e, err := g.Exp(x)
	require.NoError(t, err)
	assert.Equal(t, "exp:0", g.Label(e))

	g.Reset()
	assert.Equal(t, 0, g.Len())

	x, err = g.Leaf(1.0, "x")
	require.NoError(t, err)
	e, err = g.Exp(x)
	require.NoError(t, err)
	assert.Equal(t, "exp:0", g.Label(e), "labels restart after reset")
}

func TestLog_OutOfDomainIsNaN(t *testing.T) {
	g := autodiff.NewGraph()
	x, err := g.Leaf(-1.0, "x")
	require.NoError(t, err)

	y, err := g.Log(x)
	require.NoError(t, err)
	v, err := g.Item(y)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))
}
