package autodiff

import (
	"github.com/born-ml/gradflow/internal/autodiff/ops"
	"github.com/born-ml/gradflow/internal/tensor"
	"github.com/pkg/errors"
)

// Operand is an input to an operator: either a NodeID of this graph or a
// raw value accepted by tensor.From (float64, int, []float64, [][]float64,
// *tensor.Array, ...).
//
// Raw values become constant nodes that never receive gradients. A raw
// scalar given to Add, Sub or Mul takes the shape of the other operand.
type Operand = any

// Apply evaluates an operator on the operands and records the result as a
// new node whose parents are the operands, in order.
//
// The result requires gradients when at least one operand does. Shape errors
// wrap tensor.ErrShapeMismatch; nothing is added to the graph on failure.
func (g *Graph) Apply(op ops.Kind, operands ...Operand) (NodeID, error) {
	if want := op.Arity(); want == 0 || want != len(operands) {
		return InvalidNode, errors.Wrapf(ops.ErrArity, "%s: got %d operands", op, len(operands))
	}

	inputs, err := g.resolve(op, operands)
	if err != nil {
		return InvalidNode, errors.Wrapf(err, "%s", op)
	}
	arrays := make([]*tensor.Array, len(inputs))
	for i, in := range inputs {
		arrays[i] = in.value
	}
	out, err := ops.Forward(op, arrays)
	if err != nil {
		return InvalidNode, err
	}

	parents := make([]NodeID, len(inputs))
	requiresGrad := false
	for i, in := range inputs {
		if in.id == InvalidNode {
			in.id = g.push(node{values: in.value, label: g.names.Next("const")})
		}
		parents[i] = in.id
		requiresGrad = requiresGrad || g.nodes[in.id].requiresGrad
	}

	return g.push(node{
		values:       out,
		parents:      parents,
		op:           op,
		requiresGrad: requiresGrad,
		label:        g.names.Next(op.String()),
	}), nil
}

// operand is a resolved input: an existing node, or a literal value that
// still has to be added to the graph (id == InvalidNode).
type operand struct {
	id    NodeID
	value *tensor.Array
}

func (g *Graph) resolve(op ops.Kind, operands []Operand) ([]operand, error) {
	out := make([]operand, len(operands))
	var promote []int
	for i, o := range operands {
		if id, ok := o.(NodeID); ok {
			if !g.has(id) {
				return nil, errors.Wrapf(ErrUnknownNode, "operand %d: node %d", i, id)
			}
			out[i] = operand{id: id, value: g.nodes[id].values}
			continue
		}
		if _, ok := tensor.IsScalarLiteral(o); ok && op.Elementwise() {
			promote = append(promote, i)
			continue
		}
		arr, err := ownedArray(o)
		if err != nil {
			return nil, errors.Wrapf(err, "operand %d", i)
		}
		out[i] = operand{id: InvalidNode, value: arr}
	}

	// Scalar literals take the shape of the other operand, or stay 1×1 when
	// both operands are literals.
	for _, i := range promote {
		v, _ := tensor.IsScalarLiteral(operands[i])
		shape := tensor.Shape{Rows: 1, Cols: 1}
		if other := out[1-i].value; other != nil {
			shape = other.Shape()
		}
		out[i] = operand{id: InvalidNode, value: tensor.Full(shape, v)}
	}
	return out, nil
}

// Add records a + b.
func (g *Graph) Add(a, b Operand) (NodeID, error) { return g.Apply(ops.Add, a, b) }

// Sub records a - b.
func (g *Graph) Sub(a, b Operand) (NodeID, error) { return g.Apply(ops.Sub, a, b) }

// Mul records the elementwise product a ∘ b.
func (g *Graph) Mul(a, b Operand) (NodeID, error) { return g.Apply(ops.Mul, a, b) }

// MatMul records the matrix product a·b.
func (g *Graph) MatMul(a, b Operand) (NodeID, error) { return g.Apply(ops.MatMul, a, b) }

// Square records a ∘ a.
func (g *Graph) Square(a Operand) (NodeID, error) { return g.Apply(ops.Square, a) }

// Log records the elementwise natural logarithm.
func (g *Graph) Log(a Operand) (NodeID, error) { return g.Apply(ops.Log, a) }

// Exp records the elementwise exponential.
func (g *Graph) Exp(a Operand) (NodeID, error) { return g.Apply(ops.Exp, a) }

// Sin records the elementwise sine.
func (g *Graph) Sin(a Operand) (NodeID, error) { return g.Apply(ops.Sin, a) }

// Cos records the elementwise cosine.
func (g *Graph) Cos(a Operand) (NodeID, error) { return g.Apply(ops.Cos, a) }

// Sum records the 1×1 sum of all cells.
func (g *Graph) Sum(a Operand) (NodeID, error) { return g.Apply(ops.Sum, a) }

// ReLU records max(a, 0).
func (g *Graph) ReLU(a Operand) (NodeID, error) { return g.Apply(ops.ReLU, a) }

// Sigmoid records 1/(1+e^-a).
func (g *Graph) Sigmoid(a Operand) (NodeID, error) { return g.Apply(ops.Sigmoid, a) }

// Tanh records tanh(a).
func (g *Graph) Tanh(a Operand) (NodeID, error) { return g.Apply(ops.Tanh, a) }

// Softmax records the softmax of a over all of its cells.
func (g *Graph) Softmax(a Operand) (NodeID, error) { return g.Apply(ops.Softmax, a) }
