package autodiff

import (
	"github.com/born-ml/gradflow/internal/autodiff/ops"
	"github.com/born-ml/gradflow/internal/tensor"
	"github.com/pkg/errors"
)

// Backward propagates a gradient from node id to every ancestor that
// requires gradients.
//
// Algorithm:
//  1. Seed with ones shaped like the node when seed is nil
//     (d(output)/d(output) = 1); otherwise use a copy of seed
//  2. Stop at nodes that do not require gradients
//  3. Store the first delivered gradient, add later ones in place
//  4. Ask the producing operator for one gradient per parent and recurse
//     into each parent with its locally delivered gradient
//
// A node reached along several paths (fan-out) receives one delivery per
// path, so its accumulated gradient is the sum over all paths. Gradients
// accumulate across calls until ZeroGrad is called.
func (g *Graph) Backward(id NodeID, seed *tensor.Array) error {
	if !g.has(id) {
		return errors.Wrapf(ErrUnknownNode, "backward: %d", id)
	}
	shape := g.nodes[id].values.Shape()
	if seed == nil {
		seed = tensor.Ones(shape)
	} else {
		if seed.Shape() != shape {
			return errors.Wrapf(tensor.ErrShapeMismatch, "backward: seed is %s, node %q is %s",
				seed.Shape(), g.nodes[id].label, shape)
		}
		seed = seed.Clone()
	}
	return g.backward(id, seed)
}

// RequireScalar checks that a node, typically a loss, is 1×1.
func (g *Graph) RequireScalar(id NodeID) error {
	if !g.has(id) {
		return errors.Wrapf(ErrUnknownNode, "require scalar: %d", id)
	}
	if shape := g.nodes[id].values.Shape(); !shape.IsScalar() {
		return errors.Wrapf(ErrNotScalar, "node %q is %s", g.nodes[id].label, shape)
	}
	return nil
}

// BackwardScalar checks that id is 1×1 and propagates a seed of 1 from it.
func (g *Graph) BackwardScalar(id NodeID) error {
	if err := g.RequireScalar(id); err != nil {
		return err
	}
	return g.Backward(id, nil)
}

func (g *Graph) backward(id NodeID, grad *tensor.Array) error {
	n := &g.nodes[id]
	if !n.requiresGrad {
		return nil
	}

	if n.grad == nil {
		n.grad = grad
	} else if err := n.grad.AddInPlace(grad); err != nil {
		return errors.Wrapf(err, "backward: accumulate into %q", n.label)
	}

	if n.op == ops.None {
		return nil
	}

	parentGrads, err := ops.Backward(n.op, grad, g.values(n.parents))
	if err != nil {
		return errors.Wrapf(err, "backward: %q", n.label)
	}
	for i, parent := range n.parents {
		if err := g.backward(parent, parentGrads[i]); err != nil {
			return err
		}
	}
	return nil
}

// ZeroGrad resets a node's gradient to zeros.
//
// An existing gradient is overwritten in place; otherwise a zero gradient
// shaped like the node's value is created.
func (g *Graph) ZeroGrad(id NodeID) error {
	if !g.has(id) {
		return errors.Wrapf(ErrUnknownNode, "zero grad: %d", id)
	}
	n := &g.nodes[id]
	if n.grad != nil {
		n.grad.Fill(0)
		return nil
	}
	n.grad = tensor.Zeros(n.values.Shape())
	return nil
}

// SetValues replaces a node's forward value, typically with the result of
// an optimizer step. The gradient and the graph links are left untouched.
// The new value must have the node's current shape.
func (g *Graph) SetValues(id NodeID, value any) error {
	if !g.has(id) {
		return errors.Wrapf(ErrUnknownNode, "set values: %d", id)
	}
	arr, err := ownedArray(value)
	if err != nil {
		return errors.Wrap(err, "set values")
	}
	n := &g.nodes[id]
	if arr.Shape() != n.values.Shape() {
		return errors.Wrapf(tensor.ErrShapeMismatch, "set values: node %q is %s, new value is %s",
			n.label, n.values.Shape(), arr.Shape())
	}
	n.values = arr
	return nil
}
