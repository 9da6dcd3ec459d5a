package nn

import (
	"github.com/born-ml/gradflow/internal/autodiff"
	"github.com/pkg/errors"
)

// Parameter represents a trainable parameter in a neural network.
//
// A Parameter is a leaf node of a graph that requires gradients. It
// typically represents a weight or a bias.
//
// Example:
//
//	weight, _ := nn.NewParameter(g, "weight", nn.Xavier(4, 3, shape, rng))
//	values := g.Values(weight.ID())
type Parameter struct {
	name string
	id   autodiff.NodeID
}

// NewParameter adds value to g as a trainable leaf named name.
func NewParameter(g *autodiff.Graph, name string, value any) (*Parameter, error) {
	id, err := g.Leaf(value, name)
	if err != nil {
		return nil, errors.Wrapf(err, "parameter %q", name)
	}
	return &Parameter{name: name, id: id}, nil
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// ID returns the parameter's node.
func (p *Parameter) ID() autodiff.NodeID {
	return p.id
}

// IDs returns the nodes of params in order, ready to hand to an optimizer.
func IDs(params []*Parameter) []autodiff.NodeID {
	ids := make([]autodiff.NodeID, len(params))
	for i, p := range params {
		ids[i] = p.id
	}
	return ids
}
