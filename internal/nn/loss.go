package nn

import (
	"github.com/born-ml/gradflow/internal/autodiff"
	"github.com/pkg/errors"
)

// MSE records the Mean Squared Error between predictions and targets.
//
// Loss = sum((predictions - targets)²) / num_elements
//
// targets may be a node or any raw value accepted by tensor.From, and must
// have the shape of predictions. The result is a 1×1 node.
func MSE(g *autodiff.Graph, predictions autodiff.NodeID, targets autodiff.Operand) (autodiff.NodeID, error) {
	values := g.Values(predictions)
	if values == nil {
		return autodiff.InvalidNode, errors.Wrapf(autodiff.ErrUnknownNode, "mse: predictions %d", predictions)
	}

	diff, err := g.Sub(predictions, targets)
	if err != nil {
		return autodiff.InvalidNode, errors.Wrap(err, "mse")
	}
	squared, err := g.Square(diff)
	if err != nil {
		return autodiff.InvalidNode, err
	}
	total, err := g.Sum(squared)
	if err != nil {
		return autodiff.InvalidNode, err
	}
	return g.Mul(total, 1/float64(values.NumElements()))
}
