// Package optim implements optimization algorithms that train the leaves of
// an autodiff.Graph.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Optimizers read accumulated gradients with Graph.Grad and write the updated
// values back with Graph.SetValues, so the graph stays the single owner of
// every array.
//
// Example usage:
//
//	g := autodiff.NewGraph()
//	w, _ := g.Leaf(tensor.Randn(shape, 0.1, rng), "w")
//	opt := optim.NewAdam(g, []autodiff.NodeID{w}, optim.AdamConfig{LR: 0.01})
//
//	for epoch := range epochs {
//	    mark := g.Mark()
//	    loss := buildLoss(g, w)
//
//	    _ = opt.ZeroGrad()
//	    _ = g.BackwardScalar(loss)
//	    _, _ = opt.Step()
//
//	    g.Release(mark)
//	}
package optim

import (
	"log/slog"

	"github.com/born-ml/gradflow/internal/autodiff"
	"github.com/born-ml/gradflow/internal/tensor"
	"github.com/pkg/errors"
)

// ErrMissingGradient marks a parameter that received no gradient before Step.
// It is reported through the logger and never returned by Step.
var ErrMissingGradient = errors.New("missing gradient")

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to parameters
//   - ZeroGrad: Clear gradients before next iteration
//   - GetLR: Get current learning rate (for monitoring/scheduling)
type Optimizer interface {
	// Step applies gradient updates to all parameters.
	//
	// Parameters without a gradient are left untouched, logged as a warning
	// and returned in skipped.
	Step() (skipped []autodiff.NodeID, err error)

	// ZeroGrad resets the gradient of every parameter to zeros.
	//
	// Gradients accumulate across Backward calls, so this should be called
	// before each backward pass.
	ZeroGrad() error

	// GetLR returns the current learning rate.
	GetLR() float64
}

// params is the state shared by every optimizer: the graph, the trained
// nodes and the logger.
type params struct {
	graph  *autodiff.Graph
	ids    []autodiff.NodeID
	logger *slog.Logger
}

func newParams(graph *autodiff.Graph, ids []autodiff.NodeID, logger *slog.Logger) params {
	if logger == nil {
		logger = slog.Default()
	}
	owned := make([]autodiff.NodeID, len(ids))
	copy(owned, ids)
	return params{graph: graph, ids: owned, logger: logger}
}

// update visits every parameter that has a gradient and stores the value
// returned by fn. Parameters without a gradient are reported and skipped.
func (p *params) update(fn func(i int, value, grad *tensor.Array) (*tensor.Array, error)) ([]autodiff.NodeID, error) {
	var skipped []autodiff.NodeID
	for i, id := range p.ids {
		value := p.graph.Values(id)
		if value == nil {
			return skipped, errors.Wrapf(autodiff.ErrUnknownNode, "step: parameter %d", id)
		}
		grad, ok := p.graph.Grad(id)
		if !ok {
			p.logger.Warn("skipping parameter",
				"param", p.graph.Label(id),
				"id", int(id),
				"err", errors.Wrapf(ErrMissingGradient, "parameter %d", id))
			skipped = append(skipped, id)
			continue
		}
		next, err := fn(i, value, grad)
		if err != nil {
			return skipped, errors.Wrapf(err, "step: parameter %q", p.graph.Label(id))
		}
		if err := p.graph.SetValues(id, next); err != nil {
			return skipped, err
		}
	}
	return skipped, nil
}

// zeroGrad resets every parameter's gradient.
func (p *params) zeroGrad() error {
	for _, id := range p.ids {
		if err := p.graph.ZeroGrad(id); err != nil {
			return err
		}
	}
	return nil
}

// checkState validates a state buffer loaded for parameter i.
func (p *params) checkState(key string, i int, state *tensor.Array) error {
	want := p.graph.Values(p.ids[i])
	if want == nil {
		return errors.Wrapf(autodiff.ErrUnknownNode, "load state: parameter %d", p.ids[i])
	}
	if state.Shape() != want.Shape() {
		return errors.Wrapf(tensor.ErrShapeMismatch, "load state %q: parameter is %s, state is %s",
			key, want.Shape(), state.Shape())
	}
	return nil
}
