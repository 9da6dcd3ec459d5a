// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms that train graph leaves.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// Parameters are NodeIDs of an autodiff.Graph. Step reads their accumulated
// gradients and writes the updated values back with Graph.SetValues.
//
// # Training Loop Pattern
//
//	g := autodiff.NewGraph()
//	x, _ := g.Leaf(3.5, "x")
//	optimizer := optim.NewSGD(g, []autodiff.NodeID{x}, optim.SGDConfig{LR: 0.2})
//
//	for epoch := range numEpochs {
//	    mark := g.Mark()
//
//	    // 1. Forward pass
//	    loss := buildLoss(g, x)
//
//	    // 2. Zero gradients, then backward pass
//	    _ = optimizer.ZeroGrad()
//	    _ = g.BackwardScalar(loss)
//
//	    // 3. Update parameters
//	    _, _ = optimizer.Step()
//
//	    // 4. Drop the per-step nodes
//	    g.Release(mark)
//	}
//
// # Missing gradients
//
// A parameter that received no gradient is left untouched. Step logs a
// warning wrapping ErrMissingGradient to the configured slog.Logger and
// returns the parameter in its skipped list.
package optim
