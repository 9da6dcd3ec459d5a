// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/gradflow/internal/autodiff"
	"github.com/born-ml/gradflow/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// ErrMissingGradient is logged for parameters that had no gradient at Step.
var ErrMissingGradient = optim.ErrMissingGradient

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	g := autodiff.NewGraph()
//	x, _ := g.Leaf(3.5, "x")
//	optimizer := optim.NewSGD(g, []autodiff.NodeID{x}, optim.SGDConfig{
//	    LR:       0.2,
//	    Momentum: 0.9,
//	})
func NewSGD(graph *autodiff.Graph, params []autodiff.NodeID, config SGDConfig) *SGD {
	return optim.NewSGD(graph, params, config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
//
// Example:
//
//	optimizer := optim.NewAdam(g, params, optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	    Eps:   1e-8,
//	})
func NewAdam(graph *autodiff.Graph, params []autodiff.NodeID, config AdamConfig) *Adam {
	return optim.NewAdam(graph, params, config)
}
