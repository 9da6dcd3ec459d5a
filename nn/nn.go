// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand"

	"github.com/born-ml/gradflow/internal/autodiff"
	"github.com/born-ml/gradflow/internal/nn"
	"github.com/born-ml/gradflow/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module = nn.Module

// Parameter represents a trainable leaf of a graph.
type Parameter = nn.Parameter

// NewParameter adds value to g as a trainable leaf.
func NewParameter(g *autodiff.Graph, name string, value any) (*Parameter, error) {
	return nn.NewParameter(g, name, value)
}

// IDs returns the nodes of params, ready to hand to an optimizer.
func IDs(params []*Parameter) []autodiff.NodeID {
	return nn.IDs(params)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear = nn.Linear

// NewLinear creates a new linear layer with Xavier initialization.
func NewLinear(g *autodiff.Graph, inFeatures, outFeatures int, rng *rand.Rand) (*Linear, error) {
	return nn.NewLinear(g, inFeatures, outFeatures, rng)
}

// Sequential chains modules.
type Sequential = nn.Sequential

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// Activations

// ReLU applies max(0, x).
type ReLU = nn.ReLU

// NewReLU creates a new ReLU activation.
func NewReLU() *ReLU {
	return nn.NewReLU()
}

// Sigmoid applies 1 / (1 + exp(-x)).
type Sigmoid = nn.Sigmoid

// NewSigmoid creates a new Sigmoid activation.
func NewSigmoid() *Sigmoid {
	return nn.NewSigmoid()
}

// Tanh applies tanh(x).
type Tanh = nn.Tanh

// NewTanh creates a new Tanh activation.
func NewTanh() *Tanh {
	return nn.NewTanh()
}

// Losses

// MSE records the mean squared error between predictions and targets.
func MSE(g *autodiff.Graph, predictions autodiff.NodeID, targets autodiff.Operand) (autodiff.NodeID, error) {
	return nn.MSE(g, predictions, targets)
}

// Initialization

// Xavier returns Xavier/Glorot uniform weights.
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) *tensor.Array {
	return nn.Xavier(fanIn, fanOut, shape, rng)
}

// State

// ErrMissingParameter is returned by LoadStateDict when a parameter has no
// entry in the state.
var ErrMissingParameter = nn.ErrMissingParameter

// StateDict returns copies of the current parameter values keyed by
// "{index}.{name}".
func StateDict(g *autodiff.Graph, params []*Parameter) map[string]*tensor.Array {
	return nn.StateDict(g, params)
}

// LoadStateDict restores parameter values exported by StateDict.
func LoadStateDict(g *autodiff.Graph, params []*Parameter, state map[string]*tensor.Array) error {
	return nn.LoadStateDict(g, params, state)
}
