// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks.
//
// # Overview
//
// This package contains:
//   - Layers: Linear
//   - Activations: ReLU, Sigmoid, Tanh
//   - Loss functions: MSE
//   - Containers: Sequential
//
// Layers operate on column vectors: a Linear layer maps an in×1 input to an
// out×1 output. Parameters are leaves of the graph passed to the layer's
// constructor.
//
// # Basic Usage
//
//	g := autodiff.NewGraph()
//	rng := rand.New(rand.NewSource(1))
//	l1, _ := nn.NewLinear(g, 1, 16, rng)
//	l2, _ := nn.NewLinear(g, 16, 1, rng)
//	model := nn.NewSequential(l1, nn.NewTanh(), l2)
//
//	x, _ := g.Const(0.5)
//	y, _ := model.Forward(g, x)
//	loss, _ := nn.MSE(g, y, math.Sin(0.5))
package nn
