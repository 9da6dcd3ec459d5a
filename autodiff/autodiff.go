// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// A Graph records every value computed through it as a node. Calling
// Backward on an output node propagates gradients to every ancestor that
// requires them.
//
// Example:
//
//	import "github.com/born-ml/gradflow/autodiff"
//
//	func main() {
//	    g := autodiff.NewGraph()
//	    x, _ := g.Leaf(3.5, "x")
//	    twoX, _ := g.Mul(2.0, x)
//	    arg, _ := g.Add(twoX, 0.5)
//	    z, _ := g.Sin(arg)
//
//	    _ = g.BackwardScalar(z)
//	    grad, _ := g.Grad(x) // 2·cos(7.5)
//	}
package autodiff

import (
	"github.com/born-ml/gradflow/internal/autodiff"
	"github.com/born-ml/gradflow/internal/autodiff/ops"
	"github.com/born-ml/gradflow/internal/tensor"
)

// Graph owns the nodes of one computation.
type Graph = autodiff.Graph

// NodeID addresses a node inside its Graph.
type NodeID = autodiff.NodeID

// NodeConfig holds the optional fields of a node created with Graph.NewNode.
type NodeConfig = autodiff.NodeConfig

// Operand is a NodeID or a raw value accepted by tensor.From.
type Operand = autodiff.Operand

// Mark is a position in a Graph's node arena, see Graph.Mark.
type Mark = autodiff.Mark

// InvalidNode is returned alongside errors.
const InvalidNode = autodiff.InvalidNode

// Common errors.
var (
	ErrUnknownNode = autodiff.ErrUnknownNode
	ErrNotScalar   = autodiff.ErrNotScalar
	ErrArity       = autodiff.ErrArity
	ErrUnknownOp   = ops.ErrUnknownOp
)

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return autodiff.NewGraph()
}

// Operators

// Op identifies a differentiable operator, for use with Graph.Apply and
// NodeConfig.Op.
type Op = ops.Kind

// Supported operators.
const (
	OpNone    = ops.None
	OpAdd     = ops.Add
	OpSub     = ops.Sub
	OpMul     = ops.Mul
	OpMatMul  = ops.MatMul
	OpSquare  = ops.Square
	OpLog     = ops.Log
	OpExp     = ops.Exp
	OpSin     = ops.Sin
	OpCos     = ops.Cos
	OpSum     = ops.Sum
	OpReLU    = ops.ReLU
	OpSigmoid = ops.Sigmoid
	OpTanh    = ops.Tanh
	OpSoftmax = ops.Softmax
)

// Ops returns every differentiable operator.
func Ops() []Op {
	return ops.Kinds()
}

// Gradient checking

// BuildFunc builds an expression from input leaves and returns its output.
type BuildFunc = autodiff.BuildFunc

// GradCheckConfig configures CheckGradient.
type GradCheckConfig = autodiff.GradCheckConfig

// GradCheckResult reports analytic and numeric gradients side by side.
type GradCheckResult = autodiff.GradCheckResult

// DefaultGradCheckConfig returns the default finite-difference settings.
func DefaultGradCheckConfig() GradCheckConfig {
	return autodiff.DefaultGradCheckConfig()
}

// CheckGradient compares Backward against central finite differences.
func CheckGradient(build BuildFunc, inputs []*tensor.Array, cfg GradCheckConfig) (GradCheckResult, error) {
	return autodiff.CheckGradient(build, inputs, cfg)
}
