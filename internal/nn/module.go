// Package nn implements neural network modules on top of an autodiff.Graph.
//
// This package provides building blocks for constructing small networks:
//   - Module interface: Base interface for all NN components
//   - Parameter: Trainable leaf node of a graph
//   - Linear: Fully connected layer over column vectors
//   - Activations: ReLU, Sigmoid, Tanh
//   - Loss functions: MSE
//   - Sequential: Container for stacking layers
//
// Parameters live in the graph that was passed to their constructor, so a
// model and its training loop must share one Graph.
package nn

import "github.com/born-ml/gradflow/internal/autodiff"

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Record the module's output for an input node
//   - Parameters: Return all trainable parameters
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential(
//	    must(nn.NewLinear(g, 1, 16, rng)),
//	    nn.NewTanh(),
//	    must(nn.NewLinear(g, 16, 1, rng)),
//	)
type Module interface {
	// Forward records the output of the module given an input node.
	//
	// Returns an error wrapping tensor.ErrShapeMismatch if the input does
	// not fit the module.
	Forward(g *autodiff.Graph, input autodiff.NodeID) (autodiff.NodeID, error)

	// Parameters returns all trainable parameters of this module.
	//
	// Returns an empty slice for modules without trainable parameters
	// (e.g., activation functions).
	Parameters() []*Parameter
}
