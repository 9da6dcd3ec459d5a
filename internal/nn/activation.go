package nn

import "github.com/born-ml/gradflow/internal/autodiff"

// ReLU is a Rectified Linear Unit activation module.
//
// Applies the element-wise function: f(x) = max(0, x)
type ReLU struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies ReLU activation.
func (r *ReLU) Forward(g *autodiff.Graph, input autodiff.NodeID) (autodiff.NodeID, error) {
	return g.ReLU(input)
}

// Parameters returns an empty slice (ReLU has no trainable parameters).
func (r *ReLU) Parameters() []*Parameter {
	return nil
}

// Sigmoid is a sigmoid activation module.
//
// Applies the element-wise function: σ(x) = 1 / (1 + exp(-x))
type Sigmoid struct{}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid() *Sigmoid {
	return &Sigmoid{}
}

// Forward applies sigmoid activation.
func (s *Sigmoid) Forward(g *autodiff.Graph, input autodiff.NodeID) (autodiff.NodeID, error) {
	return g.Sigmoid(input)
}

// Parameters returns an empty slice.
func (s *Sigmoid) Parameters() []*Parameter {
	return nil
}

// Tanh is a hyperbolic tangent activation module.
type Tanh struct{}

// NewTanh creates a new Tanh activation module.
func NewTanh() *Tanh {
	return &Tanh{}
}

// Forward applies tanh activation.
func (t *Tanh) Forward(g *autodiff.Graph, input autodiff.NodeID) (autodiff.NodeID, error) {
	return g.Tanh(input)
}

// Parameters returns an empty slice.
func (t *Tanh) Parameters() []*Parameter {
	return nil
}
