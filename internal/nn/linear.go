package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/gradflow/internal/autodiff"
	"github.com/born-ml/gradflow/internal/tensor"
	"github.com/pkg/errors"
)

// Linear implements a fully connected (dense) layer over column vectors.
//
// Performs the transformation: y = W · x + b
// where:
//   - x is the input column with shape [in_features, 1]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias column with shape [out_features, 1]
//   - y is the output column with shape [out_features, 1]
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
//
// Example:
//
//	layer, _ := nn.NewLinear(g, 3, 16, rng)
//	x, _ := g.Const([]float64{0.1, 0.2, 0.3})
//	y, _ := layer.Forward(g, x) // 16×1
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [out_features, 1]
}

// NewLinear creates a new Linear layer whose parameters are leaves of g.
func NewLinear(g *autodiff.Graph, inFeatures, outFeatures int, rng *rand.Rand) (*Linear, error) {
	weightShape := tensor.Shape{Rows: outFeatures, Cols: inFeatures}
	if err := weightShape.Validate(); err != nil {
		return nil, errors.Wrap(err, "linear")
	}

	weight, err := NewParameter(g, "weight", Xavier(inFeatures, outFeatures, weightShape, rng))
	if err != nil {
		return nil, err
	}
	bias, err := NewParameter(g, "bias", tensor.Zeros(tensor.Shape{Rows: outFeatures, Cols: 1}))
	if err != nil {
		return nil, err
	}

	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
	}, nil
}

// Forward records y = W · x + b.
//
// Input shape: [in_features, 1]
// Output shape: [out_features, 1]
func (l *Linear) Forward(g *autodiff.Graph, input autodiff.NodeID) (autodiff.NodeID, error) {
	values := g.Values(input)
	if values == nil {
		return autodiff.InvalidNode, errors.Wrapf(autodiff.ErrUnknownNode, "linear: input %d", input)
	}
	if want := (tensor.Shape{Rows: l.inFeatures, Cols: 1}); values.Shape() != want {
		return autodiff.InvalidNode, errors.Wrapf(tensor.ErrShapeMismatch,
			"linear: expected input %s, got %s", want, values.Shape())
	}

	wx, err := g.MatMul(l.weight.ID(), input)
	if err != nil {
		return autodiff.InvalidNode, err
	}
	return g.Add(wx, l.bias.ID())
}

// Parameters returns weight and bias parameters.
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

// String returns a string representation of the layer.
func (l *Linear) String() string {
	return fmt.Sprintf("Linear(in_features=%d, out_features=%d)", l.inFeatures, l.outFeatures)
}
