// Package ops defines the differentiable operators of the computation graph.
//
// Every operator is one value of the closed Kind enumeration and provides:
//   - Forward: computes the output array from the input arrays
//   - Backward: computes one gradient per input given the output gradient
//
// Supported operators:
//   - Add, Sub, Mul: elementwise arithmetic (Mul is the Hadamard product)
//   - MatMul: matrix multiplication (d(A·B)/dA = g·Bᵗ, d(A·B)/dB = Aᵗ·g)
//   - Square, Log, Exp, Sin, Cos: elementwise math
//   - Sum: reduction of all cells to a 1×1 array
//   - ReLU, Sigmoid, Tanh, Softmax: activations
//
// Dispatch happens through a single switch per direction, so adding an
// operator means adding a Kind, a forward rule and a backward rule.
package ops

import (
	"github.com/born-ml/gradflow/internal/tensor"
	"github.com/pkg/errors"
)

// Common errors.
var (
	ErrUnknownOp = errors.New("unknown operator")
	ErrArity     = errors.New("wrong number of operands")
)

// Kind identifies a differentiable operator.
type Kind int

// Supported operators. None marks leaves, which have no producing operator.
const (
	None Kind = iota
	Add
	Sub
	Mul
	MatMul
	Square
	Log
	Exp
	Sin
	Cos
	Sum
	ReLU
	Sigmoid
	Tanh
	Softmax
)

// Kinds returns every differentiable operator, in declaration order.
func Kinds() []Kind {
	return []Kind{Add, Sub, Mul, MatMul, Square, Log, Exp, Sin, Cos, Sum, ReLU, Sigmoid, Tanh, Softmax}
}

// String returns the operator name used for diagnostic labels.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "prod"
	case MatMul:
		return "matmul"
	case Square:
		return "square"
	case Log:
		return "ln"
	case Exp:
		return "exp"
	case Sin:
		return "sin"
	case Cos:
		return "cos"
	case Sum:
		return "sum"
	case ReLU:
		return "relu"
	case Sigmoid:
		return "sigmoid"
	case Tanh:
		return "tanh"
	case Softmax:
		return "softmax"
	default:
		return "unknown"
	}
}

// Arity returns the number of operands the operator takes, or 0 for None
// and unknown kinds.
func (k Kind) Arity() int {
	switch k {
	case Add, Sub, Mul, MatMul:
		return 2
	case Square, Log, Exp, Sin, Cos, Sum, ReLU, Sigmoid, Tanh, Softmax:
		return 1
	default:
		return 0
	}
}

// Elementwise reports whether the operator is a binary elementwise operator,
// i.e. one whose operands must share a shape.
func (k Kind) Elementwise() bool {
	switch k {
	case Add, Sub, Mul:
		return true
	default:
		return false
	}
}

// OutputShape returns the shape Forward would produce for the given input
// shapes, or an error wrapping tensor.ErrShapeMismatch.
func OutputShape(k Kind, shapes ...tensor.Shape) (tensor.Shape, error) {
	if err := checkArity(k, len(shapes)); err != nil {
		return tensor.Shape{}, err
	}
	switch k {
	case Add, Sub, Mul:
		if err := tensor.SameShape(k.String(), shapes...); err != nil {
			return tensor.Shape{}, err
		}
		return shapes[0], nil
	case MatMul:
		return tensor.MatMulShape(shapes[0], shapes[1])
	case Sum:
		return tensor.Shape{Rows: 1, Cols: 1}, nil
	default:
		return shapes[0], nil
	}
}

// Forward computes the operator's output from its inputs.
// Inputs are never mutated.
func Forward(k Kind, inputs []*tensor.Array) (*tensor.Array, error) {
	if _, err := OutputShape(k, shapesOf(inputs)...); err != nil {
		return nil, err
	}
	switch k {
	case Add:
		return tensor.Add(inputs[0], inputs[1])
	case Sub:
		return tensor.Sub(inputs[0], inputs[1])
	case Mul:
		return tensor.MulElem(inputs[0], inputs[1])
	case MatMul:
		return tensor.MatMul(inputs[0], inputs[1])
	case Square:
		return squareForward(inputs[0]), nil
	case Log:
		return logForward(inputs[0]), nil
	case Exp:
		return expForward(inputs[0]), nil
	case Sin:
		return sinForward(inputs[0]), nil
	case Cos:
		return cosForward(inputs[0]), nil
	case Sum:
		return sumForward(inputs[0]), nil
	case ReLU:
		return reluForward(inputs[0]), nil
	case Sigmoid:
		return sigmoidForward(inputs[0]), nil
	case Tanh:
		return tanhForward(inputs[0]), nil
	case Softmax:
		return softmaxForward(inputs[0]), nil
	default:
		return nil, errors.Wrapf(ErrUnknownOp, "forward: %d", int(k))
	}
}

// Backward computes the gradient with respect to each input, given the
// gradient of the operator's output.
//
// The returned slice has one fresh array per input, shaped like that input.
// Only the forward values of inputs are read.
func Backward(k Kind, outputGrad *tensor.Array, inputs []*tensor.Array) ([]*tensor.Array, error) {
	outShape, err := OutputShape(k, shapesOf(inputs)...)
	if err != nil {
		return nil, err
	}
	if outputGrad.Shape() != outShape {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "%s backward: gradient is %s, output is %s",
			k, outputGrad.Shape(), outShape)
	}
	switch k {
	case Add:
		return addBackward(outputGrad), nil
	case Sub:
		return subBackward(outputGrad), nil
	case Mul:
		return mulBackward(outputGrad, inputs[0], inputs[1])
	case MatMul:
		return matmulBackward(outputGrad, inputs[0], inputs[1])
	case Square:
		return squareBackward(outputGrad, inputs[0])
	case Log:
		return logBackward(outputGrad, inputs[0])
	case Exp:
		return expBackward(outputGrad, inputs[0])
	case Sin:
		return sinBackward(outputGrad, inputs[0])
	case Cos:
		return cosBackward(outputGrad, inputs[0])
	case Sum:
		return sumBackward(outputGrad, inputs[0]), nil
	case ReLU:
		return reluBackward(outputGrad, inputs[0])
	case Sigmoid:
		return sigmoidBackward(outputGrad, inputs[0])
	case Tanh:
		return tanhBackward(outputGrad, inputs[0])
	case Softmax:
		return softmaxBackward(outputGrad, inputs[0])
	default:
		return nil, errors.Wrapf(ErrUnknownOp, "backward: %d", int(k))
	}
}

func checkArity(k Kind, n int) error {
	want := k.Arity()
	if want == 0 {
		return errors.Wrapf(ErrUnknownOp, "%s (%d)", k, int(k))
	}
	if n != want {
		return errors.Wrapf(ErrArity, "%s takes %d operands, got %d", k, want, n)
	}
	return nil
}

func shapesOf(inputs []*tensor.Array) []tensor.Shape {
	shapes := make([]tensor.Shape, len(inputs))
	for i, in := range inputs {
		shapes[i] = in.Shape()
	}
	return shapes
}

// unary wraps a single gradient so unary backward rules can return directly.
func unary(grad *tensor.Array, err error) ([]*tensor.Array, error) {
	if err != nil {
		return nil, err
	}
	return []*tensor.Array{grad}, nil
}
