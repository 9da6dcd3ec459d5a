package optim

import (
	"fmt"
	"log/slog"

	"github.com/born-ml/gradflow/internal/autodiff"
	"github.com/born-ml/gradflow/internal/tensor"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer := optim.NewSGD(g, []autodiff.NodeID{x}, optim.SGDConfig{
//	    LR:       0.2,
//	    Momentum: 0.9,
//	})
//
//	for epoch := range epochs {
//	    _ = optimizer.ZeroGrad()
//	    _ = g.BackwardScalar(loss)
//	    _, _ = optimizer.Step()
//	}
type SGD struct {
	params
	lr         float64
	momentum   float64
	velocities map[int]*tensor.Array // keyed by parameter index
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64      // Learning rate (default: 0.01)
	Momentum float64      // Momentum factor (default: 0.0, range: [0, 1))
	Logger   *slog.Logger // Warning destination (default: slog.Default())
}

// NewSGD creates a new SGD optimizer for the given parameter nodes.
func NewSGD(graph *autodiff.Graph, ids []autodiff.NodeID, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     newParams(graph, ids, config.Logger),
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[int]*tensor.Array),
	}
}

// Step performs a single optimization step.
//
// Applies gradient descent update to all parameters:
//   - Without momentum: param -= lr * grad
//   - With momentum: velocity = momentum * velocity + grad, param -= lr * velocity
func (s *SGD) Step() ([]autodiff.NodeID, error) {
	return s.update(func(i int, value, grad *tensor.Array) (*tensor.Array, error) {
		direction := grad
		if s.momentum != 0 {
			velocity, ok := s.velocities[i]
			if !ok {
				velocity = tensor.Zeros(value.Shape())
			}
			velocity = tensor.Scale(velocity, s.momentum)
			if err := velocity.AddInPlace(grad); err != nil {
				return nil, err
			}
			s.velocities[i] = velocity
			direction = velocity
		}
		return tensor.Sub(value, tensor.Scale(direction, s.lr))
	})
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() error {
	return s.zeroGrad()
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// StateDict returns the optimizer state.
//
// For SGD with momentum, this exports velocity buffers for each parameter.
// Without momentum, returns an empty map.
//
// State keys: "velocity.{param_index}" -> velocity array.
func (s *SGD) StateDict() map[string]*tensor.Array {
	stateDict := make(map[string]*tensor.Array)
	if s.momentum == 0 {
		return stateDict
	}

	for i := range s.ids {
		velocity, exists := s.velocities[i]
		if !exists {
			continue // No velocity yet (hasn't been used in training)
		}
		stateDict[fmt.Sprintf("velocity.%d", i)] = velocity.Clone()
	}
	return stateDict
}

// LoadStateDict restores velocity buffers exported by StateDict.
//
// Returns an error wrapping tensor.ErrShapeMismatch if a velocity does not
// match its parameter's shape.
func (s *SGD) LoadStateDict(stateDict map[string]*tensor.Array) error {
	if s.momentum == 0 {
		return nil
	}

	velocities := make(map[int]*tensor.Array)
	for i := range s.ids {
		key := fmt.Sprintf("velocity.%d", i)
		velocity, exists := stateDict[key]
		if !exists {
			continue
		}
		if err := s.checkState(key, i, velocity); err != nil {
			return err
		}
		velocities[i] = velocity.Clone()
	}
	s.velocities = velocities
	return nil
}
