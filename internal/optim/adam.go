package optim

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/born-ml/gradflow/internal/autodiff"
	"github.com/born-ml/gradflow/internal/tensor"
	"github.com/pkg/errors"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Adam combines ideas from RMSprop and momentum:
//   - Maintains exponential moving averages of gradients (first moment)
//   - Maintains exponential moving averages of squared gradients (second moment)
//   - Applies bias correction to compensate for initialization at zero
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)   // Parameter update
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	params
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int                   // Timestep for bias correction
	m     map[int]*tensor.Array // First moment estimates, by parameter index
	v     map[int]*tensor.Array // Second moment estimates, by parameter index
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR     float64      // Learning rate (default: 0.001)
	Betas  [2]float64   // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps    float64      // Term for numerical stability (default: 1e-8)
	Logger *slog.Logger // Warning destination (default: slog.Default())
}

// NewAdam creates a new Adam optimizer.
//
// Default hyperparameters:
//   - LR: 0.001
//   - Beta1: 0.9
//   - Beta2: 0.999
//   - Eps: 1e-8
func NewAdam(graph *autodiff.Graph, ids []autodiff.NodeID, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam{
		params: newParams(graph, ids, config.Logger),
		lr:     config.LR,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
		m:      make(map[int]*tensor.Array),
		v:      make(map[int]*tensor.Array),
	}
}

// Step performs a single optimization step using Adam algorithm.
//
// Applies Adam update to all parameters:
//  1. Update biased first moment estimate
//  2. Update biased second moment estimate
//  3. Compute bias-corrected moment estimates
//  4. Update parameters
//
// The timestep advances once per call, even if every parameter is skipped.
func (a *Adam) Step() ([]autodiff.NodeID, error) {
	a.t++

	biasCorrection1 := 1.0 - math.Pow(a.beta1, float64(a.t))
	biasCorrection2 := 1.0 - math.Pow(a.beta2, float64(a.t))

	return a.update(func(i int, value, grad *tensor.Array) (*tensor.Array, error) {
		shape := value.Shape()
		m, ok := a.m[i]
		if !ok {
			m = tensor.Zeros(shape)
			a.m[i] = m
		}
		v, ok := a.v[i]
		if !ok {
			v = tensor.Zeros(shape)
			a.v[i] = v
		}

		gradData := grad.Data()
		paramData := value.Data()
		for r := 0; r < shape.Rows; r++ {
			for c := 0; c < shape.Cols; c++ {
				k := r*shape.Cols + c
				g := gradData[k]

				mt := a.beta1*m.At(r, c) + (1-a.beta1)*g
				vt := a.beta2*v.At(r, c) + (1-a.beta2)*g*g
				m.Set(r, c, mt)
				v.Set(r, c, vt)

				mHat := mt / biasCorrection1
				vHat := vt / biasCorrection2
				paramData[k] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
			}
		}
		return tensor.New(shape.Rows, shape.Cols, paramData)
	})
}

// ZeroGrad clears gradients for all parameters.
func (a *Adam) ZeroGrad() error {
	return a.zeroGrad()
}

// GetLR returns the current learning rate.
func (a *Adam) GetLR() float64 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float64) {
	a.lr = lr
}

// GetTimestep returns the number of Step calls so far.
func (a *Adam) GetTimestep() int {
	return a.t
}

// StateDict returns the optimizer state.
//
// State keys: "m.{param_index}", "v.{param_index}" -> moment arrays, and
// "step" -> 1×1 timestep.
func (a *Adam) StateDict() map[string]*tensor.Array {
	stateDict := map[string]*tensor.Array{
		"step": tensor.Scalar(float64(a.t)),
	}
	for i := range a.ids {
		if m, ok := a.m[i]; ok {
			stateDict[fmt.Sprintf("m.%d", i)] = m.Clone()
		}
		if v, ok := a.v[i]; ok {
			stateDict[fmt.Sprintf("v.%d", i)] = v.Clone()
		}
	}
	return stateDict
}

// LoadStateDict restores moments and the timestep exported by StateDict.
func (a *Adam) LoadStateDict(stateDict map[string]*tensor.Array) error {
	t := 0
	if step, ok := stateDict["step"]; ok {
		v, err := step.Item()
		if err != nil {
			return errors.Wrap(err, "load state \"step\"")
		}
		t = int(v)
	}

	ms := make(map[int]*tensor.Array)
	vs := make(map[int]*tensor.Array)
	for i := range a.ids {
		for _, buf := range []struct {
			prefix string
			into   map[int]*tensor.Array
		}{{"m", ms}, {"v", vs}} {
			key := fmt.Sprintf("%s.%d", buf.prefix, i)
			state, ok := stateDict[key]
			if !ok {
				continue
			}
			if err := a.checkState(key, i, state); err != nil {
				return err
			}
			buf.into[i] = state.Clone()
		}
	}

	a.t, a.m, a.v = t, ms, vs
	return nil
}
