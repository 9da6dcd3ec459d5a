package autodiff

import (
	"math"

	"github.com/born-ml/gradflow/internal/tensor"
	"github.com/pkg/errors"
)

// GradCheckConfig controls the finite-difference gradient check.
type GradCheckConfig struct {
	Step      float64 // Central difference step (default: 1e-5)
	Tolerance float64 // Allowed difference, relative for values above 1 (default: 1e-4)
}

// DefaultGradCheckConfig returns the step and tolerance used by the tests.
func DefaultGradCheckConfig() GradCheckConfig {
	return GradCheckConfig{
		Step:      1e-5,
		Tolerance: 1e-4,
	}
}

// BuildFunc builds an expression on g from the given input leaves and
// returns its output node. Outputs larger than 1×1 are summed.
type BuildFunc func(g *Graph, inputs []NodeID) (NodeID, error)

// GradCheckResult holds both gradients of every input.
type GradCheckResult struct {
	Analytic   []*tensor.Array // From Backward
	Numeric    []*tensor.Array // From central differences
	MaxAbsDiff float64         // Largest |analytic - numeric| over all cells
	OK         bool            // Every cell within tolerance
}

// CheckGradient compares the gradients computed by Backward against central
// finite differences:
//
//	∂f/∂x ≈ (f(x + h) - f(x - h)) / 2h
//
// The expression is rebuilt on a fresh graph for every evaluation, so build
// must be deterministic.
func CheckGradient(build BuildFunc, inputs []*tensor.Array, cfg GradCheckConfig) (GradCheckResult, error) {
	defaults := DefaultGradCheckConfig()
	if cfg.Step == 0 {
		cfg.Step = defaults.Step
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = defaults.Tolerance
	}

	analytic, err := analyticGradients(build, inputs)
	if err != nil {
		return GradCheckResult{}, err
	}

	result := GradCheckResult{
		Analytic: analytic,
		Numeric:  make([]*tensor.Array, len(inputs)),
		OK:       true,
	}
	for i, in := range inputs {
		shape := in.Shape()
		numeric := tensor.Zeros(shape)
		for r := 0; r < shape.Rows; r++ {
			for c := 0; c < shape.Cols; c++ {
				d, err := centralDifference(build, inputs, i, r, c, cfg.Step)
				if err != nil {
					return GradCheckResult{}, err
				}
				numeric.Set(r, c, d)

				a := analytic[i].At(r, c)
				diff := math.Abs(a - d)
				result.MaxAbsDiff = math.Max(result.MaxAbsDiff, diff)
				if diff > cfg.Tolerance*math.Max(1, math.Abs(d)) || math.IsNaN(diff) {
					result.OK = false
				}
			}
		}
		result.Numeric[i] = numeric
	}
	return result, nil
}

func analyticGradients(build BuildFunc, inputs []*tensor.Array) ([]*tensor.Array, error) {
	g := NewGraph()
	ids, out, err := buildScalar(g, build, inputs)
	if err != nil {
		return nil, err
	}
	if err := g.Backward(out, nil); err != nil {
		return nil, errors.Wrap(err, "gradcheck")
	}
	grads := make([]*tensor.Array, len(ids))
	for i, id := range ids {
		grad, ok := g.Grad(id)
		if !ok {
			// Input not reachable from the output.
			grad = tensor.Zeros(inputs[i].Shape())
		}
		grads[i] = grad.Clone()
	}
	return grads, nil
}

func centralDifference(build BuildFunc, inputs []*tensor.Array, i, r, c int, h float64) (float64, error) {
	shifted := make([]*tensor.Array, len(inputs))
	copy(shifted, inputs)
	x := inputs[i].At(r, c)

	eval := func(v float64) (float64, error) {
		perturbed := inputs[i].Clone()
		perturbed.Set(r, c, v)
		shifted[i] = perturbed
		g := NewGraph()
		_, out, err := buildScalar(g, build, shifted)
		if err != nil {
			return 0, err
		}
		return g.Item(out)
	}

	plus, err := eval(x + h)
	if err != nil {
		return 0, err
	}
	minus, err := eval(x - h)
	if err != nil {
		return 0, err
	}
	return (plus - minus) / (2 * h), nil
}

func buildScalar(g *Graph, build BuildFunc, inputs []*tensor.Array) ([]NodeID, NodeID, error) {
	ids := make([]NodeID, len(inputs))
	for i, in := range inputs {
		id, err := g.NewNode(in, NodeConfig{Name: "input"})
		if err != nil {
			return nil, InvalidNode, errors.Wrap(err, "gradcheck")
		}
		ids[i] = id
	}
	out, err := build(g, ids)
	if err != nil {
		return nil, InvalidNode, errors.Wrap(err, "gradcheck: build")
	}
	if g.RequireScalar(out) != nil {
		if out, err = g.Sum(out); err != nil {
			return nil, InvalidNode, errors.Wrap(err, "gradcheck: sum output")
		}
	}
	return ids, out, nil
}
