package main

import (
	"log/slog"
	"math/rand"

	"github.com/born-ml/gradflow/autodiff"
	"github.com/born-ml/gradflow/internal/parallel"
	"github.com/born-ml/gradflow/tensor"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var errGradCheckFailed = errors.New("gradient check failed")

func newGradCheckCmd(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	cfg := autodiff.DefaultGradCheckConfig()
	pool := parallel.DefaultConfig()
	var seed int64

	cmd := &cobra.Command{
		Use:   "gradcheck",
		Short: "Compare every operator's backward rule against finite differences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool.Enabled = pool.NumWorkers > 1
			return runGradCheck(logger(cmd), cfg, seed, pool)
		},
	}
	cmd.Flags().Float64Var(&cfg.Step, "step", cfg.Step, "finite-difference step")
	cmd.Flags().Float64Var(&cfg.Tolerance, "tol", cfg.Tolerance, "relative tolerance")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for inputs")
	cmd.Flags().IntVar(&pool.NumWorkers, "workers", pool.NumWorkers, "concurrent checks (1 runs them in order)")
	return cmd
}

// runGradCheck checks each operator on random inputs and logs one line per
// operator. Inputs are drawn up front so the output does not depend on
// scheduling; each check builds its own graphs and runs on the worker pool.
func runGradCheck(logger *slog.Logger, cfg autodiff.GradCheckConfig, seed int64, pool parallel.Config) error {
	rng := rand.New(rand.NewSource(seed))
	ops := autodiff.Ops()
	inputs := make([][]*tensor.Array, len(ops))
	for i, op := range ops {
		inputs[i] = checkInputs(op, rng)
	}

	results := make([]autodiff.GradCheckResult, len(ops))
	err := parallel.For(len(ops), func(i int) error {
		op := ops[i]
		build := func(g *autodiff.Graph, in []autodiff.NodeID) (autodiff.NodeID, error) {
			operands := make([]autodiff.Operand, len(in))
			for k, id := range in {
				operands[k] = id
			}
			out, err := g.Apply(op, operands...)
			if err != nil {
				return autodiff.InvalidNode, err
			}
			return g.Mul(out, ramp(g.Values(out).Shape()))
		}

		result, err := autodiff.CheckGradient(build, inputs[i], cfg)
		if err != nil {
			return errors.Wrapf(err, "gradcheck %s", op)
		}
		results[i] = result
		return nil
	}, pool)
	if err != nil {
		return err
	}

	failed := 0
	for i, result := range results {
		if !result.OK {
			failed++
			logger.Error("gradient mismatch", "op", ops[i].String(), "max_abs_diff", result.MaxAbsDiff)
			continue
		}
		logger.Info("ok", "op", ops[i].String(), "max_abs_diff", result.MaxAbsDiff)
	}

	if failed > 0 {
		return errors.Wrapf(errGradCheckFailed, "%d operators", failed)
	}
	return nil
}

// ramp returns fixed weights 1, 1.5, 2, ... so that every output cell
// contributes a different upstream gradient. Without it, the summed softmax
// would be constant and its check trivial.
func ramp(shape tensor.Shape) *tensor.Array {
	w := tensor.Zeros(shape)
	for r := 0; r < shape.Rows; r++ {
		for c := 0; c < shape.Cols; c++ {
			w.Set(r, c, 1+0.5*float64(r*shape.Cols+c))
		}
	}
	return w
}

// checkInputs returns random operands inside each operator's smooth domain.
func checkInputs(op autodiff.Op, rng *rand.Rand) []*tensor.Array {
	shape := tensor.Shape{Rows: 3, Cols: 2}
	switch op {
	case autodiff.OpMatMul:
		return []*tensor.Array{
			tensor.Randn(shape, 1, rng),
			tensor.Randn(shape.Transposed(), 1, rng),
		}
	case autodiff.OpLog:
		return []*tensor.Array{tensor.Uniform(shape, 0.5, 2, rng)}
	case autodiff.OpReLU:
		// Keep clear of the kink at 0.
		a := tensor.Uniform(shape, 0.2, 2, rng)
		a.Set(0, 0, -a.At(0, 0))
		return []*tensor.Array{a}
	}
	if op.Arity() == 2 {
		return []*tensor.Array{tensor.Randn(shape, 1, rng), tensor.Randn(shape, 1, rng)}
	}
	return []*tensor.Array{tensor.Randn(shape, 1, rng)}
}
