package main

import (
	"log/slog"

	"github.com/born-ml/gradflow/autodiff"
	"github.com/born-ml/gradflow/optim"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// sinRegConfig configures the sine minimization demo.
type sinRegConfig struct {
	Start     float64 // Initial x (default: 3.5)
	Epochs    int     // Number of steps (default: 10)
	LR        float64 // Learning rate (default: 0.2)
	Momentum  float64 // SGD momentum (default: 0)
	Optimizer string  // "sgd" or "adam" (default: "sgd")
}

func defaultSinRegConfig() sinRegConfig {
	return sinRegConfig{Start: 3.5, Epochs: 10, LR: 0.2, Optimizer: "sgd"}
}

// sinRegStep is the state observed at the start of one epoch.
type sinRegStep struct {
	X    float64
	Loss float64
}

var errUnknownOptimizer = errors.New("unknown optimizer")

func newSinRegCmd(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	cfg := defaultSinRegConfig()

	cmd := &cobra.Command{
		Use:   "sinreg",
		Short: "Minimize sin(2x + 0.5) by gradient descent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger(cmd)
			steps, err := runSinReg(cfg, log)
			if err != nil {
				return err
			}
			for i, s := range steps {
				log.Info("epoch", "n", i+1, "x", s.X, "loss", s.Loss)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&cfg.Start, "start", cfg.Start, "initial x")
	cmd.Flags().IntVar(&cfg.Epochs, "epochs", cfg.Epochs, "number of epochs")
	cmd.Flags().Float64Var(&cfg.LR, "lr", cfg.LR, "learning rate")
	cmd.Flags().Float64Var(&cfg.Momentum, "momentum", cfg.Momentum, "SGD momentum")
	cmd.Flags().StringVar(&cfg.Optimizer, "optimizer", cfg.Optimizer, "sgd or adam")
	return cmd
}

// runSinReg rebuilds the objective every epoch on top of a single trainable
// leaf, records x and the loss, then takes one optimizer step.
func runSinReg(cfg sinRegConfig, logger *slog.Logger) ([]sinRegStep, error) {
	g := autodiff.NewGraph()
	x, err := g.Leaf(cfg.Start, "x")
	if err != nil {
		return nil, err
	}

	params := []autodiff.NodeID{x}
	var opt optim.Optimizer
	switch cfg.Optimizer {
	case "sgd":
		opt = optim.NewSGD(g, params, optim.SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum, Logger: logger})
	case "adam":
		opt = optim.NewAdam(g, params, optim.AdamConfig{LR: cfg.LR, Logger: logger})
	default:
		return nil, errors.Wrapf(errUnknownOptimizer, "%q", cfg.Optimizer)
	}

	steps := make([]sinRegStep, 0, cfg.Epochs)
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		mark := g.Mark()

		loss, err := sinObjective(g, x)
		if err != nil {
			return nil, err
		}
		if err := opt.ZeroGrad(); err != nil {
			return nil, err
		}
		if err := g.BackwardScalar(loss); err != nil {
			return nil, err
		}

		xv, err := g.Item(x)
		if err != nil {
			return nil, err
		}
		lv, err := g.Item(loss)
		if err != nil {
			return nil, err
		}
		steps = append(steps, sinRegStep{X: xv, Loss: lv})
		logger.Debug("graph", "nodes", g.Len(), "loss", g.Describe(loss))

		if _, err := opt.Step(); err != nil {
			return nil, err
		}
		g.Release(mark)
	}
	return steps, nil
}

// sinObjective records sin(2x + 0.5).
func sinObjective(g *autodiff.Graph, x autodiff.NodeID) (autodiff.NodeID, error) {
	twoX, err := g.Mul(2.0, x)
	if err != nil {
		return autodiff.InvalidNode, err
	}
	arg, err := g.Add(twoX, 0.5)
	if err != nil {
		return autodiff.InvalidNode, err
	}
	return g.Sin(arg)
}
