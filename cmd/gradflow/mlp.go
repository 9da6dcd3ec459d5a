package main

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/born-ml/gradflow/autodiff"
	"github.com/born-ml/gradflow/internal/serialization"
	"github.com/born-ml/gradflow/nn"
	"github.com/born-ml/gradflow/optim"
	"github.com/born-ml/gradflow/tensor"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// mlpConfig configures the sine-fitting MLP demo.
type mlpConfig struct {
	Hidden    int     // Hidden layer width (default: 16)
	Epochs    int     // Full-batch epochs (default: 200)
	LR        float64 // Learning rate (default: 0.01)
	Optimizer string  // "sgd" or "adam" (default: "adam")
	Points    int     // Training samples on [0, 6] (default: 25)
	Noise     float64 // Std of the noise added to sin(x) (default: 0.2)
	Seed      int64
	Save      string // Checkpoint path, empty to skip
}

func defaultMLPConfig() mlpConfig {
	return mlpConfig{Hidden: 16, Epochs: 200, LR: 0.01, Optimizer: "adam", Points: 25, Noise: 0.2, Seed: 1}
}

func newMLPCmd(logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	cfg := defaultMLPConfig()

	cmd := &cobra.Command{
		Use:   "mlp",
		Short: "Fit a tanh MLP to noisy samples of sin(x)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := runMLP(cfg, logger(cmd))
			return err
		},
	}
	cmd.Flags().IntVar(&cfg.Hidden, "hidden", cfg.Hidden, "hidden layer width")
	cmd.Flags().IntVar(&cfg.Epochs, "epochs", cfg.Epochs, "number of epochs")
	cmd.Flags().Float64Var(&cfg.LR, "lr", cfg.LR, "learning rate")
	cmd.Flags().StringVar(&cfg.Optimizer, "optimizer", cfg.Optimizer, "sgd or adam")
	cmd.Flags().IntVar(&cfg.Points, "points", cfg.Points, "number of training samples")
	cmd.Flags().Float64Var(&cfg.Noise, "noise", cfg.Noise, "noise standard deviation")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	cmd.Flags().StringVar(&cfg.Save, "save", "", "write the trained parameters to this checkpoint")
	return cmd
}

// runMLP trains x -> Linear(1, h) -> tanh -> Linear(h, h) -> tanh -> Linear(h, 1)
// on the mean squared error over all samples and returns the loss per epoch.
func runMLP(cfg mlpConfig, logger *slog.Logger) ([]float64, error) {
	if cfg.Points < 2 {
		return nil, errors.Errorf("mlp: need at least 2 points, got %d", cfg.Points)
	}
	if cfg.Epochs < 1 {
		return nil, errors.Errorf("mlp: need at least 1 epoch, got %d", cfg.Epochs)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	xs := make([]float64, cfg.Points)
	ys := make([]float64, cfg.Points)
	for i := range xs {
		xs[i] = 6 * float64(i) / float64(cfg.Points-1)
		ys[i] = math.Sin(xs[i]) + rng.NormFloat64()*cfg.Noise
	}

	g := autodiff.NewGraph()
	var layers []nn.Module
	widths := [][2]int{{1, cfg.Hidden}, {cfg.Hidden, cfg.Hidden}, {cfg.Hidden, 1}}
	for i, dims := range widths {
		layer, err := nn.NewLinear(g, dims[0], dims[1], rng)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
		if i < len(widths)-1 {
			layers = append(layers, nn.NewTanh())
		}
	}
	model := nn.NewSequential(layers...)
	params := model.Parameters()

	var opt interface {
		optim.Optimizer
		StateDict() map[string]*tensor.Array
	}
	switch cfg.Optimizer {
	case "sgd":
		opt = optim.NewSGD(g, nn.IDs(params), optim.SGDConfig{LR: cfg.LR, Logger: logger})
	case "adam":
		opt = optim.NewAdam(g, nn.IDs(params), optim.AdamConfig{LR: cfg.LR, Logger: logger})
	default:
		return nil, errors.Wrapf(errUnknownOptimizer, "%q", cfg.Optimizer)
	}

	losses := make([]float64, 0, cfg.Epochs)
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		mark := g.Mark()

		loss, err := mlpLoss(g, model, xs, ys)
		if err != nil {
			return nil, err
		}
		if err := opt.ZeroGrad(); err != nil {
			return nil, err
		}
		if err := g.BackwardScalar(loss); err != nil {
			return nil, err
		}
		value, err := g.Item(loss)
		if err != nil {
			return nil, err
		}
		losses = append(losses, value)
		if _, err := opt.Step(); err != nil {
			return nil, err
		}
		g.Release(mark)

		logger.Info("epoch", "n", epoch+1, "loss", value)
	}

	if cfg.Save != "" {
		state := nn.StateDict(g, params)
		for k, v := range opt.StateDict() {
			state["optim."+k] = v
		}
		header := serialization.Header{
			ModelType: "mlp",
			Metadata:  map[string]string{"activation": "tanh"},
			CheckpointMeta: &serialization.CheckpointMeta{
				Epoch:         cfg.Epochs,
				Loss:          losses[len(losses)-1],
				OptimizerType: cfg.Optimizer,
			},
		}
		if err := serialization.Save(cfg.Save, state, header); err != nil {
			return nil, err
		}
		logger.Info("saved checkpoint", "path", cfg.Save, "arrays", len(state))
	}
	return losses, nil
}

// mlpLoss records mean((model(x_i) - y_i)²) over all samples.
func mlpLoss(g *autodiff.Graph, model nn.Module, xs, ys []float64) (autodiff.NodeID, error) {
	total := autodiff.InvalidNode
	for i, x := range xs {
		in, err := g.Const(x)
		if err != nil {
			return autodiff.InvalidNode, err
		}
		pred, err := model.Forward(g, in)
		if err != nil {
			return autodiff.InvalidNode, err
		}
		sq, err := nn.MSE(g, pred, ys[i])
		if err != nil {
			return autodiff.InvalidNode, err
		}
		if total == autodiff.InvalidNode {
			total = sq
			continue
		}
		if total, err = g.Add(total, sq); err != nil {
			return autodiff.InvalidNode, err
		}
	}
	return g.Mul(total, 1/float64(len(xs)))
}
