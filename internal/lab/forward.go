package lab

import (
	"fmt"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/nnlab/internal/data"
	"github.com/born-ml/nnlab/internal/logging"
	"github.com/born-ml/nnlab/internal/mlp"
	"github.com/born-ml/nnlab/internal/plot"
)

// ForwardConfig sizes the network and input batch of the forward-pass
// exercise.
type ForwardConfig struct {
	Nin     int     `koanf:"nin" validate:"min=1"`
	Nh      int     `koanf:"nh" validate:"min=1"`
	Nout    int     `koanf:"nout" validate:"min=1"`
	Samples int     `koanf:"samples" validate:"min=1"`
	Scale   float64 `koanf:"scale" validate:"gt=0"`
	Seed    uint64  `koanf:"seed"`
}

// DefaultForwardConfig is a 2-4-1 network on 8 inputs.
func DefaultForwardConfig() ForwardConfig {
	return ForwardConfig{Nin: 2, Nh: 4, Nout: 1, Samples: 8, Scale: 1, Seed: 1}
}

// ForwardReport compares the hand-computed and framework outputs.
type ForwardReport struct {
	Weights    *mlp.Weights
	X          *data.Matrix
	Hidden     *data.Matrix
	Hand       *data.Matrix
	Framework  *data.Matrix
	MaxAbsDiff float64
}

// RunForward draws random weights and inputs and evaluates the network
// both by hand and through the framework model.
func RunForward(cfg ForwardConfig, opts Options) (*ForwardReport, error) {
	if err := check(cfg); err != nil {
		return nil, err
	}
	if err := check(opts); err != nil {
		return nil, err
	}
	log := logging.Component("lab")

	rng := data.NewRand(cfg.Seed)
	w := mlp.RandomWeights(rng, cfg.Nin, cfg.Nh, cfg.Nout, cfg.Scale)
	x := data.Normal(rng, cfg.Samples, cfg.Nin, 0, 1)

	hidden, err := mlp.Hidden(x, w)
	if err != nil {
		return nil, err
	}
	hand, err := mlp.Forward(x, w)
	if err != nil {
		return nil, err
	}

	var framework *data.Matrix
	switch opts.Device {
	case DeviceWebGPU:
		framework, err = forwardWebGPU(w, x)
	default:
		framework, err = forwardOn(autodiff.New(cpu.New()), w, x)
	}
	if err != nil {
		return nil, err
	}

	report := &ForwardReport{
		Weights:    w,
		X:          x,
		Hidden:     hidden,
		Hand:       hand,
		Framework:  framework,
		MaxAbsDiff: maxAbsDiff(hand.Data, framework.Data),
	}
	log.Info().
		Str("device", opts.Device).
		Int("samples", cfg.Samples).
		Float64("max_abs_diff", report.MaxAbsDiff).
		Msg("forward pass compared")

	path, err := opts.plotPath("forward")
	if err != nil || path == "" {
		return report, err
	}
	if err := plot.PredVsTrue(path, "Hand vs framework", float64s(hand.Data), float64s(framework.Data)); err != nil {
		return report, err
	}
	return report, nil
}

// forwardOn evaluates the framework model with weights w on backend.
func forwardOn[B tensor.Backend](backend B, w *mlp.Weights, x *data.Matrix) (*data.Matrix, error) {
	net := mlp.NewNet(w.Nin, w.Nh, w.Nout, backend)
	if err := net.Load(w); err != nil {
		return nil, err
	}
	input, err := tensor.FromSlice(x.Data, tensor.Shape{x.Rows, x.Cols}, backend)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	out := net.Forward(input)
	values := make([]float32, out.NumElements())
	copy(values, out.Data())
	return data.FromSlice(x.Rows, w.Nout, values)
}
