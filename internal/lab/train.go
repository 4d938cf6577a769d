package lab

import (
	"context"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/nnlab/internal/data"
	"github.com/born-ml/nnlab/internal/logging"
	"github.com/born-ml/nnlab/internal/mlp"
	"github.com/born-ml/nnlab/internal/plot"
	"github.com/born-ml/nnlab/internal/train"
)

// TrainConfig describes the network training exercise. The target network
// and the trained network share the layer sizes.
type TrainConfig struct {
	Nin      int          `koanf:"nin" validate:"min=1"`
	Nh       int          `koanf:"nh" validate:"min=1"`
	Nout     int          `koanf:"nout" validate:"min=1"`
	Samples  int          `koanf:"samples" validate:"min=2"`
	TestFrac float64      `koanf:"test_frac" validate:"gt=0,lt=1"`
	Scale    float64      `koanf:"scale" validate:"gt=0"`
	Noise    float64      `koanf:"noise" validate:"gte=0"`
	Fit      train.Config `koanf:"fit"`
}

// DefaultTrainConfig trains a 2-4-1 network on 500 noisy samples.
func DefaultTrainConfig() TrainConfig {
	fit := train.DefaultConfig()
	fit.Epochs = 200
	fit.LR = 0.02
	return TrainConfig{
		Nin: 2, Nh: 4, Nout: 1,
		Samples:  500,
		TestFrac: 0.2,
		Scale:    2,
		Noise:    0.05,
		Fit:      fit,
	}
}

// TrainReport summarizes a training run.
type TrainReport struct {
	Target  *mlp.Weights // network that labelled the data
	Learned *mlp.Weights
	History *train.History
	Test    train.Metrics
}

// RunTrain trains a network on data labelled by a random network and
// evaluates it on held-out samples.
func RunTrain(ctx context.Context, cfg TrainConfig, opts Options) (*TrainReport, error) {
	if err := check(cfg); err != nil {
		return nil, err
	}
	if err := check(opts); err != nil {
		return nil, err
	}
	if opts.Device == DeviceWebGPU {
		return trainWebGPU(ctx, cfg, opts)
	}
	return trainOn(ctx, autodiff.New(cpu.New()), cfg, opts)
}

func trainOn[B train.TapeBackend](ctx context.Context, backend B, cfg TrainConfig, opts Options) (*TrainReport, error) {
	log := logging.Component("lab")

	rng := data.NewRand(cfg.Fit.Seed)
	target := mlp.RandomWeights(rng, cfg.Nin, cfg.Nh, cfg.Nout, cfg.Scale)
	x := data.Normal(rng, cfg.Samples, cfg.Nin, 0, 1)
	y, err := mlp.Forward(x, target)
	if err != nil {
		return nil, err
	}
	if cfg.Noise > 0 {
		data.AddNoise(rng, y, cfg.Noise)
	}

	split, err := data.SplitTrainTest(rng, x, y, cfg.TestFrac)
	if err != nil {
		return nil, err
	}
	trainSet, err := train.NewDenseDataset[B](split.XTrain, split.YTrain)
	if err != nil {
		return nil, err
	}
	testSet, err := train.NewDenseDataset[B](split.XTest, split.YTest)
	if err != nil {
		return nil, err
	}

	net := mlp.NewNet(cfg.Nin, cfg.Nh, cfg.Nout, backend)
	hist, err := train.Fit[B, *tensor.Tensor[float32, B]](ctx, backend, net, trainSet, testSet, cfg.Fit)
	if err != nil {
		return nil, err
	}
	metrics, err := train.Evaluate[B, *tensor.Tensor[float32, B]](backend, net, testSet)
	if err != nil {
		return nil, err
	}

	report := &TrainReport{
		Target:  target,
		Learned: net.Weights(),
		History: hist,
		Test:    metrics,
	}
	log.Info().
		Int("epochs", hist.Epochs()).
		Float64("test_mse", metrics.MSE).
		Float64("test_mae", metrics.MAE).
		Msg("network trained")

	if err := trainPlots(backend, net, testSet, report, opts); err != nil {
		return report, err
	}
	return report, nil
}

func trainPlots[B train.TapeBackend](
	backend B,
	net *mlp.Net[B],
	testSet *train.DenseDataset[B],
	report *TrainReport,
	opts Options,
) error {
	path, err := opts.plotPath("train_loss")
	if err != nil || path == "" {
		return err
	}
	if err := plot.LossCurves(path, report.History); err != nil {
		return err
	}

	pred, err := train.Predict[B, *tensor.Tensor[float32, B]](backend, net, testSet)
	if err != nil {
		return err
	}
	if path, err = opts.plotPath("train_pred"); err != nil {
		return err
	}
	// First output only when Nout > 1.
	nout := testSet.Y.Cols
	truth := make([]float64, testSet.Len())
	got := make([]float64, testSet.Len())
	for i := range truth {
		truth[i] = float64(testSet.Y.At(i, 0))
		got[i] = float64(pred[i*nout])
	}
	return plot.PredVsTrue(path, "Test predictions", truth, got)
}
