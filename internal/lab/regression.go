package lab

import (
	"math"

	"github.com/born-ml/nnlab/internal/data"
	"github.com/born-ml/nnlab/internal/linreg"
	"github.com/born-ml/nnlab/internal/logging"
	"github.com/born-ml/nnlab/internal/mlp"
	"github.com/born-ml/nnlab/internal/plot"
)

// RegressionConfig describes the output-layer regression exercise.
type RegressionConfig struct {
	Nin      int     `koanf:"nin" validate:"min=1"`
	Nh       int     `koanf:"nh" validate:"min=1"`
	Nout     int     `koanf:"nout" validate:"min=1"`
	Samples  int     `koanf:"samples" validate:"min=2"`
	TestFrac float64 `koanf:"test_frac" validate:"gt=0,lt=1"`
	Scale    float64 `koanf:"scale" validate:"gt=0"`
	Noise    float64 `koanf:"noise" validate:"gte=0"`
	Seed     uint64  `koanf:"seed"`
}

// DefaultRegressionConfig uses noiseless targets so the output layer is
// recovered exactly.
func DefaultRegressionConfig() RegressionConfig {
	return RegressionConfig{Nin: 2, Nh: 4, Nout: 1, Samples: 100, TestFrac: 0.25, Scale: 1, Seed: 1}
}

// RegressionReport holds the recovered output layer.
type RegressionReport struct {
	Weights   *mlp.Weights
	Coef      *data.Matrix // [Nh, Nout], estimate of Wo
	Intercept []float64    // estimate of Bo
	MaxErr    float64      // largest |estimate - truth| over Wo and Bo
	TrainR2   float64
	TestR2    float64
}

// RunRegression labels random inputs with a random network, then fits the
// output layer by least squares on the hidden-unit activations.
func RunRegression(cfg RegressionConfig, opts Options) (*RegressionReport, error) {
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

	h, err := mlp.Hidden(x, w)
	if err != nil {
		return nil, err
	}
	y, err := mlp.Forward(x, w)
	if err != nil {
		return nil, err
	}
	if cfg.Noise > 0 {
		data.AddNoise(rng, y, cfg.Noise)
	}

	split, err := data.SplitTrainTest(rng, h, y, cfg.TestFrac)
	if err != nil {
		return nil, err
	}

	reg := linreg.New(true)
	if err := reg.Fit(linreg.Dense(split.XTrain), linreg.Dense(split.YTrain)); err != nil {
		return nil, err
	}
	trainR2, err := reg.Score(linreg.Dense(split.XTrain), linreg.Dense(split.YTrain))
	if err != nil {
		return nil, err
	}
	testR2, err := reg.Score(linreg.Dense(split.XTest), linreg.Dense(split.YTest))
	if err != nil {
		return nil, err
	}

	coef := linreg.Matrix(reg.Coef())
	intercept := reg.Intercept()
	report := &RegressionReport{
		Weights:   w,
		Coef:      coef,
		Intercept: intercept,
		MaxErr:    maxAbsDiff(coef.Data, w.Wo),
		TrainR2:   trainR2,
		TestR2:    testR2,
	}
	for j, b := range intercept {
		report.MaxErr = max(report.MaxErr, math.Abs(b-float64(w.Bo[j])))
	}

	log.Info().
		Float64("max_err", report.MaxErr).
		Float64("train_r2", trainR2).
		Float64("test_r2", testR2).
		Msg("output layer recovered")

	path, err := opts.plotPath("regression")
	if err != nil || path == "" {
		return report, err
	}
	pred, err := reg.Predict(linreg.Dense(split.XTest))
	if err != nil {
		return report, err
	}
	truth := split.YTest.Column(0)
	return report, plot.PredVsTrue(path, "Output layer regression", float64s(truth), float64s(linreg.Matrix(pred).Column(0)))
}
