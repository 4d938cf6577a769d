package lab

import (
	"context"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"

	"github.com/born-ml/nnlab/internal/data"
	"github.com/born-ml/nnlab/internal/logging"
	"github.com/born-ml/nnlab/internal/mf"
	"github.com/born-ml/nnlab/internal/plot"
	"github.com/born-ml/nnlab/internal/train"
)

// CompleteConfig describes the matrix completion demo.
type CompleteConfig struct {
	Rows     int          `koanf:"rows" validate:"min=1"`
	Cols     int          `koanf:"cols" validate:"min=1"`
	TrueRank int          `koanf:"true_rank" validate:"min=1"`
	Rank     int          `koanf:"rank" validate:"min=1"`
	L2       float64      `koanf:"l2" validate:"gte=0"`
	Bias     bool         `koanf:"bias"`
	Fraction float64      `koanf:"fraction" validate:"gt=0,lte=1"`
	TestFrac float64      `koanf:"test_frac" validate:"gt=0,lt=1"`
	Noise    float64      `koanf:"noise" validate:"gte=0"`
	Fit      train.Config `koanf:"fit"`
}

// DefaultCompleteConfig observes half of a rank-3 30×25 matrix.
func DefaultCompleteConfig() CompleteConfig {
	fit := train.DefaultConfig()
	fit.Epochs = 200
	fit.LR = 0.02
	return CompleteConfig{
		Rows: 30, Cols: 25,
		TrueRank: 3,
		Rank:     3,
		L2:       1e-4,
		Fraction: 0.5,
		TestFrac: 0.2,
		Noise:    0.01,
		Fit:      fit,
	}
}

// CompleteReport holds the completion accuracy and both matrices.
type CompleteReport struct {
	Truth     *data.Matrix
	Estimate  *data.Matrix
	Observed  int // training entries
	History   *train.History
	TrainRMSE float64
	TestRMSE  float64
}

// RunComplete samples entries from a random low-rank matrix, fits the
// embedding model to the training entries and reports RMSE on both splits.
func RunComplete(ctx context.Context, cfg CompleteConfig, opts Options) (*CompleteReport, error) {
	if err := check(cfg); err != nil {
		return nil, err
	}
	if err := check(opts); err != nil {
		return nil, err
	}
	if opts.Device == DeviceWebGPU {
		return completeWebGPU(ctx, cfg, opts)
	}
	return completeOn(ctx, autodiff.New(cpu.New()), cfg, opts)
}

func completeOn[B train.TapeBackend](ctx context.Context, backend B, cfg CompleteConfig, opts Options) (*CompleteReport, error) {
	log := logging.Component("lab")

	rng := data.NewRand(cfg.Fit.Seed)
	fact, err := data.LowRank(rng, cfg.Rows, cfg.Cols, cfg.TrueRank)
	if err != nil {
		return nil, err
	}
	entries, err := data.SampleEntries(rng, fact.M, cfg.Fraction, cfg.Noise)
	if err != nil {
		return nil, err
	}
	trainEntries, testEntries, err := data.SplitEntries(rng, entries, cfg.TestFrac)
	if err != nil {
		return nil, err
	}

	mcfg := mf.Config{Rows: cfg.Rows, Cols: cfg.Cols, Rank: cfg.Rank, L2: cfg.L2, Bias: cfg.Bias}
	model, err := mf.New(mcfg, rng, backend)
	if err != nil {
		return nil, err
	}
	trainSet, err := mf.NewEntryDataset[B](mcfg, trainEntries)
	if err != nil {
		return nil, err
	}
	testSet, err := mf.NewEntryDataset[B](mcfg, testEntries)
	if err != nil {
		return nil, err
	}

	hist, err := train.Fit[B, mf.Pairs[B]](ctx, backend, model, trainSet, testSet, cfg.Fit)
	if err != nil {
		return nil, err
	}

	report := &CompleteReport{Truth: fact.M, Observed: len(trainEntries), History: hist}
	if report.Estimate, err = model.Complete(); err != nil {
		return nil, err
	}
	if report.TrainRMSE, err = model.RMSE(trainEntries); err != nil {
		return nil, err
	}
	if report.TestRMSE, err = model.RMSE(testEntries); err != nil {
		return nil, err
	}

	log.Info().
		Int("observed", report.Observed).
		Float64("train_rmse", report.TrainRMSE).
		Float64("test_rmse", report.TestRMSE).
		Msg("matrix completed")

	return report, completePlots(report, opts)
}

func completePlots(report *CompleteReport, opts Options) error {
	for _, fig := range []struct {
		name, title string
		m           *data.Matrix
	}{
		{"complete_truth", "True matrix", report.Truth},
		{"complete_estimate", "Completed matrix", report.Estimate},
	} {
		path, err := opts.plotPath(fig.name)
		if err != nil || path == "" {
			return err
		}
		if err := plot.Heatmap(path, fig.title, fig.m); err != nil {
			return err
		}
	}
	path, err := opts.plotPath("complete_loss")
	if err != nil || path == "" {
		return err
	}
	return plot.LossCurves(path, report.History)
}
