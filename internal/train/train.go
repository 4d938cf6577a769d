package train

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/optim"
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/nnlab/internal/data"
	"github.com/born-ml/nnlab/internal/logging"
)

// evalBatchSize is the batch size used by Evaluate and Predict.
const evalBatchSize = 256

// TapeBackend is a backend that records operations on a gradient tape,
// such as *autodiff.Backend[*cpu.Backend].
type TapeBackend interface {
	tensor.Backend
	Tape() *autodiff.GradientTape
}

// Model is a trainable regression model over inputs of type In.
//
// Forward must return predictions of shape [batch, outputs] and the tensor
// it returns must be the output of the last recorded operation.
type Model[B tensor.Backend, In any] interface {
	Forward(in In) *tensor.Tensor[float32, B]
	Parameters() []*nn.Parameter[B]
}

// Regularizer is implemented by models with a weight penalty.
//
// Penalty adds the penalty gradient into grads (keyed by parameter raw
// tensor, creating entries as needed) and returns the penalty value.
type Regularizer interface {
	Penalty(grads map[*tensor.RawTensor]*tensor.RawTensor) float64
}

// Metrics summarizes predictions against targets.
type Metrics struct {
	MSE float64
	MAE float64
	N   int
}

// RMSE returns the root mean squared error.
func (m Metrics) RMSE() float64 {
	return math.Sqrt(m.MSE)
}

// Fit trains model on trainSet for cfg.Epochs epochs and returns the loss
// history. valSet may be nil.
//
// ctx is checked between batches; on cancellation the history of the
// completed epochs is returned with ctx.Err().
func Fit[B TapeBackend, In any](
	ctx context.Context,
	backend B,
	model Model[B, In],
	trainSet, valSet Dataset[B, In],
	cfg Config,
) (*History, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := trainSet.Len()
	if n == 0 {
		return nil, ErrEmptyDataset
	}
	if err := checkShapes(model, trainSet); err != nil {
		return nil, err
	}
	if valSet != nil {
		if err := checkShapes(model, valSet); err != nil {
			return nil, fmt.Errorf("validation set: %w", err)
		}
	}

	optimizer := newOptimizer(model.Parameters(), cfg, backend)
	rng := data.NewRand(cfg.Seed)
	log := logging.Component("train")
	hist := &History{}

	tape := backend.Tape()
	wasRecording := tape.IsRecording()
	defer func() {
		tape.Clear()
		if wasRecording {
			tape.StartRecording()
		}
	}()

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		start := time.Now()

		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		if cfg.Shuffle {
			rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		var total float64
		for lo := 0; lo < n; lo += cfg.BatchSize {
			if err := ctx.Err(); err != nil {
				return hist, err
			}
			idx := order[lo:min(lo+cfg.BatchSize, n)]

			loss, err := step(backend, model, optimizer, trainSet, idx)
			if err != nil {
				return hist, fmt.Errorf("epoch %d: %w", epoch+1, err)
			}
			total += loss * float64(len(idx))
		}
		hist.Loss = append(hist.Loss, total/float64(n))

		event := log.Debug().
			Int("epoch", epoch+1).
			Float64("loss", hist.Loss[epoch]).
			Dur("duration", time.Since(start))

		if valSet != nil && valSet.Len() > 0 {
			m, err := Evaluate(backend, model, valSet)
			if err != nil {
				return hist, fmt.Errorf("epoch %d validation: %w", epoch+1, err)
			}
			hist.ValLoss = append(hist.ValLoss, m.MSE)
			event = event.Float64("val_loss", m.MSE)
		}
		event.Msg("epoch done")
	}

	loss, valLoss := hist.Final()
	log.Info().
		Int("epochs", hist.Epochs()).
		Float64("loss", loss).
		Float64("val_loss", valLoss).
		Msg("training finished")

	return hist, nil
}

// step runs one forward/backward/update on the samples in idx and returns
// the batch loss.
func step[B TapeBackend, In any](
	backend B,
	model Model[B, In],
	optimizer optim.Optimizer,
	ds Dataset[B, In],
	idx []int,
) (float64, error) {
	tape := backend.Tape()
	optimizer.ZeroGrad()
	tape.Clear()

	input, targets, err := ds.Batch(idx, backend)
	if err != nil {
		return 0, err
	}

	tape.StartRecording()
	pred := model.Forward(input)
	tape.StopRecording()

	outputGrad, err := tensor.NewRaw(pred.Shape(), tensor.Float32, backend.Device())
	if err != nil {
		return 0, err
	}
	loss, err := mseGrad(pred.Data(), targets, outputGrad.AsFloat32())
	if err != nil {
		return 0, err
	}

	grads := tape.Backward(outputGrad, backend)
	if reg, ok := any(model).(Regularizer); ok {
		loss += reg.Penalty(grads)
	}
	optimizer.Step(grads)
	tape.Clear()

	return loss, nil
}

// mseGrad returns mean((pred-target)²) and writes its gradient
// 2(pred-target)/N into grad.
func mseGrad(pred, target, grad []float32) (float64, error) {
	if len(pred) != len(target) {
		return 0, fmt.Errorf("%w: %d predictions for %d targets", ErrShapeMismatch, len(pred), len(target))
	}
	scale := 2 / float64(len(pred))
	var sum float64
	for i, p := range pred {
		d := float64(p) - float64(target[i])
		sum += d * d
		grad[i] = float32(scale * d)
	}
	return sum / float64(len(pred)), nil
}

// Evaluate computes MSE and MAE over the whole dataset without recording
// gradients.
func Evaluate[B TapeBackend, In any](backend B, model Model[B, In], ds Dataset[B, In]) (Metrics, error) {
	var m Metrics
	err := forEachBatch(backend, model, ds, func(pred, target []float32) {
		for i, p := range pred {
			d := float64(p) - float64(target[i])
			m.MSE += d * d
			m.MAE += math.Abs(d)
		}
		m.N += len(pred)
	})
	if err != nil {
		return Metrics{}, err
	}
	if m.N > 0 {
		m.MSE /= float64(m.N)
		m.MAE /= float64(m.N)
	}
	return m, nil
}

// Predict returns the model predictions for every sample in ds, in order
// and flattened row-major.
func Predict[B TapeBackend, In any](backend B, model Model[B, In], ds Dataset[B, In]) ([]float32, error) {
	var out []float32
	err := forEachBatch(backend, model, ds, func(pred, _ []float32) {
		out = append(out, pred...)
	})
	return out, err
}

func forEachBatch[B TapeBackend, In any](
	backend B,
	model Model[B, In],
	ds Dataset[B, In],
	fn func(pred, target []float32),
) error {
	if err := checkShapes(model, ds); err != nil {
		return err
	}
	tape := backend.Tape()
	if tape.IsRecording() {
		tape.StopRecording()
		defer tape.StartRecording()
	}

	n := ds.Len()
	idx := make([]int, 0, evalBatchSize)
	for lo := 0; lo < n; lo += evalBatchSize {
		idx = idx[:0]
		for i := lo; i < min(lo+evalBatchSize, n); i++ {
			idx = append(idx, i)
		}

		input, targets, err := ds.Batch(idx, backend)
		if err != nil {
			return err
		}
		pred := model.Forward(input).Data()
		if len(pred) != len(targets) {
			return fmt.Errorf("%w: %d predictions for %d targets", ErrShapeMismatch, len(pred), len(targets))
		}
		fn(pred, targets)
	}
	return nil
}

func newOptimizer[B tensor.Backend](params []*nn.Parameter[B], cfg Config, backend B) optim.Optimizer {
	if cfg.Optimizer == OptimizerSGD {
		return optim.NewSGD(params, optim.SGDConfig{
			LR:       float32(cfg.LR),
			Momentum: float32(cfg.Momentum),
		}, backend)
	}
	return optim.NewAdam(params, optim.AdamConfig{
		LR:    float32(cfg.LR),
		Betas: [2]float32{0.9, 0.999},
		Eps:   1e-8,
	}, backend)
}
