package train

import (
	"context"
	"math"
	"testing"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/nnlab/internal/data"
	"github.com/born-ml/nnlab/internal/mlp"
)

type (
	Backend = *autodiff.Backend[*cpu.Backend]
	Input   = *tensor.Tensor[float32, Backend]
)

// labelledData draws inputs and labels them with a random network so the
// target function is exactly representable.
func labelledData(t *testing.T, n int, seed uint64) *DenseDataset[Backend] {
	t.Helper()
	rng := data.NewRand(seed)
	w := mlp.RandomWeights(rng, 2, 4, 1, 1)
	x := data.Normal(rng, n, 2, 0, 1)
	y, err := mlp.Forward(x, w)
	require.NoError(t, err)

	ds, err := NewDenseDataset[Backend](x, y)
	require.NoError(t, err)
	return ds
}

func TestFit_LossDecreases(t *testing.T) {
	backend := autodiff.New(cpu.New())
	ds := labelledData(t, 128, 7)
	net := mlp.NewNet(2, 4, 1, backend)

	cfg := DefaultConfig()
	cfg.Epochs = 30
	cfg.BatchSize = 16
	cfg.LR = 0.02

	hist, err := Fit[Backend, Input](context.Background(), backend, net, ds, ds, cfg)
	require.NoError(t, err)
	require.Equal(t, cfg.Epochs, hist.Epochs())
	require.Len(t, hist.ValLoss, cfg.Epochs)

	first, last := hist.Loss[0], hist.Loss[len(hist.Loss)-1]
	assert.Less(t, last, first)
	for _, v := range hist.Loss {
		assert.False(t, math.IsNaN(v))
	}

	m, err := Evaluate[Backend, Input](backend, net, ds)
	require.NoError(t, err)
	assert.Equal(t, 128, m.N)
	assert.InDelta(t, hist.ValLoss[len(hist.ValLoss)-1], m.MSE, 1e-6)
	assert.LessOrEqual(t, m.MAE, math.Sqrt(m.MSE)+1e-9)
}

func TestFit_SGD(t *testing.T) {
	backend := autodiff.New(cpu.New())
	ds := labelledData(t, 64, 3)
	net := mlp.NewNet(2, 4, 1, backend)

	cfg := DefaultConfig()
	cfg.Optimizer = OptimizerSGD
	cfg.LR = 0.1
	cfg.Momentum = 0.9
	cfg.Epochs = 20

	before, err := Evaluate[Backend, Input](backend, net, ds)
	require.NoError(t, err)

	hist, err := Fit[Backend, Input](context.Background(), backend, net, ds, nil, cfg)
	require.NoError(t, err)
	assert.Empty(t, hist.ValLoss)

	after, err := Evaluate[Backend, Input](backend, net, ds)
	require.NoError(t, err)
	assert.Less(t, after.MSE, before.MSE)
}

func TestFit_Cancelled(t *testing.T) {
	backend := autodiff.New(cpu.New())
	ds := labelledData(t, 32, 1)
	net := mlp.NewNet(2, 4, 1, backend)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hist, err := Fit[Backend, Input](ctx, backend, net, ds, nil, DefaultConfig())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, hist.Epochs())
	assert.False(t, backend.Tape().IsRecording())
}

func TestFit_Errors(t *testing.T) {
	backend := autodiff.New(cpu.New())
	net := mlp.NewNet(2, 4, 1, backend)

	bad := DefaultConfig()
	bad.BatchSize = 0
	_, err := Fit[Backend, Input](context.Background(), backend, net, labelledData(t, 8, 1), nil, bad)
	require.ErrorIs(t, err, ErrInvalidConfig)

	empty, err := NewDenseDataset[Backend](data.NewMatrix(0, 2), data.NewMatrix(0, 1))
	require.NoError(t, err)
	_, err = Fit[Backend, Input](context.Background(), backend, net, empty, nil, DefaultConfig())
	require.ErrorIs(t, err, ErrEmptyDataset)
}

func TestFit_FeatureMismatch(t *testing.T) {
	backend := autodiff.New(cpu.New())
	net := mlp.NewNet(3, 4, 1, backend)
	ds := labelledData(t, 8, 1) // 2 features

	_, err := Fit[Backend, Input](context.Background(), backend, net, ds, nil, DefaultConfig())
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Evaluate[Backend, Input](backend, net, ds)
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Predict[Backend, Input](backend, net, ds)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestFit_OutputMismatch(t *testing.T) {
	backend := autodiff.New(cpu.New())
	net := mlp.NewNet(2, 4, 1, backend)
	good := labelledData(t, 8, 1)
	bad, err := NewDenseDataset[Backend](data.NewMatrix(4, 2), data.NewMatrix(4, 2))
	require.NoError(t, err)

	_, err = Fit[Backend, Input](context.Background(), backend, net, good, bad, DefaultConfig())
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestPredict_Order(t *testing.T) {
	backend := autodiff.New(cpu.New())
	ds := labelledData(t, 300, 5) // spans two evaluation batches
	net := mlp.NewNet(2, 4, 1, backend)

	pred, err := Predict[Backend, Input](backend, net, ds)
	require.NoError(t, err)
	require.Len(t, pred, 300)

	want, err := mlp.Forward(ds.X, net.Weights())
	require.NoError(t, err)
	for i := range pred {
		assert.InDelta(t, want.Data[i], pred[i], 1e-5)
	}
}

func TestNewDenseDataset_RowMismatch(t *testing.T) {
	_, err := NewDenseDataset[Backend](data.NewMatrix(3, 2), data.NewMatrix(2, 1))
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"epochs", func(c *Config) { c.Epochs = 0 }},
		{"batch", func(c *Config) { c.BatchSize = -1 }},
		{"lr", func(c *Config) { c.LR = 0 }},
		{"momentum", func(c *Config) { c.Momentum = 1 }},
		{"optimizer", func(c *Config) { c.Optimizer = "rmsprop" }},
	}
	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestHistory(t *testing.T) {
	var h History
	epoch, _ := h.Best()
	assert.Equal(t, -1, epoch)
	loss, val := h.Final()
	assert.True(t, math.IsNaN(loss))
	assert.True(t, math.IsNaN(val))

	h.Loss = []float64{3, 2, 1}
	epoch, loss = h.Best()
	assert.Equal(t, 2, epoch)
	assert.InDelta(t, 1.0, loss, 0)

	h.ValLoss = []float64{2.5, 1.5, 1.8}
	epoch, loss = h.Best()
	assert.Equal(t, 1, epoch)
	assert.InDelta(t, 1.5, loss, 0)
}

func TestMSEGrad(t *testing.T) {
	grad := make([]float32, 2)
	loss, err := mseGrad([]float32{1, 3}, []float32{0, 1}, grad)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, loss, 1e-9)
	assert.InDeltaSlice(t, []float32{1, 2}, grad, 1e-7)

	_, err = mseGrad([]float32{1}, []float32{1, 2}, grad)
	require.ErrorIs(t, err, ErrShapeMismatch)
}
