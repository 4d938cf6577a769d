package mlp

import (
	"math"
	"testing"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/nnlab/internal/data"
)

type Backend = *autodiff.Backend[*cpu.Backend]

func sigmoid64(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// TestForward_Worked reproduces the in-class example with two inputs,
// two hidden units and one output.
func TestForward_Worked(t *testing.T) {
	w := &Weights{
		Nin: 2, Nh: 2, Nout: 1,
		Wh: []float32{1, -1, 2, 0.5}, // [[1, -1], [2, 0.5]]
		Bh: []float32{0, 1},
		Wo: []float32{3, -2},
		Bo: []float32{0.5},
	}
	x, err := data.FromSlice(2, 2, []float32{1, 0, -1, 2})
	require.NoError(t, err)

	h, err := Hidden(x, w)
	require.NoError(t, err)
	y, err := Forward(x, w)
	require.NoError(t, err)

	// Row 0: z = [1, 0] → h = [σ(1), σ(0)]
	// Row 1: z = [-1+4, 1+1+1] = [3, 3]
	wantH := [][]float64{
		{sigmoid64(1), sigmoid64(0)},
		{sigmoid64(3), sigmoid64(3)},
	}
	for i := range wantH {
		for j := range wantH[i] {
			assert.InDelta(t, wantH[i][j], float64(h.At(i, j)), 1e-6)
		}
		wantY := 3*wantH[i][0] - 2*wantH[i][1] + 0.5
		assert.InDelta(t, wantY, float64(y.At(i, 0)), 1e-5)
	}
}

func TestForward_ShapeErrors(t *testing.T) {
	w := NewWeights(3, 2, 1)

	_, err := Forward(data.NewMatrix(4, 2), w)
	require.ErrorIs(t, err, ErrShapeMismatch)

	w.Bh = w.Bh[:1]
	_, err = Forward(data.NewMatrix(4, 3), w)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestForward_SaturatesWithoutNaN(t *testing.T) {
	w := &Weights{
		Nin: 1, Nh: 1, Nout: 1,
		Wh: []float32{1}, Bh: []float32{0},
		Wo: []float32{1}, Bo: []float32{0},
	}
	x, err := data.FromSlice(2, 1, []float32{-200, 200})
	require.NoError(t, err)

	h, err := Hidden(x, w)
	require.NoError(t, err)
	assert.InDelta(t, 0, h.At(0, 0), 1e-6)
	assert.InDelta(t, 1, h.At(1, 0), 1e-6)
}

// TestNet_MatchesHandForward checks that the framework model and the
// hand-computed formula agree for the same weights.
func TestNet_MatchesHandForward(t *testing.T) {
	rng := data.NewRand(21)
	w := RandomWeights(rng, 3, 5, 2, 1.0)
	x := data.Normal(rng, 8, 3, 0, 1)

	want, err := Forward(x, w)
	require.NoError(t, err)

	backend := autodiff.New(cpu.New())
	net := NewNet(3, 5, 2, backend)
	require.NoError(t, net.Load(w))

	input, err := tensor.FromSlice(x.Data, tensor.Shape{8, 3}, backend)
	require.NoError(t, err)
	got := net.Forward(input)

	require.Equal(t, tensor.Shape{8, 2}, got.Shape())
	for i, v := range got.Data() {
		assert.InDelta(t, want.Data[i], v, 1e-5, "element %d", i)
	}
}

func TestNet_WeightsRoundTrip(t *testing.T) {
	w := RandomWeights(data.NewRand(2), 4, 3, 2, 0.5)

	net := NewNet[Backend](4, 3, 2, autodiff.New(cpu.New()))
	require.NoError(t, net.Load(w))

	got := net.Weights()
	assert.Equal(t, w.Wh, got.Wh)
	assert.Equal(t, w.Bh, got.Bh)
	assert.Equal(t, w.Wo, got.Wo)
	assert.Equal(t, w.Bo, got.Bo)

	err := net.Load(NewWeights(4, 4, 2))
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNet_Parameters(t *testing.T) {
	net := NewNet[Backend](2, 3, 1, autodiff.New(cpu.New()))
	params := net.Parameters()
	require.Len(t, params, 4)

	nin, nh, nout := net.Sizes()
	assert.Equal(t, []int{2, 3, 1}, []int{nin, nh, nout})
	assert.Equal(t, 2, net.InFeatures())
	assert.Equal(t, 1, net.OutFeatures())
}

func TestOutputMatrix(t *testing.T) {
	w := &Weights{
		Nin: 1, Nh: 2, Nout: 1,
		Wh: []float32{0, 0}, Bh: []float32{0, 0},
		Wo: []float32{4, 5}, Bo: []float32{6},
	}
	m := w.OutputMatrix()
	assert.Equal(t, []float32{4, 5, 6}, m.Data)
}
