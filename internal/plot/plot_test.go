package plot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/nnlab/internal/data"
	"github.com/born-ml/nnlab/internal/train"
)

func requireFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestScatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scatter.png")
	require.NoError(t, Scatter(path, "x vs y", []float64{0, 1, 2}, []float64{1, 3, 2}))
	requireFile(t, path)
}

func TestPredVsTrue_SVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pred.svg")
	require.NoError(t, PredVsTrue(path, "fit", []float64{0, 1, 2}, []float64{0.1, 0.9, 2.2}))
	requireFile(t, path)
}

func TestLossCurves(t *testing.T) {
	dir := t.TempDir()
	h := &train.History{Loss: []float64{1, 0.5, 0.25}, ValLoss: []float64{1.2, 0.7, 0.4}}
	require.NoError(t, LossCurves(filepath.Join(dir, "loss.png"), h))
	requireFile(t, filepath.Join(dir, "loss.png"))

	require.ErrorIs(t, LossCurves(filepath.Join(dir, "empty.png"), &train.History{}), ErrEmpty)
}

func TestLossPlot_Labels(t *testing.T) {
	p, err := lossPlot(&train.History{Loss: []float64{2, 1}})
	require.NoError(t, err)
	assert.Equal(t, "epoch", p.X.Label.Text)
	assert.Equal(t, "loss", p.Y.Label.Text)
}

func TestHeatmap(t *testing.T) {
	dir := t.TempDir()
	m, err := data.FromRows([][]float32{{0, 1, 2}, {3, 4, 5}})
	require.NoError(t, err)
	require.NoError(t, Heatmap(filepath.Join(dir, "m.png"), "m", m))
	requireFile(t, filepath.Join(dir, "m.png"))

	flat, err := data.FromRows([][]float32{{1, 1}, {1, 1}})
	require.NoError(t, err)
	require.NoError(t, Heatmap(filepath.Join(dir, "flat.png"), "flat", flat))

	require.ErrorIs(t, Heatmap(filepath.Join(dir, "none.png"), "none", data.NewMatrix(0, 0)), ErrEmpty)
}

func TestPoints_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	require.ErrorIs(t, Scatter(path, "", nil, nil), ErrEmpty)
	require.ErrorIs(t, Scatter(path, "", []float64{1, 2}, []float64{1}), ErrLengthMismatch)
}
