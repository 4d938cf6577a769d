package plot

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/born-ml/nnlab/internal/data"
	"github.com/born-ml/nnlab/internal/train"
)

// Common errors.
var (
	ErrEmpty          = errors.New("plot: no data")
	ErrLengthMismatch = errors.New("plot: length mismatch")
)

// Figure size.
const (
	width  = 5 * vg.Inch
	height = 4 * vg.Inch
)

// Scatter plots ys against xs.
func Scatter(path, title string, xs, ys []float64) error {
	pts, err := points(xs, ys)
	if err != nil {
		return err
	}
	p := newPlot(title, "x", "y")
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(2)
	p.Add(s)
	return save(p, path)
}

// PredVsTrue scatters predictions against targets with the identity line
// for reference.
func PredVsTrue(path, title string, truth, pred []float64) error {
	pts, err := points(truth, pred)
	if err != nil {
		return err
	}
	p := newPlot(title, "true", "predicted")
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(2)

	lo := math.Min(floats.Min(truth), floats.Min(pred))
	hi := math.Max(floats.Max(truth), floats.Max(pred))
	identity, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return err
	}
	identity.Color = color.RGBA{R: 200, A: 255}
	identity.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(s, identity)
	return save(p, path)
}

// LossCurves plots the training loss and, when present, the validation loss
// per epoch.
func LossCurves(path string, h *train.History) error {
	p, err := lossPlot(h)
	if err != nil {
		return err
	}
	return save(p, path)
}

// lossPlot builds the loss figure. Training loss includes any weight
// penalty, so the axis is labelled loss rather than mse.
func lossPlot(h *train.History) (*plot.Plot, error) {
	if h == nil || h.Epochs() == 0 {
		return nil, ErrEmpty
	}
	p := newPlot("Loss", "epoch", "loss")

	trainLine, err := plotter.NewLine(series(h.Loss))
	if err != nil {
		return nil, err
	}
	trainLine.Color = color.RGBA{B: 200, A: 255}
	p.Add(trainLine)
	p.Legend.Add("train", trainLine)

	if len(h.ValLoss) > 0 {
		valLine, err := plotter.NewLine(series(h.ValLoss))
		if err != nil {
			return nil, err
		}
		valLine.Color = color.RGBA{R: 200, A: 255}
		p.Add(valLine)
		p.Legend.Add("validation", valLine)
	}
	p.Legend.Top = true
	return p, nil
}

// Heatmap draws m with row 0 at the bottom.
func Heatmap(path, title string, m *data.Matrix) error {
	if m == nil || m.Rows == 0 || m.Cols == 0 {
		return ErrEmpty
	}
	p := newPlot(title, "column", "row")

	grid := matrixGrid{m}
	hm := plotter.NewHeatMap(grid, palette.Heat(64, 1))
	if hm.Min == hm.Max {
		hm.Min, hm.Max = hm.Min-0.5, hm.Max+0.5
	}
	p.Add(hm)
	return save(p, path)
}

// matrixGrid adapts data.Matrix to plotter.GridXYZ.
type matrixGrid struct {
	m *data.Matrix
}

func (g matrixGrid) Dims() (c, r int) { return g.m.Cols, g.m.Rows }

func (g matrixGrid) Z(c, r int) float64 { return float64(g.m.At(r, c)) }

func (g matrixGrid) X(c int) float64 { return float64(c) }

func (g matrixGrid) Y(r int) float64 { return float64(r) }

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Add(plotter.NewGrid())
	return p
}

func points(xs, ys []float64) (plotter.XYs, error) {
	if len(xs) == 0 {
		return nil, ErrEmpty
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d x values, %d y values", ErrLengthMismatch, len(xs), len(ys))
	}
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X, pts[i].Y = xs[i], ys[i]
	}
	return pts, nil
}

func series(values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X, pts[i].Y = float64(i+1), v
	}
	return pts
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
