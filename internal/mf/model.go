package mf

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/nnlab/internal/data"
)

// Common errors.
var (
	ErrInvalidConfig   = errors.New("mf: invalid config")
	ErrIndexOutOfRange = errors.New("mf: index out of range")
)

// Config describes the shape of the factorization.
type Config struct {
	Rows int     `koanf:"rows" validate:"min=1"`
	Cols int     `koanf:"cols" validate:"min=1"`
	Rank int     `koanf:"rank" validate:"min=1"`
	L2   float64 `koanf:"l2" validate:"gte=0"`
	Bias bool    `koanf:"bias"`
}

// Validate checks the dimensions.
func (c Config) Validate() error {
	switch {
	case c.Rows < 1 || c.Cols < 1:
		return fmt.Errorf("%w: matrix is %dx%d", ErrInvalidConfig, c.Rows, c.Cols)
	case c.Rank < 1:
		return fmt.Errorf("%w: rank %d", ErrInvalidConfig, c.Rank)
	case c.L2 < 0:
		return fmt.Errorf("%w: negative l2 %v", ErrInvalidConfig, c.L2)
	}
	return nil
}

// Pairs is a batch of (i0, i1) lookups.
type Pairs[B tensor.Backend] struct {
	Rows *tensor.Tensor[int32, B] // [batch], values in [0, Config.Rows)
	Cols *tensor.Tensor[int32, B] // [batch], values in [0, Config.Cols)
}

// Model predicts M[i0, i1] ≈ E0[i0]·E1[i1] (+ b0[i0] + b1[i1]).
type Model[B tensor.Backend] struct {
	cfg     Config
	rows    *nn.Embedding[B] // [Rows, Rank]
	cols    *nn.Embedding[B] // [Cols, Rank]
	rowBias *nn.Embedding[B] // [Rows, 1], nil without Config.Bias
	colBias *nn.Embedding[B] // [Cols, 1]
	reduce  *tensor.Tensor[float32, B] // [Rank, 1] ones, sums over the rank
}

// New creates a model with embeddings drawn from N(0, 1/Rank) and zero
// biases.
func New[B tensor.Backend](cfg Config, rng *rand.Rand, backend B) (*Model[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Model[B]{
		cfg:    cfg,
		rows:   nn.NewEmbedding(cfg.Rows, cfg.Rank, backend),
		cols:   nn.NewEmbedding(cfg.Cols, cfg.Rank, backend),
		reduce: tensor.Ones[float32](tensor.Shape{cfg.Rank, 1}, backend),
	}
	sigma := 1 / math.Sqrt(float64(cfg.Rank))
	copy(m.rows.Weight.Tensor().Data(), data.Normal(rng, cfg.Rows, cfg.Rank, 0, sigma).Data)
	copy(m.cols.Weight.Tensor().Data(), data.Normal(rng, cfg.Cols, cfg.Rank, 0, sigma).Data)

	if cfg.Bias {
		m.rowBias = nn.NewEmbedding(cfg.Rows, 1, backend)
		m.colBias = nn.NewEmbedding(cfg.Cols, 1, backend)
		clear(m.rowBias.Weight.Tensor().Data())
		clear(m.colBias.Weight.Tensor().Data())
	}
	return m, nil
}

// Config returns the model configuration.
func (m *Model[B]) Config() Config {
	return m.cfg
}

// Forward returns predictions of shape [batch, 1].
func (m *Model[B]) Forward(in Pairs[B]) *tensor.Tensor[float32, B] {
	e0 := m.rows.Forward(in.Rows) // [batch, Rank]
	e1 := m.cols.Forward(in.Cols)
	out := e0.Mul(e1).MatMul(m.reduce)
	if m.rowBias != nil {
		out = out.Add(m.rowBias.Forward(in.Rows))
		out = out.Add(m.colBias.Forward(in.Cols))
	}
	return out
}

// Parameters returns the embedding tables, biases last.
func (m *Model[B]) Parameters() []*nn.Parameter[B] {
	params := []*nn.Parameter[B]{m.rows.Weight, m.cols.Weight}
	if m.rowBias != nil {
		params = append(params, m.rowBias.Weight, m.colBias.Weight)
	}
	return params
}

// Penalty applies L2 regularization λ(‖E0‖² + ‖E1‖²) to the embedding
// tables. Biases are not penalized.
//
// Panics if the gradient buffer cannot be allocated.
func (m *Model[B]) Penalty(grads map[*tensor.RawTensor]*tensor.RawTensor) float64 {
	if m.cfg.L2 == 0 {
		return 0
	}
	lambda := m.cfg.L2
	var loss float64
	for _, p := range []*nn.Parameter[B]{m.rows.Weight, m.cols.Weight} {
		w := p.Tensor().Raw()
		values := w.AsFloat32()

		grad, err := tensor.NewRaw(w.Shape(), tensor.Float32, w.Device())
		if err != nil {
			panic(err)
		}
		g := grad.AsFloat32()
		if prev, ok := grads[w]; ok {
			copy(g, prev.AsFloat32())
		}
		for i, v := range values {
			loss += float64(v) * float64(v)
			g[i] += float32(2 * lambda * float64(v))
		}
		grads[w] = grad
	}
	return lambda * loss
}

// Embeddings returns copies of the row and column tables as matrices.
func (m *Model[B]) Embeddings() (rows, cols *data.Matrix) {
	rows = (&data.Matrix{Rows: m.cfg.Rows, Cols: m.cfg.Rank, Data: m.rows.Weight.Tensor().Data()}).Clone()
	cols = (&data.Matrix{Rows: m.cfg.Cols, Cols: m.cfg.Rank, Data: m.cols.Weight.Tensor().Data()}).Clone()
	return rows, cols
}

// Complete reconstructs the full Rows×Cols estimate E0·E1ᵀ (+ biases).
func (m *Model[B]) Complete() (*data.Matrix, error) {
	backend := cpu.New()
	rows, cols := m.Embeddings()

	e0, err := tensor.FromSlice(rows.Data, tensor.Shape{rows.Rows, rows.Cols}, backend)
	if err != nil {
		return nil, err
	}
	e1, err := tensor.FromSlice(cols.Data, tensor.Shape{cols.Rows, cols.Cols}, backend)
	if err != nil {
		return nil, err
	}
	full, err := data.FromSlice(m.cfg.Rows, m.cfg.Cols, e0.MatMul(e1.T()).Data())
	if err != nil {
		return nil, err
	}

	if m.rowBias != nil {
		b0 := m.rowBias.Weight.Tensor().Data()
		b1 := m.colBias.Weight.Tensor().Data()
		for i := 0; i < full.Rows; i++ {
			row := full.Row(i)
			for j := range row {
				row[j] += b0[i] + b1[j]
			}
		}
	}
	return full, nil
}

// RMSE returns the root mean squared error of the completed matrix on
// entries.
func (m *Model[B]) RMSE(entries []data.Entry) (float64, error) {
	if len(entries) == 0 {
		return 0, data.ErrEmptyDataset
	}
	full, err := m.Complete()
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, e := range entries {
		if err := m.checkEntry(e); err != nil {
			return 0, err
		}
		d := float64(full.At(e.I0, e.I1)) - float64(e.Value)
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(entries))), nil
}

func (m *Model[B]) checkEntry(e data.Entry) error {
	if e.I0 < 0 || e.I0 >= m.cfg.Rows || e.I1 < 0 || e.I1 >= m.cfg.Cols {
		return fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrIndexOutOfRange, e.I0, e.I1, m.cfg.Rows, m.cfg.Cols)
	}
	return nil
}
