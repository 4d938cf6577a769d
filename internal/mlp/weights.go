package mlp

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/nnlab/internal/data"
)

// ErrShapeMismatch is returned when weights or inputs have incompatible shapes.
var ErrShapeMismatch = errors.New("mlp: shape mismatch")

// Weights holds the parameters of a 1-hidden-layer network in NumPy layout.
type Weights struct {
	Nin  int
	Nh   int
	Nout int

	Wh []float32 // [Nin, Nh]
	Bh []float32 // [Nh]
	Wo []float32 // [Nh, Nout]
	Bo []float32 // [Nout]
}

// NewWeights allocates zero weights for the given layer sizes.
func NewWeights(nin, nh, nout int) *Weights {
	return &Weights{
		Nin:  nin,
		Nh:   nh,
		Nout: nout,
		Wh:   make([]float32, nin*nh),
		Bh:   make([]float32, nh),
		Wo:   make([]float32, nh*nout),
		Bo:   make([]float32, nout),
	}
}

// RandomWeights draws every parameter from N(0, scale²).
func RandomWeights(rng *rand.Rand, nin, nh, nout int, scale float64) *Weights {
	return &Weights{
		Nin:  nin,
		Nh:   nh,
		Nout: nout,
		Wh:   data.Normal(rng, nin, nh, 0, scale).Data,
		Bh:   data.Normal(rng, 1, nh, 0, scale).Data,
		Wo:   data.Normal(rng, nh, nout, 0, scale).Data,
		Bo:   data.Normal(rng, 1, nout, 0, scale).Data,
	}
}

// Validate checks that every slice matches the declared layer sizes.
func (w *Weights) Validate() error {
	if w.Nin <= 0 || w.Nh <= 0 || w.Nout <= 0 {
		return fmt.Errorf("%w: layer sizes must be positive, got nin=%d nh=%d nout=%d",
			ErrShapeMismatch, w.Nin, w.Nh, w.Nout)
	}
	checks := []struct {
		name string
		got  int
		want int
	}{
		{"wh", len(w.Wh), w.Nin * w.Nh},
		{"bh", len(w.Bh), w.Nh},
		{"wo", len(w.Wo), w.Nh * w.Nout},
		{"bo", len(w.Bo), w.Nout},
	}
	for _, c := range checks {
		if c.got != c.want {
			return fmt.Errorf("%w: %s has %d elements, want %d", ErrShapeMismatch, c.name, c.got, c.want)
		}
	}
	return nil
}

// OutputMatrix returns Wo stacked on top of bo as an [Nh+1, Nout] matrix,
// the layout recovered by a linear regression with intercept.
func (w *Weights) OutputMatrix() *data.Matrix {
	m := data.NewMatrix(w.Nh+1, w.Nout)
	copy(m.Data, w.Wo)
	copy(m.Row(w.Nh), w.Bo)
	return m
}
