package mlp

import (
	"fmt"

	"github.com/born-ml/born/backend/cpu"
	"github.com/born-ml/born/tensor"

	"github.com/born-ml/nnlab/internal/data"
)

// Hidden computes the hidden-unit activations σ(x·Wh + bh).
//
// x must have shape [n, Nin]. The result has shape [n, Nh].
func Hidden(x *data.Matrix, w *Weights) (*data.Matrix, error) {
	if err := checkInput(x, w); err != nil {
		return nil, err
	}
	backend := cpu.New()

	h, err := hidden(backend, x, w)
	if err != nil {
		return nil, err
	}
	return toMatrix(h), nil
}

// Forward computes the network output σ(x·Wh + bh)·Wo + bo.
//
// x must have shape [n, Nin]. The result has shape [n, Nout].
func Forward(x *data.Matrix, w *Weights) (*data.Matrix, error) {
	if err := checkInput(x, w); err != nil {
		return nil, err
	}
	backend := cpu.New()

	h, err := hidden(backend, x, w)
	if err != nil {
		return nil, err
	}

	wo, err := tensor.FromSlice(w.Wo, tensor.Shape{w.Nh, w.Nout}, backend)
	if err != nil {
		return nil, fmt.Errorf("output weights: %w", err)
	}
	bo, err := tensor.FromSlice(w.Bo, tensor.Shape{1, w.Nout}, backend)
	if err != nil {
		return nil, fmt.Errorf("output bias: %w", err)
	}

	// [n, nh] @ [nh, nout] + [1, nout]
	y := h.MatMul(wo).Add(bo)
	return toMatrix(y), nil
}

func hidden(backend *cpu.Backend, x *data.Matrix, w *Weights) (*tensor.Tensor[float32, *cpu.Backend], error) {
	xt, err := tensor.FromSlice(x.Data, tensor.Shape{x.Rows, x.Cols}, backend)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	wh, err := tensor.FromSlice(w.Wh, tensor.Shape{w.Nin, w.Nh}, backend)
	if err != nil {
		return nil, fmt.Errorf("hidden weights: %w", err)
	}
	bh, err := tensor.FromSlice(w.Bh, tensor.Shape{1, w.Nh}, backend)
	if err != nil {
		return nil, fmt.Errorf("hidden bias: %w", err)
	}

	// [n, nin] @ [nin, nh] + [1, nh]
	z := xt.MatMul(wh).Add(bh)
	return sigmoid(z), nil
}

// sigmoid evaluates 1/(1+exp(-z)) elementwise.
// Large negative z overflows exp to +Inf and saturates the result at 0.
func sigmoid[B tensor.Backend](z *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	one := tensor.Ones[float32](z.Shape(), z.Backend())
	return one.Div(z.MulScalar(-1).Exp().AddScalar(1))
}

func checkInput(x *data.Matrix, w *Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if x.Rows == 0 {
		return fmt.Errorf("%w: empty input", ErrShapeMismatch)
	}
	if x.Cols != w.Nin {
		return fmt.Errorf("%w: input has %d features, network expects %d", ErrShapeMismatch, x.Cols, w.Nin)
	}
	return nil
}

func toMatrix[B tensor.Backend](t *tensor.Tensor[float32, B]) *data.Matrix {
	shape := t.Shape()
	m := data.NewMatrix(shape[0], shape[1])
	copy(m.Data, t.Data())
	return m
}
