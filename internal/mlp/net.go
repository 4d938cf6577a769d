package mlp

import (
	"fmt"

	"github.com/born-ml/born/nn"
	"github.com/born-ml/born/tensor"
)

// Net is the framework rendition of the network: Linear → Sigmoid → Linear.
//
// Sigmoid requires a backend with a Sigmoid kernel, so Net is normally
// instantiated on an autodiff backend:
//
//	backend := autodiff.New(cpu.New())
//	net := mlp.NewNet(2, 4, 1, backend)
type Net[B tensor.Backend] struct {
	hidden *nn.Linear[B]  // nin → nh
	act    *nn.Sigmoid[B] // σ
	out    *nn.Linear[B]  // nh → nout
}

// NewNet creates a network with Xavier-initialized weights and zero biases.
func NewNet[B tensor.Backend](nin, nh, nout int, backend B) *Net[B] {
	return &Net[B]{
		hidden: nn.NewLinear(nin, nh, backend),
		act:    nn.NewSigmoid[B](),
		out:    nn.NewLinear(nh, nout, backend),
	}
}

// Forward computes σ(x·Whᵀ + bh)·Woᵀ + bo for input of shape [batch, nin].
func (n *Net[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	x := n.hidden.Forward(input)
	x = n.act.Forward(x)
	return n.out.Forward(x)
}

// Parameters returns the weights and biases of both layers.
func (n *Net[B]) Parameters() []*nn.Parameter[B] {
	params := make([]*nn.Parameter[B], 0, 4)
	params = append(params, n.hidden.Parameters()...)
	params = append(params, n.out.Parameters()...)
	return params
}

// InFeatures returns the input size nin.
func (n *Net[B]) InFeatures() int {
	return n.hidden.InFeatures()
}

// OutFeatures returns the output size nout.
func (n *Net[B]) OutFeatures() int {
	return n.out.OutFeatures()
}

// Sizes returns the layer sizes (nin, nh, nout).
func (n *Net[B]) Sizes() (nin, nh, nout int) {
	return n.hidden.InFeatures(), n.hidden.OutFeatures(), n.out.OutFeatures()
}

// Load copies w into the layers.
//
// Born stores Linear weights as [out, in], so Wh and Wo are transposed
// on the way in.
func (n *Net[B]) Load(w *Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	nin, nh, nout := n.Sizes()
	if w.Nin != nin || w.Nh != nh || w.Nout != nout {
		return fmt.Errorf("%w: weights are %dx%dx%d, network is %dx%dx%d",
			ErrShapeMismatch, w.Nin, w.Nh, w.Nout, nin, nh, nout)
	}

	transposeInto(n.hidden.Weight().Tensor().Data(), w.Wh, nin, nh)
	copy(n.hidden.Bias().Tensor().Data(), w.Bh)
	transposeInto(n.out.Weight().Tensor().Data(), w.Wo, nh, nout)
	copy(n.out.Bias().Tensor().Data(), w.Bo)
	return nil
}

// Weights exports the current layer parameters in NumPy layout.
func (n *Net[B]) Weights() *Weights {
	nin, nh, nout := n.Sizes()
	w := NewWeights(nin, nh, nout)

	// Born layout [out, in] is the transpose of [in, out].
	transposeInto(w.Wh, n.hidden.Weight().Tensor().Data(), nh, nin)
	copy(w.Bh, n.hidden.Bias().Tensor().Data())
	transposeInto(w.Wo, n.out.Weight().Tensor().Data(), nout, nh)
	copy(w.Bo, n.out.Bias().Tensor().Data())
	return w
}

// transposeInto writes the transpose of the rows×cols matrix src into dst.
func transposeInto(dst, src []float32, rows, cols int) {
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dst[j*rows+i] = src[i*cols+j]
		}
	}
}
