package train

import (
	"errors"
	"fmt"

	"github.com/born-ml/born/tensor"

	"github.com/born-ml/nnlab/internal/data"
)

// Common errors.
var (
	ErrInvalidConfig = errors.New("train: invalid config")
	ErrEmptyDataset  = errors.New("train: empty dataset")
	ErrShapeMismatch = errors.New("train: shape mismatch")
)

// Dataset yields mini-batches of model inputs and flattened targets.
//
// Batch returns the input for the given sample indices and the targets in
// the same row-major layout as the model's predictions.
type Dataset[B tensor.Backend, In any] interface {
	Len() int
	Batch(indices []int, backend B) (In, []float32, error)
}

// DenseDataset serves rows of a feature matrix X with targets Y.
type DenseDataset[B tensor.Backend] struct {
	X *data.Matrix // [n, features]
	Y *data.Matrix // [n, outputs]
}

// NewDenseDataset pairs X and Y. Rows must match.
func NewDenseDataset[B tensor.Backend](x, y *data.Matrix) (*DenseDataset[B], error) {
	if x.Rows != y.Rows {
		return nil, fmt.Errorf("%w: x has %d rows, y has %d", ErrShapeMismatch, x.Rows, y.Rows)
	}
	return &DenseDataset[B]{X: x, Y: y}, nil
}

// Len returns the number of samples.
func (d *DenseDataset[B]) Len() int {
	return d.X.Rows
}

// Features returns the number of input columns.
func (d *DenseDataset[B]) Features() int {
	return d.X.Cols
}

// Outputs returns the number of target columns.
func (d *DenseDataset[B]) Outputs() int {
	return d.Y.Cols
}

// Batch gathers the selected rows into a [len(indices), features] tensor.
func (d *DenseDataset[B]) Batch(indices []int, backend B) (*tensor.Tensor[float32, B], []float32, error) {
	x := d.X.SelectRows(indices)
	input, err := tensor.FromSlice(x.Data, tensor.Shape{x.Rows, x.Cols}, backend)
	if err != nil {
		return nil, nil, fmt.Errorf("batch input: %w", err)
	}
	return input, d.Y.SelectRows(indices).Data, nil
}

// checkShapes compares the feature and output counts of ds with the model's
// layer sizes when both sides report them.
func checkShapes(model, ds any) error {
	if m, ok := model.(interface{ InFeatures() int }); ok {
		if d, ok := ds.(interface{ Features() int }); ok && m.InFeatures() != d.Features() {
			return fmt.Errorf("%w: model takes %d features, dataset has %d",
				ErrShapeMismatch, m.InFeatures(), d.Features())
		}
	}
	if m, ok := model.(interface{ OutFeatures() int }); ok {
		if d, ok := ds.(interface{ Outputs() int }); ok && m.OutFeatures() != d.Outputs() {
			return fmt.Errorf("%w: model has %d outputs, dataset has %d",
				ErrShapeMismatch, m.OutFeatures(), d.Outputs())
		}
	}
	return nil
}
