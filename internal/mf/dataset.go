package mf

import (
	"fmt"

	"github.com/born-ml/born/tensor"

	"github.com/born-ml/nnlab/internal/data"
)

// EntryDataset serves observed matrix entries as Pairs batches.
type EntryDataset[B tensor.Backend] struct {
	cfg     Config
	entries []data.Entry
}

// NewEntryDataset validates every index against the model shape.
func NewEntryDataset[B tensor.Backend](cfg Config, entries []data.Entry) (*EntryDataset[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.I0 < 0 || e.I0 >= cfg.Rows || e.I1 < 0 || e.I1 >= cfg.Cols {
			return nil, fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrIndexOutOfRange, e.I0, e.I1, cfg.Rows, cfg.Cols)
		}
	}
	return &EntryDataset[B]{cfg: cfg, entries: entries}, nil
}

// Len returns the number of entries.
func (d *EntryDataset[B]) Len() int {
	return len(d.entries)
}

// Batch returns the index pairs of the selected entries and their values
// as targets.
func (d *EntryDataset[B]) Batch(indices []int, backend B) (Pairs[B], []float32, error) {
	n := len(indices)
	rows := make([]int32, n)
	cols := make([]int32, n)
	targets := make([]float32, n)

	for k, idx := range indices {
		if idx < 0 || idx >= len(d.entries) {
			return Pairs[B]{}, nil, fmt.Errorf("%w: sample %d of %d", ErrIndexOutOfRange, idx, len(d.entries))
		}
		e := d.entries[idx]
		rows[k], cols[k] = int32(e.I0), int32(e.I1)
		targets[k] = e.Value
	}

	r, err := tensor.FromSlice(rows, tensor.Shape{n}, backend)
	if err != nil {
		return Pairs[B]{}, nil, err
	}
	c, err := tensor.FromSlice(cols, tensor.Shape{n}, backend)
	if err != nil {
		return Pairs[B]{}, nil, err
	}
	return Pairs[B]{Rows: r, Cols: c}, targets, nil
}
