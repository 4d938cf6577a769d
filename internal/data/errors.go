package data

import "errors"

// Common errors.
var (
	ErrEmptyDataset  = errors.New("dataset is empty")
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrInvalidRank   = errors.New("invalid rank")
	ErrInvalidFrac   = errors.New("fraction must be in (0, 1)")
)
