package train

import "math"

// History records the per-epoch losses of a Fit call.
type History struct {
	Loss    []float64 // training loss (MSE plus penalty)
	ValLoss []float64 // validation MSE, empty without a validation set
}

// Epochs returns the number of completed epochs.
func (h *History) Epochs() int {
	return len(h.Loss)
}

// Final returns the last training and validation losses.
// Missing values are NaN.
func (h *History) Final() (loss, valLoss float64) {
	loss, valLoss = math.NaN(), math.NaN()
	if n := len(h.Loss); n > 0 {
		loss = h.Loss[n-1]
	}
	if n := len(h.ValLoss); n > 0 {
		valLoss = h.ValLoss[n-1]
	}
	return loss, valLoss
}

// Best returns the epoch (0-based) with the lowest validation loss, or the
// lowest training loss when no validation set was used. Returns -1 for an
// empty history.
func (h *History) Best() (epoch int, loss float64) {
	series := h.ValLoss
	if len(series) == 0 {
		series = h.Loss
	}
	epoch, loss = -1, math.Inf(1)
	for i, v := range series {
		if v < loss {
			epoch, loss = i, v
		}
	}
	return epoch, loss
}
