//go:build windows

package lab

import (
	"context"
	"fmt"

	"github.com/born-ml/born/autodiff"
	"github.com/born-ml/born/backend/webgpu"

	"github.com/born-ml/nnlab/internal/data"
	"github.com/born-ml/nnlab/internal/mlp"
)

func newWebGPU() (*webgpu.Backend, error) {
	if !webgpu.IsAvailable() {
		return nil, fmt.Errorf("%w: no webgpu adapter", ErrDeviceUnavailable)
	}
	gpu, err := webgpu.New()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}
	return gpu, nil
}

func forwardWebGPU(w *mlp.Weights, x *data.Matrix) (*data.Matrix, error) {
	gpu, err := newWebGPU()
	if err != nil {
		return nil, err
	}
	defer gpu.Release()
	return forwardOn(autodiff.New(gpu), w, x)
}

func trainWebGPU(ctx context.Context, cfg TrainConfig, opts Options) (*TrainReport, error) {
	gpu, err := newWebGPU()
	if err != nil {
		return nil, err
	}
	defer gpu.Release()
	return trainOn(ctx, autodiff.New(gpu), cfg, opts)
}

func completeWebGPU(ctx context.Context, cfg CompleteConfig, opts Options) (*CompleteReport, error) {
	gpu, err := newWebGPU()
	if err != nil {
		return nil, err
	}
	defer gpu.Release()
	return completeOn(ctx, autodiff.New(gpu), cfg, opts)
}
