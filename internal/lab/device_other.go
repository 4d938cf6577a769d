//go:build !windows

package lab

import (
	"context"
	"fmt"

	"github.com/born-ml/nnlab/internal/data"
	"github.com/born-ml/nnlab/internal/mlp"
)

func webgpuReason() error {
	return fmt.Errorf("%w: webgpu backend is built on windows only", ErrDeviceUnavailable)
}

func forwardWebGPU(_ *mlp.Weights, _ *data.Matrix) (*data.Matrix, error) {
	return nil, webgpuReason()
}

func trainWebGPU(_ context.Context, _ TrainConfig, _ Options) (*TrainReport, error) {
	return nil, webgpuReason()
}

func completeWebGPU(_ context.Context, _ CompleteConfig, _ Options) (*CompleteReport, error) {
	return nil, webgpuReason()
}
