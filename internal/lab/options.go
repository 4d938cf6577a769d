package lab

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Devices accepted by Options.Device.
const (
	DeviceCPU    = "cpu"
	DeviceWebGPU = "webgpu"
)

// Common errors.
var (
	ErrInvalidConfig     = errors.New("lab: invalid config")
	ErrDeviceUnavailable = errors.New("lab: device unavailable")
)

var validate = validator.New()

// Options are the settings shared by every exercise.
type Options struct {
	Device     string `koanf:"device" validate:"oneof=cpu webgpu"`
	PlotDir    string `koanf:"plot_dir"`
	PlotFormat string `koanf:"plot_format" validate:"oneof=png svg pdf"`
}

// DefaultOptions runs on the CPU without plots.
func DefaultOptions() Options {
	return Options{Device: DeviceCPU, PlotFormat: "png"}
}

// plotPath returns the output file for a figure, or "" when plotting is
// disabled.
func (o Options) plotPath(name string) (string, error) {
	if o.PlotDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(o.PlotDir, 0o755); err != nil {
		return "", fmt.Errorf("plot dir: %w", err)
	}
	return filepath.Join(o.PlotDir, name+"."+o.PlotFormat), nil
}

func check(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func maxAbsDiff(a, b []float32) float64 {
	var m float64
	for i := range a {
		m = max(m, math.Abs(float64(a[i])-float64(b[i])))
	}
	return m
}

func float64s(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
