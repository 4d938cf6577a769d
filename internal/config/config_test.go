package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, want.Train, cfg.Train)
	assert.Equal(t, want.Complete, cfg.Complete)
	assert.Equal(t, "cpu", cfg.Lab.Device)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nnlab.yaml")
	yaml := `
log:
  level: debug
lab:
  plot_dir: figures
train:
  nh: 8
  fit:
    epochs: 25
    optimizer: sgd
    momentum: 0.5
complete:
  bias: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("NNLAB_TRAIN__FIT__EPOCHS", "12")
	t.Setenv("NNLAB_FORWARD__SAMPLES", "3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "figures", cfg.Lab.PlotDir)
	assert.Equal(t, 8, cfg.Train.Nh)
	assert.Equal(t, 12, cfg.Train.Fit.Epochs, "env wins over file")
	assert.Equal(t, "sgd", cfg.Train.Fit.Optimizer)
	assert.InDelta(t, 0.5, cfg.Train.Fit.Momentum, 0)
	assert.Equal(t, 3, cfg.Forward.Samples)
	assert.True(t, cfg.Complete.Bias)

	// Untouched fields keep their defaults.
	assert.Equal(t, Default().Train.Nin, cfg.Train.Nin)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"device", "lab:\n  device: tpu\n"},
		{"optimizer", "train:\n  fit:\n    optimizer: rmsprop\n"},
		{"epochs", "complete:\n  fit:\n    epochs: 0\n"},
		{"log level", "log:\n  level: loud\n"},
		{"rank", "complete:\n  rows: 2\n  cols: 2\n  true_rank: 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))
			_, err := Load(path)
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestEnvTransformFunc(t *testing.T) {
	assert.Equal(t, "train.fit.lr", envTransformFunc("NNLAB_TRAIN__FIT__LR"))
	assert.Equal(t, "lab.plot_dir", envTransformFunc("NNLAB_LAB__PLOT_DIR"))
}
