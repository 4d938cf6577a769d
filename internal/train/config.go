package train

import (
	"errors"
	"fmt"
)

// Optimizer names accepted by Config.
const (
	OptimizerSGD  = "sgd"
	OptimizerAdam = "adam"
)

// Config holds the training hyperparameters.
type Config struct {
	Epochs    int     `koanf:"epochs" validate:"min=1"`
	BatchSize int     `koanf:"batch_size" validate:"min=1"`
	LR        float64 `koanf:"lr" validate:"gt=0"`
	Optimizer string  `koanf:"optimizer" validate:"oneof=sgd adam"`
	Momentum  float64 `koanf:"momentum" validate:"gte=0,lt=1"`
	Shuffle   bool    `koanf:"shuffle"`
	Seed      uint64  `koanf:"seed"`
}

// DefaultConfig returns Adam with lr=0.01, 100 epochs, batches of 32.
func DefaultConfig() Config {
	return Config{
		Epochs:    100,
		BatchSize: 32,
		LR:        0.01,
		Optimizer: OptimizerAdam,
		Shuffle:   true,
		Seed:      1,
	}
}

// Validate verifies the config is runnable.
func (c Config) Validate() error {
	var errs []error
	if c.Epochs <= 0 {
		errs = append(errs, fmt.Errorf("epochs must be > 0, got %d", c.Epochs))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch size must be > 0, got %d", c.BatchSize))
	}
	if c.LR <= 0 {
		errs = append(errs, fmt.Errorf("learning rate must be > 0, got %v", c.LR))
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		errs = append(errs, fmt.Errorf("momentum must be in [0, 1), got %v", c.Momentum))
	}
	switch c.Optimizer {
	case OptimizerSGD, OptimizerAdam:
	default:
		errs = append(errs, fmt.Errorf("unknown optimizer %q", c.Optimizer))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
