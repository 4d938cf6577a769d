// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package config loads the nnlab configuration.
//
// Values are layered, later sources winning:
//
//  1. Built-in defaults
//  2. YAML file (optional)
//  3. Environment variables prefixed NNLAB_, with "__" separating
//     sections, e.g. NNLAB_TRAIN__FIT__EPOCHS=50
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/born-ml/nnlab/internal/lab"
	"github.com/born-ml/nnlab/internal/logging"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "NNLAB_"

// ErrInvalid is returned when the merged configuration fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the full nnlab configuration.
type Config struct {
	Log        logging.Config       `koanf:"log"`
	Lab        lab.Options          `koanf:"lab"`
	Forward    lab.ForwardConfig    `koanf:"forward"`
	Regression lab.RegressionConfig `koanf:"regression"`
	Train      lab.TrainConfig      `koanf:"train"`
	Complete   lab.CompleteConfig   `koanf:"complete"`
}

// Default returns the built-in configuration.
func Default() *Config {
	log := logging.DefaultConfig()
	log.Output = nil
	return &Config{
		Log:        log,
		Lab:        lab.DefaultOptions(),
		Forward:    lab.DefaultForwardConfig(),
		Regression: lab.DefaultRegressionConfig(),
		Train:      lab.DefaultTrainConfig(),
		Complete:   lab.DefaultCompleteConfig(),
	}
}

// Load merges defaults, the YAML file at path (skipped when empty) and the
// environment, then validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envTransformFunc maps NNLAB_TRAIN__FIT__LR to train.fit.lr.
func envTransformFunc(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "__", ".")
}

var validate = validator.New()

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Complete.TrueRank > min(c.Complete.Rows, c.Complete.Cols) {
		return fmt.Errorf("%w: complete.true_rank %d exceeds %dx%d",
			ErrInvalid, c.Complete.TrueRank, c.Complete.Rows, c.Complete.Cols)
	}
	return nil
}
