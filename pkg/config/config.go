// Package config holds the tunable export parameters. Everything that
// is part of a file format contract (unit scale, channel layout, the
// root height offset) is a constant in the usecase package instead.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML-backed export configuration.
type Config struct {
	// Alpha is the landmark smoothing factor in (0,1]; 1 disables smoothing.
	Alpha float64 `yaml:"alpha"`
	// Fps is the assumed capture frame rate for the positional format.
	Fps float64 `yaml:"fps"`
	// Reduce enables keyframe thinning of the animation clip.
	Reduce bool `yaml:"reduce"`
	// PositionTolerance is the reduction threshold for position channels,
	// in output units.
	PositionTolerance float64 `yaml:"position_tolerance"`
	// RotationTolerance is the reduction threshold for rotation channels,
	// measured on successive quaternion dots.
	RotationTolerance float64 `yaml:"rotation_tolerance"`
	// ReduceSpacing is the minimum number of frames between kept keys.
	ReduceSpacing int `yaml:"reduce_spacing"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Alpha:             1.0,
		Fps:               30.0,
		Reduce:            false,
		PositionTolerance: 0.05,
		RotationTolerance: 0.00001,
		ReduceSpacing:     0,
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}

	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		return cfg, errors.Errorf("config: alpha must be in (0,1], got %v", cfg.Alpha)
	}
	if cfg.Fps <= 0 {
		return cfg, errors.Errorf("config: fps must be positive, got %v", cfg.Fps)
	}
	return cfg, nil
}
