package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/fxnlabs/spgemm-bench/internal/spgemm"
)

// Config is the benchmark configuration. It is decoded from YAML or TOML;
// both share the same key names.
type Config struct {
	Logger struct {
		Verbosity string `yaml:"verbosity" toml:"verbosity"`
	} `yaml:"logger" toml:"logger"`
	Bench struct {
		Matrices        []string `yaml:"matrices" toml:"matrices"`
		MatrixDir       string   `yaml:"matrixDir" toml:"matrixDir"`
		Precision       string   `yaml:"precision" toml:"precision"`
		Alpha           float64  `yaml:"alpha" toml:"alpha"`
		Beta            float64  `yaml:"beta" toml:"beta"`
		Iterations      int      `yaml:"iterations" toml:"iterations"`
		Warmup          int      `yaml:"warmup" toml:"warmup"`
		ProfileCount    int      `yaml:"profileCount" toml:"profileCount"`
		ExplicitZeroes  bool     `yaml:"explicitZeroes" toml:"explicitZeroes"`
		Timers          bool     `yaml:"timers" toml:"timers"`
		PruneMultiplier float64  `yaml:"pruneMultiplier" toml:"pruneMultiplier"`
		Results         string   `yaml:"results" toml:"results"`
	} `yaml:"bench" toml:"bench"`
	Device struct {
		Backend string `yaml:"backend" toml:"backend"`
	} `yaml:"device" toml:"device"`
	Metrics struct {
		ListenAddress string `yaml:"listenAddress" toml:"listenAddress"`
	} `yaml:"metrics" toml:"metrics"`
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	var c Config
	c.Logger.Verbosity = "info"
	c.Bench.Precision = "double"
	c.Bench.Alpha = 1
	c.Bench.Beta = 0
	c.Bench.Iterations = 20
	c.Bench.ExplicitZeroes = true
	c.Bench.Timers = true
	c.Bench.PruneMultiplier = 3.0
	c.Device.Backend = "auto"
	return &c
}

// LoadConfig reads path on top of Default. Files ending in .toml are
// decoded as TOML, everything else as YAML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), config); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	}

	return config, nil
}

// Validate reports every setting that would make a run meaningless.
func (c *Config) Validate() error {
	var errs []error
	if c.Bench.Iterations <= 0 {
		errs = append(errs, fmt.Errorf("bench.iterations must be positive, got %d", c.Bench.Iterations))
	}
	if c.Bench.Warmup < 0 {
		errs = append(errs, fmt.Errorf("bench.warmup must not be negative, got %d", c.Bench.Warmup))
	}
	if c.Bench.ProfileCount < 0 {
		errs = append(errs, fmt.Errorf("bench.profileCount must not be negative, got %d", c.Bench.ProfileCount))
	}
	if c.Bench.PruneMultiplier <= 0 {
		errs = append(errs, fmt.Errorf("bench.pruneMultiplier must be positive, got %g", c.Bench.PruneMultiplier))
	}
	if _, err := spgemm.ParsePrecision(c.Bench.Precision); err != nil {
		errs = append(errs, fmt.Errorf("bench.precision: %w", err))
	}
	switch c.Device.Backend {
	case "auto", "host", "cuda":
	default:
		errs = append(errs, fmt.Errorf("device.backend must be auto, host or cuda, got %q", c.Device.Backend))
	}
	return errors.Join(errs...)
}

// SampleCount is the number of timer samples to reserve per slot. A zero
// profile count follows the iteration count.
func (c *Config) SampleCount() int {
	if c.Bench.ProfileCount > 0 {
		return c.Bench.ProfileCount
	}
	return c.Bench.Iterations
}
