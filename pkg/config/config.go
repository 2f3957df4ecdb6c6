// Package config loads arbor run configurations from YAML.
package config

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ctreelab/arbor/pkg/errors"
	"github.com/ctreelab/arbor/pkg/log"
	"github.com/ctreelab/arbor/sklearn/tree"
)

// Config is a training run configuration:
//
//	algorithm: c4.5
//	max_depth: 5
//	min_samples_split: 2
//	min_samples_leaf: 1
//	unseen_policy: fallback
//	log_level: info
//	test_size: 0.3
//	seed: 42
//	stratify: true
type Config struct {
	Algorithm         string  `yaml:"algorithm"`
	MaxDepth          int     `yaml:"max_depth"`
	MinSamplesSplit   int     `yaml:"min_samples_split"`
	MinSamplesLeaf    int     `yaml:"min_samples_leaf"`
	UnseenPolicy      string  `yaml:"unseen_policy"`
	LogLevel          string  `yaml:"log_level"`
	TestSize          float64 `yaml:"test_size"` // 0 trains and evaluates on every row
	Seed              uint64  `yaml:"seed"`
	Stratify          bool    `yaml:"stratify"`
	ParallelThreshold int     `yaml:"parallel_threshold"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Algorithm:         "cart",
		MaxDepth:          5,
		MinSamplesSplit:   2,
		MinSamplesLeaf:    1,
		UnseenPolicy:      "fallback",
		LogLevel:          "warn",
		TestSize:          0.3,
		Seed:              42,
		Stratify:          true,
		ParallelThreshold: 4096,
	}
}

// Load parses a YAML configuration over the defaults and validates it. Unknown keys are
// rejected.
func Load(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parsing config yaml")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads and parses the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}
	cfg, err := Load(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading config file %s", path)
	}
	return cfg, nil
}

// Validate checks every field, returning the first ConfigurationError.
func (c *Config) Validate() error {
	if _, err := tree.ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}
	if _, err := tree.ParseUnseenPolicy(c.UnseenPolicy); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxDepth < 0 {
		return errors.NewConfigurationError("max_depth", c.MaxDepth, "must be non-negative")
	}
	if c.MinSamplesSplit < 2 {
		return errors.NewConfigurationError("min_samples_split", c.MinSamplesSplit, "must be at least 2")
	}
	if c.MinSamplesLeaf < 1 {
		return errors.NewConfigurationError("min_samples_leaf", c.MinSamplesLeaf, "must be at least 1")
	}
	if c.TestSize < 0 || c.TestSize >= 1 {
		return errors.NewConfigurationError("test_size", c.TestSize, "must be in [0, 1)")
	}
	return nil
}

// TreeOptions returns the tree options the configuration describes. The configuration
// must be valid.
func (c *Config) TreeOptions() []tree.Option {
	policy, _ := tree.ParseUnseenPolicy(c.UnseenPolicy)
	return []tree.Option{
		tree.WithMaxDepth(c.MaxDepth),
		tree.WithMinSamplesSplit(c.MinSamplesSplit),
		tree.WithMinSamplesLeaf(c.MinSamplesLeaf),
		tree.WithUnseenPolicy(policy),
		tree.WithParallelThreshold(c.ParallelThreshold),
	}
}

// Level returns the parsed log level. The configuration must be valid.
func (c *Config) Level() log.Level {
	level, _ := log.ParseLevel(c.LogLevel)
	return level
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "encoding config yaml")
	}
	return out, nil
}
