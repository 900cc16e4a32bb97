// Package modelconfig turns profiling metadata into a model configuration
// listing input and output features with their default encoders, decoders
// and preprocessing.
package modelconfig

import (
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/johndauphine/tabprof/internal/profile"
	"github.com/johndauphine/tabprof/internal/schema"
)

var (
	// ErrNoInputs is returned when every column was excluded or is a target.
	ErrNoInputs = errors.New("no input features")

	// ErrUnknownTarget is returned when a target names no profiled column.
	ErrUnknownTarget = errors.New("unknown target column")
)

// Config is the generated model configuration.
type Config struct {
	InputFeatures  []schema.InputFeature  `yaml:"input_features" json:"input_features"`
	OutputFeatures []schema.OutputFeature `yaml:"output_features" json:"output_features"`
}

// Build creates a config from field metadata. Targets become output features,
// excluded fields are skipped and everything else becomes an input feature.
func Build(fields []profile.FieldMetadata, targets []string) (*Config, error) {
	for _, t := range targets {
		if !slices.ContainsFunc(fields, func(f profile.FieldMetadata) bool { return f.Name == t }) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, t)
		}
	}

	cfg := &Config{}
	for _, f := range fields {
		if slices.Contains(targets, f.Name) {
			out, err := schema.NewOutputFeature(f.Name, f.Config.Type)
			if err != nil {
				return nil, fmt.Errorf("target %q: %w", f.Name, err)
			}
			out.Column = f.Config.Column
			cfg.OutputFeatures = append(cfg.OutputFeatures, out)
			continue
		}
		if f.Excluded {
			continue
		}
		in, err := schema.NewInputFeature(f.Name, f.Config.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		in.Column = f.Config.Column
		cfg.InputFeatures = append(cfg.InputFeatures, in)
	}

	if len(cfg.InputFeatures) == 0 {
		return nil, ErrNoInputs
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every feature and that tied encoders reference another
// input feature of the same type.
func (c *Config) Validate() error {
	if len(c.InputFeatures) == 0 {
		return ErrNoInputs
	}
	inputs := make(map[string]schema.FeatureType, len(c.InputFeatures))
	for i := range c.InputFeatures {
		f := &c.InputFeatures[i]
		if err := f.Validate(); err != nil {
			return err
		}
		if _, dup := inputs[f.Name]; dup {
			return fmt.Errorf("%w: duplicate input feature %q", schema.ErrInvalidOption, f.Name)
		}
		inputs[f.Name] = f.Type
	}
	for _, f := range c.InputFeatures {
		if f.Tied == "" {
			continue
		}
		t, ok := inputs[f.Tied]
		if !ok {
			return fmt.Errorf("input feature %q: %w: tied to unknown feature %q", f.Name, schema.ErrInvalidOption, f.Tied)
		}
		if t != f.Type {
			return fmt.Errorf("input feature %q: %w: tied to %s feature %q", f.Name, schema.ErrInvalidOption, t, f.Tied)
		}
	}
	for i := range c.OutputFeatures {
		if err := c.OutputFeatures[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Unmarshal decodes and validates a YAML config.
func Unmarshal(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing model config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
