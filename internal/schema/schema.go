// Package schema declares the per-feature-type configuration emitted for
// profiled columns: default encoders and decoders, the allowed option lists
// and preprocessing defaults. Option lists are static tables.
package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidOption is returned when a config names an option outside the
// allowed list for its feature type.
var ErrInvalidOption = errors.New("invalid option")

// FeatureType is the semantic type assigned to a column.
type FeatureType string

const (
	Binary   FeatureType = "binary"
	Category FeatureType = "category"
	Number   FeatureType = "number"
	Text     FeatureType = "text"
	Image    FeatureType = "image"
	Audio    FeatureType = "audio"
	Date     FeatureType = "date"
	H3       FeatureType = "h3"
)

type typeOptions struct {
	encoders       []string
	defaultEncoder string
	decoders       []string
	defaultDecoder string
}

var sequenceEncoders = []string{
	"parallel_cnn", "stacked_cnn", "stacked_parallel_cnn", "rnn", "cnnrnn", "transformer", "embed", "passthrough",
}

var featureOptions = map[FeatureType]typeOptions{
	Binary: {
		encoders:       []string{"passthrough", "dense"},
		defaultEncoder: "passthrough",
		decoders:       []string{"regressor"},
		defaultDecoder: "regressor",
	},
	Category: {
		encoders:       []string{"dense", "sparse", "onehot", "passthrough"},
		defaultEncoder: "dense",
		decoders:       []string{"classifier"},
		defaultDecoder: "classifier",
	},
	Number: {
		encoders:       []string{"passthrough", "dense"},
		defaultEncoder: "passthrough",
		decoders:       []string{"regressor"},
		defaultDecoder: "regressor",
	},
	Text: {
		encoders:       sequenceEncoders,
		defaultEncoder: "parallel_cnn",
		decoders:       []string{"generator", "tagger"},
		defaultDecoder: "generator",
	},
	Image: {
		encoders:       []string{"stacked_cnn", "resnet", "mlp_mixer", "vit"},
		defaultEncoder: "stacked_cnn",
	},
	Audio: {
		encoders:       sequenceEncoders,
		defaultEncoder: "parallel_cnn",
	},
	Date: {
		encoders:       []string{"embed", "wave"},
		defaultEncoder: "embed",
	},
	H3: {
		encoders:       []string{"embed", "weighted_sum", "rnn"},
		defaultEncoder: "embed",
	},
}

// Types returns every known feature type, sorted.
func Types() []FeatureType {
	out := make([]FeatureType, 0, len(featureOptions))
	for t := range featureOptions {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// ParseType validates a feature type name.
func ParseType(name string) (FeatureType, error) {
	t := FeatureType(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := featureOptions[t]; !ok {
		return "", fmt.Errorf("%w: unknown feature type %q", ErrInvalidOption, name)
	}
	return t, nil
}

// Encoders returns the encoders allowed for t.
func Encoders(t FeatureType) []string {
	return slices.Clone(featureOptions[t].encoders)
}

// Decoders returns the decoders allowed for t. Input-only types have none.
func Decoders(t FeatureType) []string {
	return slices.Clone(featureOptions[t].decoders)
}

// DefaultEncoder returns the encoder used when a config names none.
func DefaultEncoder(t FeatureType) string {
	return featureOptions[t].defaultEncoder
}

// DefaultDecoder returns the decoder used when a config names none.
func DefaultDecoder(t FeatureType) string {
	return featureOptions[t].defaultDecoder
}

// SupportsOutput reports whether t can be used as a prediction target.
func SupportsOutput(t FeatureType) bool {
	return len(featureOptions[t].decoders) > 0
}

func checkOption(kind, value string, allowed []string) error {
	if value == "" || slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%w: %s %q (allowed: %s)", ErrInvalidOption, kind, value, strings.Join(allowed, ", "))
}
