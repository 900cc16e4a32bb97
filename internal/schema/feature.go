package schema

import "fmt"

// InputFeature configures one model input.
type InputFeature struct {
	Name          string         `yaml:"name" json:"name"`
	Type          FeatureType    `yaml:"type" json:"type"`
	Column        string         `yaml:"column,omitempty" json:"column,omitempty"`
	Encoder       string         `yaml:"encoder,omitempty" json:"encoder,omitempty"`
	Tied          string         `yaml:"tied,omitempty" json:"tied,omitempty"`
	Preprocessing *Preprocessing `yaml:"preprocessing,omitempty" json:"preprocessing,omitempty"`
}

// OutputFeature configures one prediction target.
type OutputFeature struct {
	Name          string         `yaml:"name" json:"name"`
	Type          FeatureType    `yaml:"type" json:"type"`
	Column        string         `yaml:"column,omitempty" json:"column,omitempty"`
	Decoder       string         `yaml:"decoder,omitempty" json:"decoder,omitempty"`
	Preprocessing *Preprocessing `yaml:"preprocessing,omitempty" json:"preprocessing,omitempty"`
}

// NewInputFeature returns an input feature with the type's default encoder
// and preprocessing.
func NewInputFeature(name string, t FeatureType) (InputFeature, error) {
	if _, ok := featureOptions[t]; !ok {
		return InputFeature{}, fmt.Errorf("%w: unknown feature type %q", ErrInvalidOption, t)
	}
	pp := DefaultPreprocessing(t)
	return InputFeature{
		Name:          name,
		Type:          t,
		Column:        name,
		Encoder:       DefaultEncoder(t),
		Preprocessing: &pp,
	}, nil
}

// NewOutputFeature returns an output feature with the type's default decoder.
func NewOutputFeature(name string, t FeatureType) (OutputFeature, error) {
	if _, ok := featureOptions[t]; !ok {
		return OutputFeature{}, fmt.Errorf("%w: unknown feature type %q", ErrInvalidOption, t)
	}
	if !SupportsOutput(t) {
		return OutputFeature{}, fmt.Errorf("%w: %s features cannot be outputs", ErrInvalidOption, t)
	}
	pp := DefaultPreprocessing(t)
	return OutputFeature{
		Name:          name,
		Type:          t,
		Column:        name,
		Decoder:       DefaultDecoder(t),
		Preprocessing: &pp,
	}, nil
}

// Validate checks the feature's type, encoder and preprocessing.
func (f *InputFeature) Validate() error {
	opts, ok := featureOptions[f.Type]
	if !ok {
		return fmt.Errorf("input feature %q: %w: unknown feature type %q", f.Name, ErrInvalidOption, f.Type)
	}
	if f.Name == "" {
		return fmt.Errorf("%w: input feature name is required", ErrInvalidOption)
	}
	if err := checkOption("encoder", f.Encoder, opts.encoders); err != nil {
		return fmt.Errorf("input feature %q: %w", f.Name, err)
	}
	if f.Tied == f.Name {
		return fmt.Errorf("input feature %q: %w: cannot be tied to itself", f.Name, ErrInvalidOption)
	}
	if f.Preprocessing != nil {
		if err := f.Preprocessing.Validate(); err != nil {
			return fmt.Errorf("input feature %q: %w", f.Name, err)
		}
	}
	return nil
}

// Validate checks the feature's type, decoder and preprocessing.
func (f *OutputFeature) Validate() error {
	opts, ok := featureOptions[f.Type]
	if !ok {
		return fmt.Errorf("output feature %q: %w: unknown feature type %q", f.Name, ErrInvalidOption, f.Type)
	}
	if f.Name == "" {
		return fmt.Errorf("%w: output feature name is required", ErrInvalidOption)
	}
	if len(opts.decoders) == 0 {
		return fmt.Errorf("output feature %q: %w: %s features cannot be outputs", f.Name, ErrInvalidOption, f.Type)
	}
	if err := checkOption("decoder", f.Decoder, opts.decoders); err != nil {
		return fmt.Errorf("output feature %q: %w", f.Name, err)
	}
	if f.Preprocessing != nil {
		if err := f.Preprocessing.Validate(); err != nil {
			return fmt.Errorf("output feature %q: %w", f.Name, err)
		}
	}
	return nil
}
