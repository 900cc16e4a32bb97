package schema

import "fmt"

// Missing value strategies.
const (
	FillWithConst = "fill_with_const"
	FillWithMode  = "fill_with_mode"
	FillWithMean  = "fill_with_mean"
	FillWithFalse = "fill_with_false"
	BackFill      = "bfill"
	ForwardFill   = "ffill"
	DropRow       = "drop_row"
)

var missingValueStrategies = []string{
	FillWithConst, FillWithMode, FillWithMean, FillWithFalse, BackFill, ForwardFill, DropRow,
}

var normalizations = []string{"zscore", "minmax", "log1p", "iq"}

// unknownSymbol fills missing category and text values.
const unknownSymbol = "<UNK>"

// h3Missing is the H3 index used for missing cells.
const h3Missing = 576495936675512319

// Preprocessing holds per-feature preprocessing parameters. Type-specific
// fields are left empty for types that do not use them.
type Preprocessing struct {
	MissingValueStrategy string `yaml:"missing_value_strategy" json:"missing_value_strategy"`
	FillValue            any    `yaml:"fill_value,omitempty" json:"fill_value,omitempty"`

	// text
	Tokenizer         string `yaml:"tokenizer,omitempty" json:"tokenizer,omitempty"`
	MaxSequenceLength int    `yaml:"max_sequence_length,omitempty" json:"max_sequence_length,omitempty"`
	Lowercase         bool   `yaml:"lowercase,omitempty" json:"lowercase,omitempty"`

	// category
	MostCommon int `yaml:"most_common,omitempty" json:"most_common,omitempty"`

	// number
	Normalization string `yaml:"normalization,omitempty" json:"normalization,omitempty"`

	// image
	Height int `yaml:"height,omitempty" json:"height,omitempty"`
	Width  int `yaml:"width,omitempty" json:"width,omitempty"`
}

// DefaultPreprocessing returns the preprocessing defaults for t.
func DefaultPreprocessing(t FeatureType) Preprocessing {
	switch t {
	case Binary:
		return Preprocessing{MissingValueStrategy: FillWithFalse}
	case Category:
		return Preprocessing{MissingValueStrategy: FillWithConst, FillValue: unknownSymbol, MostCommon: 10000}
	case Number:
		return Preprocessing{MissingValueStrategy: FillWithConst, FillValue: 0.0}
	case Text:
		return Preprocessing{
			MissingValueStrategy: FillWithConst,
			FillValue:            unknownSymbol,
			Tokenizer:            "space_punct",
			MaxSequenceLength:    256,
			Lowercase:            true,
		}
	case Image:
		return Preprocessing{MissingValueStrategy: BackFill}
	case Audio:
		return Preprocessing{MissingValueStrategy: BackFill}
	case Date:
		return Preprocessing{MissingValueStrategy: FillWithConst, FillValue: ""}
	case H3:
		return Preprocessing{MissingValueStrategy: FillWithConst, FillValue: int64(h3Missing)}
	}
	return Preprocessing{MissingValueStrategy: FillWithConst}
}

// Validate checks the option-valued fields.
func (p *Preprocessing) Validate() error {
	if err := checkOption("missing_value_strategy", p.MissingValueStrategy, missingValueStrategies); err != nil {
		return err
	}
	if err := checkOption("normalization", p.Normalization, normalizations); err != nil {
		return err
	}
	if p.MaxSequenceLength < 0 || p.MostCommon < 0 || p.Height < 0 || p.Width < 0 {
		return fmt.Errorf("%w: preprocessing sizes must be >= 0", ErrInvalidOption)
	}
	return nil
}
