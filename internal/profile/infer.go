package profile

import (
	"strings"

	"github.com/johndauphine/tabprof/internal/schema"
)

// Thresholds used by InferType.
const (
	// mediaMinValues is the likeness score that marks an image or audio column.
	mediaMinValues = 3
	// numberMinDistinct is the distinct count above which numbers are continuous.
	numberMinDistinct = 10
	// textMinWords is the average token count that marks free text.
	textMinWords = 5
)

// Mode is a feature's role in the model.
type Mode string

const (
	ModeInput  Mode = "input"
	ModeOutput Mode = "output"
)

// FieldConfig names a column and its inferred feature type.
type FieldConfig struct {
	Name   string             `json:"name" yaml:"name"`
	Column string             `json:"column" yaml:"column"`
	Type   schema.FeatureType `json:"type" yaml:"type"`
}

// FieldMetadata is the inference result for one column.
type FieldMetadata struct {
	Name           string      `json:"name" yaml:"name"`
	Config         FieldConfig `json:"config" yaml:"config"`
	Excluded       bool        `json:"excluded" yaml:"excluded"`
	Mode           Mode        `json:"mode" yaml:"mode"`
	MissingValues  float64     `json:"missing_values" yaml:"missing_values"`
	ImbalanceRatio float64     `json:"imbalance_ratio" yaml:"imbalance_ratio"`
}

// InferType picks the feature type of a column from its statistics.
func InferType(field FieldInfo, missingValuePercent float64) schema.FeatureType {
	switch {
	case IsDateDType(field.DType):
		return schema.Date
	case field.NumDistinctValues == 0:
		return schema.Category
	case field.NumDistinctValues <= 2 && missingValuePercent == 0:
		return schema.Binary
	case IsBoolDType(field.DType):
		return schema.Binary
	case field.ImageValues >= mediaMinValues:
		return schema.Image
	case field.AudioValues >= mediaMinValues:
		return schema.Audio
	case IsNumericDType(field.DType) && field.NumDistinctValues > numberMinDistinct:
		return schema.Number
	case field.NumDistinctValues > numberMinDistinct && allNumbers(field.DistinctValues):
		return schema.Number
	case field.AvgWords != nil && *field.AvgWords >= textMinWords:
		return schema.Text
	}
	return schema.Category
}

// Metadata infers a feature type for every profiled field and marks ID-like
// columns as excluded. Target columns become outputs and are never excluded.
// Fields whose statistics failed are excluded.
func Metadata(report *Report, targets []string) []FieldMetadata {
	isTarget := make(map[string]bool, len(targets))
	for _, t := range targets {
		isTarget[t] = true
	}

	out := make([]FieldMetadata, 0, len(report.Fields))
	for idx, field := range report.Fields {
		missing := missingValuePercent(field, report.Rows)
		ftype := InferType(field, missing)

		mode := ModeInput
		if isTarget[field.Name] {
			mode = ModeOutput
		}
		out = append(out, FieldMetadata{
			Name:           field.Name,
			Config:         FieldConfig{Name: field.Name, Column: field.Name, Type: ftype},
			Excluded:       field.Error != "" || shouldExclude(idx, field, ftype, report.Rows, isTarget),
			Mode:           mode,
			MissingValues:  missing,
			ImbalanceRatio: field.DistinctValuesBalance,
		})
	}
	return out
}

func missingValuePercent(field FieldInfo, rows int) float64 {
	if rows == 0 {
		return 0
	}
	return 1 - float64(field.NonNullValues)/float64(rows)
}

// shouldExclude reports whether a column looks like a row identifier: every
// value is distinct and it is either a leading numeric column or named like an ID.
func shouldExclude(idx int, field FieldInfo, ftype schema.FeatureType, rows int, isTarget map[string]bool) bool {
	if isTarget[field.Name] {
		return false
	}
	if rows == 0 || field.NumDistinctValues != rows {
		return false
	}
	if idx == 0 && ftype == schema.Number {
		return true
	}
	name := strings.ToUpper(field.Name)
	return strings.HasPrefix(name, "ID") || strings.HasSuffix(name, "ID")
}
