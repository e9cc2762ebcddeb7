package features

import (
	"fmt"

	"github.com/willbeason/dou-features/pkg/survey"
	"github.com/willbeason/dou-features/pkg/tables"
)

// Policy decides what happens to a categorical level outside its encoding.
type Policy int

const (
	// Tolerant encodes unknown levels as UnknownCategory.
	Tolerant Policy = iota
	// Strict fails with an *EncodingError on unknown non-null levels. Null
	// levels still encode as UnknownCategory.
	Strict
)

func (p Policy) String() string {
	switch p {
	case Tolerant:
		return "tolerant"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// LabeledPoint is a supervised training example.
type LabeledPoint struct {
	Label    float64
	Features []float64
}

// Vector is an unlabeled observation.
type Vector struct {
	Features []float64
}

type term func(t *Transformer, r *survey.RawRecord) (float64, error)

func salary(_ *Transformer, r *survey.RawRecord) (float64, error) {
	return salaryLabel(r), nil
}

func experience(_ *Transformer, r *survey.RawRecord) (float64, error) {
	if !r.Experience.Valid {
		return NullNumber, nil
	}
	return r.Experience.Float64, nil
}

func englishLevel(t *Transformer, r *survey.RawRecord) (float64, error) {
	return t.encode(t.english, r.EnglishLevel.String, r.EnglishLevel.Valid)
}

func programmingLanguage(t *Transformer, r *survey.RawRecord) (float64, error) {
	return t.encode(t.language, r.ProgrammingLanguage.String, r.ProgrammingLanguage.Valid)
}

// modeTerms lists, per mode, the feature vector in order.
var modeTerms = map[Mode][]term{
	TwoFeatureLabeled:   {experience, englishLevel},
	ThreeFeatureLabeled: {experience, englishLevel, programmingLanguage},
	ThreeFeatureVector:  {salary, experience, englishLevel},
}

func salaryLabel(r *survey.RawRecord) float64 {
	if !r.Salary.Valid {
		return NullNumber
	}
	return float64(r.Salary.Int32)
}

// Transformer turns survey rows into feature records for one Mode. It holds no
// mutable state and is safe for concurrent use.
type Transformer struct {
	mode     Mode
	policy   Policy
	terms    []term
	english  *Encoding
	language *Encoding
}

// NewTransformer returns the row transform of mode. A nil encoder uses
// DefaultEncoder.
func NewTransformer(mode Mode, encoder *Encoder, policy Policy) (*Transformer, error) {
	terms, found := modeTerms[mode]
	if !found {
		return nil, fmt.Errorf("unsupported mode %v", mode)
	}
	if encoder == nil {
		encoder = DefaultEncoder()
	}

	t := &Transformer{
		mode:     mode,
		policy:   policy,
		terms:    terms,
		english:  encoder.Encoding(tables.EnglishLevelColumn),
		language: encoder.Encoding(tables.ProgrammingLanguageColumn),
	}
	if t.english == nil || t.language == nil {
		return nil, fmt.Errorf("encoder is missing %q or %q", tables.EnglishLevelColumn, tables.ProgrammingLanguageColumn)
	}
	return t, nil
}

// Mode is the mode the transformer was built for.
func (t *Transformer) Mode() Mode {
	return t.mode
}

func (t *Transformer) encode(e *Encoding, level string, valid bool) (float64, error) {
	if !valid {
		return UnknownCategory, nil
	}
	code, found := e.Code(level)
	if found {
		return code, nil
	}
	if t.policy == Strict {
		return 0, &EncodingError{Column: e.Column(), Value: level}
	}
	return UnknownCategory, nil
}

// Features returns the feature vector of r for the transformer's mode.
func (t *Transformer) Features(r survey.RawRecord) ([]float64, error) {
	result := make([]float64, len(t.terms))
	for i, f := range t.terms {
		v, err := f(t, &r)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

// LabeledPoint labels the features of r with its salary. Fails for modes that
// are not labeled.
func (t *Transformer) LabeledPoint(r survey.RawRecord) (LabeledPoint, error) {
	if !t.mode.Labeled() {
		return LabeledPoint{}, fmt.Errorf("mode %v does not produce labeled points", t.mode)
	}
	features, err := t.Features(r)
	if err != nil {
		return LabeledPoint{}, err
	}
	return LabeledPoint{Label: salaryLabel(&r), Features: features}, nil
}

// Vector returns the unlabeled features of r. Fails for labeled modes.
func (t *Transformer) Vector(r survey.RawRecord) (Vector, error) {
	if t.mode.Labeled() {
		return Vector{}, fmt.Errorf("mode %v produces labeled points", t.mode)
	}
	features, err := t.Features(r)
	if err != nil {
		return Vector{}, err
	}
	return Vector{Features: features}, nil
}
