package features

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/willbeason/dou-features/pkg/tables"
)

// UnknownCategory is the code of a null categorical value or of a level that
// is not part of the column's encoding.
const UnknownCategory = -1.0

// NullNumber is the value of a null numeric input.
var NullNumber = math.NaN()

// EnglishLevels is ordered by proficiency; the code of a level is its index.
var EnglishLevels = []string{
	"Elementary",
	"Pre-Intermediate",
	"Intermediate",
	"Upper-Intermediate",
	"Advanced",
}

// englishAliases maps the questionnaire's Russian and Ukrainian answers and
// common spellings onto EnglishLevels.
var englishAliases = map[string]string{
	"Beginner":           "Elementary",
	"Pre Intermediate":   "Pre-Intermediate",
	"Upper Intermediate": "Upper-Intermediate",
	"Proficient":         "Advanced",
	"элементарный":       "Elementary",
	"ниже среднего":      "Pre-Intermediate",
	"средний":            "Intermediate",
	"выше среднего":      "Upper-Intermediate",
	"продвинутый":        "Advanced",
	"елементарний":       "Elementary",
	"нижче середнього":   "Pre-Intermediate",
	"середній":           "Intermediate",
	"вище середнього":    "Upper-Intermediate",
	"просунутий":         "Advanced",
}

// ProgrammingLanguages is sorted; the code of a language is its index. New
// languages must be appended rather than inserted so existing codes stay put.
var ProgrammingLanguages = []string{
	"1C",
	"C",
	"C#",
	"C++",
	"Go",
	"Java",
	"JavaScript",
	"Kotlin",
	"Objective-C",
	"PHP",
	"Perl",
	"Python",
	"Ruby",
	"Scala",
	"Swift",
	"TypeScript",
}

var languageAliases = map[string]string{
	"Golang": "Go",
	"JS":     "JavaScript",
	"TS":     "TypeScript",
	"ObjC":   "Objective-C",
	"C/C++":  "C++",
}

// Encoding maps the levels of one categorical column to float codes.
type Encoding struct {
	column string
	levels []string
	codes  map[string]float64
}

func normalizeLevel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NewEncoding builds an encoding where levels[i] has code i. Levels and
// aliases are matched ignoring case and surrounding whitespace. Aliases whose
// target is not a level are ignored.
func NewEncoding(column string, levels []string, aliases map[string]string) (*Encoding, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("encoding for %q has no levels", column)
	}

	e := &Encoding{
		column: column,
		levels: append([]string(nil), levels...),
		codes:  make(map[string]float64, len(levels)+len(aliases)),
	}
	for i, level := range levels {
		key := normalizeLevel(level)
		if key == "" {
			return nil, fmt.Errorf("encoding for %q has an empty level at index %d", column, i)
		}
		if _, found := e.codes[key]; found {
			return nil, fmt.Errorf("encoding for %q declares level %q twice", column, level)
		}
		e.codes[key] = float64(i)
	}

	// Sorted so a conflicting alias is resolved the same way every run.
	names := make([]string, 0, len(aliases))
	for alias := range aliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	for _, alias := range names {
		code, found := e.codes[normalizeLevel(aliases[alias])]
		if !found {
			continue
		}
		key := normalizeLevel(alias)
		if _, found := e.codes[key]; found {
			continue
		}
		e.codes[key] = code
	}

	return e, nil
}

// Column is the survey column the encoding applies to.
func (e *Encoding) Column() string {
	return e.column
}

// Levels returns a copy of the declared levels in code order.
func (e *Encoding) Levels() []string {
	return append([]string(nil), e.levels...)
}

// Code returns the code of level and whether it is known.
func (e *Encoding) Code(level string) (float64, bool) {
	code, found := e.codes[normalizeLevel(level)]
	return code, found
}

// Encode returns the code of v, or UnknownCategory if v is null or unknown.
func (e *Encoding) Encode(v sql.NullString) float64 {
	if !v.Valid {
		return UnknownCategory
	}
	code, found := e.Code(v.String)
	if !found {
		return UnknownCategory
	}
	return code
}

// Encoder holds the encodings of every categorical column a conversion uses.
type Encoder struct {
	encodings map[string]*Encoding
}

// DefaultEncoder returns the encoder built from EnglishLevels and
// ProgrammingLanguages.
func DefaultEncoder() *Encoder {
	e, err := NewEncoder(nil)
	if err != nil {
		panic(err)
	}
	return e
}

// NewEncoder returns the default encoder with the levels of some columns
// replaced. Built-in aliases are kept where their target is still a level.
func NewEncoder(overrides map[string][]string) (*Encoder, error) {
	defaults := map[string]struct {
		levels  []string
		aliases map[string]string
	}{
		tables.EnglishLevelColumn:        {levels: EnglishLevels, aliases: englishAliases},
		tables.ProgrammingLanguageColumn: {levels: ProgrammingLanguages, aliases: languageAliases},
	}

	result := &Encoder{encodings: make(map[string]*Encoding)}
	for column, levels := range overrides {
		if !tables.Survey.HasField(column) {
			return nil, fmt.Errorf("encoding for %q: not a survey column", column)
		}
		encoding, err := NewEncoding(column, levels, defaults[column].aliases)
		if err != nil {
			return nil, err
		}
		result.encodings[column] = encoding
	}

	for column, d := range defaults {
		if _, found := result.encodings[column]; found {
			continue
		}
		encoding, err := NewEncoding(column, d.levels, d.aliases)
		if err != nil {
			return nil, err
		}
		result.encodings[column] = encoding
	}

	return result, nil
}

// Encoding returns the encoding of column, or nil if it has none.
func (e *Encoder) Encoding(column string) *Encoding {
	return e.encodings[column]
}
