package features

import (
	"fmt"
	"strings"

	"github.com/willbeason/dou-features/pkg/tables"
)

// Mode selects which survey columns are read and how a row becomes a feature
// record.
type Mode int

const (
	// TwoFeatureLabeled labels rows with salary over experience and English level.
	TwoFeatureLabeled Mode = iota + 1
	// ThreeFeatureLabeled adds the programming language to TwoFeatureLabeled.
	ThreeFeatureLabeled
	// ThreeFeatureVector emits unlabeled salary, experience and English level
	// vectors. It does not read the programming language even though it also
	// has three features.
	ThreeFeatureVector
)

// Modes lists every mode in declaration order.
var Modes = []Mode{TwoFeatureLabeled, ThreeFeatureLabeled, ThreeFeatureVector}

var modeNames = map[Mode]string{
	TwoFeatureLabeled:   "labeled2",
	ThreeFeatureLabeled: "labeled3",
	ThreeFeatureVector:  "vector3",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts the names returned by Mode.String.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range Modes {
		if modeNames[m] == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q, must be one of [labeled2|labeled3|vector3]", s)
}

// Columns returns the survey columns the mode projects the input to.
func (m Mode) Columns() []string {
	switch m {
	case TwoFeatureLabeled, ThreeFeatureVector:
		return []string{tables.SalaryColumn, tables.ExperienceColumn, tables.EnglishLevelColumn}
	case ThreeFeatureLabeled:
		return []string{tables.SalaryColumn, tables.ExperienceColumn, tables.EnglishLevelColumn, tables.ProgrammingLanguageColumn}
	default:
		return nil
	}
}

// Labeled reports whether the mode produces labeled points.
func (m Mode) Labeled() bool {
	return m == TwoFeatureLabeled || m == ThreeFeatureLabeled
}

// Width is the length of feature vectors the mode produces.
func (m Mode) Width() int {
	return len(modeTerms[m])
}
