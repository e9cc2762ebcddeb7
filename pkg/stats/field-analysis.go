package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// MaxEnum is the largest number of unique values to track before not trying to
// interpret the column as an enum.
const MaxEnum = 20

// Field accumulates the values seen in one survey column. Values are the
// int32, float64, bool and string values of survey.RawRecord.Value, or nil.
// A column holding more than one kind of value is an error.
type Field interface {
	Add(obj any) (Field, error)
	// Nulls is the number of null cells seen.
	Nulls() int
	String() string
}

// EmptyField represents a column which has only held nulls so far.
// Adding a non-null value to an EmptyField returns a non-EmptyField.
type EmptyField struct {
	nulls int
}

// Add turns the EmptyField into an appropriate field based on the passed type.
func (nf *EmptyField) Add(obj any) (Field, error) {
	var f Field
	switch obj.(type) {
	case nil:
		nf.nulls++
		return nf, nil
	case bool:
		f = &BoolField{nulls: nf.nulls}
	case int32, float64:
		f = &NumberField{Seen: make(map[float64]int), nulls: nf.nulls}
	case string:
		f = &StringField{Seen: make(map[string]int), nulls: nf.nulls}
	default:
		return nil, fmt.Errorf("unknown type %T added to %T", obj, nf)
	}
	return f.Add(obj)
}

func (nf *EmptyField) Nulls() int {
	return nf.nulls
}

func (nf *EmptyField) String() string {
	return fmt.Sprintf("empty;null:%d", nf.nulls)
}

// BoolField indicates the column only ever holds true or false.
type BoolField struct {
	True  int
	False int

	nulls int
}

func (f *BoolField) Add(obj any) (Field, error) {
	switch o := obj.(type) {
	case nil:
		f.nulls++
		return f, nil
	case bool:
		if o {
			f.True++
		} else {
			f.False++
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown type %T added to %T", o, f)
	}
}

func (f *BoolField) Nulls() int {
	return f.nulls
}

func (f *BoolField) String() string {
	return fmt.Sprintf("bool;true:%d;false:%d;null:%d", f.True, f.False, f.nulls)
}

// A NumberField only holds numbers. Keeps track of the properties of the
// numbers passed in to determine the types of numbers used.
type NumberField struct {
	// Integral tracks if all instances of this column are integers.
	Integral bool
	// Float32 tracks if all instances of this column can fit in a 32-bit
	// floating point type.
	Float32 bool

	// Min and Max allow determining whether the number is unsigned, or, for
	// integers, the smallest type which can hold all seen values.
	Min, Max float64

	// Count is the number of non-null values seen.
	Count int
	// Sum allows reporting the mean.
	Sum float64

	// Seen tracks the unique numbers passed to this field.
	// Stops collecting values after it contains more than MaxEnum entries.
	Seen map[float64]int

	nulls int
}

func (f *NumberField) Add(obj any) (Field, error) {
	var o float64
	switch v := obj.(type) {
	case nil:
		f.nulls++
		return f, nil
	case int32:
		o = float64(v)
	case float64:
		o = v
	default:
		return nil, fmt.Errorf("unknown type %T added to %T", obj, f)
	}

	if f.Count > 0 {
		f.Integral = f.Integral && isIntegral(o)
		f.Float32 = f.Float32 && isFloat32(o)

		f.Min = math.Min(f.Min, o)
		f.Max = math.Max(f.Max, o)
	} else {
		f.Integral = isIntegral(o)
		f.Float32 = isFloat32(o)

		f.Min = o
		f.Max = o
	}
	f.Count++
	f.Sum += o

	if len(f.Seen) <= MaxEnum {
		f.Seen[o]++
	}
	return f, nil
}

func (f *NumberField) Nulls() int {
	return f.nulls
}

// Mean is the average of the non-null values, or NaN if there were none.
func (f *NumberField) Mean() float64 {
	if f.Count == 0 {
		return math.NaN()
	}
	return f.Sum / float64(f.Count)
}

func isIntegral(f float64) bool {
	return math.Round(f) == f
}

const (
	Float64FractionLength = 52
	Float32FractionLength = 23
	Float64Mask           = (1 << (Float64FractionLength - Float32FractionLength)) - 1
)

func isFloat32(f float64) bool {
	n := math.Float64bits(f)
	n &= Float64Mask

	// The number can be represented as a float32 without loss of precision as
	// it uses none of the float64-specific fraction bits.
	// Does not handle exponents out of the range of float32.
	return n == 0
}

// Type is the smallest Go numeric type holding every value seen.
func (f *NumberField) Type() string {
	switch {
	case !f.Integral && f.Float32:
		return "float32"
	case !f.Integral:
		return "float64"
	case f.Min < 0 && f.Min >= math.MinInt8 && f.Max <= math.MaxInt8:
		return "int8"
	case f.Min < 0 && f.Min >= math.MinInt16 && f.Max <= math.MaxInt16:
		return "int16"
	case f.Min < 0 && f.Min >= math.MinInt32 && f.Max <= math.MaxInt32:
		return "int32"
	case f.Min < 0:
		return "int64"
	case f.Max <= math.MaxUint8:
		return "uint8"
	case f.Max <= math.MaxUint16:
		return "uint16"
	case f.Max <= math.MaxUint32:
		return "uint32"
	default:
		return "uint64"
	}
}

func (f *NumberField) String() string {
	result := strings.Builder{}
	result.WriteString(f.Type())
	result.WriteString(";")
	if f.Integral {
		result.WriteString(fmt.Sprintf("%d;%d;", int64(f.Min), int64(f.Max)))
	} else {
		result.WriteString(fmt.Sprintf("%f;%f;", f.Min, f.Max))
	}
	result.WriteString(fmt.Sprintf("mean:%f;null:%d;", f.Mean(), f.nulls))

	if len(f.Seen) <= MaxEnum {
		keys := make([]float64, 0, len(f.Seen))
		for k := range f.Seen {
			keys = append(keys, k)
		}
		sort.Float64s(keys)
		for _, k := range keys {
			if f.Integral {
				result.WriteString(fmt.Sprintf("%d:%d;", int64(k), f.Seen[k]))
			} else {
				result.WriteString(fmt.Sprintf("%f:%d;", k, f.Seen[k]))
			}
		}
	}

	return result.String()
}

// A StringField only holds string values.
type StringField struct {
	// Seen attempts to determine if the column is actually an enum with a small
	// number of unique values.
	Seen map[string]int

	nulls int
}

func (f *StringField) Add(obj any) (Field, error) {
	switch o := obj.(type) {
	case nil:
		f.nulls++
		return f, nil
	case string:
		if len(f.Seen) <= MaxEnum {
			f.Seen[o]++
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unknown type %T added to %T", o, f)
	}
}

func (f *StringField) Nulls() int {
	return f.nulls
}

// Enum reports whether the column had at most MaxEnum unique values.
func (f *StringField) Enum() bool {
	return len(f.Seen) <= MaxEnum
}

func (f *StringField) String() string {
	result := strings.Builder{}
	if f.Enum() {
		result.WriteString(fmt.Sprintf("enum;%d;null:%d;", len(f.Seen), f.nulls))
		for _, k := range sortedKeys(f.Seen) {
			result.WriteString(fmt.Sprintf("%s:%d;", k, f.Seen[k]))
		}
	} else {
		result.WriteString(fmt.Sprintf("string;null:%d;", f.nulls))
	}

	return result.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
