package stats

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willbeason/dou-features/pkg/features"
	"github.com/willbeason/dou-features/pkg/survey"
	"github.com/willbeason/dou-features/pkg/tables"
)

const surveyCSV = `salary,experience,is_student,english_level,programming_language
3000,2.5,false,Upper-Intermediate,Java
1200,1,false,intermediate,Golang
,0.5,true,,
5000,8,,Advanced,COBOL
`

func TestField_Types(t *testing.T) {
	tcs := []struct {
		name   string
		values []any
		want   string
	}{
		{name: "empty", values: []any{nil, nil}, want: "empty;null:2"},
		{name: "bool", values: []any{true, nil, false, true}, want: "bool;true:2;false:1;null:1"},
		{name: "uint8", values: []any{int32(3), int32(200), nil}, want: "uint8;3;200;mean:101.500000;null:1;3:1;200:1;"},
		{name: "int16", values: []any{int32(-3), int32(1000)}, want: "int16;-3;1000;mean:498.500000;null:0;-3:1;1000:1;"},
		{name: "float32", values: []any{0.5, 2.25}, want: "float32;0.500000;2.250000;mean:1.375000;null:0;0.500000:1;2.250000:1;"},
		{name: "enum", values: []any{"b", "a", nil, "b"}, want: "enum;2;null:1;a:1;b:2;"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			var f Field = &EmptyField{}
			for _, v := range tc.values {
				var err error
				f, err = f.Add(v)
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, f.String())
		})
	}
}

func TestField_MixedTypes(t *testing.T) {
	var f Field = &EmptyField{}
	f, err := f.Add("a")
	require.NoError(t, err)

	_, err = f.Add(int32(1))
	assert.Error(t, err)
}

func TestStringField_NotEnum(t *testing.T) {
	var f Field = &EmptyField{}
	for i := 0; i <= MaxEnum+5; i++ {
		var err error
		f, err = f.Add(strings.Repeat("x", i+1))
		require.NoError(t, err)
	}
	assert.Equal(t, "string;null:0;", f.String())
}

func TestNumberField_Mean(t *testing.T) {
	f := &NumberField{Seen: make(map[float64]int)}
	assert.True(t, math.IsNaN(f.Mean()))
}

func TestCollect(t *testing.T) {
	reader, err := survey.NewReader(strings.NewReader(surveyCSV))
	require.NoError(t, err)

	var calls int
	p, err := Collect(context.Background(), reader, features.DefaultEncoder(), func(int) { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 4, p.Rows)
	assert.Equal(t, 4, calls)

	salary, ok := p.Fields[tables.SalaryColumn].(*NumberField)
	require.True(t, ok, "%T", p.Fields[tables.SalaryColumn])
	assert.Equal(t, 1, salary.Nulls())
	assert.Equal(t, 1200.0, salary.Min)
	assert.Equal(t, 5000.0, salary.Max)

	_, ok = p.Fields[tables.IsStudentColumn].(*BoolField)
	assert.True(t, ok)

	require.Contains(t, p.Coverage, tables.ProgrammingLanguageColumn)
	require.Contains(t, p.Coverage, tables.EnglishLevelColumn)
	assert.NotContains(t, p.Coverage, tables.SalaryColumn)

	languages := p.Coverage[tables.ProgrammingLanguageColumn]
	assert.Equal(t, map[string]int{"COBOL": 1}, languages.Unknown)
	assert.Equal(t, 1, languages.Nulls)
	assert.InDelta(t, 0.5, languages.Rate(), 1e-9)

	english := p.Coverage[tables.EnglishLevelColumn]
	assert.Equal(t, []int{0, 0, 1, 1, 1}, english.Known)
	assert.Empty(t, english.Unknown)
}

func TestProfile_WriteTo(t *testing.T) {
	reader, err := survey.NewReader(strings.NewReader(surveyCSV), tables.ProgrammingLanguageColumn, tables.SalaryColumn)
	require.NoError(t, err)

	p, err := Collect(context.Background(), reader, features.DefaultEncoder(), nil)
	require.NoError(t, err)

	var out bytes.Buffer
	n, err := p.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(out.Len()), n)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "rows;4", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "programming_language;enum;3;null:1;"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "salary;uint16;1200;5000;"), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "programming_language.encoding;coverage:0.5000;null:1;"), lines[3])
	assert.Contains(t, lines[3], "Java=5:1;")
	assert.Contains(t, lines[3], "Go=4:1;")
	assert.Contains(t, lines[3], "?COBOL:1;")
}

func TestCollect_Cancelled(t *testing.T) {
	reader, err := survey.NewReader(strings.NewReader(surveyCSV))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Collect(ctx, reader, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
