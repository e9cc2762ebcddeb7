package features

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willbeason/dou-features/pkg/tables"
)

func TestDefaultEncoder_Codes(t *testing.T) {
	encoder := DefaultEncoder()

	english := encoder.Encoding(tables.EnglishLevelColumn)
	require.NotNil(t, english)
	for i, level := range EnglishLevels {
		code, found := english.Code(level)
		assert.True(t, found, level)
		assert.Equal(t, float64(i), code, level)
	}

	language := encoder.Encoding(tables.ProgrammingLanguageColumn)
	require.NotNil(t, language)
	for i, level := range ProgrammingLanguages {
		code, found := language.Code(level)
		assert.True(t, found, level)
		assert.Equal(t, float64(i), code, level)
	}

	code, _ := english.Code("Upper-Intermediate")
	assert.Equal(t, 3.0, code)
	code, _ = language.Code("Java")
	assert.Equal(t, 5.0, code)

	assert.Nil(t, encoder.Encoding(tables.CityColumn))
}

func TestEncoding_Deterministic(t *testing.T) {
	first := DefaultEncoder().Encoding(tables.EnglishLevelColumn)
	second := DefaultEncoder().Encoding(tables.EnglishLevelColumn)

	inputs := append(EnglishLevels, "выше среднего", "UPPER intermediate", "  advanced ", "unknown", "")
	for _, in := range inputs {
		v := sql.NullString{String: in, Valid: true}
		a := first.Encode(v)
		for i := 0; i < 10; i++ {
			assert.Equal(t, a, first.Encode(v), in)
		}
		assert.Equal(t, a, second.Encode(v), in)
	}
}

func TestEncoding_Normalization(t *testing.T) {
	english := DefaultEncoder().Encoding(tables.EnglishLevelColumn)

	tests := []struct {
		in   string
		want float64
	}{
		{in: "upper-intermediate", want: 3},
		{in: " Advanced ", want: 4},
		{in: "Выше среднего", want: 3},
		{in: "середній", want: 2},
		{in: "Beginner", want: 0},
		{in: "Native", want: UnknownCategory},
		{in: "", want: UnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, english.Encode(sql.NullString{String: tt.in, Valid: true}))
		})
	}

	assert.Equal(t, UnknownCategory, english.Encode(sql.NullString{}))
}

func TestNewEncoding_Errors(t *testing.T) {
	_, err := NewEncoding("x", nil, nil)
	assert.Error(t, err)

	_, err = NewEncoding("x", []string{"a", " A "}, nil)
	assert.Error(t, err)

	_, err = NewEncoding("x", []string{"a", ""}, nil)
	assert.Error(t, err)
}

func TestNewEncoding_Aliases(t *testing.T) {
	e, err := NewEncoding("x", []string{"a", "b"}, map[string]string{
		"alpha": "a",
		"B":     "a",
		"gamma": "c",
	})
	require.NoError(t, err)

	code, found := e.Code("alpha")
	assert.True(t, found)
	assert.Equal(t, 0.0, code)

	// Aliases never shadow declared levels.
	code, _ = e.Code("b")
	assert.Equal(t, 1.0, code)

	_, found = e.Code("gamma")
	assert.False(t, found)

	assert.Equal(t, []string{"a", "b"}, e.Levels())
	assert.Equal(t, "x", e.Column())
}

func TestNewEncoder_Overrides(t *testing.T) {
	encoder, err := NewEncoder(map[string][]string{
		tables.ProgrammingLanguageColumn: {"Java", "Go"},
		tables.CompanySizeColumn:         {"1-10", "10-50"},
	})
	require.NoError(t, err)

	code, found := encoder.Encoding(tables.ProgrammingLanguageColumn).Code("golang")
	assert.True(t, found)
	assert.Equal(t, 1.0, code)

	code, _ = encoder.Encoding(tables.EnglishLevelColumn).Code("Advanced")
	assert.Equal(t, 4.0, code)

	require.NotNil(t, encoder.Encoding(tables.CompanySizeColumn))

	_, err = NewEncoder(map[string][]string{"bonus": {"a"}})
	assert.Error(t, err)
}
