package survey

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willbeason/dou-features/pkg/tables"
)

const fullHeader = "id,city,salary,salary_delta,position,experience,current_job_experience," +
	"programming_language,specialization,age,sex,education,university,is_student," +
	"english_level,company_size,company_type,domain\n"

func TestNewReader_Projection(t *testing.T) {
	input := fullHeader +
		"1,Kyiv,3000,200,Senior Software Engineer,2.5,1,Java,Backend,27,male,Higher,KPI,false,Upper-Intermediate,1000+,Product,Fintech\n"

	r, err := NewReader(strings.NewReader(input), tables.SalaryColumn, tables.ExperienceColumn, tables.EnglishLevelColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{"salary", "experience", "english_level"}, r.Columns())

	records, err := r.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	want := RawRecord{
		Salary:       sql.NullInt32{Int32: 3000, Valid: true},
		Experience:   sql.NullFloat64{Float64: 2.5, Valid: true},
		EnglishLevel: sql.NullString{String: "Upper-Intermediate", Valid: true},
	}
	if diff := cmp.Diff(want, records[0]); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestNewReader_AllColumns(t *testing.T) {
	input := fullHeader +
		"7,Lviv,1500,,Junior QA,0.5,0.5,,QA,21,female,Student,LNU,TRUE,Intermediate,50-200,Outsourcing,\n"

	r, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, r.Columns(), len(tables.Survey.Fields()))

	records, err := r.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, sql.NullInt32{Int32: 7, Valid: true}, got.Id)
	assert.Equal(t, sql.NullString{String: "Lviv", Valid: true}, got.City)
	assert.False(t, got.SalaryDelta.Valid)
	assert.False(t, got.ProgrammingLanguage.Valid)
	assert.Equal(t, sql.NullBool{Bool: true, Valid: true}, got.IsStudent)
	assert.Equal(t, sql.NullInt32{Int32: 21, Valid: true}, got.Age)
	assert.False(t, got.Domain.Valid)
}

func TestNewReader_HeaderNormalization(t *testing.T) {
	input := "\ufeff Salary ,EXPERIENCE,english_level,extra\n100,1,Advanced,ignored\n"

	r, err := NewReader(strings.NewReader(input), tables.SalaryColumn, tables.ExperienceColumn, tables.EnglishLevelColumn)
	require.NoError(t, err)

	records, err := r.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int32(100), records[0].Salary.Int32)
}

func TestNewReader_SchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		columns []string
		column  string
	}{
		{
			name:    "missing column",
			input:   "salary,experience\n1,2\n",
			columns: []string{tables.SalaryColumn, tables.ExperienceColumn, tables.EnglishLevelColumn},
			column:  tables.EnglishLevelColumn,
		},
		{
			name:    "duplicate column",
			input:   "salary,salary,experience\n1,2,3\n",
			columns: []string{tables.SalaryColumn},
			column:  tables.SalaryColumn,
		},
		{
			name:    "unknown column",
			input:   "salary,bonus\n1,2\n",
			columns: []string{"bonus"},
			column:  "bonus",
		},
		{
			name:    "empty input",
			input:   "",
			columns: []string{tables.SalaryColumn},
			column:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(strings.NewReader(tt.input), tt.columns...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchema))

			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.column, schemaErr.Column)
		})
	}
}

func TestRead_PermissiveParsing(t *testing.T) {
	input := "salary,experience,english_level,is_student\n" +
		"3000.5,abc,,maybe\n" +
		"  42 , 1e1 ,Advanced,false\n" +
		"10\n"

	r, err := NewReader(strings.NewReader(input), tables.SalaryColumn, tables.ExperienceColumn, tables.EnglishLevelColumn, tables.IsStudentColumn)
	require.NoError(t, err)

	records, err := r.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, RawRecord{}, records[0])

	assert.Equal(t, sql.NullInt32{Int32: 42, Valid: true}, records[1].Salary)
	assert.Equal(t, sql.NullFloat64{Float64: 10, Valid: true}, records[1].Experience)
	assert.Equal(t, sql.NullBool{Bool: false, Valid: true}, records[1].IsStudent)

	assert.Equal(t, RawRecord{Salary: sql.NullInt32{Int32: 10, Valid: true}}, records[2])
}

func TestRead_MalformedCSV(t *testing.T) {
	input := "salary\n\"unterminated\n"

	r, err := NewReader(strings.NewReader(input), tables.SalaryColumn)
	require.NoError(t, err)

	_, err = r.ReadAll(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSchema))
}

func TestReadAll_Cancelled(t *testing.T) {
	r, err := NewReader(strings.NewReader("salary\n1\n2\n"), tables.SalaryColumn)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.ReadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRawRecord_EverySurveyColumnSettable(t *testing.T) {
	for _, field := range tables.Survey.Fields() {
		var r RawRecord
		assert.True(t, r.set(field.Name, "1"), field.Name)
	}
	var r RawRecord
	assert.False(t, r.set("bonus", "1"))
}

func TestRawRecord_Value(t *testing.T) {
	r := RawRecord{
		Salary:       sql.NullInt32{Int32: 5, Valid: true},
		Experience:   sql.NullFloat64{Float64: 1.5, Valid: true},
		IsStudent:    sql.NullBool{Bool: true, Valid: true},
		EnglishLevel: sql.NullString{String: "Advanced", Valid: true},
	}

	assert.Equal(t, int32(5), r.Value(tables.SalaryColumn))
	assert.Equal(t, 1.5, r.Value(tables.ExperienceColumn))
	assert.Equal(t, true, r.Value(tables.IsStudentColumn))
	assert.Equal(t, "Advanced", r.Value(tables.EnglishLevelColumn))
	assert.Nil(t, r.Value(tables.CityColumn))
	assert.Nil(t, r.Value("bonus"))
}
