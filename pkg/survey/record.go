package survey

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/willbeason/dou-features/pkg/tables"
)

// RawRecord is one row of the survey. Columns outside the projection a Reader
// was created with are left null.
type RawRecord struct {
	Id                   sql.NullInt32
	City                 sql.NullString
	Salary               sql.NullInt32
	SalaryDelta          sql.NullInt32
	Position             sql.NullString
	Experience           sql.NullFloat64
	CurrentJobExperience sql.NullFloat64
	ProgrammingLanguage  sql.NullString
	Specialization       sql.NullString
	Age                  sql.NullInt32
	Sex                  sql.NullString
	Education            sql.NullString
	University           sql.NullString
	IsStudent            sql.NullBool
	EnglishLevel         sql.NullString
	CompanySize          sql.NullString
	CompanyType          sql.NullString
	Domain               sql.NullString
}

// set parses value into the field backing column. Parsing is permissive: an
// empty cell or one that does not parse as the declared type is null.
// Returns false if column is not part of the survey schema.
func (r *RawRecord) set(column, value string) bool {
	switch column {
	case tables.IdColumn:
		r.Id = parseInt32(value)
	case tables.CityColumn:
		r.City = parseString(value)
	case tables.SalaryColumn:
		r.Salary = parseInt32(value)
	case tables.SalaryDeltaColumn:
		r.SalaryDelta = parseInt32(value)
	case tables.PositionColumn:
		r.Position = parseString(value)
	case tables.ExperienceColumn:
		r.Experience = parseFloat64(value)
	case tables.CurrentJobExperienceColumn:
		r.CurrentJobExperience = parseFloat64(value)
	case tables.ProgrammingLanguageColumn:
		r.ProgrammingLanguage = parseString(value)
	case tables.SpecializationColumn:
		r.Specialization = parseString(value)
	case tables.AgeColumn:
		r.Age = parseInt32(value)
	case tables.SexColumn:
		r.Sex = parseString(value)
	case tables.EducationColumn:
		r.Education = parseString(value)
	case tables.UniversityColumn:
		r.University = parseString(value)
	case tables.IsStudentColumn:
		r.IsStudent = parseBool(value)
	case tables.EnglishLevelColumn:
		r.EnglishLevel = parseString(value)
	case tables.CompanySizeColumn:
		r.CompanySize = parseString(value)
	case tables.CompanyTypeColumn:
		r.CompanyType = parseString(value)
	case tables.DomainColumn:
		r.Domain = parseString(value)
	default:
		return false
	}
	return true
}

func parseInt32(s string) sql.NullInt32 {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullInt32{}
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(v), Valid: true}
}

func parseFloat64(s string) sql.NullFloat64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullFloat64{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func parseBool(s string) sql.NullBool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return sql.NullBool{Bool: true, Valid: true}
	case "false":
		return sql.NullBool{Bool: false, Valid: true}
	default:
		return sql.NullBool{}
	}
}

func parseString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Value returns the value of column as int32, float64, bool or string, or nil
// if it is null or column is unknown.
func (r *RawRecord) Value(column string) any {
	switch column {
	case tables.IdColumn:
		return nullable(r.Id.Int32, r.Id.Valid)
	case tables.CityColumn:
		return nullable(r.City.String, r.City.Valid)
	case tables.SalaryColumn:
		return nullable(r.Salary.Int32, r.Salary.Valid)
	case tables.SalaryDeltaColumn:
		return nullable(r.SalaryDelta.Int32, r.SalaryDelta.Valid)
	case tables.PositionColumn:
		return nullable(r.Position.String, r.Position.Valid)
	case tables.ExperienceColumn:
		return nullable(r.Experience.Float64, r.Experience.Valid)
	case tables.CurrentJobExperienceColumn:
		return nullable(r.CurrentJobExperience.Float64, r.CurrentJobExperience.Valid)
	case tables.ProgrammingLanguageColumn:
		return nullable(r.ProgrammingLanguage.String, r.ProgrammingLanguage.Valid)
	case tables.SpecializationColumn:
		return nullable(r.Specialization.String, r.Specialization.Valid)
	case tables.AgeColumn:
		return nullable(r.Age.Int32, r.Age.Valid)
	case tables.SexColumn:
		return nullable(r.Sex.String, r.Sex.Valid)
	case tables.EducationColumn:
		return nullable(r.Education.String, r.Education.Valid)
	case tables.UniversityColumn:
		return nullable(r.University.String, r.University.Valid)
	case tables.IsStudentColumn:
		return nullable(r.IsStudent.Bool, r.IsStudent.Valid)
	case tables.EnglishLevelColumn:
		return nullable(r.EnglishLevel.String, r.EnglishLevel.Valid)
	case tables.CompanySizeColumn:
		return nullable(r.CompanySize.String, r.CompanySize.Valid)
	case tables.CompanyTypeColumn:
		return nullable(r.CompanyType.String, r.CompanyType.Valid)
	case tables.DomainColumn:
		return nullable(r.Domain.String, r.Domain.Valid)
	default:
		return nil
	}
}

func nullable[T any](v T, valid bool) any {
	if !valid {
		return nil
	}
	return v
}
