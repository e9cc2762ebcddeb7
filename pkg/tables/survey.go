package tables

import "github.com/apache/arrow/go/v18/arrow"

const SurveyName = "dou_salaries"

// Column names of the DOU salary survey.
const (
	IdColumn                   = "id"
	CityColumn                 = "city"
	SalaryColumn               = "salary"
	SalaryDeltaColumn          = "salary_delta"
	PositionColumn             = "position"
	ExperienceColumn           = "experience"
	CurrentJobExperienceColumn = "current_job_experience"
	ProgrammingLanguageColumn  = "programming_language"
	SpecializationColumn       = "specialization"
	AgeColumn                  = "age"
	SexColumn                  = "sex"
	EducationColumn            = "education"
	UniversityColumn           = "university"
	IsStudentColumn            = "is_student"
	EnglishLevelColumn         = "english_level"
	CompanySizeColumn          = "company_size"
	CompanyTypeColumn          = "company_type"
	DomainColumn               = "domain"
)

// Survey is the explicit schema of the survey CSV. Types are declared rather
// than inferred so repeated runs see the same columns.
var Survey = arrow.NewSchema([]arrow.Field{
	{Name: IdColumn,
		Type:     arrow.PrimitiveTypes.Int32,
		Metadata: NewMetadataBuilder().Comment("The row number in the survey export").Build(),
		Nullable: true},
	{Name: CityColumn,
		Type:     arrow.BinaryTypes.String,
		Metadata: NewMetadataBuilder().Comment("The city the respondent works in").Build(),
		Nullable: true},
	{Name: SalaryColumn,
		Type:     arrow.PrimitiveTypes.Int32,
		Metadata: NewMetadataBuilder().Comment("Monthly salary in USD").Build(),
		Nullable: true},
	{Name: SalaryDeltaColumn,
		Type:     arrow.PrimitiveTypes.Int32,
		Metadata: NewMetadataBuilder().Comment("Salary change over the last 12 months in USD").Build(),
		Nullable: true},
	{Name: PositionColumn,
		Type:     arrow.BinaryTypes.String,
		Metadata: NewMetadataBuilder().Comment("The job title").Build(),
		Nullable: true},
	{Name: ExperienceColumn,
		Type:     arrow.PrimitiveTypes.Float64,
		Metadata: NewMetadataBuilder().Comment("Total years of professional experience").Build(),
		Nullable: true},
	{Name: CurrentJobExperienceColumn,
		Type:     arrow.PrimitiveTypes.Float64,
		Metadata: NewMetadataBuilder().Comment("Years at the current job").Build(),
		Nullable: true},
	{Name: ProgrammingLanguageColumn,
		Type:     arrow.BinaryTypes.String,
		Metadata: NewMetadataBuilder().Comment("The main programming language").Build(),
		Nullable: true},
	{Name: SpecializationColumn,
		Type:     arrow.BinaryTypes.String,
		Metadata: NewMetadataBuilder().Comment("The area of specialization").Build(),
		Nullable: true},
	{Name: AgeColumn,
		Type:     arrow.PrimitiveTypes.Int32,
		Metadata: NewMetadataBuilder().Comment("Age in years").Build(),
		Nullable: true},
	{Name: SexColumn,
		Type:     arrow.BinaryTypes.String,
		Nullable: true},
	{Name: EducationColumn,
		Type:     arrow.BinaryTypes.String,
		Metadata: NewMetadataBuilder().Comment("The highest completed education").Build(),
		Nullable: true},
	{Name: UniversityColumn,
		Type:     arrow.BinaryTypes.String,
		Nullable: true},
	{Name: IsStudentColumn,
		Type:     arrow.FixedWidthTypes.Boolean,
		Metadata: NewMetadataBuilder().Comment("Whether the respondent is still studying").Build(),
		Nullable: true},
	{Name: EnglishLevelColumn,
		Type:     arrow.BinaryTypes.String,
		Metadata: NewMetadataBuilder().Comment("Self-assessed English proficiency").Build(),
		Nullable: true},
	{Name: CompanySizeColumn,
		Type:     arrow.BinaryTypes.String,
		Metadata: NewMetadataBuilder().Comment("Head count bucket of the employer").Build(),
		Nullable: true},
	{Name: CompanyTypeColumn,
		Type:     arrow.BinaryTypes.String,
		Metadata: NewMetadataBuilder().Comment("Product, outsourcing, outstaffing, startup and so on").Build(),
		Nullable: true},
	{Name: DomainColumn,
		Type:     arrow.BinaryTypes.String,
		Metadata: NewMetadataBuilder().Comment("The business domain of the employer").Build(),
		Nullable: true},
}, NewMetadataBuilder().Comment(
	"Rows of the DOU developer salary survey",
).BuildReference())
