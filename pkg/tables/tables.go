package tables

import "github.com/apache/arrow/go/v18/arrow"

const (
	ParquetExt = ".parquet"
	CSVExt     = ".csv"
)

// Keys of the Parquet key/value metadata attached to every feature file.
const (
	ModeKey         = "dou.mode"
	RunIdKey        = "dou.run_id"
	SourcePathKey   = "dou.source_path"
	SourceDigestKey = "dou.source_blake2b"
)

// Output field names.
const (
	LabelFieldName    = "label"
	FeaturesFieldName = "features"
)

// FeatureVector is the type of the features column. A variable length list is
// used rather than a fixed size list so readers that do not understand the
// stored Arrow schema still see plain Parquet LIST columns.
var FeatureVector = arrow.ListOf(arrow.PrimitiveTypes.Float64)

// LabeledPoints returns the schema of a labeled feature file.
func LabeledPoints(md *arrow.Metadata) *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: LabelFieldName,
			Type: arrow.PrimitiveTypes.Float64,
			Metadata: NewMetadataBuilder().Comment(
				"The supervised target, the monthly salary in USD. NaN when salary was missing",
			).Build(),
		},
		{Name: FeaturesFieldName,
			Type: FeatureVector,
			Metadata: NewMetadataBuilder().Comment(
				"The ordered numeric features of the survey row",
			).Build(),
		},
	}, md)
}

// Vectors returns the schema of an unlabeled feature file.
func Vectors(md *arrow.Metadata) *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: FeaturesFieldName,
			Type: FeatureVector,
			Metadata: NewMetadataBuilder().Comment(
				"The ordered numeric features of the survey row",
			).Build(),
		},
	}, md)
}
