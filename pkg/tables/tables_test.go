package tables

import (
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/stretchr/testify/assert"
)

func TestMetadataBuilder(t *testing.T) {
	md := NewMetadataBuilder().
		Add(ModeKey, "labeled2").
		Add(SourcePathKey, "").
		Comment("points").
		Build()

	assert.Equal(t, []string{ModeKey, comment}, md.Keys())
	assert.Equal(t, []string{"labeled2", "points"}, md.Values())
}

func TestSchemas(t *testing.T) {
	md := NewMetadataBuilder().Add(ModeKey, "labeled3").BuildReference()

	labeled := LabeledPoints(md)
	assert.Equal(t, []string{LabelFieldName, FeaturesFieldName}, fieldNames(labeled))
	assert.True(t, arrow.TypeEqual(FeatureVector, labeled.Field(1).Type))
	assert.Equal(t, 0, labeled.Metadata().FindKey(ModeKey))

	assert.Equal(t, []string{FeaturesFieldName}, fieldNames(Vectors(nil)))

	assert.Len(t, Survey.Fields(), 18)
	for _, f := range Survey.Fields() {
		assert.True(t, f.Nullable, f.Name)
	}
}

func fieldNames(s *arrow.Schema) []string {
	names := make([]string, s.NumFields())
	for i, f := range s.Fields() {
		names[i] = f.Name
	}
	return names
}
