package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"

	"github.com/willbeason/dou-features/pkg/features"
	"github.com/willbeason/dou-features/pkg/tables"
)

// Info describes a feature file without reading its rows.
type Info struct {
	Labeled  bool
	Rows     int64
	Metadata map[string]string
}

// Inspect reads the footer of the feature file at path.
func Inspect(path string) (Info, error) {
	var info Info
	err := withFileReader(path, func(fr *pqarrow.FileReader, schema *arrow.Schema) error {
		info = Info{
			Labeled:  schema.HasField(tables.LabelFieldName),
			Rows:     fr.ParquetReader().NumRows(),
			Metadata: userMetadata(schema.Metadata()),
		}
		return nil
	})
	return info, err
}

// userMetadata drops the keys Arrow itself stores in the footer.
func userMetadata(md arrow.Metadata) map[string]string {
	result := make(map[string]string)
	for i, k := range md.Keys() {
		if strings.HasPrefix(k, "ARROW:") {
			continue
		}
		result[k] = md.Values()[i]
	}
	return result
}

// ReadLabeled reads every labeled point of the Parquet file at path.
func ReadLabeled(ctx context.Context, path string) ([]features.LabeledPoint, error) {
	var points []features.LabeledPoint
	err := withFileReader(path, func(fr *pqarrow.FileReader, schema *arrow.Schema) error {
		labelIndex, err := fieldIndex(schema, tables.LabelFieldName)
		if err != nil {
			return err
		}
		featuresIndex, err := fieldIndex(schema, tables.FeaturesFieldName)
		if err != nil {
			return err
		}

		return readRecords(ctx, fr, func(record arrow.Record) error {
			labelColumn, ok := record.Column(labelIndex).(*array.Float64)
			if !ok {
				return fmt.Errorf("expected label column to be of type *array.Float64, got %T", record.Column(labelIndex))
			}
			featuresColumn, values, err := featureColumn(record.Column(featuresIndex))
			if err != nil {
				return err
			}

			for i := 0; i < int(record.NumRows()); i++ {
				points = append(points, features.LabeledPoint{
					Label:    labelColumn.Value(i),
					Features: listValues(featuresColumn, values, i),
				})
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

// ReadUnlabeled reads every vector of the Parquet file at path.
func ReadUnlabeled(ctx context.Context, path string) ([]features.Vector, error) {
	var vectors []features.Vector
	err := withFileReader(path, func(fr *pqarrow.FileReader, schema *arrow.Schema) error {
		featuresIndex, err := fieldIndex(schema, tables.FeaturesFieldName)
		if err != nil {
			return err
		}

		return readRecords(ctx, fr, func(record arrow.Record) error {
			featuresColumn, values, err := featureColumn(record.Column(featuresIndex))
			if err != nil {
				return err
			}

			for i := 0; i < int(record.NumRows()); i++ {
				vectors = append(vectors, features.Vector{
					Features: listValues(featuresColumn, values, i),
				})
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return vectors, nil
}

func withFileReader(path string, fn func(*pqarrow.FileReader, *arrow.Schema) error) error {
	allocator := memory.NewGoAllocator()
	inFileReader, err := file.OpenParquetFile(path, false)
	if err != nil {
		return fmt.Errorf("opening parquet file %q: %w", path, err)
	}
	defer func() {
		_ = inFileReader.Close()
	}()

	inReader, err := pqarrow.NewFileReader(inFileReader,
		pqarrow.ArrowReadProperties{Parallel: true, BatchSize: readBatchSize},
		allocator,
	)
	if err != nil {
		return fmt.Errorf("creating pqarrow FileReader: %w", err)
	}

	schema, err := inReader.Schema()
	if err != nil {
		return fmt.Errorf("getting schema: %w", err)
	}

	return fn(inReader, schema)
}

func fieldIndex(schema *arrow.Schema, name string) (int, error) {
	indices := schema.FieldIndices(name)
	if len(indices) != 1 {
		return 0, fmt.Errorf("expected exactly one %q column, found %d", name, len(indices))
	}
	return indices[0], nil
}

func readRecords(ctx context.Context, fr *pqarrow.FileReader, fn func(arrow.Record) error) error {
	recordReader, err := fr.GetRecordReader(ctx, nil, nil)
	if err != nil {
		return fmt.Errorf("getting record reader: %w", err)
	}
	defer recordReader.Release()

	var record arrow.Record
	for record, err = recordReader.Read(); err == nil; record, err = recordReader.Read() {
		errFn := fn(record)
		if errFn != nil {
			return errFn
		}
	}
	if !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading records: %w", err)
	}
	return nil
}

func featureColumn(column arrow.Array) (*array.List, *array.Float64, error) {
	list, ok := column.(*array.List)
	if !ok {
		return nil, nil, fmt.Errorf("expected features column to be of type *array.List, got %T", column)
	}
	values, ok := list.ListValues().(*array.Float64)
	if !ok {
		return nil, nil, fmt.Errorf("expected features values to be of type *array.Float64, got %T", list.ListValues())
	}
	return list, values, nil
}

func listValues(list *array.List, values *array.Float64, i int) []float64 {
	start, end := list.ValueOffsets(i)
	result := make([]float64, end-start)
	for j := start; j < end; j++ {
		result[j-start] = values.Value(int(j))
	}
	return result
}
