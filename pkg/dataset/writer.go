package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	log "github.com/sirupsen/logrus"

	"github.com/willbeason/dou-features/pkg/features"
	"github.com/willbeason/dou-features/pkg/tables"
)

// WriteLabeled writes points to a new Parquet file at path with the columns
// label and features.
func WriteLabeled(ctx context.Context, points []features.LabeledPoint, path string, opts Options) error {
	opts = opts.withDefaults()
	schema := tables.LabeledPoints(opts.schemaMetadata())

	return write(ctx, schema, points, path, opts, func(b *array.RecordBuilder, p features.LabeledPoint) {
		b.Field(0).(*array.Float64Builder).Append(p.Label)
		appendFeatures(b.Field(1).(*array.ListBuilder), p.Features)
	})
}

// WriteUnlabeled writes vectors to a new Parquet file at path with the single
// column features.
func WriteUnlabeled(ctx context.Context, vectors []features.Vector, path string, opts Options) error {
	opts = opts.withDefaults()
	schema := tables.Vectors(opts.schemaMetadata())

	return write(ctx, schema, vectors, path, opts, func(b *array.RecordBuilder, v features.Vector) {
		appendFeatures(b.Field(0).(*array.ListBuilder), v.Features)
	})
}

func appendFeatures(b *array.ListBuilder, values []float64) {
	b.Append(true)
	b.ValueBuilder().(*array.Float64Builder).AppendValues(values, nil)
}

func write[T any](
	ctx context.Context,
	schema *arrow.Schema,
	rows []T,
	path string,
	opts Options,
	appendRow func(*array.RecordBuilder, T),
) (err error) {
	props, err := opts.writerProperties()
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	// The destination must not exist yet; an existing dataset is never
	// overwritten.
	outFile, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	// Don't close outFile once the writer exists; parquet handles closing it.
	writer, err := pqarrow.NewFileWriter(
		schema,
		outFile,
		props,
		pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema()),
	)
	if err != nil {
		_ = outFile.Close()
		return &WriteError{Path: path, Err: fmt.Errorf("creating writer: %w", err)}
	}
	defer func() {
		errClose := writer.Close()
		if errClose != nil && err == nil {
			err = &WriteError{Path: path, Err: fmt.Errorf("closing writer: %w", errClose)}
		}
	}()

	allocator := memory.NewGoAllocator()
	recordBuilder := array.NewRecordBuilder(allocator, schema)
	defer recordBuilder.Release()

	for start := 0; start < len(rows); start += opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+opts.BatchSize, len(rows))
		for _, row := range rows[start:end] {
			appendRow(recordBuilder, row)
		}

		record := recordBuilder.NewRecord()
		errWrite := writer.Write(record)
		record.Release()
		if errWrite != nil {
			return &WriteError{Path: path, Err: fmt.Errorf("writing rows %d-%d: %w", start, end, errWrite)}
		}
	}

	log.WithFields(log.Fields{
		"path": path,
		"rows": len(rows),
	}).Debug("wrote feature dataset")

	return nil
}
