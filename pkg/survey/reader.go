package survey

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/willbeason/dou-features/pkg/tables"
)

const byteOrderMark = "\ufeff"

type column struct {
	name  string
	index int
}

// Reader reads survey rows from a header-bearing CSV, keeping only the
// projected columns.
type Reader struct {
	csv     *csv.Reader
	columns []column
}

// NewReader reads the CSV header from r and projects it to columns. With no
// columns every survey column present in the header is kept.
//
// Returns a *SchemaError if a requested column is not part of the survey
// schema, is missing from the header, or appears in it more than once.
func NewReader(r io.Reader, columns ...string) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Reason: "input has no header row"}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = normalizeHeader(header)

	positions := make(map[string][]int, len(header))
	for i, name := range header {
		positions[name] = append(positions[name], i)
	}

	if len(columns) == 0 {
		for _, field := range tables.Survey.Fields() {
			if _, found := positions[field.Name]; found {
				columns = append(columns, field.Name)
			}
		}
	}

	result := &Reader{csv: cr}
	for _, name := range columns {
		if !tables.Survey.HasField(name) {
			return nil, &SchemaError{Column: name, Reason: "is not a survey column"}
		}
		found := positions[name]
		switch len(found) {
		case 0:
			return nil, &SchemaError{Column: name, Reason: "is missing from the input header"}
		case 1:
			result.columns = append(result.columns, column{name: name, index: found[0]})
		default:
			return nil, &SchemaError{Column: name, Reason: fmt.Sprintf("appears %d times in the input header", len(found))}
		}
	}

	return result, nil
}

func normalizeHeader(header []string) []string {
	result := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, byteOrderMark)
		}
		result[i] = strings.ToLower(strings.TrimSpace(name))
	}
	return result
}

// Columns returns the projected column names in projection order.
func (r *Reader) Columns() []string {
	names := make([]string, len(r.columns))
	for i, c := range r.columns {
		names[i] = c.name
	}
	return names
}

// Read iterates over the remaining rows. Iteration stops after the first
// error. Short rows leave their trailing columns null.
func (r *Reader) Read() iter.Seq2[RawRecord, error] {
	return func(yield func(RawRecord, error) bool) {
		for {
			row, err := r.csv.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(RawRecord{}, fmt.Errorf("read row: %w", err))
				return
			}

			var record RawRecord
			for _, c := range r.columns {
				if c.index >= len(row) {
					continue
				}
				record.set(c.name, row[c.index])
			}

			if !yield(record, nil) {
				return
			}
		}
	}
}

// ReadAll collects every remaining row, checking ctx between rows.
func (r *Reader) ReadAll(ctx context.Context) ([]RawRecord, error) {
	var records []RawRecord
	for record, err := range r.Read() {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
