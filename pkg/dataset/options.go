package dataset

import (
	"compress/gzip"
	"fmt"
	"sort"
	"strings"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/willbeason/dou-features/pkg/tables"
)

const (
	DefaultBatchSize   = 1 << 16
	DefaultCompression = "gzip"

	// readBatchSize matches the batch size used when scanning Parquet files.
	readBatchSize = 1 << 20
)

// Options controls how feature files are written.
type Options struct {
	// Compression is one of gzip, snappy, zstd or none.
	Compression string
	// BatchSize is the number of rows per Arrow record handed to the writer.
	BatchSize int
	// Metadata is stored as Parquet key/value metadata.
	Metadata map[string]string
}

func (o Options) withDefaults() Options {
	if o.Compression == "" {
		o.Compression = DefaultCompression
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	return o
}

func (o Options) writerProperties() (*parquet.WriterProperties, error) {
	switch strings.ToLower(o.Compression) {
	case "gzip":
		return parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Gzip),
			parquet.WithCompressionLevel(gzip.BestCompression)), nil
	case "snappy":
		return parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy)), nil
	case "zstd":
		return parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Zstd)), nil
	case "none", "uncompressed":
		return parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Uncompressed)), nil
	default:
		return nil, fmt.Errorf("unsupported compression %q, must be one of [gzip|snappy|zstd|none]", o.Compression)
	}
}

func (o Options) schemaMetadata() *arrow.Metadata {
	keys := make([]string, 0, len(o.Metadata))
	for k := range o.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := tables.NewMetadataBuilder()
	for _, k := range keys {
		b.Add(k, o.Metadata[k])
	}
	return b.BuildReference()
}
