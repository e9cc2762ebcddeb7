package pipeline

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/willbeason/bondsmith"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/willbeason/dou-features/pkg/dataset"
	"github.com/willbeason/dou-features/pkg/features"
	"github.com/willbeason/dou-features/pkg/survey"
	"github.com/willbeason/dou-features/pkg/tables"
)

const (
	DefaultWorkers   = 4
	DefaultBatchSize = 1 << 14
)

var ErrConvert = errors.New("converting survey")

// Context carries everything a conversion depends on. The zero value of every
// field except InputPath is usable.
type Context struct {
	// InputPath is the survey CSV every conversion reads.
	InputPath string
	// Encoder defaults to features.DefaultEncoder.
	Encoder *features.Encoder
	Policy  features.Policy

	// Workers bounds the partitions transformed at once.
	Workers int
	// BatchSize is the number of rows per partition and per written record.
	BatchSize int
	// Compression is passed to the Parquet writer.
	Compression string
}

func (c *Context) withDefaults() Context {
	result := *c
	if result.Encoder == nil {
		result.Encoder = features.DefaultEncoder()
	}
	if result.Workers <= 0 {
		result.Workers = DefaultWorkers
	}
	if result.BatchSize <= 0 {
		result.BatchSize = DefaultBatchSize
	}
	return result
}

// ConvertTwoFeatureLabeled writes labeled points with experience and English
// level features to outPath.
func (c *Context) ConvertTwoFeatureLabeled(ctx context.Context, outPath string) error {
	return c.Convert(ctx, features.TwoFeatureLabeled, outPath)
}

// ConvertThreeFeatureLabeled writes labeled points with experience, English
// level and programming language features to outPath.
func (c *Context) ConvertThreeFeatureLabeled(ctx context.Context, outPath string) error {
	return c.Convert(ctx, features.ThreeFeatureLabeled, outPath)
}

// ConvertThreeFeatureVector writes unlabeled salary, experience and English
// level vectors to outPath.
func (c *Context) ConvertThreeFeatureVector(ctx context.Context, outPath string) error {
	return c.Convert(ctx, features.ThreeFeatureVector, outPath)
}

// Convert reads the survey, projects it to the columns of mode, transforms
// every row and writes the result to outPath. Schema and encoding errors are
// reported before outPath is created.
func (c *Context) Convert(ctx context.Context, mode features.Mode, outPath string) error {
	cfg := c.withDefaults()
	start := time.Now()

	logger := log.WithFields(log.Fields{
		"mode":   mode.String(),
		"input":  cfg.InputPath,
		"output": outPath,
	})

	transformer, err := features.NewTransformer(mode, cfg.Encoder, cfg.Policy)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConvert, err)
	}

	records, source, err := cfg.load(ctx, mode)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConvert, err)
	}
	logger.WithFields(log.Fields{
		"rows":  len(records),
		"bytes": humanize.Bytes(source.size),
	}).Debug("read survey")

	opts := dataset.Options{
		Compression: cfg.Compression,
		BatchSize:   cfg.BatchSize,
		Metadata: map[string]string{
			tables.ModeKey:         transformer.Mode().String(),
			tables.RunIdKey:        uuid.NewString(),
			tables.SourcePathKey:   cfg.InputPath,
			tables.SourceDigestKey: source.digest,
		},
	}

	if mode.Labeled() {
		points, err := transformAll(ctx, records, cfg.Workers, cfg.BatchSize, transformer.LabeledPoint)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConvert, err)
		}
		err = dataset.WriteLabeled(ctx, points, outPath, opts)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConvert, err)
		}
	} else {
		vectors, err := transformAll(ctx, records, cfg.Workers, cfg.BatchSize, transformer.Vector)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConvert, err)
		}
		err = dataset.WriteUnlabeled(ctx, vectors, outPath, opts)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrConvert, err)
		}
	}

	logger.WithFields(log.Fields{
		"rows":    len(records),
		"elapsed": time.Since(start).Round(time.Millisecond).String(),
	}).Info("converted survey")
	return nil
}

type sourceInfo struct {
	size   uint64
	digest string
}

// load reads every row of the input, projected to the columns of mode.
func (c *Context) load(ctx context.Context, mode features.Mode) ([]survey.RawRecord, sourceInfo, error) {
	if c.InputPath == "" {
		return nil, sourceInfo{}, fmt.Errorf("no input path configured")
	}

	inFile, err := os.Open(c.InputPath)
	if err != nil {
		return nil, sourceInfo{}, fmt.Errorf("opening %q: %w", c.InputPath, err)
	}
	defer func() {
		err := inFile.Close()
		if err != nil {
			log.WithError(err).Warn("closing survey input")
		}
	}()

	hash, err := blake2b.New256(nil)
	if err != nil {
		return nil, sourceInfo{}, err
	}
	countReader := bondsmith.NewCountReader(inFile)
	reader, err := survey.NewReader(io.TeeReader(countReader, hash), mode.Columns()...)
	if err != nil {
		return nil, sourceInfo{}, fmt.Errorf("reading %q: %w", c.InputPath, err)
	}

	records, err := reader.ReadAll(ctx)
	if err != nil {
		return nil, sourceInfo{}, fmt.Errorf("reading %q: %w", c.InputPath, err)
	}

	return records, sourceInfo{
		size:   uint64(countReader.Count()),
		digest: hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

// transformAll applies fn to every record. Records are split into partitions
// of batchSize rows, transformed concurrently and reassembled in input order.
// The first failing partition cancels the rest.
func transformAll[T any](
	ctx context.Context,
	records []survey.RawRecord,
	workers, batchSize int,
	fn func(survey.RawRecord) (T, error),
) ([]T, error) {
	out := make([]T, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(records); start += batchSize {
		start, end := start, min(start+batchSize, len(records))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				v, err := fn(records[i])
				if err != nil {
					// Row numbers count from the first line after the header.
					return fmt.Errorf("row %d: %w", i+1, err)
				}
				out[i] = v
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
