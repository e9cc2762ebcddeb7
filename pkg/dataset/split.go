package dataset

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
)

const (
	SplitSeedKey     = "dou.split_seed"
	SplitFractionKey = "dou.split_fraction"
)

// Thresholds turns partition fractions into cumulative upper bounds. The
// fractions must be positive and sum to at most 1; rows drawn above the last
// threshold belong to no partition.
func Thresholds(fractions []float64) ([]float64, error) {
	if len(fractions) == 0 {
		return nil, fmt.Errorf("no partitions requested")
	}

	thresholds := make([]float64, len(fractions))
	sum := 0.0
	for i, fraction := range fractions {
		if fraction <= 0 {
			return nil, fmt.Errorf("partition %d has non-positive fraction %v", i, fraction)
		}
		sum += fraction
		thresholds[i] = sum
	}
	if sum > 1+1e-9 {
		return nil, fmt.Errorf("partition fractions sum to %v, more than 1", sum)
	}
	return thresholds, nil
}

// assign draws one value per row and returns the partition of each row, or -1
// for rows outside every partition.
func assign(rng *rand.Rand, rows int, thresholds []float64) []int {
	result := make([]int, rows)
	for i := range result {
		result[i] = -1
		randValue := rng.Float64()
		for j, threshold := range thresholds {
			if randValue < threshold {
				result[i] = j
				break
			}
		}
	}
	return result
}

// Split randomly partitions the feature file at inPath into one new file per
// entry of outPaths. The same seed always yields the same partitions. Returns
// the number of rows written to each output.
func Split(ctx context.Context, inPath string, outPaths []string, fractions []float64, seed int64, opts Options) ([]int, error) {
	if len(outPaths) != len(fractions) {
		return nil, fmt.Errorf("got %d output paths for %d partitions", len(outPaths), len(fractions))
	}
	thresholds, err := Thresholds(fractions)
	if err != nil {
		return nil, err
	}

	info, err := Inspect(inPath)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	optsFor := func(i int) Options {
		return splitOptions(opts, info, seed, fractions[i])
	}

	if info.Labeled {
		points, err := ReadLabeled(ctx, inPath)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", inPath, err)
		}
		return splitRows(ctx, rng, points, thresholds, outPaths, optsFor, WriteLabeled)
	}

	vectors, err := ReadUnlabeled(ctx, inPath)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", inPath, err)
	}
	return splitRows(ctx, rng, vectors, thresholds, outPaths, optsFor, WriteUnlabeled)
}

func splitRows[T any](
	ctx context.Context,
	rng *rand.Rand,
	rows []T,
	thresholds []float64,
	outPaths []string,
	optsFor func(int) Options,
	write func(context.Context, []T, string, Options) error,
) ([]int, error) {
	partitions := make([][]int, len(outPaths))
	for row, partition := range assign(rng, len(rows), thresholds) {
		if partition >= 0 {
			partitions[partition] = append(partitions[partition], row)
		}
	}

	counts := make([]int, len(outPaths))
	for i, indices := range partitions {
		out := pick(rows, indices)
		err := write(ctx, out, outPaths[i], optsFor(i))
		if err != nil {
			return nil, fmt.Errorf("writing partition %d: %w", i, err)
		}
		counts[i] = len(out)
	}
	return counts, nil
}

func pick[T any](rows []T, indices []int) []T {
	result := make([]T, len(indices))
	for i, index := range indices {
		result[i] = rows[index]
	}
	return result
}

// splitOptions carries the source file's metadata over to a partition.
func splitOptions(opts Options, info Info, seed int64, fraction float64) Options {
	metadata := make(map[string]string, len(info.Metadata)+len(opts.Metadata)+2)
	for k, v := range info.Metadata {
		metadata[k] = v
	}
	for k, v := range opts.Metadata {
		metadata[k] = v
	}
	metadata[SplitSeedKey] = strconv.FormatInt(seed, 10)
	metadata[SplitFractionKey] = strconv.FormatFloat(fraction, 'g', -1, 64)
	opts.Metadata = metadata
	return opts
}
