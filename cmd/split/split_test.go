package main

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willbeason/dou-features/pkg/dataset"
	"github.com/willbeason/dou-features/pkg/features"
	"github.com/willbeason/dou-features/pkg/tables"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func TestPartitionPaths(t *testing.T) {
	got := partitionPaths(filepath.Join("data", "labeled3.parquet"), "out", 2)
	assert.Equal(t, []string{
		filepath.Join("out", "labeled3_0.parquet"),
		filepath.Join("out", "labeled3_1.parquet"),
	}, got)
}

func TestSplit(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	in := filepath.Join(dir, "vector3"+tables.ParquetExt)

	vectors := make([]features.Vector, 200)
	for i := range vectors {
		vectors[i] = features.Vector{Features: []float64{float64(i), 1, 2}}
	}
	require.NoError(t, dataset.WriteUnlabeled(ctx, vectors, in, dataset.Options{}))

	t.Setenv("DOU_COMPRESSION", "snappy")
	outDir := filepath.Join(dir, "out")
	require.NoError(t, execute(t, in, outDir, "--partitions", "0.5,0.5", "--seed", "3", "--verbose"))

	total := 0
	for i, path := range partitionPaths(in, outDir, 2) {
		got, err := dataset.ReadUnlabeled(ctx, path)
		require.NoError(t, err, "partition %d", i)
		total += len(got)

		info, err := dataset.Inspect(path)
		require.NoError(t, err)
		assert.Equal(t, "3", info.Metadata[dataset.SplitSeedKey])
	}
	assert.Equal(t, len(vectors), total)

	t.Setenv("DOU_COMPRESSION", "lz77")
	// Slice flags append across runs, so the partitions above still apply.
	err := execute(t, in, filepath.Join(dir, "bad"), "--seed", "3")
	assert.ErrorIs(t, err, dataset.ErrWrite)
}
