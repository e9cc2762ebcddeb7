package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/willbeason/dou-features/pkg/config"
	"github.com/willbeason/dou-features/pkg/dataset"
	"github.com/willbeason/dou-features/pkg/tables"
)

const (
	FlagPartitions  = "partitions"
	FlagSeed        = "seed"
	FlagCompression = "compression"
	FlagConfig      = "config"
	FlagVerbose     = "verbose"
)

func init() {
	cmd.Flags().Float64Slice(FlagPartitions, []float64{0.8, 0.2}, "dataset partitions")
	cmd.Flags().Int64(FlagSeed, 0, "random seed (default: current time)")
	cmd.Flags().String(FlagCompression, dataset.DefaultCompression, "parquet codec: gzip, snappy, zstd or none")
	cmd.Flags().String(FlagConfig, "", "config file (default: ./doufeaturesrc or $HOME/.dou-features/doufeaturesrc)")
	cmd.Flags().BoolP(FlagVerbose, "v", false, "log debug output")
}

func main() {
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var cmd = cobra.Command{
	Use:     "split IN_FILE OUT_DIR",
	Short:   "randomly splits a feature file into partitions such as train and test sets",
	Args:    cobra.ExactArgs(2),
	Version: "0.1.0",
	RunE:    runE,
}

func runE(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	inPath := args[0]
	outDir := args[1]

	configFile, err := cmd.Flags().GetString(FlagConfig)
	if err != nil {
		return fmt.Errorf("getting config flag: %w", err)
	}
	v := viper.New()
	err = config.Load(v, configFile, cmd.Flags())
	if err != nil {
		return err
	}
	config.ConfigureLogging(v)

	err = os.MkdirAll(outDir, os.ModePerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	partitions, err := cmd.Flags().GetFloat64Slice(FlagPartitions)
	if err != nil {
		return fmt.Errorf("getting partitions: %w", err)
	}

	seed, err := getSeed(cmd)
	if err != nil {
		return fmt.Errorf("getting seed: %w", err)
	}

	outPaths := partitionPaths(inPath, outDir, len(partitions))
	log.WithFields(log.Fields{
		"input":      inPath,
		"partitions": partitions,
	}).Debug("splitting feature file")

	opts := dataset.Options{Compression: v.GetString(config.Compression)}
	counts, err := dataset.Split(ctx, inPath, outPaths, partitions, seed, opts)
	if err != nil {
		return fmt.Errorf("splitting %q: %w", inPath, err)
	}

	for i, count := range counts {
		log.WithFields(log.Fields{
			"partition": i,
			"fraction":  partitions[i],
			"rows":      count,
			"path":      outPaths[i],
		}).Info("wrote partition")
	}
	log.WithField("seed", seed).Info("split complete")

	return nil
}

// partitionPaths names partition i of in.parquet as OUT_DIR/in_i.parquet.
func partitionPaths(inPath, outDir string, n int) []string {
	base := filepath.Base(inPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	result := make([]string, n)
	for i := range result {
		result[i] = filepath.Join(outDir, fmt.Sprintf("%s_%d%s", base, i, tables.ParquetExt))
	}
	return result
}

func getSeed(cmd *cobra.Command) (int64, error) {
	// Check if the user set the seed manually.
	seedSet := false
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name == FlagSeed {
			seedSet = true
		}
	})

	if !seedSet {
		return time.Now().UnixNano(), nil
	}
	return cmd.Flags().GetInt64(FlagSeed)
}
