package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/willbeason/dou-features/pkg/config"
	"github.com/willbeason/dou-features/pkg/dataset"
	"github.com/willbeason/dou-features/pkg/features"
	"github.com/willbeason/dou-features/pkg/pipeline"
)

const (
	FlagInput       = "input"
	FlagWorkers     = "workers"
	FlagBatchSize   = "batch-size"
	FlagStrict      = "strict"
	FlagCompression = "compression"
	FlagConfig      = "config"
	FlagVerbose     = "verbose"
)

func init() {
	cmd.Flags().String(FlagInput, "", "path to the survey CSV")
	cmd.Flags().Int(FlagWorkers, pipeline.DefaultWorkers, "partitions transformed at once")
	cmd.Flags().Int(FlagBatchSize, pipeline.DefaultBatchSize, "rows per partition and per written record")
	cmd.Flags().Bool(FlagStrict, false, "fail on categorical values with no code")
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

func modeNames() string {
	names := make([]string, len(features.Modes))
	for i, mode := range features.Modes {
		names[i] = mode.String()
	}
	return strings.Join(names, "|")
}

var cmd = cobra.Command{
	Use:     fmt.Sprintf("convert [%s] OUT_FILE", modeNames()),
	Short:   "converts the DOU salary survey into Apache Parquet feature files",
	Args:    cobra.ExactArgs(2),
	Version: "0.1.0",
	RunE:    runE,
}

var ErrConvertCmd = errors.New("running convert")

func runE(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	mode, err := features.ParseMode(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConvertCmd, err)
	}
	outPath := args[1]

	configFile, err := cmd.Flags().GetString(FlagConfig)
	if err != nil {
		return fmt.Errorf("%w: getting config flag: %w", ErrConvertCmd, err)
	}

	v := viper.New()
	err = config.Load(v, configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConvertCmd, err)
	}
	config.ConfigureLogging(v)

	pc, err := config.Pipeline(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConvertCmd, err)
	}
	if pc.InputPath == "" {
		return fmt.Errorf("%w: no input: set --%s or DOU_INPUT", ErrConvertCmd, FlagInput)
	}

	log.WithFields(log.Fields{
		"mode":    mode.String(),
		"policy":  pc.Policy.String(),
		"workers": pc.Workers,
	}).Debug("starting conversion")

	return pc.Convert(ctx, mode, outPath)
}
